// Package redis provides a Redis-backed graph document store.
//
// Records are encoded with the configured format (JSON by default) and kept
// under <prefix>record:<id>. A set under <prefix>graph:<name>:records
// indexes the record ids of each graph, so List costs one SMEMBERS and one
// MGET.
//
//	s := redis.NewRedisDocumentStore(redis.RedisOptions{
//		Addr:   "localhost:6379",
//		Prefix: "fbpgraph:",
//		TTL:    24 * time.Hour,
//	})
//	defer s.Close()
//
//	store.NewSnapshotter(ctx, s).Attach(g)
//
// With a TTL, records and index sets expire together. Expired ids still
// present in an index are skipped by List.
package redis
