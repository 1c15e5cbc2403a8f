// Package sqlite provides a SQLite-backed graph document store.
//
// The store keeps every revision in one table of a database file and
// creates the schema when it is opened:
//
//	s, err := sqlite.NewSqliteDocumentStore(sqlite.SqliteOptions{
//		Path: "./graphs.db",
//	})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
// Documents and metadata are stored as JSON text. Saving a record with an
// existing id replaces it.
//
// The package registers the cgo github.com/mattn/go-sqlite3 driver.
package sqlite
