// Package log provides the leveled logging facade used by fbpgraph.
//
// Graphs, stores and the journal recorder log through the Logger interface.
// The default implementation is backed by github.com/kataras/golog; a
// NoOpLogger is available for silencing output in tests or embedded use.
//
// # Log Levels
//
//   - LogLevelDebug: transaction boundaries, ignored no-op mutations
//   - LogLevelInfo: load/save of graph documents
//   - LogLevelWarn: recoverable problems (failed snapshot saves)
//   - LogLevelError: usage errors right before the graph panics
//   - LogLevelNone: disables all logging output
//
// # Example Usage
//
//	logger := log.NewDefaultLogger(log.LogLevelDebug)
//	g := graph.New("Main", graph.WithLogger(logger))
//
// Or globally:
//
//	log.SetLogLevel(log.LogLevelDebug)
//
// A custom golog instance can be wrapped directly:
//
//	glogger := golog.New()
//	glogger.SetPrefix("[editor] ")
//	log.SetDefaultLogger(log.NewGologLogger(glogger))
package log
