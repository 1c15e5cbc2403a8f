// fbpgraph - Editable Flow-Based Programming Graphs in Go
//
// fbpgraph is the document model behind visual FBP editors: an in-memory
// graph of process instances, the connections between their ports, initial
// information packets (IIPs), groups and exported ports. Every edit runs in
// a transaction and is announced as an event, so journals, live views and
// persistence layers can follow a graph as it changes. Running a network is
// left to an execution engine.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/smallnest/fbpgraph
//
// Basic example:
//
//	package main
//
//	import (
//		"fmt"
//
//		"github.com/smallnest/fbpgraph/graph"
//	)
//
//	func main() {
//		g := graph.New("Hello")
//		g.On(graph.EventAddEdge, func(e graph.Event) {
//			fmt.Println("connected", e.Data.(graph.Edge).To.NodeID)
//		})
//
//		g.AddNode("Read", "filesystem/ReadFile", nil)
//		g.AddNode("Display", "core/Output", nil)
//		g.AddEdge("Read", "out", "Display", "in", nil)
//		g.AddInitial("hello.txt", "Read", "in", nil)
//
//		if err := g.Save("hello.json"); err != nil {
//			panic(err)
//		}
//	}
//
// # Key Features
//
//   - Transactions: implicit per call, or explicit for multi-step edits
//   - Events: synchronous, ordered listeners with one-shot subscriptions
//   - Cascades: removing or renaming a node updates every edge, IIP, group and exported port
//   - Documents: JSON, YAML and MessagePack import and export
//   - Journal: revisions grouped from the event stream
//   - Stores: memory, file, SQLite, PostgreSQL and Redis revision storage
//   - Visualization: Mermaid and Graphviz DOT rendering
//
// # Package Structure
//
// graph/
// The document model, event bus, transactions and codecs
//
//	g.StartTransaction("layout", nil)
//	g.SetNodeMetadata("Read", graph.Metadata{"x": 10})
//	g.SetNodeMetadata("Display", graph.Metadata{"x": 200})
//	g.EndTransaction("layout", nil)
//
// journal/
// Groups events into numbered revisions
//
//	rec := journal.NewRecorder(g)
//	for _, tx := range rec.Revisions() {
//		fmt.Println(tx.Revision, tx.ID, len(tx.Entries))
//	}
//
// store/
// Persists graph revisions. A Snapshotter saves one revision per
// transaction into any backend:
//
//	s, _ := sqlite.NewSqliteDocumentStore(sqlite.SqliteOptions{Path: "graphs.db"})
//	store.NewSnapshotter(ctx, s).Attach(g)
//
// log/
// Leveled logging backed by kataras/golog
//
// # Examples
//
// See ./examples for runnable programs covering graph editing, the journal,
// snapshots with file and SQLite stores, PostgreSQL with a Redis cache, and
// logger configuration.
package fbpgraph // import "github.com/smallnest/fbpgraph"
