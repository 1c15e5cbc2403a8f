// Package graph is the editable document model of a flow-based-programming
// graph.
//
// A Graph holds nodes (process instances), edges between node ports,
// initial information packets (IIPs), groups and exported ports. It only
// describes and edits a network; running it is left to an execution
// engine.
//
// # Transactions and events
//
// Every mutation is bracketed by a transaction and announced on the graph's
// event bus, so journals can record, replay, undo and redo edits and live
// views can react incrementally.
//
// A mutating call made while no transaction is open starts an implicit one
// ("implicit") that ends when the outermost call returns. Compound
// operations such as RemoveNode nest into it, so a whole cascade produces a
// single start_transaction/end_transaction pair:
//
//	g := graph.New("Main")
//	g.On(graph.EventEndTransaction, func(e graph.Event) {
//		fmt.Println("committed", e.Data.(graph.TransactionEvent).ID)
//	})
//	g.AddNode("Read", "ReadFile", nil)
//	g.AddNode("Display", "Display", nil)
//	g.AddEdge("Read", "out", "Display", "in", nil)
//	g.RemoveNode("Read") // removes the edge too, one transaction
//
// Callers group several edits into one undoable unit with an explicit
// transaction. Explicit transactions do not nest:
//
//	g.StartTransaction("layout", nil)
//	g.SetNodeMetadata("Read", graph.Metadata{"x": 10})
//	g.SetNodeMetadata("Display", graph.Metadata{"x": 200})
//	g.EndTransaction("layout", nil)
//
// Invalid edits (unknown nodes, duplicate edges, renames onto taken ids)
// are silent no-ops that emit nothing. Misusing transactions panics.
//
// # Listeners
//
// Listeners are invoked synchronously in registration order. The set of
// listeners notified by an emission is fixed when the emission starts, so
// callbacks may connect, disconnect and mutate the graph freely. Listeners
// registered with once=true fire exactly once.
//
// Stream forwards events to a buffered channel for consumers running on
// other goroutines. It never blocks the mutating call; events that do not
// fit the buffer are dropped and counted.
//
// # Documents
//
// ToJSON and FromJSON convert between a Graph and the canonical Document.
// Save and LoadFile persist documents as JSON, YAML or MessagePack chosen by
// file extension.
//
// # Port names
//
// Port names are folded to lower case unless the graph is created with
// WithCaseSensitive(true). Node ids are never folded.
package graph
