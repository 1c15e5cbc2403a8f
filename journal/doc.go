// Package journal records the edits of a graph as numbered revisions.
//
// A Recorder listens to every event of a graph.Graph. The events emitted
// between start_transaction and end_transaction form one Transaction, and
// each closed transaction gets the next revision number, starting at 1.
//
//	g := graph.New("Main")
//	rec := journal.NewRecorder(g)
//
//	g.AddNode("Read", "ReadFile", nil)
//	g.StartTransaction("wire", nil)
//	g.AddNode("Display", "Display", nil)
//	g.AddEdge("Read", "out", "Display", "in", nil)
//	g.EndTransaction("wire", nil)
//
//	tx, _ := rec.Transaction(rec.LastRevision())
//	fmt.Println(tx.ID, len(tx.Entries)) // wire 2
//
// The recorded payloads carry the before-state of every change, which is
// what an undo implementation needs; replaying them is left to the caller.
package journal
