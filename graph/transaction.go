package graph

// Transaction returns the state of the open transaction, if any
func (g *Graph) Transaction() Transaction {
	return g.transaction
}

// StartTransaction opens an explicit transaction. Mutations made until
// EndTransaction form one unit for journals. Starting a transaction while
// one is open is a programming error and panics with ErrNestedTransaction.
func (g *Graph) StartTransaction(id string, metadata Metadata) *Graph {
	if id == "" {
		g.logger.Error("graph %q: %v", g.Name, ErrEmptyTransactionID)
		panic(ErrEmptyTransactionID)
	}
	return g.open(id, metadata, false)
}

func (g *Graph) open(id string, metadata Metadata, implicit bool) *Graph {
	if g.transaction.Active() {
		g.logger.Error("graph %q: %v (open: %q, requested: %q)", g.Name, ErrNestedTransaction, g.transaction.ID, id)
		panic(ErrNestedTransaction)
	}

	g.transaction = Transaction{ID: id, Depth: 1}
	g.implicit = implicit
	g.logger.Debug("graph %q: start transaction %q", g.Name, id)

	g.emit(EventStartTransaction, TransactionEvent{ID: id, Metadata: metadata.Clone()})
	return g
}

// EndTransaction closes the open transaction. Ending when no transaction
// is open panics with ErrNoTransaction.
func (g *Graph) EndTransaction(id string, metadata Metadata) *Graph {
	if !g.transaction.Active() {
		g.logger.Error("graph %q: %v (%q)", g.Name, ErrNoTransaction, id)
		panic(ErrNoTransaction)
	}

	g.transaction = Transaction{}
	g.implicit = false
	g.logger.Debug("graph %q: end transaction %q", g.Name, id)

	g.emit(EventEndTransaction, TransactionEvent{ID: id, Metadata: metadata.Clone()})
	return g
}

// begin brackets a mutation: it opens an implicit transaction when none is
// open, nests into an open implicit one, and leaves explicit ones alone.
func (g *Graph) begin() {
	switch {
	case !g.transaction.Active():
		g.open(ImplicitTransaction, nil, true)
	case g.implicit:
		g.transaction.Depth++
	}
}

// commit undoes one begin and closes the implicit transaction once its
// depth returns to zero.
func (g *Graph) commit() {
	if !g.transaction.Active() || !g.implicit {
		return
	}
	g.transaction.Depth--
	if g.transaction.Depth == 0 {
		g.EndTransaction(ImplicitTransaction, nil)
	}
}
