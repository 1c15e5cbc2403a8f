package journal

import (
	"slices"
	"sync"

	"github.com/smallnest/fbpgraph/graph"
	"github.com/smallnest/fbpgraph/log"
)

// Entry is one recorded event
type Entry struct {
	Name graph.EventName
	Data any
}

// Transaction is a closed unit of edits
type Transaction struct {
	// Revision starts at 1 and grows by one per transaction
	Revision int
	ID       string
	Metadata graph.Metadata
	Entries  []Entry
}

func (tx Transaction) clone() Transaction {
	tx.Metadata = tx.Metadata.Clone()
	tx.Entries = slices.Clone(tx.Entries)
	return tx
}

// Recorder groups the events of a graph into revisions
type Recorder struct {
	mu           sync.RWMutex
	transactions []Transaction
	current      *Transaction
	logger       log.Logger
}

// Option configures a Recorder
type Option func(*Recorder)

// WithLogger sets the recorder's logger
func WithLogger(logger log.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRecorder subscribes a recorder to every event of g
func NewRecorder(g *graph.Graph, opts ...Option) *Recorder {
	r := &Recorder{logger: log.GetDefaultLogger()}
	for _, opt := range opts {
		opt(r)
	}
	for _, name := range graph.AllEvents {
		g.Connect(name, r, false)
	}
	return r
}

// OnGraphEvent implements graph.Listener
func (r *Recorder) OnGraphEvent(event graph.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch event.Name {
	case graph.EventStartTransaction:
		tx := event.Data.(graph.TransactionEvent)
		r.current = &Transaction{ID: tx.ID, Metadata: tx.Metadata}

	case graph.EventEndTransaction:
		if r.current == nil {
			return
		}
		r.current.Revision = len(r.transactions) + 1
		r.transactions = append(r.transactions, *r.current)
		r.logger.Debug("journal: revision %d (%s, %d entries)", r.current.Revision, r.current.ID, len(r.current.Entries))
		r.current = nil

	default:
		if r.current == nil {
			// subscribed while a transaction was already open
			open := event.Graph.Transaction()
			if !open.Active() {
				return
			}
			r.current = &Transaction{ID: open.ID, Metadata: graph.Metadata{}}
		}
		r.current.Entries = append(r.current.Entries, Entry{Name: event.Name, Data: event.Data})
	}
}

// Revisions returns every closed transaction in revision order
func (r *Recorder) Revisions() []Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Transaction, 0, len(r.transactions))
	for _, tx := range r.transactions {
		out = append(out, tx.clone())
	}
	return out
}

// Transaction returns the transaction recorded as revision rev
func (r *Recorder) Transaction(rev int) (Transaction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rev < 1 || rev > len(r.transactions) {
		return Transaction{}, false
	}
	return r.transactions[rev-1].clone(), true
}

// LastRevision returns the newest revision number, 0 when nothing was
// recorded yet
func (r *Recorder) LastRevision() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.transactions)
}

// Pending returns the entries of the transaction that is still open
func (r *Recorder) Pending() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return nil
	}
	return slices.Clone(r.current.Entries)
}
