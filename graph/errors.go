package graph

import (
	"errors"
	"fmt"
)

// ImplicitTransaction is the id of transactions opened automatically by
// mutating calls.
const ImplicitTransaction = "implicit"

// LoadTransaction is the id of the explicit transaction wrapping FromJSON.
const LoadTransaction = "load_json"

var (
	// ErrNestedTransaction is the panic value when a transaction is started
	// while another one is open.
	ErrNestedTransaction = errors.New("nested transactions not supported")

	// ErrNoTransaction is the panic value when ending a transaction that is
	// not open.
	ErrNoTransaction = errors.New("attempted to end non-existing transaction")

	// ErrEmptyTransactionID is the panic value when starting a transaction
	// without an id.
	ErrEmptyTransactionID = errors.New("transaction id must not be empty")

	// ErrInvalidDocument is wrapped by every error caused by a malformed
	// graph document.
	ErrInvalidDocument = errors.New("invalid graph document")
)

// DocumentError reports a failure to read, write or decode a graph document
type DocumentError struct {
	// Op is the failed operation: "read", "write", "decode" or "encode"
	Op string
	// Path is the file involved, empty for in-memory documents
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("graph document %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("graph document %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
