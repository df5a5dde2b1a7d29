// This file contains the Collection and Iter interfaces a document store
// must implement to back a Cursor.

package mogo

import "github.com/globalsign/mgo/bson"

// Iter is a lazy sequence of documents produced by a Collection query.
type Iter interface {
	// Next decodes the next document into result and reports whether one
	// was available. It returns false both at the end of the sequence and
	// on error; use Err to tell the two apart.
	Next(result interface{}) bool

	// Err returns the error that stopped iteration, if any.
	Err() error

	// Close releases any resources held by the iterator. It returns the
	// iteration error, if any.
	Close() error
}

// Collection is the document store a Cursor delegates all physical query
// execution to. Implementations must support concurrent use: multiple
// independent cursors may be open against one collection, each with
// private iteration state.
//
// Store failures (timeouts, connection loss) are returned unchanged to the
// caller; the cursor neither retries nor masks them.
type Collection interface {
	// Find executes a filtered query and returns a lazy iterator over the
	// matching documents. A nil filter matches everything. sort may be
	// nil; limit and skip are disabled when zero.
	Find(filter interface{}, sort bson.D, limit, skip int) (Iter, error)

	// Count returns the number of documents matching filter, after
	// applying skip and limit (disabled when zero).
	Count(filter interface{}, limit, skip int) (int, error)

	// Distinct unmarshals the distinct values of key across documents
	// matching filter into result, which must be a pointer to a slice.
	Distinct(filter interface{}, key string, result interface{}) error
}
