// This file contains the Cursor type and its implementation.

package mogo

import (
	"fmt"
	"reflect"

	"github.com/globalsign/mgo/bson"
)

// Cursor states. The underlying store iterator is stateful and
// non-restartable, so the cursor tracks an explicit state and guards the
// mutating calls (Sort, Limit, Skip) against reconfiguration mid-flight.
const (
	stateUnstarted = iota
	stateIterating
	stateExhausted
)

// Cursor is a lazy, stateful iterator over the documents matching a filter.
//
// The underlying query is not issued until the first call to Next, so Sort,
// Limit and Skip may be called freely until then. A Cursor is owned by a
// single caller; concurrent use of one instance must be serialized
// externally. Opening many cursors against the same Collection is fine.
type Cursor struct {
	// coll is the document store to run queries against. Shared, never
	// mutated by the cursor.
	coll Collection

	// filter document (query), immutable after construction
	filter interface{}

	// sort document
	sort bson.D

	// limit is the max number of results (0 = no limit)
	limit int

	// skip is the number of leading results to drop (0 = none)
	skip int

	// state is one of stateUnstarted, stateIterating, stateExhausted
	state int

	// pos is the number of documents returned by Next so far
	pos int

	// iter is the live store iterator, non-nil while iterating
	iter Iter
}

// New returns a new Cursor over the documents of coll matching filter.
// A nil filter matches every document.
func New(coll Collection, filter interface{}) *Cursor {
	return &Cursor{
		coll:   coll,
		filter: filter,
	}
}

// Sort establishes the result order from the given field names. A field name
// may be prefixed by - (descending) or + (ascending, the default); the first
// field is the primary sort key.
//
// Sort fails with ErrIterationStarted once the first document has been
// fetched, and with an argument error for an empty field list or a field
// that is empty after its sign.
func (c *Cursor) Sort(fields ...string) error {
	if c.state != stateUnstarted {
		return ErrIterationStarted
	}
	if len(fields) == 0 {
		return fmt.Errorf("mogo: Sort requires at least one field")
	}
	sort := make(bson.D, 0, len(fields))
	for _, field := range fields {
		name, n := field, 1
		if name != "" {
			if name[0] == '+' {
				name = name[1:]
			} else if name[0] == '-' {
				n, name = -1, name[1:]
			}
		}
		if name == "" {
			return fmt.Errorf("mogo: invalid sort field %q", field)
		}
		sort = append(sort, bson.DocElem{Name: name, Value: n})
	}
	c.sort = sort
	return nil
}

// Limit caps the number of documents the cursor will produce to n.
// Zero clears a previously set limit, negative values are rejected.
// Fails with ErrIterationStarted once the first document has been fetched.
func (c *Cursor) Limit(n int) error {
	if c.state != stateUnstarted {
		return ErrIterationStarted
	}
	if n < 0 {
		return fmt.Errorf("mogo: negative limit %d", n)
	}
	c.limit = n
	return nil
}

// Skip drops the first n documents of the result set. Zero clears a
// previously set skip, negative values are rejected. Fails with
// ErrIterationStarted once the first document has been fetched.
func (c *Cursor) Skip(n int) error {
	if c.state != stateUnstarted {
		return ErrIterationStarted
	}
	if n < 0 {
		return fmt.Errorf("mogo: negative skip %d", n)
	}
	c.skip = n
	return nil
}

// Next decodes the next document in filter/sort order into result and
// advances the cursor position by one. The underlying query is issued on the
// first call; already-returned documents are never re-fetched.
//
// Next returns ErrDone when the result set is exhausted. That is the
// expected end-of-sequence condition, not a failure.
func (c *Cursor) Next(result interface{}) error {
	switch c.state {
	case stateExhausted:
		return ErrDone
	case stateUnstarted:
		iter, err := c.coll.Find(c.filter, c.sort, c.limit, c.skip)
		if err != nil {
			return err
		}
		c.iter = iter
		c.state = stateIterating
	}
	if c.iter.Next(result) {
		c.pos++
		return nil
	}
	c.state = stateExhausted
	iter := c.iter
	c.iter = nil
	if err := iter.Close(); err != nil {
		return err
	}
	return ErrDone
}

// Get decodes the document at absolute position index within the result set
// into result, counted from zero after any configured skip. Random access is
// independent of sequential consumption: it re-issues a bounded query
// (filter + skip + limit 1) rather than materializing results, and never
// disturbs the cursor's own position, so Get(0) returns the true first
// result no matter how many Next calls came before.
//
// Get returns ErrOutOfRange when index is negative, when it reaches a
// configured limit, or past the end of the matching set. Under concurrent external
// writes Get and Next are best-effort consistent, not snapshot views.
func (c *Cursor) Get(index int, result interface{}) error {
	if index < 0 {
		return ErrOutOfRange
	}
	if c.limit > 0 && index >= c.limit {
		return ErrOutOfRange
	}
	iter, err := c.coll.Find(c.filter, c.sort, 1, c.skip+index)
	if err != nil {
		return err
	}
	if iter.Next(result) {
		return iter.Close()
	}
	if err := iter.Close(); err != nil {
		return err
	}
	return ErrOutOfRange
}

// First decodes the first document of the result set into result, or
// returns ErrNotFound if the result set is empty. Like Get, it does not
// disturb the cursor's sequential position.
func (c *Cursor) First(result interface{}) error {
	err := c.Get(0, result)
	if err == ErrOutOfRange {
		return ErrNotFound
	}
	return err
}

// Count returns the number of documents matching the cursor's filter. When
// applyLimitAndSkip is true the configured limit and skip are applied first,
// so the result may be smaller. Count queries the store directly and does
// not advance the cursor position.
func (c *Cursor) Count(applyLimitAndSkip bool) (int, error) {
	if applyLimitAndSkip {
		return c.coll.Count(c.filter, c.limit, c.skip)
	}
	return c.coll.Count(c.filter, 0, 0)
}

// Distinct unmarshals into result the distinct values of key across all
// documents matching the cursor's filter, each value exactly once. Limit,
// sort and the cursor position are ignored. Value order is unspecified but
// stable within a single call.
func (c *Cursor) Distinct(key string, result interface{}) error {
	return c.coll.Distinct(c.filter, key, result)
}

// All drains the remaining documents into result, which must be the address
// of a slice, and leaves the cursor exhausted.
func (c *Cursor) All(result interface{}) error {
	resultv := reflect.ValueOf(result)
	if resultv.Kind() != reflect.Ptr || resultv.Elem().Kind() != reflect.Slice {
		panic("result argument must be a slice address")
	}
	slicev := resultv.Elem()
	slicev = slicev.Slice(0, slicev.Cap())
	elemt := slicev.Type().Elem()
	i := 0
	for {
		var err error
		if slicev.Len() == i {
			elemp := reflect.New(elemt)
			if err = c.Next(elemp.Interface()); err == nil {
				slicev = reflect.Append(slicev, elemp.Elem())
				slicev = slicev.Slice(0, slicev.Cap())
			}
		} else {
			err = c.Next(slicev.Index(i).Addr().Interface())
		}
		if err == ErrDone {
			break
		}
		if err != nil {
			return err
		}
		i++
	}
	resultv.Elem().Set(slicev.Slice(0, i))
	return nil
}

// Close disposes of the cursor, releasing the underlying iterator if one is
// open. The cursor is exhausted afterwards; further Next calls return
// ErrDone.
func (c *Cursor) Close() error {
	iter := c.iter
	c.iter = nil
	c.state = stateExhausted
	if iter == nil {
		return nil
	}
	return iter.Close()
}
