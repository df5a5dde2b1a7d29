// Package memstore provides an in-memory mogo.Collection, intended for
// tests and prototyping. It supports a practical subset of the MongoDB
// query operators, multi-key sorting and distinct values.
package memstore

import (
	"reflect"
	"sync"

	"github.com/globalsign/mgo/bson"
	"github.com/pkg/errors"

	"github.com/mogo-go/mogo"
)

// Collection is an in-memory document collection. The zero value is ready
// to use. It is safe for concurrent use: many independent cursors may be
// open against one Collection.
type Collection struct {
	mu   sync.RWMutex
	docs []bson.M
}

var _ mogo.Collection = (*Collection)(nil)

// Insert appends documents to the collection. Each document is deep-copied
// through bson, so later mutation of the argument does not affect the store.
func (c *Collection) Insert(docs ...interface{}) error {
	copies := make([]bson.M, 0, len(docs))
	for _, doc := range docs {
		var cp bson.M
		if err := roundTrip(doc, &cp); err != nil {
			return errors.Wrap(err, "memstore: insert")
		}
		copies = append(copies, cp)
	}
	c.mu.Lock()
	c.docs = append(c.docs, copies...)
	c.mu.Unlock()
	return nil
}

// Remove deletes all documents matching filter and returns how many were
// removed.
func (c *Collection) Remove(filter interface{}) (int, error) {
	m, err := asFilter(filter)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.docs[:0]
	removed := 0
	for _, doc := range c.docs {
		if matches(doc, m) {
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	c.docs = kept
	return removed, nil
}

// Drop deletes every document in the collection.
func (c *Collection) Drop() {
	c.mu.Lock()
	c.docs = nil
	c.mu.Unlock()
}

// Len returns the number of stored documents.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// Find implements mogo.Collection.Find. The returned iterator walks a
// snapshot of the matching documents taken at call time.
func (c *Collection) Find(filter interface{}, sort bson.D, limit, skip int) (mogo.Iter, error) {
	docs, err := c.query(filter, sort, limit, skip)
	if err != nil {
		return nil, err
	}
	return &iter{docs: docs}, nil
}

// Count implements mogo.Collection.Count.
func (c *Collection) Count(filter interface{}, limit, skip int) (int, error) {
	docs, err := c.query(filter, nil, limit, skip)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Distinct implements mogo.Collection.Distinct. Value order follows first
// appearance in the collection, so it is stable within one call.
func (c *Collection) Distinct(filter interface{}, key string, result interface{}) error {
	docs, err := c.query(filter, nil, 0, 0)
	if err != nil {
		return err
	}
	var values []interface{}
	for _, doc := range docs {
		v, ok := lookup(doc, key)
		if !ok {
			continue
		}
		seen := false
		for _, prev := range values {
			if equalValues(prev, v) {
				seen = true
				break
			}
		}
		if !seen {
			values = append(values, v)
		}
	}
	return setSlice(result, values)
}

// query snapshots the matching documents with sort, skip and limit applied.
func (c *Collection) query(filter interface{}, sort bson.D, limit, skip int) ([]bson.M, error) {
	m, err := asFilter(filter)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	var docs []bson.M
	for _, doc := range c.docs {
		if matches(doc, m) {
			docs = append(docs, doc)
		}
	}
	c.mu.RUnlock()

	if len(sort) > 0 {
		sortDocs(docs, sort)
	}
	if skip > 0 {
		if skip >= len(docs) {
			docs = nil
		} else {
			docs = docs[skip:]
		}
	}
	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs, nil
}

// iter walks a snapshot of matching documents.
type iter struct {
	docs []bson.M
	pos  int
	err  error
}

func (it *iter) Next(result interface{}) bool {
	if it.err != nil || it.pos >= len(it.docs) {
		return false
	}
	if err := roundTrip(it.docs[it.pos], result); err != nil {
		it.err = errors.Wrap(err, "memstore: decode document")
		return false
	}
	it.pos++
	return true
}

func (it *iter) Err() error { return it.err }

func (it *iter) Close() error { return it.err }

// roundTrip copies src into dst through bson, giving driver-equivalent
// decoding into arbitrary caller types.
func roundTrip(src, dst interface{}) error {
	data, err := bson.Marshal(src)
	if err != nil {
		return err
	}
	return bson.Unmarshal(data, dst)
}

// asFilter normalizes the supported filter representations to bson.M.
// nil matches everything.
func asFilter(filter interface{}) (bson.M, error) {
	switch f := filter.(type) {
	case nil:
		return nil, nil
	case bson.M:
		return f, nil
	case map[string]interface{}:
		return bson.M(f), nil
	default:
		// Struct or bson.D filters go through bson.
		var m bson.M
		if err := roundTrip(filter, &m); err != nil {
			return nil, errors.Wrap(err, "memstore: unsupported filter")
		}
		return m, nil
	}
}

// setSlice stores values into result, which must be a pointer to a slice.
func setSlice(result interface{}, values []interface{}) error {
	resultv := reflect.ValueOf(result)
	if resultv.Kind() != reflect.Ptr || resultv.Elem().Kind() != reflect.Slice {
		panic("result argument must be a slice address")
	}
	elemt := resultv.Elem().Type().Elem()
	slicev := reflect.MakeSlice(resultv.Elem().Type(), 0, len(values))
	for _, v := range values {
		if v == nil {
			slicev = reflect.Append(slicev, reflect.Zero(elemt))
			continue
		}
		rv := reflect.ValueOf(v)
		switch {
		case rv.Type().AssignableTo(elemt):
		case rv.Type().ConvertibleTo(elemt):
			rv = rv.Convert(elemt)
		default:
			return errors.Errorf("memstore: cannot store %T in %s slice", v, elemt)
		}
		slicev = reflect.Append(slicev, rv)
	}
	resultv.Elem().Set(slicev)
	return nil
}
