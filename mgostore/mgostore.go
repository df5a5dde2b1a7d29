// Package mgostore adapts an mgo collection to the mogo.Collection
// interface, so cursors can run against a real MongoDB server.
package mgostore

import (
	mgo "github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
	"github.com/pkg/errors"

	"github.com/mogo-go/mogo"
)

// Collection wraps an *mgo.Collection.
type Collection struct {
	c *mgo.Collection
}

var _ mogo.Collection = (*Collection)(nil)

// Wrap returns a mogo.Collection backed by c.
func Wrap(c *mgo.Collection) *Collection {
	return &Collection{c: c}
}

// Find implements mogo.Collection.Find.
func (c *Collection) Find(filter interface{}, sort bson.D, limit, skip int) (mogo.Iter, error) {
	q := c.c.Find(filter)
	if len(sort) > 0 {
		q = q.Sort(sortFields(sort)...)
	}
	if skip > 0 {
		q = q.Skip(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return &iter{it: q.Iter()}, nil
}

// Count implements mogo.Collection.Count. mgo applies skip and limit in
// the count command itself.
func (c *Collection) Count(filter interface{}, limit, skip int) (int, error) {
	q := c.c.Find(filter)
	if skip > 0 {
		q = q.Skip(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	n, err := q.Count()
	return n, errors.Wrap(err, "mgostore: count")
}

// Distinct implements mogo.Collection.Distinct.
func (c *Collection) Distinct(filter interface{}, key string, result interface{}) error {
	return errors.Wrap(c.c.Find(filter).Distinct(key, result), "mgostore: distinct")
}

// sortFields renders a bson.D sort spec back into mgo's prefixed field
// name form.
func sortFields(sort bson.D) []string {
	fields := make([]string, len(sort))
	for i, elem := range sort {
		if dir, _ := elem.Value.(int); dir < 0 {
			fields[i] = "-" + elem.Name
		} else {
			fields[i] = elem.Name
		}
	}
	return fields
}

// iter wraps *mgo.Iter. mgo reports both exhaustion and failure by
// returning false from Next, which is exactly the mogo.Iter contract.
type iter struct {
	it *mgo.Iter
}

func (it *iter) Next(result interface{}) bool {
	return it.it.Next(result)
}

func (it *iter) Err() error {
	return errors.Wrap(it.it.Err(), "mgostore: iterate")
}

func (it *iter) Close() error {
	return errors.Wrap(it.it.Close(), "mgostore: close iterator")
}
