// This file contains the filter evaluation logic.

package memstore

import (
	"reflect"
	"strings"

	"github.com/globalsign/mgo/bson"
)

// matches reports whether doc satisfies every criterion in filter.
// A nil or empty filter matches everything.
func matches(doc bson.M, filter bson.M) bool {
	for key, criteria := range filter {
		if !matchField(doc, key, criteria) {
			return false
		}
	}
	return true
}

func matchField(doc bson.M, key string, criteria interface{}) bool {
	if ops, ok := operatorDoc(criteria); ok {
		return matchOperators(doc, key, ops)
	}
	v, ok := lookup(doc, key)
	return ok && equalValues(v, criteria)
}

// operatorDoc reports whether criteria is an operator document, i.e. a
// mapping whose keys all start with '$'.
func operatorDoc(criteria interface{}) (bson.M, bool) {
	var m bson.M
	switch c := criteria.(type) {
	case bson.M:
		m = c
	case map[string]interface{}:
		m = bson.M(c)
	default:
		return nil, false
	}
	if len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

func matchOperators(doc bson.M, key string, ops bson.M) bool {
	v, exists := lookup(doc, key)
	for op, arg := range ops {
		switch op {
		case "$eq":
			if !exists || !equalValues(v, arg) {
				return false
			}
		case "$ne":
			if exists && equalValues(v, arg) {
				return false
			}
		case "$gt":
			if cmp, ok := compareSameType(v, arg); !exists || !ok || cmp <= 0 {
				return false
			}
		case "$gte":
			if cmp, ok := compareSameType(v, arg); !exists || !ok || cmp < 0 {
				return false
			}
		case "$lt":
			if cmp, ok := compareSameType(v, arg); !exists || !ok || cmp >= 0 {
				return false
			}
		case "$lte":
			if cmp, ok := compareSameType(v, arg); !exists || !ok || cmp > 0 {
				return false
			}
		case "$in":
			if !exists || !containsValue(arg, v) {
				return false
			}
		case "$nin":
			if exists && containsValue(arg, v) {
				return false
			}
		case "$exists":
			want, _ := arg.(bool)
			if exists != want {
				return false
			}
		default:
			// Unsupported operator, match nothing rather than lie.
			return false
		}
	}
	return true
}

// containsValue reports whether v equals any element of the slice arg.
func containsValue(arg, v interface{}) bool {
	rv := reflect.ValueOf(arg)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if equalValues(v, rv.Index(i).Interface()) {
			return true
		}
	}
	return false
}

// lookup resolves a possibly dotted field path within doc.
func lookup(doc bson.M, path string) (interface{}, bool) {
	var v interface{} = doc
	for _, part := range strings.Split(path, ".") {
		var m bson.M
		switch cur := v.(type) {
		case bson.M:
			m = cur
		case map[string]interface{}:
			m = bson.M(cur)
		default:
			return nil, false
		}
		var ok bool
		if v, ok = m[part]; !ok {
			return nil, false
		}
	}
	return v, true
}

// equalValues compares two document values, treating numerically equal
// values of different widths as equal (bson decoding may yield int, int64
// or float64 for the same stored number).
func equalValues(a, b interface{}) bool {
	if cmp, ok := compareSameType(a, b); ok {
		return cmp == 0
	}
	return reflect.DeepEqual(a, b)
}
