// This file contains the value ordering used for sorting and range
// operators.

package memstore

import (
	"sort"
	"strings"
	"time"

	"github.com/globalsign/mgo/bson"
)

// Type ranks for cross-type ordering, loosely following the BSON
// comparison order. Values of different ranks never match range
// operators; in sorts they order by rank.
const (
	rankNil = iota
	rankNumber
	rankString
	rankObjectId
	rankBool
	rankTime
	rankOther
)

func typeRank(v interface{}) int {
	switch v.(type) {
	case nil:
		return rankNil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return rankNumber
	case string:
		return rankString
	case bson.ObjectId:
		return rankObjectId
	case bool:
		return rankBool
	case time.Time:
		return rankTime
	default:
		return rankOther
	}
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

// compareSameType orders two values of the same type rank. The second
// return value is false when the values are of different ranks or of a
// rank with no defined order.
func compareSameType(a, b interface{}) (int, bool) {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return 0, false
	}
	switch ra {
	case rankNil:
		return 0, true
	case rankNumber:
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	case rankString:
		return strings.Compare(a.(string), b.(string)), true
	case rankObjectId:
		return strings.Compare(string(a.(bson.ObjectId)), string(b.(bson.ObjectId))), true
	case rankBool:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0, true
		case !ba:
			return -1, true
		}
		return 1, true
	case rankTime:
		ta, tb := a.(time.Time), b.(time.Time)
		switch {
		case ta.Before(tb):
			return -1, true
		case ta.After(tb):
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// compareForSort orders any two values: first by type rank, then by the
// rank's own order. Unordered ranks compare equal.
func compareForSort(a, b interface{}) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	cmp, ok := compareSameType(a, b)
	if !ok {
		return 0
	}
	return cmp
}

// sortDocs sorts docs in place by the given sort spec. Each spec entry is
// a field name with direction 1 (ascending) or -1 (descending); the first
// entry is the primary key. Missing fields sort as nil. The sort is stable
// so equal documents keep insertion order.
func sortDocs(docs []bson.M, spec bson.D) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, elem := range spec {
			vi, _ := lookup(docs[i], elem.Name)
			vj, _ := lookup(docs[j], elem.Name)
			cmp := compareForSort(vi, vj)
			if cmp == 0 {
				continue
			}
			if dir, _ := elem.Value.(int); dir < 0 {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}
