package memstore

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/globalsign/mgo/bson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertCopiesDocuments(t *testing.T) {
	coll := &Collection{}

	doc := bson.M{"name": "Aaron"}
	require.NoError(t, coll.Insert(doc))
	doc["name"] = "mutated"

	var got bson.M
	iter, err := coll.Find(nil, nil, 0, 0)
	require.NoError(t, err)
	require.True(t, iter.Next(&got))
	assert.Equal(t, "Aaron", got["name"])
	require.NoError(t, iter.Close())
}

func TestRemoveAndDrop(t *testing.T) {
	coll := &Collection{}
	require.NoError(t, coll.Insert(
		bson.M{"kind": "a"},
		bson.M{"kind": "b"},
		bson.M{"kind": "a"},
	))

	removed, err := coll.Remove(bson.M{"kind": "a"})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, coll.Len())

	coll.Drop()
	assert.Equal(t, 0, coll.Len())
}

func TestFindSortSkipLimit(t *testing.T) {
	coll := &Collection{}
	require.NoError(t, coll.Insert(
		bson.M{"n": 3},
		bson.M{"n": 1},
		bson.M{"n": 4},
		bson.M{"n": 2},
	))

	iter, err := coll.Find(nil, bson.D{{Name: "n", Value: 1}}, 2, 1)
	require.NoError(t, err)

	var ns []int
	var doc bson.M
	for iter.Next(&doc) {
		ns = append(ns, doc["n"].(int))
	}
	require.NoError(t, iter.Close())
	assert.Equal(t, []int{2, 3}, ns)
}

func TestCountSkipPastEnd(t *testing.T) {
	coll := &Collection{}
	require.NoError(t, coll.Insert(bson.M{"n": 1}, bson.M{"n": 2}))

	n, err := coll.Count(nil, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = coll.Count(nil, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMatchOperators(t *testing.T) {
	doc := bson.M{
		"age":     30,
		"name":    "Alice",
		"address": bson.M{"city": "Berlin"},
	}

	cases := []struct {
		name   string
		filter bson.M
		want   bool
	}{
		{"equality", bson.M{"name": "Alice"}, true},
		{"equality miss", bson.M{"name": "Bob"}, false},
		{"missing field", bson.M{"email": "x"}, false},
		{"dotted path", bson.M{"address.city": "Berlin"}, true},
		{"eq op", bson.M{"age": bson.M{"$eq": 30}}, true},
		{"ne op", bson.M{"age": bson.M{"$ne": 30}}, false},
		{"ne missing field", bson.M{"email": bson.M{"$ne": "x"}}, true},
		{"gt", bson.M{"age": bson.M{"$gt": 29}}, true},
		{"gt equal", bson.M{"age": bson.M{"$gt": 30}}, false},
		{"gte equal", bson.M{"age": bson.M{"$gte": 30}}, true},
		{"lt", bson.M{"age": bson.M{"$lt": 31}}, true},
		{"lte", bson.M{"age": bson.M{"$lte": 29}}, false},
		{"numeric widths", bson.M{"age": bson.M{"$gte": int64(30)}}, true},
		{"range", bson.M{"age": bson.M{"$gt": 20, "$lt": 40}}, true},
		{"in", bson.M{"name": bson.M{"$in": []string{"Alice", "Bob"}}}, true},
		{"in miss", bson.M{"name": bson.M{"$in": []string{"Bob"}}}, false},
		{"nin", bson.M{"name": bson.M{"$nin": []string{"Bob"}}}, true},
		{"exists", bson.M{"email": bson.M{"$exists": false}}, true},
		{"exists present", bson.M{"age": bson.M{"$exists": true}}, true},
		{"type mismatch range", bson.M{"name": bson.M{"$gt": 10}}, false},
		{"unsupported op", bson.M{"age": bson.M{"$mod": 7}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, matches(doc, tc.filter))
		})
	}
}

func TestSortDocs(t *testing.T) {
	docs := []bson.M{
		{"country": "US", "name": "Chloe"},
		{"country": "UK", "name": "Aaron"},
		{"country": "US", "name": "Alice"},
		{"name": "Nowhere"}, // missing country sorts first
	}

	sortDocs(docs, bson.D{
		{Name: "country", Value: 1},
		{Name: "name", Value: -1},
	})

	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d["name"].(string)
	}
	assert.Equal(t, []string{"Nowhere", "Aaron", "Chloe", "Alice"}, names)
}

func TestCompareForSortCrossType(t *testing.T) {
	// nil < numbers < strings, and numeric widths compare by value.
	assert.Equal(t, -1, compareForSort(nil, 1))
	assert.Equal(t, -1, compareForSort(3, "a"))
	assert.Equal(t, 0, compareForSort(int64(2), 2))
	assert.Equal(t, 1, compareForSort(2.5, 2))
	assert.Equal(t, -1, compareForSort(false, true))
}

func TestDistinct(t *testing.T) {
	coll := &Collection{}
	require.NoError(t, coll.Insert(
		bson.M{"a": 1},
		bson.M{"a": 2},
		bson.M{"a": 2},
		bson.M{"a": 3},
		bson.M{"b": 9}, // no "a" at all
	))

	var values []int
	require.NoError(t, coll.Distinct(nil, "a", &values))
	assert.Equal(t, []int{1, 2, 3}, values)

	// Filtered distinct only sees matching documents.
	var filtered []int
	require.NoError(t, coll.Distinct(bson.M{"a": bson.M{"$gt": 1}}, "a", &filtered))
	assert.Equal(t, []int{2, 3}, filtered)
}

func TestFindWithGeneratedFixtures(t *testing.T) {
	gofakeit.Seed(11)

	coll := &Collection{}
	const total = 40
	adults := 0
	for i := 0; i < total; i++ {
		age := gofakeit.Number(10, 60)
		if age >= 18 {
			adults++
		}
		require.NoError(t, coll.Insert(bson.M{
			"name": gofakeit.Name(),
			"city": gofakeit.City(),
			"age":  age,
		}))
	}

	n, err := coll.Count(nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, total, n)

	n, err = coll.Count(bson.M{"age": bson.M{"$gte": 18}}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, adults, n)

	// Sorted iteration yields monotonically non-decreasing ages.
	iter, err := coll.Find(nil, bson.D{{Name: "age", Value: 1}}, 0, 0)
	require.NoError(t, err)
	prev := -1
	var doc bson.M
	for iter.Next(&doc) {
		age := doc["age"].(int)
		require.GreaterOrEqual(t, age, prev)
		prev = age
	}
	require.NoError(t, iter.Close())
}
