/*

Package mogo provides a lazy, stateful query cursor over document collections,
the kind of convenience layer an object-document mapper builds on top of a
database driver's raw cursor.

A Cursor is created from a Collection (the document store it delegates to) and
a filter, and is consumed by sequential iteration, random access, or the count
and distinct terminal operations, all views over the same ordered result set.

Example using Cursor

Let's say we have a users collection backed by mgo:

    coll := mgostore.Wrap(session.DB("").C("users"))

    c := mogo.New(coll, bson.M{"country": "US"})
    if err := c.Sort("name"); err != nil { ... }
    if err := c.Limit(10); err != nil { ... }

    var user bson.M
    for {
        err := c.Next(&user)
        if err == mogo.ErrDone {
            break
        }
        if err != nil { ... }
        // use user
    }

Note #1: Sort, Limit and Skip configure the query and must be called before the
first Next; afterwards they fail with ErrIterationStarted and the cursor must
be reconstructed.

Note #2: Get, Count and Distinct are independent bounded queries against the
store. They never advance (or rewind) the cursor's sequential position, so
Get(0) returns the true first result even after partial Next consumption.

*/
package mogo
