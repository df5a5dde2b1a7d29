// This file contains the sentinel error values returned by Cursor.

package mogo

import "errors"

var (
	// ErrDone is returned by Next when the result set is exhausted.
	// It signals end-of-sequence, not a failure.
	ErrDone = errors.New("mogo: no more documents")

	// ErrIterationStarted is returned by Sort, Limit and Skip once the
	// cursor has begun producing results. The caller must reconstruct
	// the cursor to reconfigure the query.
	ErrIterationStarted = errors.New("mogo: cursor iteration already started")

	// ErrOutOfRange is returned by Get for an index outside the
	// matching-result range.
	ErrOutOfRange = errors.New("mogo: index out of range")

	// ErrNotFound is returned by First when no document matches.
	ErrNotFound = errors.New("mogo: not found")
)
