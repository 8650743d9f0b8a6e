package bson

import "errors"

// Iterator walks the elements of a document in order.
type Iterator struct {
	doc     Document
	elem    Element
	err     error
	started bool
	done    bool
}

// Iter returns an iterator positioned before the first element.
func (d Document) Iter() *Iterator {
	return &Iterator{doc: d}
}

// Next advances to the next element and reports whether there is one.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}

	var (
		e   Element
		err error
	)
	if !it.started {
		it.started = true
		e, err = it.doc.First()
	} else {
		e, err = it.doc.Next(it.elem)
	}
	if err != nil {
		it.done = true
		if !errors.Is(err, ErrEndOfDocument) {
			it.err = err
		}
		return false
	}

	it.elem = e
	return true
}

// Element returns the current element.
func (it *Iterator) Element() Element {
	return it.elem
}

// Err returns the error that stopped iteration, or nil when the end of the
// document was reached.
func (it *Iterator) Err() error {
	return it.err
}
