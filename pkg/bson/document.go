package bson

import "bytes"

// Document is a read-only view of one encoded document. The zero value is an
// empty document.
type Document struct {
	raw      []byte // exactly Size() bytes, terminator included
	depth    int    // nesting level, 0 for a top level document
	maxDepth int
}

func newDocument(raw []byte, depth, maxDepth int) Document {
	return Document{raw: raw, depth: depth, maxDepth: maxDepth}
}

// Reader opens documents with a fixed validation policy.
type Reader struct {
	// MaxDepth bounds how deep nested documents may be opened. Zero selects
	// DefaultMaxDepth.
	MaxDepth int
	// Strict walks every element before returning the document instead of
	// the shallow first-element check.
	Strict bool
}

// NewReader creates a reader with shallow validation and the default depth limit
func NewReader() *Reader {
	return &Reader{MaxDepth: DefaultMaxDepth}
}

func (r *Reader) maxDepth() int {
	if r == nil || r.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return r.MaxDepth
}

// Open validates buf and returns a view of the document it starts with. Bytes
// past the declared length are not part of the document.
func (r *Reader) Open(buf []byte) (Document, error) {
	maxDepth := r.maxDepth()

	var err error
	if r != nil && r.Strict {
		err = ValidateStrict(buf, maxDepth)
	} else {
		err = Validate(buf)
	}
	if err != nil {
		return Document{}, err
	}

	size, _ := uint32At(buf, 0)
	return newDocument(buf[:size:size], 0, maxDepth), nil
}

// Open validates buf with the default reader and returns its document.
func Open(buf []byte) (Document, error) {
	return NewReader().Open(buf)
}

// Size returns the total length of the document in bytes.
func (d Document) Size() uint32 {
	return uint32(len(d.raw))
}

// Bytes returns the encoded document. The slice aliases the caller's buffer.
func (d Document) Bytes() []byte {
	return d.raw
}

// Empty reports whether the document has no elements.
func (d Document) Empty() bool {
	return len(d.raw) <= EmptyDocumentLength
}

// Depth returns how many documents enclose d.
func (d Document) Depth() int {
	return d.depth
}

// end is the offset of the terminator, the first offset no element may reach.
func (d Document) end() int {
	return len(d.raw) - termSize
}

// keyLen scans for the NUL terminating the key of the element at off, bounded
// by the document terminator.
func (d Document) keyLen(off int) (int, error) {
	if off < lengthSize || off+1 > d.end() {
		return 0, ErrTruncated
	}
	n := bytes.IndexByte(d.raw[off+1:], 0)
	if n < 0 {
		return 0, ErrTruncated
	}
	return n, nil
}

func (d Document) element(off, keyLen int) (Element, error) {
	next, err := nextElementOffset(d.raw, off, keyLen)
	if err != nil {
		return Element{}, err
	}
	if next > d.end() {
		return Element{}, ErrTruncated
	}
	return Element{doc: d, off: off, keyLen: keyLen, next: next}, nil
}

func (d Document) elementAt(off int) (Element, error) {
	keyLen, err := d.keyLen(off)
	if err != nil {
		return Element{}, err
	}
	return d.element(off, keyLen)
}

// First returns the first element of the document, or ErrEndOfDocument when
// the document is empty.
func (d Document) First() (Element, error) {
	if d.Empty() {
		return Element{}, ErrEndOfDocument
	}
	return d.elementAt(lengthSize)
}

// Next returns the element following cur. ErrEndOfDocument marks the regular
// end of the sequence; ErrUnknownType and ErrTruncated mean the document is
// malformed past cur.
func (d Document) Next(cur Element) (Element, error) {
	if cur.next == 0 || cur.next+1 >= len(d.raw) {
		return Element{}, ErrEndOfDocument
	}
	return d.elementAt(cur.next)
}

// Lookup returns the first element whose key equals key. A key that is not
// present yields ErrNotFound; a malformed element met while scanning is
// reported as such.
func (d Document) Lookup(key string) (Element, error) {
	off := lengthSize
	for off+1 < len(d.raw) {
		keyLen, err := d.keyLen(off)
		if err != nil {
			return Element{}, err
		}
		if string(d.raw[off+1:off+1+keyLen]) == key {
			return d.element(off, keyLen)
		}

		next, err := nextElementOffset(d.raw, off, keyLen)
		if err != nil {
			return Element{}, err
		}
		if next > d.end() {
			return Element{}, ErrTruncated
		}
		off = next
	}
	return Element{}, ErrNotFound
}

// LookupPath follows keys through nested documents and arrays and returns the
// element named by the last key.
func (d Document) LookupPath(keys ...string) (Element, error) {
	if len(keys) == 0 {
		return Element{}, ErrNotFound
	}

	cur := d
	for i, key := range keys {
		e, err := cur.Lookup(key)
		if err != nil {
			return Element{}, err
		}
		if i == len(keys)-1 {
			return e, nil
		}

		v := e.Value()
		if v.Type != TypeDocument && v.Type != TypeArray {
			return Element{}, &TypeMismatchError{Want: TypeDocument, Got: v.Type}
		}
		if cur, err = v.document(); err != nil {
			return Element{}, err
		}
	}
	return Element{}, ErrNotFound
}

// Count returns the number of elements in the document.
func (d Document) Count() (int, error) {
	n := 0
	it := d.Iter()
	for it.Next() {
		n++
	}
	if err := it.Err(); err != nil {
		return 0, err
	}
	return n, nil
}
