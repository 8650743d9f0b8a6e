package bson

// Element is one key/value entry of a document.
type Element struct {
	doc    Document
	off    int // offset of the type tag
	keyLen int
	next   int // offset of the following sibling
}

// Type returns the element's type tag.
func (e Element) Type() Type {
	if e.doc.raw == nil {
		return 0
	}
	return Type(e.doc.raw[e.off])
}

// KeyBytes returns the key without its terminator. The slice aliases the
// document buffer.
func (e Element) KeyBytes() []byte {
	if e.doc.raw == nil {
		return nil
	}
	return e.doc.raw[e.off+1 : e.off+1+e.keyLen]
}

// Key returns a copy of the key as a string.
func (e Element) Key() string {
	return string(e.KeyBytes())
}

// Offset returns the position of the element's type tag within its document.
func (e Element) Offset() int {
	return e.off
}

// Len returns the encoded size of the element, tag and key included.
func (e Element) Len() int {
	return e.next - e.off
}

// Value returns the element's value region tagged with its type.
func (e Element) Value() Value {
	if e.doc.raw == nil {
		return Value{}
	}
	valueOff := e.off + 1 + e.keyLen + termSize
	return Value{
		Type:     e.Type(),
		Data:     e.doc.raw[valueOff:e.next:e.next],
		depth:    e.doc.depth,
		maxDepth: e.doc.maxDepth,
	}
}
