package bson

import "fmt"

// IsValid reports whether buf starts with a well-formed document according to
// the shallow checks performed by Validate.
func IsValid(buf []byte) bool {
	return Validate(buf) == nil
}

// Validate performs a fast sanity check of the document at the start of buf.
// It checks the declared length against the buffer, the terminator, and the type
// of the first element only; it does not walk the element chain.
func Validate(buf []byte) error {
	if len(buf) == 0 {
		return ErrEmptyBuffer
	}

	if len(buf) >= EmptyDocumentLength {
		if size, _ := uint32At(buf, 0); size == EmptyDocumentLength && buf[lengthSize] == 0 {
			return nil
		}
	}

	if len(buf) < minDocumentLength {
		return fmt.Errorf("%w: %d bytes", ErrDocumentTooSmall, len(buf))
	}

	size, _ := uint32At(buf, 0)
	if uint64(size) > uint64(len(buf)) {
		return fmt.Errorf("%w: data: %d document: %d", ErrLengthExceedsBuffer, len(buf), size)
	}
	if size < EmptyDocumentLength {
		return fmt.Errorf("%w: declared length %d", ErrDocumentTooSmall, size)
	}
	if buf[size-1] != 0 {
		return ErrMissingTerminator
	}
	if size < minDocumentLength {
		return fmt.Errorf("%w: declared length %d", ErrDocumentTooSmall, size)
	}

	if t := Type(buf[lengthSize]); !t.Valid() {
		return &UnknownTypeError{Type: t, Offset: lengthSize}
	}
	return nil
}

// ValidateStrict checks every element of the document at the start of buf,
// descending into nested documents and arrays up to maxDepth levels. A
// non-positive maxDepth selects DefaultMaxDepth.
func ValidateStrict(buf []byte, maxDepth int) error {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if err := Validate(buf); err != nil {
		return err
	}
	size, _ := uint32At(buf, 0)
	err := walk(newDocument(buf[:size:size], 0, maxDepth))
	if ee, ok := err.(*ElementError); ok {
		// keys were collected innermost first
		for i, j := 0, len(ee.Path)-1; i < j; i, j = i+1, j-1 {
			ee.Path[i], ee.Path[j] = ee.Path[j], ee.Path[i]
		}
	}
	return err
}

func walk(d Document) error {
	it := d.Iter()
	for it.Next() {
		e := it.Element()
		err := checkValue(e.Value())
		if err == nil {
			continue
		}
		if ee, ok := err.(*ElementError); ok {
			ee.Path = append(ee.Path, e.Key())
			return ee
		}
		return &ElementError{Path: []string{e.Key()}, Offset: e.Offset(), Err: err}
	}
	return it.Err()
}

func checkValue(v Value) error {
	switch v.Type {
	case TypeString:
		_, err := DecodeString(v.Data)
		return err
	case TypeBoolean:
		_, err := DecodeBool(v.Data)
		return err
	case TypeDocument, TypeArray:
		nested, err := v.document()
		if err != nil {
			return err
		}
		return walk(nested)
	}
	return nil
}
