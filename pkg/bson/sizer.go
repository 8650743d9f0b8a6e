package bson

// nextElementOffset returns the offset of the element following the one whose
// type tag is at offset and whose key is keyLen bytes long (excluding its NUL).
// The returned offset is always greater than offset. It never reads outside doc.
func nextElementOffset(doc []byte, offset, keyLen int) (int, error) {
	if offset < 0 || keyLen < 0 || offset >= len(doc) {
		return 0, ErrTruncated
	}
	t := Type(doc[offset])

	// offset <- type + key + NUL
	valueOff := offset + 1 + keyLen + termSize
	if valueOff > len(doc) {
		return 0, ErrTruncated
	}

	n, err := valueLength(doc[valueOff:], t)
	if err != nil {
		if _, ok := err.(*UnknownTypeError); ok {
			return 0, &UnknownTypeError{Type: t, Offset: offset}
		}
		return 0, err
	}
	return valueOff + n, nil
}

// valueLength returns the number of bytes a value of type t occupies at the
// start of region. The result is guaranteed to fit within region.
func valueLength(region []byte, t Type) (int, error) {
	var n uint64
	switch t {
	case TypeString:
		l, ok := uint32At(region, 0)
		if !ok {
			return 0, ErrTruncated
		}
		n = lengthSize + uint64(l)

	case TypeDocument, TypeArray:
		l, ok := uint32At(region, 0)
		if !ok {
			return 0, ErrTruncated
		}
		if l < EmptyDocumentLength {
			return 0, ErrCorruptValue
		}
		n = uint64(l)

	case TypeBinary:
		l, ok := uint32At(region, 0)
		if !ok {
			return 0, ErrTruncated
		}
		n = lengthSize + 1 + uint64(l) // length + subtype + data

	case TypeInt32:
		n = 4

	case TypeDouble, TypeDateTime, TypeInt64:
		n = 8

	case TypeBoolean:
		n = 1

	default:
		return 0, &UnknownTypeError{Type: t}
	}

	if n > uint64(len(region)) {
		return 0, ErrTruncated
	}
	return int(n), nil
}
