package bson

import (
	"math"
	"time"
)

// Value is an element's value region together with its type tag. The typed
// accessors check the tag and return a *TypeMismatchError when it does not
// match.
type Value struct {
	Type Type
	Data []byte

	depth    int
	maxDepth int
}

// Binary is a decoded binary value.
type Binary struct {
	Subtype byte
	Data    []byte
}

func (v Value) expect(t Type) error {
	if v.Type != t {
		return &TypeMismatchError{Want: t, Got: v.Type}
	}
	return nil
}

// AsString returns the string bytes without the trailing NUL.
func (v Value) AsString() ([]byte, error) {
	if err := v.expect(TypeString); err != nil {
		return nil, err
	}
	return DecodeString(v.Data)
}

// AsBinary returns the binary payload and its subtype.
func (v Value) AsBinary() (Binary, error) {
	if err := v.expect(TypeBinary); err != nil {
		return Binary{}, err
	}
	return DecodeBinary(v.Data)
}

// AsDocument returns the embedded document.
func (v Value) AsDocument() (Document, error) {
	if err := v.expect(TypeDocument); err != nil {
		return Document{}, err
	}
	return v.document()
}

// AsArray returns the embedded array as a document keyed by index.
func (v Value) AsArray() (Document, error) {
	if err := v.expect(TypeArray); err != nil {
		return Document{}, err
	}
	return v.document()
}

func (v Value) document() (Document, error) {
	maxDepth := v.maxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if v.depth+1 > maxDepth {
		return Document{}, ErrMaxDepth
	}
	d, err := DecodeDocument(v.Data)
	if err != nil {
		return Document{}, err
	}
	d.depth = v.depth + 1
	d.maxDepth = maxDepth
	return d, nil
}

// AsInt8 returns the first byte of the value as a signed integer, whatever the
// value's type.
func (v Value) AsInt8() (int8, error) {
	return DecodeInt8(v.Data)
}

func (v Value) AsInt32() (int32, error) {
	if err := v.expect(TypeInt32); err != nil {
		return 0, err
	}
	return DecodeInt32(v.Data)
}

func (v Value) AsInt64() (int64, error) {
	if err := v.expect(TypeInt64); err != nil {
		return 0, err
	}
	return DecodeInt64(v.Data)
}

// AsDateTime returns milliseconds since the Unix epoch.
func (v Value) AsDateTime() (int64, error) {
	if err := v.expect(TypeDateTime); err != nil {
		return 0, err
	}
	return DecodeInt64(v.Data)
}

// AsTime returns a datetime value as a UTC time.
func (v Value) AsTime() (time.Time, error) {
	ms, err := v.AsDateTime()
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

func (v Value) AsDouble() (float64, error) {
	if err := v.expect(TypeDouble); err != nil {
		return 0, err
	}
	return DecodeDouble(v.Data)
}

func (v Value) AsBool() (bool, error) {
	if err := v.expect(TypeBoolean); err != nil {
		return false, err
	}
	return DecodeBool(v.Data)
}

// DecodeString decodes a string value region: an int32 length counting the
// trailing NUL, followed by the bytes. The returned slice excludes the NUL.
func DecodeString(region []byte) ([]byte, error) {
	l, ok := uint32At(region, 0)
	if !ok {
		return nil, ErrTruncated
	}
	if l == 0 {
		return nil, ErrCorruptValue
	}
	if uint64(l) > uint64(len(region)-lengthSize) {
		return nil, ErrTruncated
	}
	end := lengthSize + int(l)
	if region[end-1] != 0 {
		return nil, ErrCorruptValue
	}
	return region[lengthSize : end-1 : end-1], nil
}

// DecodeBinary decodes a binary value region: an int32 length, a subtype byte
// and the data.
func DecodeBinary(region []byte) (Binary, error) {
	l, ok := uint32At(region, 0)
	if !ok || len(region) < lengthSize+1 {
		return Binary{}, ErrTruncated
	}
	if uint64(l) > uint64(len(region)-lengthSize-1) {
		return Binary{}, ErrTruncated
	}
	start := lengthSize + 1
	end := start + int(l)
	return Binary{Subtype: region[lengthSize], Data: region[start:end:end]}, nil
}

// DecodeDocument returns the document embedded at the start of region. The
// nested document gets the same shallow validation as a top level one.
func DecodeDocument(region []byte) (Document, error) {
	size, ok := uint32At(region, 0)
	if !ok {
		return Document{}, ErrTruncated
	}
	if uint64(size) > uint64(len(region)) {
		return Document{}, ErrTruncated
	}
	raw := region[:size:size]
	if err := Validate(raw); err != nil {
		return Document{}, err
	}
	return newDocument(raw, 0, DefaultMaxDepth), nil
}

func DecodeInt8(region []byte) (int8, error) {
	if len(region) < 1 {
		return 0, ErrTruncated
	}
	return int8(region[0]), nil
}

func DecodeInt32(region []byte) (int32, error) {
	u, ok := uint32At(region, 0)
	if !ok {
		return 0, ErrTruncated
	}
	return int32(u), nil
}

func DecodeInt64(region []byte) (int64, error) {
	u, ok := uint64At(region, 0)
	if !ok {
		return 0, ErrTruncated
	}
	return int64(u), nil
}

func DecodeDouble(region []byte) (float64, error) {
	u, ok := uint64At(region, 0)
	if !ok {
		return 0, ErrTruncated
	}
	return math.Float64frombits(u), nil
}

// DecodeBool decodes a boolean value region. Any byte other than 0 or 1 is
// rejected.
func DecodeBool(region []byte) (bool, error) {
	if len(region) < 1 {
		return false, ErrTruncated
	}
	switch region[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, ErrCorruptValue
}
