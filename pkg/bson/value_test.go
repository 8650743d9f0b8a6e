package bson

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mongobson "go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecodeString(t *testing.T) {
	region := []byte{0x06, 0x00, 0x00, 0x00, 'h', 'e', 'l', 'l', 'o', 0x00}

	s, err := DecodeString(region)
	if err != nil {
		t.Fatalf("DecodeString failed: %v", err)
	}
	if string(s) != "hello" {
		t.Errorf("String mismatch: got %q, want %q", s, "hello")
	}
	if len(s) != 5 {
		t.Errorf("Length mismatch: got %d, want 5", len(s))
	}

	// the result is a view, not a copy
	if &s[0] != &region[4] {
		t.Error("Expected DecodeString to return a view into the region")
	}
}

func TestDecodeString_Malformed(t *testing.T) {
	testCases := []struct {
		name   string
		region []byte
		want   error
	}{
		{name: "no length", region: []byte{0x01, 0x00}, want: ErrTruncated},
		{name: "zero length", region: []byte{0x00, 0x00, 0x00, 0x00}, want: ErrCorruptValue},
		{name: "length past end", region: []byte{0x09, 0x00, 0x00, 0x00, 'a', 0x00}, want: ErrTruncated},
		{name: "not terminated", region: []byte{0x02, 0x00, 0x00, 0x00, 'a', 'b'}, want: ErrCorruptValue},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeString(tc.region)
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDecodeBinary(t *testing.T) {
	region := []byte{0x03, 0x00, 0x00, 0x00, 0x80, 'x', 'y', 'z'}

	b, err := DecodeBinary(region)
	require.NoError(t, err)
	assert.Equal(t, []byte("xyz"), b.Data)
	assert.Equal(t, byte(0x80), b.Subtype)

	_, err = DecodeBinary([]byte{0x04, 0x00, 0x00, 0x00, 0x00, 'x'})
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = DecodeBinary([]byte{0x00, 0x00, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeDocument_EmptyNested(t *testing.T) {
	d, err := DecodeDocument([]byte{0x05, 0x00, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, uint32(5), d.Size())
	assert.True(t, d.Empty())
	assert.True(t, IsValid(d.Bytes()))

	_, err = DecodeDocument([]byte{0x09, 0x00, 0x00, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeNumbers(t *testing.T) {
	i8, err := DecodeInt8([]byte{0xFE})
	require.NoError(t, err)
	assert.Equal(t, int8(-2), i8)

	i32, err := DecodeInt32(int32Value(-123456))
	require.NoError(t, err)
	assert.Equal(t, int32(-123456), i32)

	i64, err := DecodeInt64(int64Value(math.MinInt64))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), i64)

	f, err := DecodeDouble(doubleValue(-0.25))
	require.NoError(t, err)
	assert.Equal(t, -0.25, f)

	f, err = DecodeDouble(doubleValue(math.Inf(1)))
	require.NoError(t, err)
	assert.True(t, math.IsInf(f, 1))

	for _, decode := range []func([]byte) error{
		func(b []byte) error { _, err := DecodeInt8(b); return err },
		func(b []byte) error { _, err := DecodeInt32(b); return err },
		func(b []byte) error { _, err := DecodeInt64(b); return err },
		func(b []byte) error { _, err := DecodeDouble(b); return err },
		func(b []byte) error { _, err := DecodeBool(b); return err },
	} {
		assert.ErrorIs(t, decode(nil), ErrTruncated)
	}
}

func TestValue_TypedAccessors(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	raw, err := mongobson.Marshal(mongobson.D{
		{Key: "double", Value: 3.25},
		{Key: "string", Value: "héllo"},
		{Key: "document", Value: mongobson.D{{Key: "x", Value: int32(1)}}},
		{Key: "array", Value: mongobson.A{"a", "b"}},
		{Key: "binary", Value: primitive.Binary{Subtype: 0x00, Data: []byte{1, 2, 3}}},
		{Key: "boolean", Value: true},
		{Key: "datetime", Value: primitive.NewDateTimeFromTime(at)},
		{Key: "int32", Value: int32(-5)},
		{Key: "int64", Value: int64(-5) << 33},
	})
	require.NoError(t, err)

	doc, err := Open(raw)
	require.NoError(t, err)

	value := func(key string) Value {
		e, err := doc.Lookup(key)
		require.NoError(t, err)
		return e.Value()
	}

	f, err := value("double").AsDouble()
	require.NoError(t, err)
	assert.Equal(t, 3.25, f)

	s, err := value("string").AsString()
	require.NoError(t, err)
	assert.Equal(t, "héllo", string(s))

	nested, err := value("document").AsDocument()
	require.NoError(t, err)
	assert.Equal(t, 1, nested.Depth())
	x, err := nested.Lookup("x")
	require.NoError(t, err)
	xv, err := x.Value().AsInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(1), xv)

	arr, err := value("array").AsArray()
	require.NoError(t, err)
	n, err := arr.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	b, err := value("binary").AsBinary()
	require.NoError(t, err)
	assert.Equal(t, SubtypeGeneric, b.Subtype)
	assert.Equal(t, []byte{1, 2, 3}, b.Data)

	ok, err := value("boolean").AsBool()
	require.NoError(t, err)
	assert.True(t, ok)

	ms, err := value("datetime").AsDateTime()
	require.NoError(t, err)
	assert.Equal(t, at.UnixMilli(), ms)
	tm, err := value("datetime").AsTime()
	require.NoError(t, err)
	assert.True(t, at.Equal(tm))

	i32, err := value("int32").AsInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-5), i32)

	i64, err := value("int64").AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-5)<<33, i64)

	// int8 reads the first byte regardless of the tag
	i8, err := value("int32").AsInt8()
	require.NoError(t, err)
	assert.Equal(t, int8(-5), i8)
}

func TestValue_TypeMismatch(t *testing.T) {
	doc, err := Open(document(element(TypeInt32, "a", int32Value(42))))
	require.NoError(t, err)

	e, err := doc.Lookup("a")
	require.NoError(t, err)
	v := e.Value()

	_, err = v.AsString()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	var tme *TypeMismatchError
	require.True(t, errors.As(err, &tme))
	assert.Equal(t, TypeString, tme.Want)
	assert.Equal(t, TypeInt32, tme.Got)

	_, err = v.AsInt64()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = v.AsDocument()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = v.AsArray()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = v.AsDateTime()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = v.AsDouble()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = v.AsBool()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = v.AsBinary()
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestValue_NestedDepthLimit(t *testing.T) {
	buf := document(element(TypeDocument, "a",
		document(element(TypeDocument, "b",
			document(element(TypeInt32, "c", int32Value(1)))))))

	doc, err := (&Reader{MaxDepth: 1}).Open(buf)
	require.NoError(t, err)

	e, err := doc.Lookup("a")
	require.NoError(t, err)
	a, err := e.Value().AsDocument()
	require.NoError(t, err)

	e, err = a.Lookup("b")
	require.NoError(t, err)
	_, err = e.Value().AsDocument()
	assert.ErrorIs(t, err, ErrMaxDepth)

	_, err = doc.LookupPath("a", "b", "c")
	assert.ErrorIs(t, err, ErrMaxDepth)
}

func TestValue_SharesBuffer(t *testing.T) {
	buf := document(element(TypeDocument, "inner", document(element(TypeString, "s", stringValue("abc")))))

	doc, err := Open(buf)
	require.NoError(t, err)

	e, err := doc.LookupPath("inner", "s")
	require.NoError(t, err)
	s, err := e.Value().AsString()
	require.NoError(t, err)

	idx := bytes.Index(buf, []byte("abc"))
	require.NotEqual(t, -1, idx)
	assert.Same(t, &buf[idx], &s[0])
}
