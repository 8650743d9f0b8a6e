package bson

import "fmt"

// Type is the single-byte tag identifying how an element's value is encoded.
type Type byte

// Supported element types
const (
	TypeDouble   Type = 0x01
	TypeString   Type = 0x02
	TypeDocument Type = 0x03
	TypeArray    Type = 0x04
	TypeBinary   Type = 0x05
	TypeBoolean  Type = 0x08
	TypeDateTime Type = 0x09
	TypeInt32    Type = 0x10
	TypeInt64    Type = 0x12
)

// SubtypeGeneric is the binary subtype used for plain byte payloads.
const SubtypeGeneric byte = 0x00

const (
	lengthSize = 4
	termSize   = 1

	// EmptyDocumentLength is the size of a document with no elements.
	EmptyDocumentLength = lengthSize + termSize

	// minDocumentLength is the smallest non-empty document: length, one tag,
	// an empty key, a one byte value and the terminator.
	minDocumentLength = lengthSize + 1 + 2 + termSize
)

// DefaultMaxDepth bounds document nesting when no explicit limit is set.
const DefaultMaxDepth = 64

// Valid reports whether t is one of the supported types.
func (t Type) Valid() bool {
	switch t {
	case TypeDouble, TypeString, TypeDocument, TypeArray, TypeBinary,
		TypeBoolean, TypeDateTime, TypeInt32, TypeInt64:
		return true
	}
	return false
}

func (t Type) String() string {
	switch t {
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeDocument:
		return "document"
	case TypeArray:
		return "array"
	case TypeBinary:
		return "binary"
	case TypeBoolean:
		return "boolean"
	case TypeDateTime:
		return "datetime"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	}
	return fmt.Sprintf("unknown(0x%02x)", byte(t))
}
