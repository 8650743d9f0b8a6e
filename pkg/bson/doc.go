// Package bson provides a zero-copy reader for the restricted BSON encoding
// exchanged between devices and the cloud platform.
//
// The reader never allocates, copies or owns bytes. A Document, Element or Value
// is a view into the buffer passed by the caller, so the buffer must outlive every
// view derived from it and must not be modified while it is being read.
//
// # Document Format
//
// A document is laid out as:
//
//	[TotalLength(4)][Element...][0x00]
//
// TotalLength is a little-endian uint32 counting the whole document, including the
// length field itself and the trailing terminator. Each element is:
//
//	[Type(1)][Key...][0x00][Value...]
//
// There is no element count; the sequence ends at the document terminator.
//
// Supported types and value encodings:
//   - 0x01 double: 8 bytes, IEEE-754 little-endian
//   - 0x02 string: int32 length L (including NUL) followed by L bytes
//   - 0x03 document: a nested document
//   - 0x04 array: a nested document keyed by "0", "1", ...
//   - 0x05 binary: int32 length L, one subtype byte, L bytes
//   - 0x08 boolean: 1 byte
//   - 0x09 datetime: int64 milliseconds since the Unix epoch
//   - 0x10 int32: 4 bytes
//   - 0x12 int64: 8 bytes
//
// Any other type is rejected.
//
// # Usage
//
//	doc, err := bson.Open(buf)
//	if err != nil {
//	    return err // malformed payload
//	}
//
//	elem, err := doc.Lookup("temperature")
//	if errors.Is(err, bson.ErrNotFound) {
//	    // key not present
//	}
//	celsius, err := elem.Value().AsDouble()
//
// Iterating all elements in order:
//
//	it := doc.Iter()
//	for it.Next() {
//	    e := it.Element()
//	    fmt.Println(e.Key(), e.Type())
//	}
//	if err := it.Err(); err != nil {
//	    return err // malformed element, distinct from reaching the end
//	}
//
// # Validation
//
// Open runs a shallow validation by default: buffer and declared length agree,
// the terminator is present and the first element has a supported type. It does
// not walk the element chain. Navigation still checks every offset against the
// document bounds and reports ErrTruncated or ErrUnknownType instead of reading
// past the end. Reader.Strict (or ValidateStrict) walks the whole document,
// including nested documents, before handing it out.
//
// # Thread Safety
//
// All operations are pure functions over an immutable slice and are safe for
// concurrent use.
package bson
