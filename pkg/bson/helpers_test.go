package bson

import (
	"bytes"
	"encoding/binary"
	"math"
)

// document frames already encoded elements with a length and terminator.
func document(elems ...[]byte) []byte {
	body := bytes.Join(elems, nil)
	buf := make([]byte, 4, 4+len(body)+1)
	binary.LittleEndian.PutUint32(buf, uint32(4+len(body)+1))
	buf = append(buf, body...)
	return append(buf, 0x00)
}

func element(t Type, key string, value []byte) []byte {
	out := []byte{byte(t)}
	out = append(out, key...)
	out = append(out, 0x00)
	return append(out, value...)
}

func int32Value(v int32) []byte {
	return binary.LittleEndian.AppendUint32(nil, uint32(v))
}

func int64Value(v int64) []byte {
	return binary.LittleEndian.AppendUint64(nil, uint64(v))
}

func doubleValue(f float64) []byte {
	return binary.LittleEndian.AppendUint64(nil, math.Float64bits(f))
}

func stringValue(s string) []byte {
	out := binary.LittleEndian.AppendUint32(nil, uint32(len(s)+1))
	out = append(out, s...)
	return append(out, 0x00)
}

func binaryValue(subtype byte, data []byte) []byte {
	out := binary.LittleEndian.AppendUint32(nil, uint32(len(data)))
	out = append(out, subtype)
	return append(out, data...)
}
