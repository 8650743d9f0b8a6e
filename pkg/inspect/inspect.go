// Package inspect renders documents into plain Go values for JSON and text
// output.
package inspect

import (
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ssargent/bsonview/pkg/bson"
)

// Field is one rendered element. Documents and arrays carry their children in
// Fields instead of Value.
type Field struct {
	Key    string      `json:"key"`
	Type   string      `json:"type"`
	Value  interface{} `json:"value,omitempty"`
	Fields []Field     `json:"fields,omitempty"`
}

// Binary is the rendering of a binary value
type Binary struct {
	Subtype byte   `json:"subtype"`
	Hex     string `json:"hex"`
}

// Report summarizes a validation run
type Report struct {
	Valid    bool   `json:"valid"`
	Strict   bool   `json:"strict"`
	Size     uint32 `json:"size,omitempty"`
	Elements int    `json:"elements,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Check validates buf with reader and reports the outcome. Elements is only
// filled in for documents whose element chain can be walked to the end.
func Check(reader *bson.Reader, buf []byte) Report {
	report := Report{Strict: reader != nil && reader.Strict}

	doc, err := reader.Open(buf)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Valid = true
	report.Size = doc.Size()

	if n, err := doc.Count(); err == nil {
		report.Elements = n
	} else {
		report.Error = err.Error()
	}
	return report
}

// Describe renders every element of doc, descending into nested documents.
func Describe(doc bson.Document) ([]Field, error) {
	fields := []Field{}
	it := doc.Iter()
	for it.Next() {
		e := it.Element()
		f, err := describe(e.Key(), e.Value())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Key(), err)
		}
		fields = append(fields, f)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}

// DescribeElement renders a single element.
func DescribeElement(e bson.Element) (Field, error) {
	return describe(e.Key(), e.Value())
}

func describe(key string, v bson.Value) (Field, error) {
	f := Field{Key: key, Type: v.Type.String()}

	var err error
	switch v.Type {
	case bson.TypeDouble:
		var d float64
		if d, err = v.AsDouble(); err == nil {
			f.Value = renderDouble(d)
		}
	case bson.TypeString:
		var s []byte
		if s, err = v.AsString(); err == nil {
			f.Value = string(s)
		}
	case bson.TypeDocument, bson.TypeArray:
		var nested bson.Document
		if v.Type == bson.TypeDocument {
			nested, err = v.AsDocument()
		} else {
			nested, err = v.AsArray()
		}
		if err == nil {
			f.Fields, err = Describe(nested)
		}
	case bson.TypeBinary:
		var b bson.Binary
		if b, err = v.AsBinary(); err == nil {
			f.Value = Binary{Subtype: b.Subtype, Hex: hex.EncodeToString(b.Data)}
		}
	case bson.TypeBoolean:
		f.Value, err = v.AsBool()
	case bson.TypeDateTime:
		var t time.Time
		if t, err = v.AsTime(); err == nil {
			f.Value = t.Format(time.RFC3339Nano)
		}
	case bson.TypeInt32:
		f.Value, err = v.AsInt32()
	case bson.TypeInt64:
		f.Value, err = v.AsInt64()
	default:
		err = &bson.UnknownTypeError{Type: v.Type}
	}

	if err != nil {
		return Field{}, err
	}
	return f, nil
}

// JSON cannot carry non-finite numbers
func renderDouble(d float64) interface{} {
	switch {
	case math.IsNaN(d):
		return "NaN"
	case math.IsInf(d, 1):
		return "+Inf"
	case math.IsInf(d, -1):
		return "-Inf"
	}
	return d
}

// WriteTree writes fields as an indented key/type/value table.
func WriteTree(w io.Writer, fields []Field) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "KEY\tTYPE\tVALUE\n")
	writeFields(tw, fields, 0)
	return tw.Flush()
}

func writeFields(w io.Writer, fields []Field, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, f := range fields {
		switch f.Type {
		case "document", "array":
			fmt.Fprintf(w, "%s%s\t%s\t(%d)\n", indent, f.Key, f.Type, len(f.Fields))
			writeFields(w, f.Fields, depth+1)
		default:
			fmt.Fprintf(w, "%s%s\t%s\t%s\n", indent, f.Key, f.Type, FormatValue(f.Value))
		}
	}
}

// FormatValue renders a field value for text output.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case Binary:
		return fmt.Sprintf("subtype=0x%02x %s", val.Subtype, val.Hex)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
