package telemetry

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Kind tells which wire shape a Value was decoded from.
type Kind uint8

const (
	// KindScalar is a plain JSON string, number, boolean or null.
	KindScalar Kind = iota
	// KindString is an {"S": ...} envelope.
	KindString
	// KindNumber is an {"N": ...} envelope carrying a numeric string.
	KindNumber
	// KindBool is a {"BOOL": ...} envelope.
	KindBool
	// KindMap is an {"M": {...}} envelope wrapping a nested record.
	KindMap
	// KindUnrecognized is any other object or an array.
	KindUnrecognized
)

// Envelope tag keys.
const (
	TagString = "S"
	TagNumber = "N"
	TagBool   = "BOOL"
	TagMap    = "M"
)

var kindNames = [...]string{"scalar", "string", "number", "bool", "map", "unrecognized"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a single field value as it arrived on the wire.
type Value struct {
	kind   Kind
	scalar any     // KindScalar: nil, string, float64 or bool
	text   string  // KindString, KindNumber
	flag   bool    // KindBool
	nested *Record // KindMap
	object *Record // source object of every non-scalar, non-array kind
	list   []Value // KindUnrecognized array
}

// Scalar wraps a plain JSON value. Only nil, string, float64 and bool are
// meaningful; other numeric types are widened to float64.
func Scalar(v any) Value {
	switch n := v.(type) {
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case float32:
		v = float64(n)
	}
	return Value{kind: KindScalar, scalar: v}
}

// String builds an {"S": s} envelope.
func String(s string) Value {
	return classify(NewRecord(Field{Name: TagString, Value: Scalar(s)}))
}

// Number builds an {"N": s} envelope.
func Number(s string) Value {
	return classify(NewRecord(Field{Name: TagNumber, Value: Scalar(s)}))
}

// Bool builds a {"BOOL": b} envelope.
func Bool(b bool) Value {
	return classify(NewRecord(Field{Name: TagBool, Value: Scalar(b)}))
}

// Map builds an {"M": r} envelope.
func Map(r *Record) Value {
	return classify(NewRecord(Field{Name: TagMap, Value: objectValue(r)}))
}

func objectValue(r *Record) Value {
	return Value{kind: KindUnrecognized, object: r}
}

// classify decides the envelope kind of a decoded object. Exactly one
// recognized tag with a payload of the right shape makes an envelope;
// anything else is unrecognized.
func classify(r *Record) Value {
	v := Value{kind: KindUnrecognized, object: r}
	if r.Len() != 1 {
		return v
	}

	f := r.fields[0]
	switch f.Name {
	case TagString, TagNumber:
		if f.Value.kind != KindScalar {
			return v
		}
		switch p := f.Value.scalar.(type) {
		case string:
			v.text = p
		case float64:
			v.text = formatFloat(p)
		default:
			return v
		}
		v.kind = KindString
		if f.Name == TagNumber {
			v.kind = KindNumber
		}
	case TagBool:
		b, ok := f.Value.scalar.(bool)
		if f.Value.kind != KindScalar || !ok {
			return v
		}
		v.kind, v.flag = KindBool, b
	case TagMap:
		if f.Value.object == nil || f.Value.list != nil {
			return v
		}
		v.kind, v.nested = KindMap, f.Value.object
	}
	return v
}

// Kind reports the wire shape of v.
func (v Value) Kind() Kind { return v.kind }

// Nested returns the record inside an {"M": ...} envelope.
func (v Value) Nested() (*Record, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.nested, true
}

// IsNull reports whether v is a plain JSON null.
func (v Value) IsNull() bool {
	return v.kind == KindScalar && v.scalar == nil
}

// Unwrap converts v into a display scalar. It never fails: plain scalars are
// returned as they are, S and N envelopes yield their payload string, BOOL
// yields "true" or "false", and every other shape (M included) yields its JSON
// serialization with the original key order.
func Unwrap(v Value) any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindString, KindNumber:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// MarshalJSON writes v back in its wire shape.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch {
	case v.object != nil:
		return v.object.encode(buf)
	case v.list != nil || v.kind == KindUnrecognized:
		buf.WriteByte('[')
		for i, e := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		b, err := marshalScalar(v.scalar)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

// marshalScalar encodes non-finite numbers as null, the way JSON.stringify
// does, instead of failing.
func marshalScalar(s any) ([]byte, error) {
	if f, ok := s.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return []byte("null"), nil
	}
	return json.Marshal(s)
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
