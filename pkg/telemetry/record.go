package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrNotList is returned by ParseList when the document is valid JSON but its
// top level is not an array.
var ErrNotList = errors.New("top-level JSON value is not a list")

// Field is one named value of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is a raw JSON object that remembers the order of its keys.
type Record struct {
	fields []Field
	index  map[string]int
}

// NewRecord builds a record from fields in order. A repeated name replaces
// the earlier value in place, as JSON.parse does.
func NewRecord(fields ...Field) *Record {
	r := &Record{}
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// Set stores v under name, keeping the position of an existing key.
func (r *Record) Set(name string, v Value) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = v
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

// Get returns the value stored under name.
func (r *Record) Get(name string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	i, ok := r.index[name]
	if !ok {
		return Value{}, false
	}
	return r.fields[i].Value, true
}

// Len returns the number of keys.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Fields returns the fields in input order. The slice must not be modified.
func (r *Record) Fields() []Field {
	if r == nil {
		return nil
	}
	return r.fields
}

// MarshalJSON writes the record with its original key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Record) encode(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, f := range r.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if err := f.Value.encode(buf); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := newDecoder(data)
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("telemetry: cannot decode %v into a record", tok)
	}
	rec, err := decodeObject(dec)
	if err != nil {
		return err
	}
	if err := expectEOF(dec); err != nil {
		return err
	}
	*r = *rec
	return nil
}

// ParseRecord decodes a single JSON object.
func ParseRecord(data []byte) (*Record, error) {
	r := &Record{}
	if err := r.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return r, nil
}

// ParseList decodes a JSON array of objects. Elements that are not objects are
// dropped and counted in skipped. A valid document whose top level is not an
// array yields ErrNotList; malformed JSON yields a decoding error.
func ParseList(data []byte) (records []*Record, skipped int, err error) {
	dec := newDecoder(data)
	tok, err := dec.Token()
	if err != nil {
		return nil, 0, err
	}

	if d, ok := tok.(json.Delim); !ok || d != '[' {
		if _, err := decodeToken(dec, tok); err != nil {
			return nil, 0, err
		}
		if err := expectEOF(dec); err != nil {
			return nil, 0, err
		}
		return nil, 0, ErrNotList
	}

	records = []*Record{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, 0, err
		}
		if v.object == nil {
			skipped++
			continue
		}
		records = append(records, v.object)
	}
	if _, err := dec.Token(); err != nil {
		return nil, 0, err
	}
	if err := expectEOF(dec); err != nil {
		return nil, 0, err
	}
	return records, skipped, nil
}

func newDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec
}

func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return errors.New("telemetry: unexpected data after top-level value")
		}
		return err
	}
	return nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			rec, err := decodeObject(dec)
			if err != nil {
				return Value{}, err
			}
			return classify(rec), nil
		case '[':
			list := []Value{}
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				list = append(list, v)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: KindUnrecognized, list: list}, nil
		}
		return Value{}, fmt.Errorf("telemetry: unexpected delimiter %q", rune(t))
	case json.Number:
		// out of range literals come back as ±Inf, like JSON.parse
		f, err := t.Float64()
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Value{}, fmt.Errorf("telemetry: number %s: %w", t, err)
		}
		return Scalar(f), nil
	default:
		return Scalar(t), nil
	}
}

func decodeObject(dec *json.Decoder) (*Record, error) {
	rec := &Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("telemetry: unexpected object key %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		rec.Set(name, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}
