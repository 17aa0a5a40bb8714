package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Canonical field names of a flattened sensor reading, in display order.
const (
	FieldDeviceID    = "deviceId"
	FieldTimestamp   = "timestamp"
	FieldTemperature = "temperature"
	FieldHumidity    = "humidity"
	FieldBattery     = "battery"
	FieldStatus      = "status"
	FieldType        = "type"
	FieldFacility    = "facility"
	FieldZone        = "zone"
	FieldLat         = "lat"
	FieldLon         = "lon"

	fieldLocation = "location"
	fieldGPS      = "gps"
	// registry records sometimes spell the id with a capital D
	fieldDeviceIDAlt = "deviceID"
)

// Flat is a display-ready record: field names mapped to nil, string,
// float64 or bool, in insertion order.
type Flat struct {
	keys   []string
	values map[string]any
}

func NewFlat() *Flat {
	return &Flat{values: make(map[string]any)}
}

// Set stores v under key. An existing key keeps its position.
func (f *Flat) Set(key string, v any) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = v
}

func (f *Flat) Get(key string) (any, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.values[key]
	return v, ok
}

// Keys returns the field names in order. The slice must not be modified.
func (f *Flat) Keys() []string {
	if f == nil {
		return nil
	}
	return f.keys
}

func (f *Flat) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// MarshalJSON writes the fields in order.
func (f *Flat) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := marshalScalar(f.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Flatten unwraps every top-level value of r and keeps the keys as they are.
func Flatten(r *Record) *Flat {
	f := NewFlat()
	for _, field := range r.Fields() {
		f.Set(field.Name, Unwrap(field.Value))
	}
	return f
}

// FlattenReading maps an attribute-tagged sensor reading onto the canonical
// field set. facility and zone are hoisted out of location.M, lat and lon
// out of location.M.gps.M. Absent fields and numbers that do not parse are
// left out instead of failing the record.
func FlattenReading(r *Record) *Flat {
	f := NewFlat()
	setText(f, r, FieldDeviceID)
	setText(f, r, FieldTimestamp)
	setNumber(f, r, FieldTemperature)
	setNumber(f, r, FieldHumidity)
	setNumber(f, r, FieldBattery)
	setText(f, r, FieldStatus)
	setText(f, r, FieldType)

	loc, ok := nested(r, fieldLocation)
	if !ok {
		return f
	}
	setText(f, loc, FieldFacility)
	setText(f, loc, FieldZone)
	if gps, ok := nested(loc, fieldGPS); ok {
		setNumber(f, gps, FieldLat)
		setNumber(f, gps, FieldLon)
	}
	return f
}

// DeviceIDs collects the deviceId (or deviceID) of every registry record.
// Duplicates are kept; records without an id are skipped.
func DeviceIDs(records []*Record) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		v, ok := r.Get(FieldDeviceID)
		if !ok || v.IsNull() {
			v, ok = r.Get(fieldDeviceIDAlt)
		}
		if !ok || v.IsNull() {
			continue
		}
		id := Text(v)
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Text returns the unwrapped form of v as a string.
func Text(v Value) string {
	switch u := Unwrap(v).(type) {
	case nil:
		return ""
	case string:
		return u
	case float64:
		return formatFloat(u)
	case bool:
		return strconv.FormatBool(u)
	default:
		return fmt.Sprint(u)
	}
}

// Float parses a numeric value the way parseFloat does: leading whitespace
// is skipped and the longest numeric prefix wins, so "21.5 %" yields 21.5.
// The second result is false when v holds no usable number, which includes
// NaN and infinities.
func Float(v Value) (float64, bool) {
	var s string
	switch v.kind {
	case KindNumber, KindString:
		s = v.text
	case KindScalar:
		switch p := v.scalar.(type) {
		case float64:
			return p, finite(p)
		case string:
			s = p
		default:
			return 0, false
		}
	default:
		return 0, false
	}

	prefix := numericPrefix.FindString(strings.TrimSpace(s))
	if prefix == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(prefix, 64)
	if err != nil || !finite(n) {
		return 0, false
	}
	return n, true
}

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func setText(f *Flat, r *Record, name string) {
	v, ok := r.Get(name)
	if !ok {
		return
	}
	switch v.kind {
	case KindString:
		f.Set(name, v.text)
	case KindScalar:
		if s, ok := v.scalar.(string); ok {
			f.Set(name, s)
		}
	}
}

func setNumber(f *Flat, r *Record, name string) {
	v, ok := r.Get(name)
	if !ok {
		return
	}
	if n, ok := Float(v); ok {
		f.Set(name, n)
	}
}

func nested(r *Record, name string) (*Record, bool) {
	v, ok := r.Get(name)
	if !ok {
		return nil, false
	}
	return v.Nested()
}
