package telemetry

import "fmt"

// Schema selects how readings are flattened.
type Schema string

const (
	// SchemaTagged flattens attribute-tagged readings onto the canonical
	// field set with location and gps hoisting.
	SchemaTagged Schema = "tagged"
	// SchemaFlat unwraps each top-level value and keeps the input keys.
	SchemaFlat Schema = "flat"
)

func ParseSchema(s string) (Schema, error) {
	switch Schema(s) {
	case SchemaTagged, SchemaFlat:
		return Schema(s), nil
	case "":
		return SchemaTagged, nil
	}
	return "", fmt.Errorf("unknown schema %q (want %q or %q)", s, SchemaTagged, SchemaFlat)
}

// Flatten applies the schema's strategy to r.
func (s Schema) Flatten(r *Record) *Flat {
	if s == SchemaFlat {
		return Flatten(r)
	}
	return FlattenReading(r)
}

// FlattenAll flattens records in order.
func (s Schema) FlattenAll(records []*Record) []*Flat {
	out := make([]*Flat, 0, len(records))
	for _, r := range records {
		out = append(out, s.Flatten(r))
	}
	return out
}
