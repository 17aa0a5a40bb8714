package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeValue1(t *testing.T, doc string) Value {
	t.Helper()
	rec, err := ParseRecord([]byte(`{"v":` + doc + `}`))
	require.NoError(t, err)
	v, ok := rec.Get("v")
	require.True(t, ok)
	return v
}

func TestUnwrapScalarIdentity(t *testing.T) {
	cases := []struct {
		desc string
		in   any
	}{
		{desc: "string", in: "abc"},
		{desc: "number", in: 42.5},
		{desc: "true", in: true},
		{desc: "false", in: false},
		{desc: "null", in: nil},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.in, Unwrap(Scalar(tc.in)))
		})
	}
}

func TestUnwrapEnvelopes(t *testing.T) {
	cases := []struct {
		desc string
		doc  string
		kind Kind
		want any
	}{
		{desc: "string envelope", doc: `{"S":"abc"}`, kind: KindString, want: "abc"},
		{desc: "number envelope", doc: `{"N":"42"}`, kind: KindNumber, want: "42"},
		{desc: "non-numeric number envelope", doc: `{"N":"n/a"}`, kind: KindNumber, want: "n/a"},
		{desc: "number payload given as number", doc: `{"N":21.5}`, kind: KindNumber, want: "21.5"},
		{desc: "bool true", doc: `{"BOOL":true}`, kind: KindBool, want: "true"},
		{desc: "bool false", doc: `{"BOOL":false}`, kind: KindBool, want: "false"},
		{desc: "unrecognized tag", doc: `{"FOO":1}`, kind: KindUnrecognized, want: `{"FOO":1}`},
		{desc: "mixed tags", doc: `{"S":"a","N":"1"}`, kind: KindUnrecognized, want: `{"S":"a","N":"1"}`},
		{desc: "tag with extra key", doc: `{"S":"abc","x":1}`, kind: KindUnrecognized, want: `{"S":"abc","x":1}`},
		{desc: "bool with extra key", doc: `{"x":1,"BOOL":true}`, kind: KindUnrecognized, want: `{"x":1,"BOOL":true}`},
		{desc: "bool with string payload", doc: `{"BOOL":"yes"}`, kind: KindUnrecognized, want: `{"BOOL":"yes"}`},
		{desc: "empty object", doc: `{}`, kind: KindUnrecognized, want: `{}`},
		{desc: "array", doc: `[1,"a",{"S":"x"}]`, kind: KindUnrecognized, want: `[1,"a",{"S":"x"}]`},
		{desc: "map envelope", doc: `{"M":{"zone":{"S":"A"},"facility":{"S":"F1"}}}`, kind: KindMap, want: `{"M":{"zone":{"S":"A"},"facility":{"S":"F1"}}}`},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			v := decodeValue1(t, tc.doc)
			assert.Equal(t, tc.kind, v.Kind())
			assert.NotPanics(t, func() { Unwrap(v) })
			assert.Equal(t, tc.want, Unwrap(v))
		})
	}
}

func TestEnvelopeConstructors(t *testing.T) {
	assert.Equal(t, "x", Unwrap(String("x")))
	assert.Equal(t, "1.5", Unwrap(Number("1.5")))
	assert.Equal(t, "true", Unwrap(Bool(true)))

	inner := NewRecord(Field{Name: "facility", Value: String("F1")})
	m := Map(inner)
	assert.Equal(t, KindMap, m.Kind())
	got, ok := m.Nested()
	require.True(t, ok)
	assert.Same(t, inner, got)
	assert.Equal(t, `{"M":{"facility":{"S":"F1"}}}`, Unwrap(m))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "map", KindMap.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
