package telemetry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldNames(r *Record) []string {
	var names []string
	for _, f := range r.Fields() {
		names = append(names, f.Name)
	}
	return names
}

func TestParseRecordKeepsKeyOrder(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"zeta":1,"alpha":{"S":"a"},"mid":null,"alpha":{"S":"b"}}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, fieldNames(rec))
	v, ok := rec.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "b", Unwrap(v))

	out, err := rec.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"zeta":1,"alpha":{"S":"b"},"mid":null}`, string(out))
	assert.Equal(t, `{"zeta":1,"alpha":{"S":"b"},"mid":null}`, string(out))
}

func TestParseRecordRejectsNonObject(t *testing.T) {
	_, err := ParseRecord([]byte(`[1,2]`))
	assert.Error(t, err)

	_, err = ParseRecord([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)
}

func TestParseList(t *testing.T) {
	cases := []struct {
		desc    string
		doc     string
		count   int
		skipped int
		err     error
		invalid bool
	}{
		{desc: "array of objects", doc: `[{"a":1},{"b":{"S":"x"}}]`, count: 2},
		{desc: "empty array", doc: `[]`, count: 0},
		{desc: "out of range number kept", doc: `[{"deviceId":{"S":"d1"},"raw":1e400},{"b":-1e400}]`, count: 2},
		{desc: "non-object elements skipped", doc: `[{"a":1},5,"x",[1],null]`, count: 1, skipped: 4},
		{desc: "object instead of array", doc: `{"items":[]}`, err: ErrNotList},
		{desc: "scalar instead of array", doc: `"nope"`, err: ErrNotList},
		{desc: "malformed", doc: `[{"a":1}`, invalid: true},
		{desc: "garbage", doc: `<html>`, invalid: true},
		{desc: "trailing data", doc: `[] []`, invalid: true},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			records, skipped, err := ParseList([]byte(tc.doc))
			switch {
			case tc.err != nil:
				assert.ErrorIs(t, err, tc.err)
			case tc.invalid:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrNotList)
			default:
				require.NoError(t, err)
				assert.Len(t, records, tc.count)
				assert.Equal(t, tc.skipped, skipped)
			}
		})
	}
}

func TestRecordNilSafe(t *testing.T) {
	var r *Record
	_, ok := r.Get("a")
	assert.False(t, ok)
	assert.Zero(t, r.Len())
	assert.Nil(t, r.Fields())
}

func TestParseListOutOfRangeNumber(t *testing.T) {
	records, skipped, err := ParseList([]byte(`[{"deviceId":{"S":"d1"},"raw":1e400,"low":-1e400}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Zero(t, skipped)

	raw, ok := records[0].Get("raw")
	require.True(t, ok)
	assert.True(t, math.IsInf(Unwrap(raw).(float64), 1))
	low, _ := records[0].Get("low")
	assert.True(t, math.IsInf(Unwrap(low).(float64), -1))

	out, err := records[0].MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"deviceId":{"S":"d1"},"raw":null,"low":null}`, string(out))
}
