package view

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/nimdanitro/sensorview/pkg/sensorapi"
	"github.com/nimdanitro/sensorview/pkg/telemetry"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu   sync.Mutex
	res  *sensorapi.Result
	err  error
	ctxs []context.Context
}

func (f *fakeFetcher) Fetch(ctx context.Context) (*sensorapi.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxs = append(f.ctxs, ctx)
	return f.res, f.err
}

func readings(t *testing.T, n int) []*telemetry.Record {
	t.Helper()
	out := make([]*telemetry.Record, 0, n)
	for i := 0; i < n; i++ {
		r, err := telemetry.ParseRecord([]byte(fmt.Sprintf(
			`{"deviceId":{"S":"d%d"},"temperature":{"N":"%d.5"},"location":{"M":{"zone":{"S":"Z%d"}}}}`, i, 20+i, i%3)))
		require.NoError(t, err)
		out = append(out, r)
	}
	return out
}

func devices(t *testing.T, ids ...string) []*telemetry.Record {
	t.Helper()
	out := make([]*telemetry.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, telemetry.NewRecord(telemetry.Field{Name: "deviceId", Value: telemetry.String(id)}))
	}
	return out
}

func flats(n int) []*telemetry.Flat {
	out := make([]*telemetry.Flat, n)
	for i := range out {
		f := telemetry.NewFlat()
		f.Set("deviceId", fmt.Sprintf("d%d", i))
		out[i] = f
	}
	return out
}
