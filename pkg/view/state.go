package view

import (
	"context"

	"github.com/nimdanitro/sensorview/pkg/sensorapi"
	"github.com/nimdanitro/sensorview/pkg/telemetry"
	"go.uber.org/zap"
)

type Phase int

const (
	// PhaseEmpty covers both loading and a fetch that returned no readings.
	PhaseEmpty Phase = iota
	PhaseError
	PhaseLoaded
)

func (p Phase) String() string {
	switch p {
	case PhaseError:
		return "error"
	case PhaseLoaded:
		return "loaded"
	default:
		return "empty"
	}
}

// State is what the view renders. Transitions return a new value and never
// modify the receiver's slices.
type State struct {
	Records []*telemetry.Flat
	Devices []string
	Err     string
	Page    int
}

// FetchStarted is the baseline a full reload starts from.
func (s State) FetchStarted() State {
	return State{}
}

// FetchSucceeded replaces records and devices together and clears the error.
// The page index is kept; Window copes with an index past the end.
func (s State) FetchSucceeded(records []*telemetry.Flat, devices []string) State {
	if records == nil {
		records = []*telemetry.Flat{}
	}
	if devices == nil {
		devices = []string{}
	}
	return State{Records: records, Devices: devices, Page: s.Page}
}

// FetchFailed clears records and devices and stores the failure message.
func (s State) FetchFailed(err error) State {
	return State{
		Records: []*telemetry.Flat{},
		Devices: []string{},
		Err:     Message(err),
		Page:    s.Page,
	}
}

func (s State) NextPage() State {
	s.Page = telemetry.NextPage(s.Page, len(s.Records), telemetry.PageSize)
	return s
}

func (s State) PrevPage() State {
	s.Page = telemetry.PrevPage(s.Page)
	return s
}

func (s State) Phase() Phase {
	switch {
	case s.Err != "":
		return PhaseError
	case len(s.Records) > 0:
		return PhaseLoaded
	default:
		return PhaseEmpty
	}
}

// Window returns the visible records and the navigation flags.
func (s State) Window() (visible []*telemetry.Flat, hasPrev, hasNext bool) {
	return telemetry.Window(s.Records, s.Page, telemetry.PageSize)
}

func (s State) PageCount() int {
	return telemetry.PageCount(len(s.Records), telemetry.PageSize)
}

// Columns are the keys of the first record, which fix the table header.
func (s State) Columns() []string {
	if len(s.Records) == 0 {
		return nil
	}
	return s.Records[0].Keys()
}

// Apply reduces the outcome of one fetch into s.
func (s State) Apply(res *sensorapi.Result, err error, schema telemetry.Schema) State {
	if err != nil {
		return s.FetchFailed(err)
	}
	if res == nil {
		return s.FetchSucceeded(nil, nil)
	}
	return s.FetchSucceeded(schema.FlattenAll(res.Readings), telemetry.DeviceIDs(res.Devices))
}

// Load runs a single fetch from the empty baseline.
func Load(ctx context.Context, f sensorapi.Fetcher, schema telemetry.Schema, log *zap.Logger) State {
	res, err := f.Fetch(ctx)
	if err != nil {
		log.Error("failed to fetch sensor data", zap.Error(err))
	}
	s := State{}.FetchStarted().Apply(res, err, schema)
	log.Info("fetched sensor data",
		zap.Stringer("phase", s.Phase()),
		zap.Int("readings", len(s.Records)),
		zap.Int("devices", len(s.Devices)),
	)
	return s
}
