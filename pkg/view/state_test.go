package view

import (
	"context"
	"errors"
	"testing"

	"github.com/nimdanitro/sensorview/pkg/sensorapi"
	"github.com/nimdanitro/sensorview/pkg/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStateTransitions(t *testing.T) {
	s := State{}
	assert.Equal(t, PhaseEmpty, s.Phase())

	s = s.FetchSucceeded(flats(23), []string{"a", "a"})
	assert.Equal(t, PhaseLoaded, s.Phase())
	assert.Empty(t, s.Err)
	assert.Len(t, s.Devices, 2)

	s = s.NextPage().NextPage()
	assert.Equal(t, 2, s.Page)

	s = s.FetchFailed(&sensorapi.HTTPError{Endpoint: "Readings", StatusCode: 500, Body: "boom"})
	assert.Equal(t, PhaseError, s.Phase())
	assert.NotNil(t, s.Records)
	assert.Empty(t, s.Records)
	assert.NotNil(t, s.Devices)
	assert.Empty(t, s.Devices)
	assert.Contains(t, s.Err, "500")
	assert.Contains(t, s.Err, "boom")

	s = s.FetchStarted()
	assert.Equal(t, State{}, s)
	assert.Equal(t, PhaseEmpty, s.Phase())
}

func TestStateSuccessWithNoRecordsIsEmpty(t *testing.T) {
	s := State{}.FetchSucceeded(nil, nil)

	assert.Equal(t, PhaseEmpty, s.Phase())
	assert.Empty(t, s.Err)
	visible, hasPrev, hasNext := s.Window()
	assert.Empty(t, visible)
	assert.False(t, hasPrev)
	assert.False(t, hasNext)
	assert.Nil(t, s.Columns())
}

func TestStatePagination(t *testing.T) {
	s := State{}.FetchSucceeded(flats(23), nil)

	visible, hasPrev, hasNext := s.Window()
	require.Len(t, visible, 10)
	assert.False(t, hasPrev)
	assert.True(t, hasNext)

	s = s.NextPage().NextPage()
	visible, hasPrev, hasNext = s.Window()
	require.Len(t, visible, 3)
	id, _ := visible[0].Get("deviceId")
	assert.Equal(t, "d20", id)
	assert.True(t, hasPrev)
	assert.False(t, hasNext)

	assert.Equal(t, 2, s.NextPage().Page, "next on the last page is a no-op")
	assert.Equal(t, 0, s.PrevPage().PrevPage().PrevPage().Page)
	assert.Equal(t, 3, s.PageCount())
}

func TestStateKeepsPageWhenRecordsShrink(t *testing.T) {
	s := State{}.FetchSucceeded(flats(23), nil).NextPage().NextPage()
	s = s.FetchSucceeded(flats(4), nil)

	assert.Equal(t, 2, s.Page)
	visible, hasPrev, hasNext := s.Window()
	assert.Empty(t, visible)
	assert.True(t, hasPrev)
	assert.False(t, hasNext)
}

func TestApply(t *testing.T) {
	res := &sensorapi.Result{
		Readings: readings(t, 2),
		Devices:  devices(t, "d0", "d0", "d1"),
	}

	s := State{}.Apply(res, nil, telemetry.SchemaTagged)
	require.Len(t, s.Records, 2)
	assert.Equal(t, []string{"deviceId", "temperature", "zone"}, s.Columns())
	assert.Equal(t, []string{"d0", "d0", "d1"}, s.Devices)

	s = State{}.Apply(res, nil, telemetry.SchemaFlat)
	assert.Equal(t, []string{"deviceId", "temperature", "location"}, s.Columns())

	s = s.Apply(nil, &sensorapi.AuthError{}, telemetry.SchemaTagged)
	assert.Equal(t, "No ID token found", s.Err)
	assert.Empty(t, s.Records)
}

func TestLoad(t *testing.T) {
	log := zaptest.NewLogger(t)

	f := &fakeFetcher{res: &sensorapi.Result{Readings: readings(t, 12)}}
	s := Load(context.Background(), f, telemetry.SchemaTagged, log)
	assert.Equal(t, PhaseLoaded, s.Phase())
	assert.Len(t, s.Records, 12)
	assert.Empty(t, s.Devices)

	f = &fakeFetcher{err: errors.New("socket exploded")}
	s = Load(context.Background(), f, telemetry.SchemaTagged, log)
	assert.Equal(t, PhaseError, s.Phase())
	assert.Equal(t, UnknownErrorMessage, s.Err)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "empty", PhaseEmpty.String())
	assert.Equal(t, "error", PhaseError.String())
	assert.Equal(t, "loaded", PhaseLoaded.String())
}
