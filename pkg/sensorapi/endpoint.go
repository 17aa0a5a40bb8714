package sensorapi

import "github.com/nimdanitro/sensorview/pkg/telemetry"

type Endpoint struct {
	Name string
	Path string
}

var (
	Readings = Endpoint{Name: "Readings", Path: "sensor-readings"}
	Sensors  = Endpoint{Name: "Sensors", Path: "sensors"}
)

// Result holds the raw records of one successful fetch. Devices is nil when
// the registry was not requested.
type Result struct {
	Readings []*telemetry.Record
	Devices  []*telemetry.Record
}
