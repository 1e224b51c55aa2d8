package simulator

import (
	"math"
	"time"
)

// RealtimePoint is a synthetic whole-home consumption sample with the
// legacy flat per-category breakdown.
type RealtimePoint struct {
	Time         string  `json:"time"`
	Consumption  float64 `json:"consumption"`
	HVAC         float64 `json:"hvac"`
	Lighting     float64 `json:"lighting"`
	Appliances   float64 `json:"appliances"`
	WaterHeating float64 `json:"waterHeating"`
	Other        float64 `json:"other"`
}

// RealtimeSample derives a smooth, demo-friendly breakdown from the
// wall clock. Consecutive samples drift sinusoidally rather than
// jumping around.
func RealtimeSample(now time.Time) RealtimePoint {
	i := float64(now.UnixMilli())
	return RealtimePoint{
		Time:         now.Format("15:04"),
		Consumption:  5 + math.Sin(i*0.0001)*2,
		HVAC:         3 + math.Cos(i*0.0001)*1.5,
		Lighting:     2 + math.Sin(i*0.00008),
		Appliances:   3 + math.Cos(i*0.00009),
		WaterHeating: 1.5 + math.Sin(i*0.00011)*0.5,
		Other:        0.5 + math.Cos(i*0.00007)*0.3,
	}
}
