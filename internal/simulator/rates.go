package simulator

import "math/rand"

// baseRates holds the per-type baseline draw in watts. Unknown types
// fall back to defaultBaseRate.
var baseRates = map[string]float64{
	"smart-bulb":      7,
	"smart-plug":      2,
	"ceiling-fan":     75,
	"air-purifier":    40,
	"humidifier":      25,
	"camera":          15,
	"door-lock":       4,
	"sensor":          1,
	"vacuum":          50,
	"washing-machine": 500,
	"refrigerator":    150,
}

const defaultBaseRate = 10

// energyConsumption returns baseRate(type) scaled by uniform(0.8, 1.2).
// The result is always non-negative.
func energyConsumption(deviceType string, rng *rand.Rand) float64 {
	rate, ok := baseRates[deviceType]
	if !ok {
		rate = defaultBaseRate
	}
	return rate * (0.8 + rng.Float64()*0.4)
}
