package simulator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// PayloadFunc produces the type-specific part of a sensor payload.
type PayloadFunc func(rng *rand.Rand, now time.Time) map[string]any

// PayloadRegistry maps device type to its payload generator. New device
// types plug in through Register without touching the tick loop.
type PayloadRegistry struct {
	generators map[string]PayloadFunc
	// errorModeProbability is the chance the common operatingMode field
	// reads "error" instead of "normal".
	errorModeProbability float64
}

// NewPayloadRegistry returns a registry pre-loaded with the full
// catalog of device types.
func NewPayloadRegistry() *PayloadRegistry {
	r := &PayloadRegistry{
		generators:           make(map[string]PayloadFunc),
		errorModeProbability: 0.1,
	}
	r.Register("smart-bulb", smartBulbPayload)
	r.Register("smart-plug", smartPlugPayload)
	r.Register("ceiling-fan", ceilingFanPayload)
	r.Register("air-purifier", airPurifierPayload)
	r.Register("humidifier", humidifierPayload)
	r.Register("camera", cameraPayload)
	r.Register("door-lock", doorLockPayload)
	r.Register("sensor", sensorPayload)
	r.Register("vacuum", vacuumPayload)
	r.Register("washing-machine", washingMachinePayload)
	r.Register("refrigerator", refrigeratorPayload)
	return r
}

// Register installs a generator for a device type, replacing any
// previous one. The type match is case-insensitive.
func (r *PayloadRegistry) Register(deviceType string, fn PayloadFunc) {
	r.generators[strings.ToLower(deviceType)] = fn
}

// Generate returns the sensor payload for one device of the given
// type. Unknown types get a minimal default payload. Every payload
// carries the common subset: timestamp, signalStrength 0-4, lastUpdate,
// operatingMode and networkLatency.
func (r *PayloadRegistry) Generate(deviceType string, rng *rand.Rand, now time.Time) map[string]any {
	var payload map[string]any
	if fn, ok := r.generators[strings.ToLower(deviceType)]; ok {
		payload = fn(rng, now)
	} else {
		payload = map[string]any{
			"powerState":  rng.Float64() > 0.2,
			"lastReading": now,
		}
	}

	mode := "normal"
	if rng.Float64() < r.errorModeProbability {
		mode = "error"
	}
	payload["timestamp"] = now
	payload["signalStrength"] = rng.Intn(5)
	payload["lastUpdate"] = now
	payload["operatingMode"] = mode
	payload["networkLatency"] = rng.Intn(100)
	return payload
}

func smartBulbPayload(rng *rand.Rand, _ time.Time) map[string]any {
	return map[string]any{
		"brightness":       rng.Intn(100),
		"color":            fmt.Sprintf("#%06x", rng.Intn(0xffffff+1)),
		"colorTemperature": 2700 + rng.Intn(3800),
		"powerState":       rng.Float64() > 0.2,
		"lumens":           600 + rng.Intn(400),
	}
}

func smartPlugPayload(rng *rand.Rand, _ time.Time) map[string]any {
	return map[string]any{
		"powerState":  rng.Float64() > 0.3,
		"voltage":     220 + (rng.Float64()*10 - 5),
		"current":     rng.Float64() * 10,
		"powerFactor": 0.85 + rng.Float64()*0.15,
		"frequency":   49.5 + rng.Float64(),
	}
}

func ceilingFanPayload(rng *rand.Rand, _ time.Time) map[string]any {
	direction := "forward"
	if rng.Float64() > 0.5 {
		direction = "reverse"
	}
	return map[string]any{
		"speed":       rng.Intn(5) + 1,
		"direction":   direction,
		"temperature": 20 + rng.Float64()*10,
		"humidity":    30 + rng.Float64()*40,
		"oscillation": rng.Float64() > 0.5,
		"lightState":  rng.Float64() > 0.3,
	}
}

func airPurifierPayload(rng *rand.Rand, _ time.Time) map[string]any {
	modes := []string{"auto", "sleep", "turbo"}
	qualities := []string{"good", "moderate", "poor"}
	return map[string]any{
		"mode":        modes[rng.Intn(len(modes))],
		"temperature": 20 + rng.Float64()*10,
		"humidity":    30 + rng.Float64()*40,
		"pm25":        rng.Intn(500),
		"filterLife":  rng.Intn(100),
		"fanSpeed":    rng.Intn(100),
		"airQuality":  qualities[rng.Intn(len(qualities))],
	}
}

func humidifierPayload(rng *rand.Rand, _ time.Time) map[string]any {
	modes := []string{"auto", "sleep", "manual"}
	return map[string]any{
		"waterLevel":      rng.Intn(100),
		"targetHumidity":  45 + rng.Intn(30),
		"currentHumidity": 30 + rng.Float64()*40,
		"mode":            modes[rng.Intn(len(modes))],
		"mistLevel":       rng.Intn(3) + 1,
		"filterStatus":    rng.Intn(100),
	}
}

func cameraPayload(rng *rand.Rand, _ time.Time) map[string]any {
	resolutions := []string{"720p", "1080p", "2K", "4K"}
	return map[string]any{
		"recordingStatus":  rng.Float64() > 0.7,
		"motionDetected":   rng.Float64() > 0.8,
		"batteryLevel":     rng.Intn(100),
		"storageRemaining": rng.Intn(100),
		"resolution":       resolutions[rng.Intn(len(resolutions))],
		"nightMode":        rng.Float64() > 0.5,
		"soundLevel":       rng.Intn(100),
	}
}

func doorLockPayload(rng *rand.Rand, now time.Time) map[string]any {
	doorState := "closed"
	if rng.Float64() <= 0.3 {
		doorState = "open"
	}
	return map[string]any{
		"lockState":     rng.Float64() > 0.2,
		"batteryLevel":  rng.Intn(100),
		"lastAccess":    now.Add(-time.Duration(rng.Float64() * float64(24*time.Hour))),
		"tamperAlert":   rng.Float64() > 0.95,
		"wrongAttempts": rng.Intn(5),
		"doorState":     doorState,
	}
}

func sensorPayload(rng *rand.Rand, now time.Time) map[string]any {
	state := "normal"
	if rng.Float64() > 0.8 {
		state = "triggered"
	}
	return map[string]any{
		"temperature":   20 + rng.Float64()*10,
		"humidity":      30 + rng.Float64()*40,
		"batteryLevel":  rng.Intn(100),
		"lastTriggered": now.Add(-time.Duration(rng.Float64() * float64(time.Hour))),
		"state":         state,
	}
}

func vacuumPayload(rng *rand.Rand, _ time.Time) map[string]any {
	statuses := []string{"cleaning", "charging", "returning", "idle"}
	speeds := []string{"eco", "normal", "turbo"}
	errorStatus := "normal"
	if rng.Float64() > 0.95 {
		errors := []string{"stuck", "wheel_error", "brush_error"}
		errorStatus = errors[rng.Intn(len(errors))]
	}
	return map[string]any{
		"status":       statuses[rng.Intn(len(statuses))],
		"batteryLevel": rng.Intn(100),
		"binFull":      rng.Float64() > 0.7,
		"cleaningArea": rng.Intn(100),
		"cleaningTime": rng.Intn(120),
		"errorStatus":  errorStatus,
		"fanSpeed":     speeds[rng.Intn(len(speeds))],
	}
}

func washingMachinePayload(rng *rand.Rand, _ time.Time) map[string]any {
	statuses := []string{"standby", "washing", "spinning", "drying", "complete"}
	programs := []string{"cotton", "synthetic", "wool", "quick"}
	temperatures := []int{20, 30, 40, 60, 90}
	spinSpeeds := []int{400, 800, 1000, 1200, 1400}
	return map[string]any{
		"status":        statuses[rng.Intn(len(statuses))],
		"program":       programs[rng.Intn(len(programs))],
		"temperature":   temperatures[rng.Intn(len(temperatures))],
		"spinSpeed":     spinSpeeds[rng.Intn(len(spinSpeeds))],
		"remainingTime": rng.Intn(120),
		"doorLocked":    rng.Float64() > 0.2,
		"waterLevel":    rng.Intn(100),
	}
}

func refrigeratorPayload(rng *rand.Rand, _ time.Time) map[string]any {
	return map[string]any{
		"fridgeTemp":       2 + rng.Float64()*4,
		"freezerTemp":      -18 + rng.Float64()*4,
		"doorOpenCount":    rng.Intn(10),
		"humidity":         30 + rng.Float64()*20,
		"filterStatus":     rng.Intn(100),
		"doorOpen":         rng.Float64() > 0.9,
		"compressorStatus": rng.Float64() > 0.7,
		"defrostCycle":     rng.Float64() > 0.9,
	}
}
