package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/InsiderP/smart-energy/internal/energy"
)

// ErrUnknownDeviceType is returned by Generate for a type string
// outside the supported catalog set.
var ErrUnknownDeviceType = errors.New("catalog: unknown device type")

// descriptorFunc builds a device descriptor for one type. Specs are
// static tables, so descriptors are deterministic given (id, location).
type descriptorFunc func(id, location string) energy.Device

// descriptors maps device type to its builder. Adding a device type
// means adding one entry here, nothing else.
var descriptors = map[string]descriptorFunc{
	"smart-bulb":      smartBulb,
	"smart-plug":      smartPlug,
	"ceiling-fan":     ceilingFan,
	"air-purifier":    airPurifier,
	"humidifier":      humidifier,
	"camera":          camera,
	"door-lock":       doorLock,
	"sensor":          motionSensor,
	"vacuum":          vacuum,
	"washing-machine": washingMachine,
	"refrigerator":    refrigerator,
}

// Generate returns the descriptor for a supported device type. The
// type match is case-insensitive.
func Generate(deviceType, id, location string) (energy.Device, error) {
	build, ok := descriptors[strings.ToLower(deviceType)]
	if !ok {
		return energy.Device{}, fmt.Errorf("%w: %q", ErrUnknownDeviceType, deviceType)
	}
	return build(id, location), nil
}

// SupportedTypes lists the catalog's device types.
func SupportedTypes() []string {
	types := make([]string, 0, len(descriptors))
	for t := range descriptors {
		types = append(types, t)
	}
	return types
}

func named(location, base string) string {
	if location == "" {
		return base
	}
	return location + " " + base
}

func smartBulb(id, location string) energy.Device {
	return energy.Device{
		DeviceID:   "BULB" + id,
		DeviceName: named(location, "Smart Bulb"),
		DeviceType: "smart-bulb",
		IsActive:   true,
		Specifications: map[string]any{
			"maxWattage":       9,
			"color":            true,
			"brightness":       true,
			"colorTemperature": "2700K-6500K",
			"lumens":           800,
			"lifespan":         "25000h",
			"wireless":         "WiFi/BLE",
		},
	}
}

func smartPlug(id, location string) energy.Device {
	return energy.Device{
		DeviceID:   "PLUG" + id,
		DeviceName: named(location, "Smart Plug"),
		DeviceType: "smart-plug",
		IsActive:   true,
		Specifications: map[string]any{
			"maxLoad":       "2000W",
			"voltage":       "220V",
			"current":       "10A",
			"powerMetering": true,
			"surge":         true,
			"wireless":      "WiFi",
		},
	}
}

func ceilingFan(id, location string) energy.Device {
	return energy.Device{
		DeviceID:   "FAN" + id,
		DeviceName: named(location, "Ceiling Fan"),
		DeviceType: "ceiling-fan",
		IsActive:   true,
		Specifications: map[string]any{
			"speeds":        5,
			"hasBluetooth":  true,
			"remoteControl": true,
			"reversible":    true,
			"bladeSize":     "52inch",
			"lightKit":      true,
			"wireless":      "WiFi/BLE",
		},
	}
}

func airPurifier(id, location string) energy.Device {
	return energy.Device{
		DeviceID:   "PURIFIER" + id,
		DeviceName: named(location, "Air Purifier"),
		DeviceType: "air-purifier",
		IsActive:   true,
		Specifications: map[string]any{
			"coverage":   "400sqft",
			"filterType": "HEPA",
			"pm25Sensor": true,
			"cadr":       300,
			"noiseLevel": "25-52dB",
			"modes":      []string{"auto", "sleep", "turbo"},
			"wireless":   "WiFi",
		},
	}
}

func humidifier(id, location string) energy.Device {
	return energy.Device{
		DeviceID:   "HUMID" + id,
		DeviceName: named(location, "Humidifier"),
		DeviceType: "humidifier",
		IsActive:   true,
		Specifications: map[string]any{
			"capacity": "4L",
			"autoMode": true,
			"mist":     "ultrasonic",
			"coverage": "400sqft",
			"runtime":  "40h",
			"modes":    []string{"auto", "sleep", "max"},
			"wireless": "WiFi",
		},
	}
}

func camera(id, location string) energy.Device {
	return energy.Device{
		DeviceID:   "CAM" + id,
		DeviceName: named(location, "Camera"),
		DeviceType: "camera",
		IsActive:   true,
		Specifications: map[string]any{
			"resolution":      "2K",
			"nightVision":     true,
			"motionDetection": true,
			"storage":         "128GB",
			"audio":           "two-way",
			"fov":             "130°",
			"wireless":        "WiFi",
		},
	}
}

func doorLock(id, location string) energy.Device {
	return energy.Device{
		DeviceID:   "LOCK" + id,
		DeviceName: named(location, "Door Lock"),
		DeviceType: "door-lock",
		IsActive:   true,
		Specifications: map[string]any{
			"fingerprint":   true,
			"pinCode":       true,
			"nfcCard":       true,
			"mechanicalKey": true,
			"battery":       "AA x 4",
			"autoLock":      true,
			"wireless":      "BLE",
		},
	}
}

func motionSensor(id, location string) energy.Device {
	return energy.Device{
		DeviceID:   "SENSOR" + id,
		DeviceName: named(location, "motion Sensor"),
		DeviceType: "sensor",
		IsActive:   true,
		Specifications: map[string]any{
			"type":           "motion",
			"batteryPowered": true,
			"batteryLife":    "2 years",
			"wireless":       "Zigbee",
			"sensitivity":    "adjustable",
			"tamperProof":    true,
		},
	}
}

func vacuum(id, _ string) energy.Device {
	return energy.Device{
		DeviceID:   "VAC" + id,
		DeviceName: "Robot Vacuum",
		DeviceType: "vacuum",
		IsActive:   true,
		Specifications: map[string]any{
			"mapping":         true,
			"batteryCapacity": "5200mAh",
			"suction":         "2500Pa",
			"runtime":         "150min",
			"binCapacity":     "400ml",
			"hepaFilter":      true,
			"wireless":        "WiFi",
		},
	}
}

func washingMachine(id, _ string) energy.Device {
	return energy.Device{
		DeviceID:   "WASH" + id,
		DeviceName: "Smart Washing Machine",
		DeviceType: "washing-machine",
		IsActive:   true,
		Specifications: map[string]any{
			"capacity":      "8kg",
			"programs":      12,
			"energyRating":  "A+++",
			"wifiEnabled":   true,
			"spinSpeed":     "1400rpm",
			"steamFunction": true,
			"wireless":      "WiFi",
		},
	}
}

func refrigerator(id, _ string) energy.Device {
	return energy.Device{
		DeviceID:   "FRIDGE" + id,
		DeviceName: "Smart Refrigerator",
		DeviceType: "refrigerator",
		IsActive:   true,
		Specifications: map[string]any{
			"capacity":           "500L",
			"hasFreezer":         true,
			"inverterCompressor": true,
			"temperatureSensors": true,
			"doorAlarm":          true,
			"icemaker":           true,
			"wireless":           "WiFi",
		},
	}
}
