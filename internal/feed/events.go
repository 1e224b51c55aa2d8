package feed

import "encoding/json"

// Server to client event names, one logical "energy" namespace.
const (
	EventDashboardData  = "dashboardData"
	EventEnergyData     = "energyData"
	EventHistoricalData = "historicalData"
	EventError          = "error"
)

// Client to server request names.
const (
	RequestDashboardData  = "getDashboardData"
	RequestHistoricalData = "getHistoricalData"
)

// Envelope is the wire framing for every feed message.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// ErrorPayload is the body of an error event.
type ErrorPayload struct {
	Message string `json:"message"`
}

// request is an inbound client message before dispatch.
type request struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}
