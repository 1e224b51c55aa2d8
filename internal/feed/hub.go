package feed

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/InsiderP/smart-energy/internal/aggregation"
	"github.com/InsiderP/smart-energy/internal/energy"
	"github.com/InsiderP/smart-energy/internal/observability/metrics"
)

// DashboardSource answers the queries subscribers may request.
type DashboardSource interface {
	DashboardSnapshot(ctx context.Context, now time.Time) (*energy.Snapshot, error)
	HistoricalConsumption(ctx context.Context, start, end time.Time) ([]energy.HistoryBucket, error)
}

// Hub fans live readings out to connected subscribers and answers
// their snapshot and historical requests. It is constructed once at
// service start and passed in explicitly; there is no global instance.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	source  DashboardSource
	logger  *log.Logger
}

// NewHub constructs a Hub.
func NewHub(source DashboardSource, logger *log.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		source:  source,
		logger:  logger,
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	metrics.ClientConnected()
	if h.logger != nil {
		h.logger.Printf("client connected: id=%s total=%d", c.id, total)
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, present := h.clients[c]
	var total int
	if present {
		delete(h.clients, c)
		close(c.send)
		total = len(h.clients)
	}
	h.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	if !present {
		return
	}
	metrics.ClientDisconnected()
	if h.logger != nil {
		h.logger.Printf("client disconnected: id=%s total=%d", c.id, total)
	}
}

// PublishReading pushes one reading to every currently connected
// subscriber, at-most-once. Implements simulator.ReadingSink. The
// fan-out holds the hub lock so a concurrent unregister cannot close a
// send channel mid-loop; enqueue never blocks, so the critical section
// stays short.
func (h *Hub) PublishReading(reading energy.Reading) {
	payload, err := json.Marshal(Envelope{Event: EventEnergyData, Data: reading})
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("broadcast marshal error: device=%s err=%v", reading.DeviceID, err)
		}
		return
	}

	h.mu.Lock()
	for c := range h.clients {
		c.enqueue(payload)
	}
	h.mu.Unlock()
	metrics.BroadcastSent()
}

// pushSnapshot sends a dashboard snapshot to one subscriber only. A
// failure becomes an error event for that subscriber and touches no
// one else.
func (h *Hub) pushSnapshot(ctx context.Context, c *Client) {
	snapshot, err := h.source.DashboardSnapshot(ctx, time.Now().UTC())
	if err != nil {
		metrics.PushError()
		if h.logger != nil {
			h.logger.Printf("dashboard push error: client=%s err=%v", c.id, err)
		}
		c.sendError("Failed to fetch dashboard data")
		return
	}
	c.sendEnvelope(EventDashboardData, snapshot)
}

// pushHistorical sends one calendar day's buckets to one subscriber.
func (h *Hub) pushHistorical(ctx context.Context, c *Client, rawDate string) {
	date, err := parseClientDate(rawDate)
	if err != nil {
		metrics.PushError()
		if h.logger != nil {
			h.logger.Printf("historical push error: client=%s date=%q err=%v", c.id, rawDate, err)
		}
		c.sendError("Failed to fetch historical data")
		return
	}

	start, end := aggregation.DayBounds(date)
	buckets, err := h.source.HistoricalConsumption(ctx, start, end)
	if err != nil {
		metrics.PushError()
		if h.logger != nil {
			h.logger.Printf("historical push error: client=%s err=%v", c.id, err)
		}
		c.sendError("Failed to fetch historical data")
		return
	}
	c.sendEnvelope(EventHistoricalData, buckets)
}

// handleRequest dispatches one inbound subscriber frame. Unknown
// events are ignored; malformed frames earn an error event. Requests
// run under the subscriber's connection context, so a query against
// storage is cancelled when the subscriber disconnects.
func (h *Hub) handleRequest(c *Client, payload []byte) {
	var req request
	if err := json.Unmarshal(payload, &req); err != nil {
		c.sendError("Malformed request")
		return
	}

	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	switch req.Event {
	case RequestDashboardData:
		h.pushSnapshot(ctx, c)
	case RequestHistoricalData:
		var rawDate string
		if err := json.Unmarshal(req.Data, &rawDate); err != nil {
			c.sendError("Failed to fetch historical data")
			return
		}
		h.pushHistorical(ctx, c, rawDate)
	}
}

// parseClientDate accepts a full RFC 3339 timestamp or a bare
// YYYY-MM-DD day.
func parseClientDate(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	ts, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, energy.NewValidationError("invalid date %q", raw)
	}
	return ts, nil
}
