package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	roomsCreatedCounter      prometheus.Counter
	handsDealtCounter        prometheus.Counter
	actionsAppliedCounter    prometheus.Counter
	actionsRejectedCounter   prometheus.Counter
	activeRoomsMapCountGauge prometheus.Gauge
}

func (m *metrics) RoomCreated() {
	m.roomsCreatedCounter.Inc()
}

func (m *metrics) HandDealt() {
	m.handsDealtCounter.Inc()
}

func (m *metrics) ActionApplied() {
	m.actionsAppliedCounter.Inc()
}

func (m *metrics) ActionRejected() {
	m.actionsRejectedCounter.Inc()
}

func (m *metrics) SetActiveRoomsMapCount(count int) {
	m.activeRoomsMapCountGauge.Set(float64(count))
}

var Metrics = &metrics{
	roomsCreatedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "rooms_created_total",
		Help: "Total number of rooms created",
	}),
	handsDealtCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hands_dealt_total",
		Help: "Total number of hands dealt",
	}),
	actionsAppliedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "actions_applied_total",
		Help: "Total number of player actions applied",
	}),
	actionsRejectedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "actions_rejected_total",
		Help: "Total number of player actions rejected",
	}),
	activeRoomsMapCountGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_rooms_map_entries_count",
		Help: "Count of the entries in the room manager activeRooms map",
	}),
}
