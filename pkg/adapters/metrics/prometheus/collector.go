package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine states exported as the blockqueue_turn_state gauge
var states = []string{"idle", "in_turn", "awaiting_action"}

// Collector implements MetricsCollector using Prometheus
type Collector struct {
	placements     *prometheus.CounterVec
	dispatches     prometheus.Counter
	dispatchSlots  *prometheus.CounterVec
	actions        *prometheus.CounterVec
	actionDuration prometheus.Histogram
	rollbacks      *prometheus.CounterVec
	events         *prometheus.CounterVec
	stalls         prometheus.Counter
	queueDepth     prometheus.Gauge
	gridOccupancy  prometheus.Gauge
	turnState      *prometheus.GaugeVec
}

// NewCollector creates a collector registered on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		placements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blockqueue_placements_total",
				Help: "Total number of placement attempts by result",
			},
			[]string{"result"},
		),
		dispatches: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "blockqueue_dispatches_total",
				Help: "Total number of bottom rows dispatched into the execution row",
			},
		),
		dispatchSlots: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blockqueue_dispatch_slots_total",
				Help: "Dispatched slots by occupancy",
			},
			[]string{"slot"},
		),
		actions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blockqueue_actions_total",
				Help: "Total number of triggered actions by kind",
			},
			[]string{"kind"},
		),
		actionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "blockqueue_action_duration_seconds",
				Help:    "Time between TriggerAction and ActionEnd",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
		),
		rollbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blockqueue_rollbacks_total",
				Help: "Total number of GameFailed rollbacks",
			},
			[]string{"restored"},
		),
		events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blockqueue_events_total",
				Help: "Total number of bus raises by channel",
			},
			[]string{"channel"},
		),
		stalls: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "blockqueue_action_stalls_total",
				Help: "Actions still awaiting ActionEnd past the watchdog timeout",
			},
		),
		queueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "blockqueue_execution_row_depth",
				Help: "Slots left in the execution row",
			},
		),
		gridOccupancy: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "blockqueue_grid_occupied_cells",
				Help: "Occupied grid cells",
			},
		),
		turnState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "blockqueue_turn_state",
				Help: "1 for the current turn orchestrator state",
			},
			[]string{"state"},
		),
	}
}

// RecordPlacement records a placement attempt
func (c *Collector) RecordPlacement(result string) {
	c.placements.WithLabelValues(result).Inc()
}

// RecordDispatch records a dispatched bottom row
func (c *Collector) RecordDispatch(tokens, empty int) {
	c.dispatches.Inc()
	c.dispatchSlots.WithLabelValues("token").Add(float64(tokens))
	c.dispatchSlots.WithLabelValues("empty").Add(float64(empty))
}

// RecordAction records a triggered action
func (c *Collector) RecordAction(kind string) {
	c.actions.WithLabelValues(kind).Inc()
}

// ObserveActionDuration records the round trip of one action
func (c *Collector) ObserveActionDuration(duration time.Duration) {
	c.actionDuration.Observe(duration.Seconds())
}

// RecordRollback records a GameFailed rollback
func (c *Collector) RecordRollback(restored bool) {
	label := "false"
	if restored {
		label = "true"
	}
	c.rollbacks.WithLabelValues(label).Inc()
}

// RecordEvent records a raise on a bus channel
func (c *Collector) RecordEvent(eventType string) {
	c.events.WithLabelValues(eventType).Inc()
}

// RecordStall records an action exceeding the watchdog timeout
func (c *Collector) RecordStall() {
	c.stalls.Inc()
}

// SetQueueDepth sets the execution row depth
func (c *Collector) SetQueueDepth(depth int) {
	c.queueDepth.Set(float64(depth))
}

// SetGridOccupancy sets the number of occupied cells
func (c *Collector) SetGridOccupancy(cells int) {
	c.gridOccupancy.Set(float64(cells))
}

// SetState marks state as the current orchestrator state
func (c *Collector) SetState(state string) {
	for _, s := range states {
		v := 0.0
		if s == state {
			v = 1
		}
		c.turnState.WithLabelValues(s).Set(v)
	}
}
