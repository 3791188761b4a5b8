package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gameplay collectors
type Metrics struct {
	reg prometheus.Registerer

	// moves counts moves by result: accepted, blocked or ignored
	moves *prometheus.CounterVec

	// toggles counts wall toggles by result: toggled or ignored
	toggles *prometheus.CounterVec

	modeSwitches    prometheus.Counter
	bestResets      prometheus.Counter
	sessionsCreated prometheus.Counter
	wins            prometheus.Counter
	newBests        prometheus.Counter

	// winSeconds tracks winning times
	winSeconds prometheus.Histogram
}

// NewMetrics creates and registers the gameplay collectors with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		moves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "maze_moves_total",
			Help: "Total moves by result",
		}, []string{"result"}),
		toggles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "maze_wall_toggles_total",
			Help: "Total wall toggles by result",
		}, []string{"result"}),
		modeSwitches: factory.NewCounter(prometheus.CounterOpts{
			Name: "maze_mode_switches_total",
			Help: "Total switches between playing and editing",
		}),
		bestResets: factory.NewCounter(prometheus.CounterOpts{
			Name: "maze_best_resets_total",
			Help: "Total personal best resets",
		}),
		sessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "maze_sessions_created_total",
			Help: "Total sessions created",
		}),
		wins: factory.NewCounter(prometheus.CounterOpts{
			Name: "maze_wins_total",
			Help: "Total runs that reached the finish",
		}),
		newBests: factory.NewCounter(prometheus.CounterOpts{
			Name: "maze_new_personal_bests_total",
			Help: "Total wins that set a new personal best",
		}),
		winSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "maze_win_seconds",
			Help:    "Winning run time in seconds",
			Buckets: []float64{5, 10, 20, 30, 45, 60, 90, 120, 300, 600},
		}),
	}
}

// trackSessions registers a gauge reporting the live session count
func (m *Metrics) trackSessions(count func() int) {
	promauto.With(m.reg).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "maze_active_sessions",
		Help: "Number of sessions held in memory",
	}, func() float64 {
		return float64(count())
	})
}

// MovesCounter returns the move counter for a result label
func (m *Metrics) MovesCounter(result string) prometheus.Counter {
	return m.moves.WithLabelValues(result)
}
