// Package metrics provides Prometheus counters for conditions the rover
// tolerates silently.
package metrics

import (
	"context"
	"net/http"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	fx "github.com/robotalks/rover.go/pkg/framework"
)

var (
	// TicksDropped counts timer ticks dropped on a full mailbox.
	TicksDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rover_timer_ticks_dropped_total",
		Help: "Timer ticks dropped because the consumer mailbox was full.",
	},
		[]string{"timer"},
	)

	// SensorFramesDiscarded counts malformed sensor replies.
	SensorFramesDiscarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rover_sensor_frames_discarded_total",
		Help: "Sensor replies discarded by validation.",
	},
		[]string{"reason"},
	)

	// BusBusy counts requests rejected by a full bus queue.
	BusBusy = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rover_bus_busy_total",
		Help: "Bus requests rejected because the request queue was full.",
	},
		[]string{"consumer"},
	)

	// BusErrors counts failed bus transactions.
	BusErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rover_bus_errors_total",
		Help: "Bus transactions failed by the transport.",
	})

	// MotorErrorCommands counts error commands sent to the motor peripheral.
	MotorErrorCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rover_motor_error_commands_total",
		Help: "Error commands sent to the motor peripheral.",
	},
		[]string{"reason"},
	)

	// MotorCommandsDropped counts commands arriving while a status is pending.
	MotorCommandsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rover_motor_commands_dropped_total",
		Help: "Motor commands dropped while awaiting a status.",
	})

	// WallMatches counts unique wall matches.
	WallMatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rover_nav_wall_matches_total",
		Help: "Traveled distances matched to a unique wall.",
	})

	// Moves counts explore decisions per move.
	Moves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rover_nav_moves_total",
		Help: "Moves decided by exploration.",
	},
		[]string{"move"},
	)

	// NavIgnored counts navigation messages ignored in the current state.
	NavIgnored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rover_nav_ignored_total",
		Help: "Navigation messages ignored in the current state.",
	},
		[]string{"type"},
	)

	// SinkErrors counts failed display renders per sink.
	SinkErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rover_display_sink_errors_total",
		Help: "Display frames a sink failed to render.",
	},
		[]string{"sink"},
	)
)

// Server exposes /metrics over HTTP.
type Server struct {
	Addr string
}

// Name implements framework.Named.
func (s *Server) Name() string {
	return "metrics"
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: s.Addr, Handler: mux}
	glog.Infof("metrics server listening on %s", s.Addr)
	err := fx.RunWithContextCloser(ctx, srv, srv.ListenAndServe)
	if err == http.ErrServerClosed {
		return context.Canceled
	}
	return err
}
