// Package monitoring exposes a running engine over HTTP.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"

	"kinematics-sim/internal/simulation"

	"github.com/gorilla/mux"
)

// Engine is the part of simulation.Engine the monitor reads and controls.
type Engine interface {
	Stats() simulation.Stats
	States() []simulation.EntityState
	Stop()
}

// Monitor serves engine stats and a stop control.
type Monitor struct {
	engine Engine
	logger *log.Logger
}

// NewMonitor creates a monitor for engine. A nil logger uses log.Default().
func NewMonitor(engine Engine, logger *log.Logger) *Monitor {
	if logger == nil {
		logger = log.Default()
	}
	return &Monitor{engine: engine, logger: logger}
}

type statsResponse struct {
	EngineTime float64 `json:"engine_time"`
	RealTime   float64 `json:"real_time"`
	FPS        float64 `json:"fps"`
	Ticks      int     `json:"ticks"`
	Running    bool    `json:"running"`
}

type entityResponse struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Handler returns the monitor routes.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/stats", m.stats).Methods(http.MethodGet)
	r.HandleFunc("/api/entities", m.listEntities).Methods(http.MethodGet)
	r.HandleFunc("/api/entity/{id}", m.entity).Methods(http.MethodGet)
	r.HandleFunc("/api/stop", m.stop).Methods(http.MethodPost)
	return r
}

// StartServer listens on addr and serves in the background. It returns the
// bound address, useful when addr asks for port 0.
func (m *Monitor) StartServer(addr string) (net.Addr, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	m.logger.Printf("Monitoring simulation with http://%s/api/stats", listener.Addr())

	go func() {
		if err := http.Serve(listener, m.Handler()); err != nil {
			m.logger.Printf("monitor server stopped: %v", err)
		}
	}()
	return listener.Addr(), nil
}

func (m *Monitor) stats(w http.ResponseWriter, _ *http.Request) {
	s := m.engine.Stats()
	m.writeJSON(w, statsResponse{
		EngineTime: s.VirtualRuntime.Seconds(),
		RealTime:   s.RealRuntime.Seconds(),
		FPS:        s.FPS,
		Ticks:      s.Ticks,
		Running:    s.Running,
	})
}

func (m *Monitor) listEntities(w http.ResponseWriter, _ *http.Request) {
	states := m.engine.States()
	rsp := make([]entityResponse, 0, len(states))
	for _, e := range states {
		rsp = append(rsp, toEntityResponse(e))
	}
	m.writeJSON(w, rsp)
}

func (m *Monitor) entity(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	for _, e := range m.engine.States() {
		if e.ID == id {
			m.writeJSON(w, toEntityResponse(e))
			return
		}
	}
	http.Error(w, fmt.Sprintf("entity %s not found", id), http.StatusNotFound)
}

func (m *Monitor) stop(w http.ResponseWriter, _ *http.Request) {
	m.engine.Stop()
	w.WriteHeader(http.StatusNoContent)
}

func toEntityResponse(e simulation.EntityState) entityResponse {
	return entityResponse{ID: e.ID, X: e.Position.X, Y: e.Position.Y}
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	if err != nil {
		m.logger.Printf("monitor: encoding response: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(bytes); err != nil {
		m.logger.Printf("monitor: writing response: %v", err)
	}
}
