package monitoring

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kinematics-sim/internal/common"
	"kinematics-sim/internal/simulation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	stats   simulation.Stats
	states  []simulation.EntityState
	stopped int
}

func (e *fakeEngine) Stats() simulation.Stats            { return e.stats }
func (e *fakeEngine) States() []simulation.EntityState { return e.states }
func (e *fakeEngine) Stop()                             { e.stopped++ }

func newTestServer(t *testing.T) (*fakeEngine, *httptest.Server) {
	t.Helper()
	engine := &fakeEngine{
		stats: simulation.Stats{
			VirtualRuntime: 2500 * time.Millisecond,
			RealRuntime:    3 * time.Second,
			FPS:            60,
			Ticks:          25,
			Running:        true,
		},
		states: []simulation.EntityState{
			{ID: "rect-a", Position: common.NewVec2(1, 2)},
			{ID: "rect-b", Position: common.NewVec2(3, 4)},
		},
	}
	srv := httptest.NewServer(NewMonitor(engine, log.New(io.Discard, "", 0)).Handler())
	t.Cleanup(srv.Close)
	return engine, srv
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	rsp, err := http.Get(url)
	require.NoError(t, err)
	defer rsp.Body.Close()
	if rsp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(rsp.Body).Decode(v))
	}
	return rsp.StatusCode
}

func TestStatsEndpoint(t *testing.T) {
	_, srv := newTestServer(t)

	var got statsResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/stats", &got))
	assert.Equal(t, statsResponse{EngineTime: 2.5, RealTime: 3, FPS: 60, Ticks: 25, Running: true}, got)
}

func TestEntitiesEndpoint(t *testing.T) {
	_, srv := newTestServer(t)

	var list []entityResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/entities", &list))
	assert.Equal(t, []entityResponse{{ID: "rect-a", X: 1, Y: 2}, {ID: "rect-b", X: 3, Y: 4}}, list)

	var one entityResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/entity/rect-b", &one))
	assert.Equal(t, entityResponse{ID: "rect-b", X: 3, Y: 4}, one)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/entity/nope", &one))
}

func TestStopEndpoint(t *testing.T) {
	engine, srv := newTestServer(t)

	rsp, err := http.Post(srv.URL+"/api/stop", "application/json", nil)
	require.NoError(t, err)
	rsp.Body.Close()
	assert.Equal(t, http.StatusNoContent, rsp.StatusCode)
	assert.Equal(t, 1, engine.stopped)

	rsp, err = http.Get(srv.URL + "/api/stop")
	require.NoError(t, err)
	rsp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, rsp.StatusCode)
}

func TestStartServer(t *testing.T) {
	engine := &fakeEngine{}
	addr, err := NewMonitor(engine, log.New(io.Discard, "", 0)).StartServer("127.0.0.1:0")
	require.NoError(t, err)

	var got statsResponse
	assert.Equal(t, http.StatusOK, getJSON(t, "http://"+addr.String()+"/api/stats", &got))
}
