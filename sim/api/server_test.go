package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftsim/liftsim/sim"
	"github.com/liftsim/liftsim/sim/traffic"
)

func testEngine(t *testing.T, spec *traffic.Spec) *sim.Engine {
	t.Helper()
	b := sim.Building{
		NumFloors:           5,
		NumElevators:        2,
		FloorTravelTicks:    1,
		DoorTransitionTicks: 1,
		DoorHoldTicks:       2,
		ElevatorCapacity:    8,
	}
	var program *traffic.Program
	if spec != nil {
		var err error
		program, err = traffic.Compile(spec, b.NumFloors, 0)
		require.NoError(t, err)
	}
	engine, err := sim.NewEngine(b, nil, program)
	require.NoError(t, err)
	return engine
}

func testServer(t *testing.T, engine *sim.Engine) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewServer(engine, "127.0.0.1:0").Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, out any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestStateEndpoint(t *testing.T) {
	engine := testEngine(t, nil)
	ts := testServer(t, engine)

	// GIVEN an engine that has not completed tick 0
	// THEN state polls answer 503
	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, ts.URL+"/api/state", nil))

	// WHEN tick 0 completes
	require.NoError(t, engine.Advance())

	// THEN the snapshot is served with the expected shape
	var snap sim.Snapshot
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/state", &snap))
	assert.Equal(t, int64(0), snap.Tick)
	assert.Equal(t, 5, snap.Building.NumFloors)
	require.Len(t, snap.Elevators, 2)
	assert.Equal(t, sim.ElevatorIdle, snap.Elevators[0].State)
	assert.NotNil(t, snap.PendingRequests)
}

func TestStateEndpoint_MethodNotAllowed(t *testing.T) {
	ts := testServer(t, testEngine(t, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, postJSON(t, ts.URL+"/api/state", "{}", nil))
}

func TestCommandEndpoint_AcceptedAndApplied(t *testing.T) {
	// GIVEN a running engine
	engine := testEngine(t, nil)
	require.NoError(t, engine.Advance())
	ts := testServer(t, engine)

	// WHEN a valid command is posted
	var resp struct {
		Results []struct {
			ID       string `json:"id"`
			Elevator int    `json:"elevator"`
			Accepted bool   `json:"accepted"`
			Error    string `json:"error"`
		} `json:"results"`
		Tick int64 `json:"tick"`
	}
	status := postJSON(t, ts.URL+"/api/command",
		`{"commands":[{"elevator":0,"type":"go_to_floor","floor":3}]}`, &resp)

	// THEN it is accepted with a correlation id
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Results[0].Accepted)
	assert.NotEmpty(t, resp.Results[0].ID)
	assert.Empty(t, resp.Results[0].Error)

	// AND it takes effect at the next tick boundary
	require.NoError(t, engine.Advance())
	snap := engine.Snapshot()
	assert.Equal(t, []int{3}, snap.Elevators[0].Destinations)
	assert.True(t, snap.Elevators[0].ExternallyDriven)
}

func TestCommandEndpoint_RejectsFloorEqualToFloorCount(t *testing.T) {
	// GIVEN a 5-floor building (valid floors 0..4)
	engine := testEngine(t, nil)
	require.NoError(t, engine.Advance())
	before, err := json.Marshal(engine.Snapshot().Elevators)
	require.NoError(t, err)
	ts := testServer(t, engine)

	// WHEN a command targets floor 5
	var resp struct {
		Results []struct {
			Accepted bool   `json:"accepted"`
			Error    string `json:"error"`
		} `json:"results"`
	}
	status := postJSON(t, ts.URL+"/api/command",
		`{"commands":[{"elevator":0,"type":"go_to_floor","floor":5}]}`, &resp)

	// THEN it is rejected with the invalid-floor error and nothing changes
	assert.Equal(t, http.StatusBadRequest, status)
	require.Len(t, resp.Results, 1)
	assert.False(t, resp.Results[0].Accepted)
	assert.Contains(t, resp.Results[0].Error, sim.ErrInvalidFloor.Error())

	require.NoError(t, engine.Advance())
	after, err := json.Marshal(engine.Snapshot().Elevators)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestCommandEndpoint_MixedBatchReports400WithAllVerdicts(t *testing.T) {
	engine := testEngine(t, nil)
	require.NoError(t, engine.Advance())
	ts := testServer(t, engine)

	var resp struct {
		Results []struct {
			Elevator int  `json:"elevator"`
			Accepted bool `json:"accepted"`
		} `json:"results"`
	}
	status := postJSON(t, ts.URL+"/api/command",
		`{"commands":[{"elevator":0,"type":"go_to_floor","floor":2},{"elevator":9,"type":"go_to_floor","floor":2}]}`,
		&resp)

	assert.Equal(t, http.StatusBadRequest, status)
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].Accepted)
	assert.False(t, resp.Results[1].Accepted)
}

func TestCommandEndpoint_MalformedBodies(t *testing.T) {
	engine := testEngine(t, nil)
	require.NoError(t, engine.Advance())
	ts := testServer(t, engine)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"commands": [`},
		{"unknown field", `{"commands":[],"mystery":true}`},
		{"empty command list", `{"commands":[]}`},
		{"missing commands key", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, postJSON(t, ts.URL+"/api/command", tt.body, nil))
		})
	}
}

func TestCommandEndpoint_BeforeTickZeroAnswers503(t *testing.T) {
	ts := testServer(t, testEngine(t, nil))
	status := postJSON(t, ts.URL+"/api/command",
		`{"commands":[{"elevator":0,"type":"go_to_floor","floor":2}]}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestTrafficNextEndpoint(t *testing.T) {
	// GIVEN a two-round traffic program
	spec := &traffic.Spec{Scenarios: []traffic.Scenario{
		{Name: "first", MaxTick: 10},
		{Name: "second", MaxTick: 10},
	}}
	engine := testEngine(t, spec)
	require.NoError(t, engine.Advance())
	ts := testServer(t, engine)

	// WHEN the round is advanced
	var resp map[string]any
	assert.Equal(t, http.StatusOK, postJSON(t, ts.URL+"/api/traffic/next", `{"full_reset":true}`, &resp))
	assert.Equal(t, "second", resp["scenario"])

	// THEN a further advance past the last round conflicts
	assert.Equal(t, http.StatusConflict, postJSON(t, ts.URL+"/api/traffic/next", "", nil))
}

func TestHealthEndpoint(t *testing.T) {
	engine := testEngine(t, nil)
	ts := testServer(t, engine)

	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, ts.URL+"/api/health", nil))

	require.NoError(t, engine.Advance())
	var body map[string]any
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/health", &body))
	assert.Equal(t, "ok", body["status"])
}
