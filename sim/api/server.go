// Package api exposes the simulation engine over HTTP for external dispatch
// algorithms and the visualizer: read-only state snapshots, queued command
// submission, and traffic-round control.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/liftsim/liftsim/sim"
)

// HandlerTimeout bounds how long a handler may wait on the engine before
// reporting service-unavailable. A stalled tick loop must never turn a
// command submission into a silent hang.
const HandlerTimeout = 5 * time.Second

// Server translates engine state and commands across the process boundary.
type Server struct {
	engine *sim.Engine
	http   *http.Server
}

// NewServer wires the API routes around an engine. addr is host:port.
func NewServer(engine *sim.Engine, addr string) *Server {
	s := &Server{engine: engine}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/command", s.handleCommand)
	mux.HandleFunc("/api/traffic/next", s.handleTrafficNext)
	mux.HandleFunc("/api/health", s.handleHealth)
	s.http = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  HandlerTimeout,
		WriteTimeout: HandlerTimeout,
	}
	return s
}

// ListenAndServe blocks serving HTTP until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	logrus.Infof("API server listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Handler exposes the route table, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("encode response: %v", err)
	}
}

// handleState serves the snapshot of the most recently completed tick.
// Before tick 0 completes it answers 503 so launchers can poll readiness.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "GET only"})
		return
	}
	snap := s.engine.Snapshot()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: sim.ErrEngineUnavailable.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// commandRequest is the POST /api/command body.
type commandRequest struct {
	Commands []sim.Command `json:"commands"`
}

// commandVerdict is one command's acceptance result.
type commandVerdict struct {
	ID       string `json:"id"`
	Elevator int    `json:"elevator"`
	Accepted bool   `json:"accepted"`
	Error    string `json:"error,omitempty"`
}

// commandResponse reports per-command verdicts and the tick the accepted
// commands will be applied after.
type commandResponse struct {
	Results []commandVerdict `json:"results"`
	Tick    int64            `json:"tick"`
}

// handleCommand validates and queues dispatch commands. Accepted commands
// apply at the next tick boundary. Responds 200 when every command was
// accepted, 400 when any was rejected; the body carries per-command verdicts
// either way. Submission is bounded by HandlerTimeout: a stalled engine
// yields 503 rather than a hang.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "POST only"})
		return
	}
	var req commandRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error: fmt.Sprintf("%v: %v", sim.ErrMalformedCommand, err),
		})
		return
	}
	if len(req.Commands) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error: fmt.Sprintf("%v: empty command list", sim.ErrMalformedCommand),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), HandlerTimeout)
	defer cancel()
	results, err := s.submit(ctx, req.Commands)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: sim.ErrEngineUnavailable.Error()})
		return
	}

	resp := commandResponse{Tick: s.engineTick()}
	status := http.StatusOK
	for _, res := range results {
		verdict := commandVerdict{
			ID:       uuid.NewString(),
			Elevator: res.Command.Elevator,
			Accepted: res.Accepted,
		}
		if res.Err != nil {
			verdict.Error = res.Err.Error()
			status = http.StatusBadRequest
			if errors.Is(res.Err, sim.ErrEngineUnavailable) {
				status = http.StatusServiceUnavailable
			}
		}
		resp.Results = append(resp.Results, verdict)
	}
	writeJSON(w, status, resp)
}

// submit runs the engine submission off the handler goroutine so a stalled
// tick loop surfaces as a timeout instead of blocking the client forever.
func (s *Server) submit(ctx context.Context, cmds []sim.Command) ([]sim.CommandResult, error) {
	done := make(chan []sim.CommandResult, 1)
	go func() {
		done <- s.engine.SubmitCommands(cmds)
	}()
	select {
	case results := <-done:
		return results, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Server) engineTick() int64 {
	if snap := s.engine.Snapshot(); snap != nil {
		return snap.Tick
	}
	return 0
}

// trafficNextRequest is the POST /api/traffic/next body.
type trafficNextRequest struct {
	FullReset bool `json:"full_reset"`
}

// handleTrafficNext advances the engine to the next traffic round.
func (s *Server) handleTrafficNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "POST only"})
		return
	}
	var req trafficNextRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
	}
	name, err := s.engine.NextScenario(req.FullReset)
	if err != nil {
		if errors.Is(err, sim.ErrEngineUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": name})
}

// handleHealth is a cheap liveness probe for launchers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.engine.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "starting"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "tick": s.engineTick()})
}
