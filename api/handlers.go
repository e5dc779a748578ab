package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arrowslasharrow/tasm/sim"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		debugLog("error encoding json: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

func readJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1024*1024))
	return decoder.Decode(v)
}

func toSnapshotResponse(snap sim.Snapshot) SnapshotResponse {
	resp := SnapshotResponse{
		Tick:          snap.Tick,
		State:         snap.State.String(),
		MemoryStart:   snap.MemoryStart,
		MemorySize:    snap.MemorySize,
		MemoryIsFloat: snap.MemoryIsFloat,
		MemoryMode:    snap.MemoryMode.String(),
		PtrPos:        snap.PtrPos,
		MemRegValue:   snap.MemRegValue,
		BreakpointHit: snap.BreakpointHit,
	}
	for _, dv := range snap.Displayed {
		resp.Displayed = append(resp.Displayed, DisplayedResponse{
			Label: dv.Label, IsTimer: dv.IsTimer, Int: dv.Int, Float: dv.Float,
		})
	}
	for _, ag := range snap.ActiveGroups {
		resp.ActiveGroups = append(resp.ActiveGroups, ActiveGroupResponse{
			Group: ag.Group, Ident: ag.Ident, Idx: ag.Idx, Wait: ag.Wait,
		})
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.sessions.Count(),
		"time":     time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": s.sessions.ListSessions()})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, diagErrors, err := s.sessions.CreateSession(req, s.config)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, SessionCreateResponse{Errors: diagErrors})
		return
	}

	writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
	})
}

// handleSessionRoute handles /api/v1/session/{id}[/action].
func (s *Server) handleSessionRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/session/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "session id required")
		return
	}
	sessionID := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetSnapshot(w, r, sessionID)
		case http.MethodDelete:
			s.handleDestroySession(w, r, sessionID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch parts[1] {
	case "run":
		s.handleRun(w, r, sessionID)
	case "step":
		s.handleStep(w, r, sessionID)
	case "snapshot":
		s.handleGetSnapshot(w, r, sessionID)
	case "memory":
		s.handleGetMemory(w, r, sessionID)
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown action: %s", parts[1]))
	}
}

func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.sessions.DestroySession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotResponse(session.Sim.Snapshot()))
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	session.mu.Lock()
	stepErr := session.Sim.Step()
	snap := session.Sim.Snapshot()
	session.mu.Unlock()

	if stepErr != nil {
		writeError(w, http.StatusUnprocessableEntity, stepErr.Error())
		return
	}
	s.broadcaster.BroadcastSnapshot(sessionID, toSnapshotResponse(snap))
	if snap.BreakpointHit {
		s.broadcaster.BroadcastExecutionEvent(sessionID, "breakpoint_hit", nil)
	}
	writeJSON(w, http.StatusOK, toSnapshotResponse(snap))
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req RunRequest
	if r.Body != nil {
		_ = readJSON(r, &req)
	}

	session.mu.Lock()
	runErr := session.Sim.Run(req.MaxTicks)
	snap := session.Sim.Snapshot()
	session.mu.Unlock()

	if runErr != nil {
		writeError(w, http.StatusUnprocessableEntity, runErr.Error())
		return
	}
	s.broadcaster.BroadcastSnapshot(sessionID, toSnapshotResponse(snap))
	if snap.State == sim.StateHalted {
		s.broadcaster.BroadcastExecutionEvent(sessionID, "halted", nil)
	}
	writeJSON(w, http.StatusOK, toSnapshotResponse(snap))
}

func (s *Server) handleGetMemory(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	session.mu.Lock()
	snap := session.Sim.Snapshot()
	start, count := int32(0), snap.MemorySize
	if startParam := r.URL.Query().Get("start"); startParam != "" {
		if v, perr := strconv.ParseInt(startParam, 10, 32); perr == nil {
			start = int32(v)
		}
	}
	if countParam := r.URL.Query().Get("count"); countParam != "" {
		if v, perr := strconv.ParseInt(countParam, 10, 32); perr == nil {
			count = int32(v)
		}
	}
	if start+count > snap.MemorySize {
		count = snap.MemorySize - start
	}

	cells := make([]float64, 0, count)
	for i := int32(0); i < count; i++ {
		cells = append(cells, session.Sim.MemoryCell(start+i))
	}
	session.mu.Unlock()

	writeJSON(w, http.StatusOK, MemoryCellsResponse{Start: start, Cells: cells})
}
