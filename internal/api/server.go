// Package api exposes the run lifecycle over HTTP: start a request, watch
// its progress, and answer approval checkpoints.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/example/jobhunt-orchestrator/internal/checkpoint"
	"github.com/example/jobhunt-orchestrator/internal/models"
	"github.com/example/jobhunt-orchestrator/internal/orchestrator"
)

// maxUploadBytes bounds an uploaded resume file.
const maxUploadBytes = 10 << 20

type Server struct {
	Scheduler *orchestrator.Scheduler
	Store     checkpoint.Store
	Hub       *orchestrator.Hub

	// Fs and UploadDir receive multipart resume uploads. A nil Fs means the
	// OS filesystem.
	Fs        afero.Fs
	UploadDir string
}

// runResponse is the common reply for /api/process and /api/approve: the run
// either finished, suspended for a decision, or failed.
type runResponse struct {
	ThreadID        string                  `json:"thread_id"`
	Status          string                  `json:"status"`
	Result          *models.RunResult       `json:"result,omitempty"`
	PendingApproval *models.PendingApproval `json:"pending_approval,omitempty"`
	Error           string                  `json:"error,omitempty"`
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/process", s.handleProcess)
	mux.HandleFunc("/api/status/", s.handleStatus)
	mux.HandleFunc("/api/approve/", s.handleApprove)
	mux.HandleFunc("/api/runs", s.handleRuns)
	mux.HandleFunc("/api/events/", s.handleEvents)
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		ThreadID   string `json:"thread_id"`
		Request    string `json:"request"`
		ResumePath string `json:"resume_path"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.ThreadID = r.FormValue("thread_id")
		req.Request = r.FormValue("request")
		if file, header, err := r.FormFile("resume"); err == nil {
			defer file.Close()
			path, err := s.saveUpload(header.Filename, file)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			req.ResumePath = path
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Request == "" {
		http.Error(w, "request is required", http.StatusBadRequest)
		return
	}

	res, pending, err := s.Scheduler.Start(r.Context(), orchestrator.StartRequest{
		ThreadID:   req.ThreadID,
		Request:    req.Request,
		ResumePath: req.ResumePath,
	})
	s.respondRun(w, req.ThreadID, res, pending, err)
}

// saveUpload writes an uploaded resume where docparse can reach it later,
// keyed by arrival time so concurrent uploads never collide on name.
func (s *Server) saveUpload(filename string, file io.Reader) (string, error) {
	fs := s.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	dir := s.UploadDir
	if dir == "" {
		dir = "data/uploads"
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(filename)))
	if err := afero.WriteReader(fs, path, io.LimitReader(file, maxUploadBytes)); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path, nil
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	threadID := r.URL.Path[len("/api/approve/"):]
	if threadID == "" {
		http.Error(w, "thread id is required", http.StatusBadRequest)
		return
	}
	var d models.Decision
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, pending, err := s.Scheduler.Resume(r.Context(), threadID, d)
	s.respondRun(w, threadID, res, pending, err)
}

func (s *Server) respondRun(w http.ResponseWriter, threadID string, res *models.RunResult, pending *models.PendingApproval, err error) {
	switch {
	case err != nil:
		log.Printf("api: run %s: %v", threadID, err)
		w.WriteHeader(errorStatus(err))
		respondJSON(w, runResponse{ThreadID: threadID, Status: string(models.StatusFailed), Error: err.Error()})
	case pending != nil:
		respondJSON(w, runResponse{ThreadID: pending.ThreadID, Status: string(models.StatusSuspended), PendingApproval: pending})
	default:
		respondJSON(w, runResponse{ThreadID: res.ThreadID, Status: string(models.StatusDone), Result: res})
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	threadID := r.URL.Path[len("/api/status/"):]
	st, err := s.Store.Load(r.Context(), threadID)
	if err != nil {
		if errors.Is(err, checkpoint.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, runSummary(st))
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ids, err := s.Store.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	runs := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		st, err := s.Store.Load(r.Context(), id)
		if err != nil {
			continue
		}
		runs = append(runs, runSummary(st))
	}
	respondJSON(w, map[string]any{"runs": runs})
}

// handleEvents streams run progress as server-sent events until the client
// disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	threadID := r.URL.Path[len("/api/events/"):]
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, unsubscribe := s.Hub.Subscribe(threadID)
	defer unsubscribe()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
	}
}

func runSummary(st *models.RunState) map[string]any {
	return map[string]any{
		"thread_id":        st.ThreadID,
		"request":          st.Request,
		"status":           st.Status,
		"next_task":        st.NextTask,
		"completed_tasks":  st.CompletedTasks,
		"pending_approval": st.PendingApproval,
		"started_at":       st.StartedAt,
	}
}

// errorStatus maps error categories onto HTTP codes: protocol misuse is the
// caller's fault, a timeout is the gateway's, everything else is ours.
func errorStatus(err error) int {
	switch models.CategoryOf(err) {
	case models.CategoryApprovalProtocol:
		if errors.Is(err, models.ErrRunNotFound) {
			return http.StatusNotFound
		}
		return http.StatusConflict
	case models.CategoryTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
