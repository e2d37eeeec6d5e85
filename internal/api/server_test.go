package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jobhunt-orchestrator/internal/checkpoint"
	"github.com/example/jobhunt-orchestrator/internal/models"
	"github.com/example/jobhunt-orchestrator/internal/orchestrator"
	"github.com/example/jobhunt-orchestrator/internal/task"
)

// approvalPlanner suspends for plan approval once, then installs a plan with
// no specialist steps so the run completes immediately.
type approvalPlanner struct{}

func (approvalPlanner) Name() string { return orchestrator.PlannerTask }

func (approvalPlanner) Run(_ context.Context, st *models.RunState) (task.Outcome, error) {
	patch := models.Patch{
		Plan:            &models.ExecutionPlan{PrimaryGoal: "test goal", ExecutionOrder: []string{}},
		AppendCompleted: []string{orchestrator.PlannerTask},
	}
	if st.Completed(orchestrator.PlannerTask) {
		return task.Patched(patch), nil
	}
	return task.Suspended(models.PendingApproval{
		Kind:    models.ApprovalKindPlan,
		Summary: "run nothing?",
	}, &patch), nil
}

func newTestServer(t *testing.T) (*Server, *http.ServeMux, checkpoint.Store) {
	t.Helper()
	reg := task.NewRegistry()
	reg.Register(approvalPlanner{})
	store := checkpoint.NewMemoryStore()
	hub := orchestrator.NewHub()
	srv := &Server{
		Scheduler: orchestrator.New(reg, store, orchestrator.Options{Hub: hub}),
		Store:     store,
		Hub:       hub,
		Fs:        afero.NewMemMapFs(),
		UploadDir: "uploads",
	}
	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	return srv, mux, store
}

func TestHealth(t *testing.T) {
	_, mux, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestProcessSuspendsThenApproveCompletes(t *testing.T) {
	_, mux, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/process",
		strings.NewReader(`{"thread_id":"t-1","request":"do something"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var got runResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "t-1", got.ThreadID)
	assert.Equal(t, string(models.StatusSuspended), got.Status)
	require.NotNil(t, got.PendingApproval)
	assert.Equal(t, models.ApprovalKindPlan, got.PendingApproval.Kind)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/approve/t-1",
		strings.NewReader(`{"approved":true}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	got = runResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, string(models.StatusDone), got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "t-1", got.Result.ThreadID)
}

func TestProcessMultipartUploadStoresResume(t *testing.T) {
	srv, mux, store := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("thread_id", "t-up"))
	require.NoError(t, mw.WriteField("request", "analyze my resume"))
	part, err := mw.CreateFormFile("resume", "resume.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Jane Doe\nBackend Engineer"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/process", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	st, err := store.Load(context.Background(), "t-up")
	require.NoError(t, err)
	require.NotEmpty(t, st.ResumePath)
	assert.True(t, strings.HasPrefix(st.ResumePath, "uploads/"))

	saved, err := afero.ReadFile(srv.Fs, st.ResumePath)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nBackend Engineer", string(saved))
}

func TestProcessRequiresRequestText(t *testing.T) {
	_, mux, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/process",
		strings.NewReader(`{"thread_id":"t-1"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApproveUnknownThread(t *testing.T) {
	_, mux, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/approve/nope",
		strings.NewReader(`{"approved":true}`)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApproveNotSuspended(t *testing.T) {
	_, mux, store := newTestServer(t)
	st := models.NewRunState("t-done", "req", "", time.Now())
	st.Status = models.StatusDone
	require.NoError(t, store.Save(context.Background(), "t-done", st))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/approve/t-done",
		strings.NewReader(`{"approved":true}`)))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	_, mux, store := newTestServer(t)
	st := models.NewRunState("t-1", "find jobs", "", time.Now())
	st.Status = models.StatusRunning
	st.CompletedTasks = []string{"planner"}
	require.NoError(t, store.Save(context.Background(), "t-1", st))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status/t-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "t-1", got["thread_id"])
	assert.Equal(t, string(models.StatusRunning), got["status"])
}

func TestStatusMissing(t *testing.T) {
	_, mux, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunsEndpoint(t *testing.T) {
	_, mux, store := newTestServer(t)
	for _, id := range []string{"a", "b"} {
		require.NoError(t, store.Save(context.Background(), id,
			models.NewRunState(id, "req", "", time.Now())))
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Runs []map[string]any `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Runs, 2)
}

func TestEventsStream(t *testing.T) {
	srv, mux, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events/t-1", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		mux.ServeHTTP(rec, req)
		close(done)
	}()

	// Give the handler a moment to subscribe before publishing.
	time.Sleep(50 * time.Millisecond)
	srv.Hub.Publish("t-1", orchestrator.Event{Event: "run_status", ThreadID: "t-1"})
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"event":"run_status"`)
}
