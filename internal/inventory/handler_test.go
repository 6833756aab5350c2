package inventory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type fakeScanQueue struct {
	calls int
	err   error
}

func (q *fakeScanQueue) EnqueueLowStockScan(_ context.Context) error {
	q.calls++
	return q.err
}

func newTestRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/", h.MountRoutes)
	return r
}

func TestAlertScanEnqueuesThroughQueue(t *testing.T) {
	repo := newFakeRepo()
	queue := &fakeScanQueue{}
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(repo), queue)

	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/alerts/scan", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, 1, queue.calls)
	require.Contains(t, rec.Body.String(), `"queued":true`)
}

func TestAlertScanRunsInlineWithoutQueue(t *testing.T) {
	repo := newFakeRepo()
	repo.lowRows = []Alert{{ProductID: 3, CurrentStock: 1, MinStock: 5}}
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(repo), nil)

	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/alerts/scan", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"alertsCreated":1`)
	require.Len(t, repo.alerts, 1)
}

func TestAlertScanReportsQueueFailure(t *testing.T) {
	queue := &fakeScanQueue{err: errors.New("redis down")}
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(newFakeRepo()), queue)

	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/alerts/scan", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
