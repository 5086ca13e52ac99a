package transport

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func visitRouter(h *VisitHandler) chi.Router {
	return newRouter(func(r chi.Router) {
		h.RegisterRoutes(r, passthrough, passthrough)
	})
}

func TestVisitHandler_IncrementAndGet(t *testing.T) {
	visits := newFakeVisits()
	router := visitRouter(NewVisitHandler(visits, zap.NewNop()))

	w, env := serve(t, router, http.MethodGet, "/api/visits/landing", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `0`, string(env.Data))

	serve(t, router, http.MethodPost, "/api/visits/landing", "")
	w, env = serve(t, router, http.MethodPost, "/api/visits/landing", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `2`, string(env.Data))

	w, env = serve(t, router, http.MethodGet, "/api/admin/visits", "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)
}

func TestVisitHandler_InvalidPageType(t *testing.T) {
	router := visitRouter(NewVisitHandler(newFakeVisits(), zap.NewNop()))

	w, env := serve(t, router, http.MethodPost, "/api/visits/Landing", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	w, _ = serve(t, router, http.MethodGet, "/api/admin/visits/Not%20Valid/stream", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// readEvent returns the next "event:" name and its data line
func readEvent(t *testing.T, reader *bufio.Reader) (string, string) {
	t.Helper()
	var event, data string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && event != "":
			return event, data
		}
	}
}

func TestVisitHandler_StreamPushesChanges(t *testing.T) {
	visits := newFakeVisits()
	visits.counts["about"] = 41

	srv := httptest.NewServer(visitRouter(NewVisitHandler(visits, zap.NewNop())))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/admin/visits/about/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	reader := bufio.NewReader(resp.Body)

	event, data := readEvent(t, reader)
	assert.Equal(t, "connected", event)
	assert.Contains(t, data, `"visit_count":41`)
	assert.Equal(t, 1, visits.subscribers("about"))

	visits.Increment(context.Background(), "about")
	visits.Increment(context.Background(), "landing")

	event, data = readEvent(t, reader)
	assert.Equal(t, "visit", event)
	assert.Contains(t, data, `"page_type":"about"`)
	assert.Contains(t, data, `"visit_count":42`)

	cancel()
	select {
	case pageType := <-visits.unsubbed:
		assert.Equal(t, "about", pageType)
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not unsubscribe after the client went away")
	}
}

func TestVisitHandler_StreamHeartbeat(t *testing.T) {
	h := NewVisitHandler(newFakeVisits(), zap.NewNop())
	h.heartbeat = 10 * time.Millisecond

	srv := httptest.NewServer(visitRouter(h))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/admin/visits/contact/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	event, _ := readEvent(t, reader)
	require.Equal(t, "connected", event)

	event, data := readEvent(t, reader)
	assert.Equal(t, "heartbeat", event)
	assert.Contains(t, data, "timestamp")
}

func TestVisitHandler_StreamReportsFailedRead(t *testing.T) {
	visits := newFakeVisits()
	visits.getErr = errors.New("database unavailable")
	core, logs := observer.New(zapcore.WarnLevel)

	srv := httptest.NewServer(visitRouter(NewVisitHandler(visits, zap.New(core))))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/admin/visits/about/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	event, data := readEvent(t, reader)
	assert.Equal(t, "error", event)
	assert.Contains(t, data, "database unavailable")

	entries := logs.FilterMessage("Failed to read visit count for stream").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "about", entries[0].ContextMap()["page_type"])

	visits.Increment(context.Background(), "about")
	event, data = readEvent(t, reader)
	assert.Equal(t, "visit", event)
	assert.Contains(t, data, `"visit_count":1`)
}
