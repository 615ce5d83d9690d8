package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/catalog"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/config"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/dashboard"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/kv"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/notify"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/erp"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
}

func newTestServer(t *testing.T) (*Server, *erp.App) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Notifications.AutoRead = false

	app := erp.NewApp(context.Background(), &cfg, kv.NewMemory(), erp.Options{})
	srv := New(app, "test")
	t.Cleanup(func() {
		srv.Close()
		_ = app.Close()
	})
	return srv, app
}

func do(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, env := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	h := decodeData[health](t, env)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "test", h.Version)
}

func TestNotifications_AddAndList(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, env := do(t, srv, http.MethodPost, "/api/notifications", `{"title":"Payment received","message":"Invoice INV-7 was paid","type":"success"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	n := decodeData[notify.Notification](t, env)
	assert.Equal(t, "Payment received", n.Title)
	assert.Equal(t, notify.TypeSuccess, n.Type)
	assert.False(t, n.Read)
	assert.NotEmpty(t, n.ID)

	_, env = do(t, srv, http.MethodPost, "/api/notifications", `{"title":"Heads up","message":"Defaults to info"}`)
	second := decodeData[notify.Notification](t, env)
	assert.Equal(t, notify.TypeInfo, second.Type)

	rec, env = do(t, srv, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeData[notify.State](t, env)
	require.Len(t, st.Notifications, 2)
	assert.Equal(t, second.ID, st.Notifications[0].ID, "newest first")
	assert.Equal(t, 2, st.UnreadCount)
}

func TestNotifications_AddRejectsInvalid(t *testing.T) {
	srv, app := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"message":"m"}`},
		{"bad type", `{"title":"t","message":"m","type":"fatal"}`},
		{"unknown field", `{"title":"t","message":"m","level":"x"}`},
		{"not json", `title=t`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, srv, http.MethodPost, "/api/notifications", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, CodeBadRequest, env.Error.Code)
		})
	}

	assert.Empty(t, app.Notifications.Snapshot().Notifications)
}

func TestNotifications_ReadRemoveClear(t *testing.T) {
	ctx := context.Background()
	srv, app := newTestServer(t)

	a, err := app.Notifications.Add(ctx, notify.Input{Title: "A", Message: "a"})
	require.NoError(t, err)
	b, err := app.Notifications.Add(ctx, notify.Input{Title: "B", Message: "b"})
	require.NoError(t, err)
	_, err = app.Notifications.Add(ctx, notify.Input{Title: "C", Message: "c"})
	require.NoError(t, err)

	rec, env := do(t, srv, http.MethodPost, "/api/notifications/"+a.ID+"/read", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeData[notify.Notification](t, env).Read)
	assert.Equal(t, 2, app.Notifications.UnreadCount())

	rec, _ = do(t, srv, http.MethodPost, "/api/notifications/nope/read", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, env = do(t, srv, http.MethodGet, "/api/notifications?unread=true", "")
	unread := decodeData[notify.State](t, env)
	assert.Len(t, unread.Notifications, 2)
	assert.Equal(t, 2, unread.UnreadCount)

	rec, env = do(t, srv, http.MethodDelete, "/api/notifications/"+b.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[notify.State](t, env).Notifications, 2)

	rec, _ = do(t, srv, http.MethodDelete, "/api/notifications/"+b.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, env = do(t, srv, http.MethodPost, "/api/notifications/read-all", "")
	assert.Equal(t, 0, decodeData[notify.State](t, env).UnreadCount)

	_, env = do(t, srv, http.MethodDelete, "/api/notifications", "")
	cleared := decodeData[notify.State](t, env)
	assert.Empty(t, cleared.Notifications)
	assert.Equal(t, 0, cleared.UnreadCount)
}

func TestNotifications_UnreadQueryValidated(t *testing.T) {
	srv, _ := newTestServer(t)
	rec, _ := do(t, srv, http.MethodGet, "/api/notifications?unread=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvents(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, env := do(t, srv, http.MethodPost, "/api/notifications/events", `{"module":"employees","action":"deleted","entity":"Jane Cooper"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	n := decodeData[notify.Notification](t, env)
	assert.Equal(t, "employees Deleted", n.Title)
	assert.Equal(t, "Jane Cooper has been successfully deleted.", n.Message)
	assert.Equal(t, notify.TypeWarning, n.Type)

	rec, _ = do(t, srv, http.MethodPost, "/api/notifications/events", `{"module":"employees","action":"promoted","entity":"Jane"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, srv, http.MethodPost, "/api/notifications/events", `{"module":"payroll","action":"created","entity":"Run"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFocus(t *testing.T) {
	srv, app := newTestServer(t)

	rec, _ := do(t, srv, http.MethodPut, "/api/focus", `{"focused":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, app.Focus.Foregrounded())

	do(t, srv, http.MethodPut, "/api/focus", `{"focused":false}`)
	assert.False(t, app.Focus.Foregrounded())
}

func TestCatalogEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	_, env := do(t, srv, http.MethodGet, "/api/products?sku=furn-*", "")
	products := decodeData[[]catalog.Product](t, env)
	assert.Len(t, products, 4)

	rec, _ := do(t, srv, http.MethodGet, "/api/products?sku=[", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, env = do(t, srv, http.MethodGet, "/api/orders?q=sarah", "")
	orders := decodeData[[]catalog.Order](t, env)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-2023-002", orders[0].OrderNumber)

	rec, env = do(t, srv, http.MethodGet, "/api/orders/ORD-2023-001/invoice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	inv := decodeData[dashboard.InvoiceDoc](t, env)
	assert.Equal(t, catalog.Money(164995), inv.Total)

	rec, env = do(t, srv, http.MethodGet, "/api/customers/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeNotFound, env.Error.Code)

	_, env = do(t, srv, http.MethodGet, "/api/dashboard", "")
	sum := decodeData[dashboard.Summary](t, env)
	assert.Equal(t, 1, sum.Stock.Low)

	rec, _ = do(t, srv, http.MethodGet, "/api/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInventoryScan(t *testing.T) {
	srv, app := newTestServer(t)

	_, env := do(t, srv, http.MethodPost, "/api/inventory/scan", "")
	assert.Len(t, decodeData[[]notify.Notification](t, env), 1)

	_, env = do(t, srv, http.MethodPost, "/api/inventory/scan", "")
	assert.Empty(t, decodeData[[]notify.Notification](t, env))
	assert.Equal(t, 1, app.Notifications.UnreadCount())
}

func TestWebsocketStreamsSnapshots(t *testing.T) {
	srv, app := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/notifications/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	read := func() Event {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var evt Event
		require.NoError(t, conn.ReadJSON(&evt))
		return evt
	}

	initial := read()
	assert.Equal(t, EventSnapshot, initial.Type)
	assert.Empty(t, initial.Payload.Notifications)

	require.Eventually(t, func() bool { return srv.Hub().Len() == 1 }, time.Second, 10*time.Millisecond)

	_, err = app.Notifications.Add(context.Background(), notify.Input{Title: "Live", Message: "pushed"})
	require.NoError(t, err)

	next := read()
	require.Len(t, next.Payload.Notifications, 1)
	assert.Equal(t, "Live", next.Payload.Notifications[0].Title)
	assert.Equal(t, 1, next.Payload.UnreadCount)
}

func TestMountProfiler(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.MountProfiler()

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHub_ChangeDuringConnectReachesClient(t *testing.T) {
	hub := NewHub(zerolog.Nop(), nil)
	t.Cleanup(hub.Close)

	fresh := notify.State{
		Notifications: []notify.Notification{{ID: "n1", Title: "Raced", Message: "m", Type: notify.TypeInfo}},
		UnreadCount:   1,
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, func() notify.State {
			// The store changed after the client registered but before
			// this snapshot was returned to the hub.
			hub.Broadcast(fresh)
			return notify.State{Notifications: []notify.Notification{}}
		})
	}))
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var evt Event
	require.NoError(t, conn.ReadJSON(&evt))
	require.Len(t, evt.Payload.Notifications, 1)
	assert.Equal(t, "Raced", evt.Payload.Notifications[0].Title)

	// The older snapshot must not follow.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	err = conn.ReadJSON(&evt)
	require.Error(t, err)
	var netErr interface{ Timeout() bool }
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}
