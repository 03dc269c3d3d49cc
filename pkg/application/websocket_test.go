package application

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastToChannel(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	hub := NewHub(&HubOptions{Logger: log, CheckOrigin: func(*http.Request) bool { return true }})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, r.URL.Query().Get("channel"), nil)
	}))
	defer srv.Close()

	dial := func(channel string) *websocket.Conn {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?channel=" + channel
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		return conn
	}

	a := dial("browser-a")
	defer a.Close()
	b := dial("browser-b")
	defer b.Close()

	require.Eventually(t, func() bool {
		return hub.Count("browser-a") == 1 && hub.Count("browser-b") == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, hub.Broadcast("browser-a", []byte(`{"users":3}`)))

	_ = a.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := a.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":3}`, string(msg))

	_ = b.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = b.ReadMessage()
	require.Error(t, err, "other channels receive nothing")

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return hub.Count("browser-a") == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.Broadcast("browser-a", []byte(`{}`)))
}
