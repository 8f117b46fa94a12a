package net

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/mdns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(data)
}

func TestPreviewPushesLatestAndUpdates(t *testing.T) {
	p := NewPreview()
	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	p.Publish([]byte("<svg>a</svg>"))
	conn := dial(t, srv)
	assert.Equal(t, "<svg>a</svg>", read(t, conn), "latest render is sent on connect")
	require.Eventually(t, func() bool { return p.Peers() == 1 }, time.Second, 10*time.Millisecond)

	p.Publish([]byte("<svg>b</svg>"))
	assert.Equal(t, "<svg>b</svg>", read(t, conn))

	second := dial(t, srv)
	assert.Equal(t, "<svg>b</svg>", read(t, second))
	require.Eventually(t, func() bool { return p.Peers() == 2 }, time.Second, 10*time.Millisecond)
}

func TestPreviewDropsClosedPeers(t *testing.T) {
	p := NewPreview()
	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return p.Peers() == 1 }, time.Second, 10*time.Millisecond)
	conn.Close()
	require.Eventually(t, func() bool { return p.Peers() == 0 }, 2*time.Second, 10*time.Millisecond)
	p.Publish([]byte("<svg/>"))
	assert.Zero(t, p.Peers())
}

func TestPreviewHTTP(t *testing.T) {
	p := NewPreview()
	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/board.svg")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	p.Publish([]byte("<svg>c</svg>"))
	resp, err = http.Get(srv.URL + "/board.svg")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Equal(t, "<svg>c</svg>", string(body))

	resp, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "new WebSocket")

	resp, err = http.Get(srv.URL + "/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServeStopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewPreview().Serve(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServiceFromEntry(t *testing.T) {
	s, ok := serviceFromEntry(&mdns.ServiceEntry{
		Name:       "studio._kuficraft._tcp.local.",
		AddrV4:     net.IPv4(192, 168, 1, 20),
		Port:       8765,
		InfoFields: []string{"name=basmala", "id=abc", "junk"},
	})
	require.True(t, ok)
	assert.Equal(t, "studio", s.Instance)
	assert.Equal(t, "192.168.1.20:8765", s.Addr)
	assert.Equal(t, "basmala", s.Name)
	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, "http://192.168.1.20:8765/", s.URL())

	_, ok = serviceFromEntry(&mdns.ServiceEntry{Name: "x", Port: 1})
	assert.False(t, ok)
}

func TestShareURL(t *testing.T) {
	assert.Equal(t, "http://10.0.0.2:8765/", ShareURL("10.0.0.2", 8765))
	assert.NotEmpty(t, OutgoingIP())
}
