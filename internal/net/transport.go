package net

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"KufiCraft/internal/logger"
)

const writeWait = 5 * time.Second

// peer is a connected preview page. Writes to one connection are serialized
// by mu.
type peer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *peer) send(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

// Preview serves the board read-only over HTTP and pushes every new render
// to connected pages over a websocket.
type Preview struct {
	upgrader websocket.Upgrader
	peers    map[*peer]bool
	latest   []byte
	mu       sync.RWMutex
	log      *slog.Logger
}

// NewPreview creates an empty preview hub.
func NewPreview() *Preview {
	return &Preview{
		peers: make(map[*peer]bool),
		log:   logger.For("preview"),
	}
}

// Handler returns the HTTP routes of the preview.
func (p *Preview) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", p.page)
	mux.HandleFunc("GET /ws", p.socket)
	mux.HandleFunc("GET /board.svg", p.board)
	return mux
}

// Publish stores svg as the latest render and sends it to every peer. Peers
// that fail to receive it are dropped.
func (p *Preview) Publish(svg []byte) {
	data := append([]byte(nil), svg...)
	p.mu.Lock()
	p.latest = data
	peers := make([]*peer, 0, len(p.peers))
	for pr := range p.peers {
		peers = append(peers, pr)
	}
	p.mu.Unlock()

	for _, pr := range peers {
		if err := pr.send(data); err != nil {
			p.log.Debug("dropping peer", "addr", pr.conn.RemoteAddr().String(), "err", err)
			p.remove(pr)
		}
	}
}

// Peers returns the number of connected pages.
func (p *Preview) Peers() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.peers)
}

// Latest returns the last published render.
func (p *Preview) Latest() []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

func (p *Preview) remove(pr *peer) {
	p.mu.Lock()
	_, ok := p.peers[pr]
	delete(p.peers, pr)
	p.mu.Unlock()
	if ok {
		pr.conn.Close()
		p.log.Info("peer disconnected", "addr", pr.conn.RemoteAddr().String())
	}
}

// Close disconnects every peer.
func (p *Preview) Close() {
	p.mu.Lock()
	peers := p.peers
	p.peers = make(map[*peer]bool)
	p.mu.Unlock()
	for pr := range peers {
		pr.mu.Lock()
		pr.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
		pr.mu.Unlock()
		pr.conn.Close()
	}
}

func (p *Preview) socket(w http.ResponseWriter, r *http.Request) {
	conn, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	pr := &peer{conn: conn}

	// Registration and the first send happen under the peer lock so a
	// concurrent Publish can only follow the initial render.
	pr.mu.Lock()
	p.mu.Lock()
	p.peers[pr] = true
	latest := p.latest
	p.mu.Unlock()
	p.log.Info("peer connected", "addr", conn.RemoteAddr().String())
	if latest != nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		err = conn.WriteMessage(websocket.TextMessage, latest)
	}
	pr.mu.Unlock()
	if err != nil {
		p.remove(pr)
		return
	}

	// The page never talks back; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			p.remove(pr)
			return
		}
	}
}

func (p *Preview) board(w http.ResponseWriter, r *http.Request) {
	latest := p.Latest()
	if latest == nil {
		http.Error(w, "nothing drawn yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(latest)
}

func (p *Preview) page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, pageHTML)
}

// Serve listens on addr until ctx is cancelled.
func (p *Preview) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           p.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		p.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	p.log.Info("preview listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("preview server on %s: %w", addr, err)
	}
	return nil
}

const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>KufiCraft preview</title>
<style>
body { margin: 0; display: flex; align-items: center; justify-content: center; min-height: 100vh; background: #fafafa; }
#board svg { max-width: 95vw; max-height: 95vh; }
</style>
</head>
<body>
<div id="board">Waiting for the board...</div>
<script>
const board = document.getElementById("board");
function connect() {
  const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onmessage = e => { board.innerHTML = e.data; };
  ws.onclose = () => setTimeout(connect, 1000);
}
connect();
</script>
</body>
</html>
`
