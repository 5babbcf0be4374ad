package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

//go:embed static/*
var staticFiles embed.FS

// RowEvent is broadcast to connected clients as each transform row
// finishes.
type RowEvent struct {
	Index       int     `json:"index"`
	FrequencyHz float64 `json:"frequencyHz"`
	RowsDone    int     `json:"rowsDone"`
	RowsTotal   int     `json:"rowsTotal"`
}

type message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Server streams transform progress over /ws and serves the final PNG
// at /image.png once it is ready.
type Server struct {
	port int
	hub  *Hub

	mu        sync.RWMutex
	imagePNG  []byte
	done      bool
	rowsTotal int

	httpServer *http.Server
}

// NewServer creates a Server that will report progress against a bank of
// rowsTotal frequencies.
func NewServer(port, rowsTotal int) *Server {
	return &Server{
		port:      port,
		hub:       NewHub(),
		rowsTotal: rowsTotal,
	}
}

// Start begins serving HTTP and WebSocket connections. It blocks until
// the server stops or errors.
func (s *Server) Start() error {
	go s.hub.Run()

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("web: building static file system: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/image.png", s.handleImage)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("web server starting", "port", s.port, "url", fmt.Sprintf("http://localhost:%d", s.port))

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// BroadcastRow notifies connected clients that row index (for frequency
// frequencyHz) has finished.
func (s *Server) BroadcastRow(index int, frequencyHz float64, rowsDone int) {
	s.hub.BroadcastRow(RowEvent{
		Index:       index,
		FrequencyHz: frequencyHz,
		RowsDone:    rowsDone,
		RowsTotal:   s.rowsTotal,
	})
}

// SetImage makes the rendered spectrogram available at /image.png and
// notifies connected clients it is ready.
func (s *Server) SetImage(png []byte) {
	s.mu.Lock()
	s.imagePNG = png
	s.done = true
	s.mu.Unlock()

	s.hub.BroadcastDone()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleImage(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.done {
		http.Error(w, "transform not complete", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(s.imagePNG)
}

//nolint:gochecknoglobals // WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("web: websocket upgrade failed", "error", err)
		return
	}

	client := &Client{hub: s.hub, conn: conn, send: make(chan []byte, 256)}
	s.hub.register <- client

	go client.writePump()
	client.readPump()
}
