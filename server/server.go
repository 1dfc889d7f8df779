// Package server exposes the analysis pipeline over HTTP: a multipart upload
// endpoint returning the full analysis as JSON, a health check, and a
// WebSocket endpoint streaming per-stage progress.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/docalyze/docalyze/internal/models"
	"github.com/docalyze/docalyze/pkg/pipeline"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Be careful with this in production
	},
}

// Message is the WebSocket frame in both directions.
type Message struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Data    any    `json:"data,omitempty"`
}

// Config configures the HTTP server.
type Config struct {
	Port      int
	UploadDir string // where multipart uploads land (default os.TempDir())
	MaxUpload int64  // request body cap in bytes (default 100 MB)
	Logger    *slog.Logger
}

func (c *Config) defaults() {
	if c.Port <= 0 {
		c.Port = 8080
	}
	if c.UploadDir == "" {
		c.UploadDir = os.TempDir()
	}
	if c.MaxUpload <= 0 {
		c.MaxUpload = 100 << 20
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Server serves analyses over HTTP and WebSocket.
type Server struct {
	config   Config
	pipeline *pipeline.Pipeline
}

// NewWithConfig creates a Server around an assembled pipeline.
func NewWithConfig(config Config, p *pipeline.Pipeline) (*Server, error) {
	if p == nil {
		return nil, fmt.Errorf("server: pipeline is required")
	}
	config.defaults()
	return &Server{config: config, pipeline: p}, nil
}

// Run blocks serving HTTP on the configured port.
func (s *Server) Run() error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	addr := fmt.Sprintf(":%d", s.config.Port)
	s.config.Logger.Info("server listening", "addr", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleAnalyze accepts one or more files in the "file" multipart field and
// returns the analyses as JSON. Reports are not rendered; callers of the API
// want the structured result.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUpload)
	if err := r.ParseMultipartForm(s.config.MaxUpload); err != nil {
		httpError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart request: %v", err))
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		httpError(w, http.StatusBadRequest, "no file uploaded in field 'file'")
		return
	}

	var paths []string
	for _, fh := range files {
		path, err := s.saveUpload(fh.Filename, fh)
		if err != nil {
			httpError(w, http.StatusInternalServerError, fmt.Sprintf("storing upload: %v", err))
			return
		}
		defer os.Remove(path)
		paths = append(paths, path)
	}

	results := s.pipeline.Run(r.Context(), paths, pipeline.Options{SkipReport: true})

	type item struct {
		Filename string           `json:"filename"`
		Analysis *models.Analysis `json:"analysis,omitempty"`
		Error    string           `json:"error,omitempty"`
	}
	out := make([]item, 0, len(results))
	for i, res := range results {
		it := item{Filename: files[i].Filename, Analysis: res.Analysis}
		if res.Err != nil {
			it.Error = res.Err.Error()
		}
		out = append(out, it)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// handleWebSocket streams stage progress. The client sends
// {"type":"analyze","content":"<server-local path>"} and receives one
// "stage" frame per completed stage followed by a "result" frame.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.config.Logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.send(conn, Message{Type: "error", Content: fmt.Sprintf("invalid message: %v", err)})
			continue
		}
		if msg.Type != "analyze" || strings.TrimSpace(msg.Content) == "" {
			s.send(conn, Message{Type: "error", Content: "expected {\"type\":\"analyze\",\"content\":\"<path>\"}"})
			continue
		}

		results := s.pipeline.Run(r.Context(), []string{msg.Content}, pipeline.Options{
			SkipReport: true,
			OnProgress: func(doc string, stage models.StageStatus) {
				s.send(conn, Message{Type: "stage", Content: doc, Data: stage})
			},
		})

		res := results[0]
		if res.Err != nil {
			s.send(conn, Message{Type: "error", Content: res.Err.Error()})
			continue
		}
		s.send(conn, Message{Type: "result", Content: res.Path, Data: res.Analysis})
	}
}

func (s *Server) send(conn *websocket.Conn, msg Message) {
	if err := conn.WriteJSON(msg); err != nil {
		s.config.Logger.Error("websocket write failed", "error", err)
	}
}

func (s *Server) saveUpload(name string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Keep the extension so ingestion dispatches on it.
	dst, err := os.CreateTemp(s.config.UploadDir, "upload-*"+filepath.Ext(name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

func httpError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
