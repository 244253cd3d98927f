// Package preview serves generated markdown artifacts as HTML.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/DevOps-MBSE/aac-doc-mdl/internal/adapter"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

// Server renders the markdown files found directly inside one directory.
type Server struct {
	router chi.Router
	dir    string
	log    *slog.Logger
}

// NewServer creates and configures the preview server.
func NewServer(dir string, log *slog.Logger) *Server {
	s := &Server{dir: dir, log: log}
	s.setupRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Get("/docs/{name}", s.handleDocument)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	names, err := s.documents()
	if err != nil {
		s.log.Error("Failed to list documents", "dir", s.dir, "error", err)
		http.Error(w, "failed to list documents", http.StatusInternalServerError)

		return
	}

	var b strings.Builder

	b.WriteString("# Documents\n\n")

	if len(names) == 0 {
		b.WriteString("No markdown documents found.\n")
	}

	for _, name := range names {
		fmt.Fprintf(&b, "- [%s](/docs/%s)\n", name, name)
	}

	s.writePage(w, "Documents", []byte(b.String()))
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !isDocumentName(name) {
		http.NotFound(w, r)
		return
	}

	// #nosec G304 - name is a plain .md file name without separators
	source, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		http.NotFound(w, r)
		return
	}

	if err != nil {
		s.log.Error("Failed to read document", "name", name, "error", err)
		http.Error(w, "failed to read document", http.StatusInternalServerError)

		return
	}

	s.writePage(w, strings.TrimSuffix(name, ".md"), source)
}

func (s *Server) writePage(w http.ResponseWriter, title string, source []byte) {
	page, err := adapter.RenderHTML(title, source)
	if err != nil {
		s.log.Error("Failed to render document", "title", title, "error", err)
		http.Error(w, "failed to render document", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// documents lists the markdown files directly inside the directory.
func (s *Server) documents() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	names := []string{}

	for _, entry := range entries {
		if entry.Type().IsRegular() && isDocumentName(entry.Name()) {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	return names, nil
}

func isDocumentName(name string) bool {
	return filepath.Ext(name) == ".md" &&
		name == filepath.Base(name) &&
		!strings.ContainsAny(name, `/\`) &&
		!strings.HasPrefix(name, ".")
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("Starting preview server", "addr", addr, "dir", s.dir)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown preview server: %w", err)
	}

	return nil
}
