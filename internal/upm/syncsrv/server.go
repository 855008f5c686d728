// Package syncsrv is a reference implementation of the UPM sync
// repository: the fixed set of PHP-shaped endpoints the original UPM
// server exposed, served here by a chi router. The routes are
// registered directly rather than through an OpenAPI layer because
// the protocol predates any REST resource model — raw container
// bytes, a bare ASCII integer, and a multipart form.
package syncsrv

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/exp/slog"

	"github.com/simmons/tupm/internal/upm/syncsrv/store"
)

// Credentials is a single HTTP Basic auth identity accepted by the
// server. The reference server supports exactly one configured
// identity; a production deployment would back this with a user
// store, which is out of scope for the core.
type Credentials struct {
	User     string
	Password string
}

// Server is the reference UPM sync protocol server.
type Server struct {
	store       store.Store
	credentials Credentials
	log         *slog.Logger
	router      chi.Router
}

// New constructs a Server backed by st, accepting only requests
// authenticated as creds. A nil log discards all log output.
func New(st store.Store, creds Credentials, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{store: st, credentials: creds, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(s.requireBasicAuth)

	r.Get("/{db}.db", s.handleDownload)
	r.Get("/getdbrevision.php", s.handleRevision)
	r.Post("/upload.php", s.handleUpload)
	r.Get("/deletedb.php", s.handleDelete)

	s.router = r
	return s
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("sync request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) requireBasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, password, ok := r.BasicAuth()
		if !ok || user != s.credentials.User || password != s.credentials.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="upm sync"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(chi.URLParam(r, "db"), ".db")

	blob, _, err := s.store.Get(r.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.writeServerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(blob)
}

func (s *Server) handleRevision(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("db")
	if name == "" {
		http.Error(w, "missing db parameter", http.StatusBadRequest)
		return
	}

	revision, err := s.store.Revision(r.Context(), name)
	if err != nil {
		s.writeServerError(w, err)
		return
	}

	fmt.Fprintf(w, "%d", revision)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		http.Error(w, "FAILED: malformed multipart body", http.StatusBadRequest)
		return
	}

	name := r.FormValue("db")
	if name == "" {
		http.Error(w, "FAILED: missing db field", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("userfile")
	if err != nil {
		http.Error(w, "FAILED: missing userfile field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	blob, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "FAILED: could not read uploaded file", http.StatusBadRequest)
		return
	}

	if _, err := s.store.Put(r.Context(), name, blob); err != nil {
		s.log.Error("upload failed", slog.String("db", name), slog.String("error", err.Error()))
		http.Error(w, "FAILED: could not store database", http.StatusInternalServerError)
		return
	}

	fmt.Fprint(w, "OK")
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("db")
	if name == "" {
		http.Error(w, "missing db parameter", http.StatusBadRequest)
		return
	}

	if err := s.store.Delete(r.Context(), name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.writeServerError(w, err)
		return
	}

	fmt.Fprint(w, "OK")
}

func (s *Server) writeServerError(w http.ResponseWriter, err error) {
	s.log.Error("sync server error", slog.String("error", err.Error()))
	http.Error(w, "internal error", http.StatusInternalServerError)
}
