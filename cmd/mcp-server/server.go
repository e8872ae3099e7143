package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/njchilds90/mathtree"
	"github.com/njchilds90/mathtree/internal/session"
)

type server struct {
	store        *session.Store
	log          *zap.Logger
	metrics      *metrics
	maxBodyBytes int64
	started      time.Time
	handler      http.Handler
}

func newServer(store *session.Store, maxBodyBytes int64, log *zap.Logger) *server {
	s := &server{
		store:        store,
		log:          log,
		maxBodyBytes: maxBodyBytes,
		started:      time.Now(),
	}

	registry := prometheus.NewRegistry()
	s.metrics = newMetrics(registry, store)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /tool", s.toolHandler)
	mux.HandleFunc("GET /schema", s.schemaHandler)
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /sessions", s.createSessionHandler)
	mux.HandleFunc("GET /sessions/{id}", s.getSessionHandler)
	mux.HandleFunc("POST /sessions/{id}/keys", s.keysHandler)
	mux.HandleFunc("DELETE /sessions/{id}", s.deleteSessionHandler)

	s.handler = s.recoverer(mux)
	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.handler.ServeHTTP(w, r) }

func (s *server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("panic in handler",
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decode reads exactly one JSON value from the request body.
func (s *server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("invalid JSON: trailing data")
	}
	return nil
}

// ============================================================
// Tool endpoints
// ============================================================

func (s *server) toolHandler(w http.ResponseWriter, r *http.Request) {
	var req mathtree.ToolRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := mathtree.HandleToolCall(req)
	outcome := "ok"
	if resp.Error != "" {
		outcome = "error"
		s.log.Debug("tool call failed", zap.String("tool", req.Tool), zap.String("error", resp.Error))
	}
	s.metrics.toolCalls.WithLabelValues(toolLabel(req.Tool), outcome).Inc()
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) schemaHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, mathtree.MCPToolSpec())
}

func (s *server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"time":     time.Now().UTC().Format(time.RFC3339),
		"uptime":   time.Since(s.started).Truncate(time.Second).String(),
		"sessions": s.store.Len(),
	})
}

// ============================================================
// Session endpoints
// ============================================================

type sessionView struct {
	ID    string            `json:"id"`
	Tree  json.RawMessage   `json:"tree"`
	State mathtree.Snapshot `json:"state"`
	Keys  int               `json:"keys"`
	Error string            `json:"error,omitempty"`
}

func view(sess *session.Session) (sessionView, error) {
	tree, err := mathtree.ToJSON(sess.Tree())
	if err != nil {
		return sessionView{}, err
	}
	return sessionView{ID: sess.ID, Tree: json.RawMessage(tree), State: sess.State(), Keys: sess.Keys()}, nil
}

func (s *server) writeSession(w http.ResponseWriter, status int, sess *session.Session, keyErr error) {
	v, err := view(sess)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if keyErr != nil {
		v.Error = keyErr.Error()
	}
	writeJSON(w, status, v)
}

func (s *server) sessionStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrFull):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}

func (s *server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Tree map[string]interface{} `json:"tree"`
	}
	if r.ContentLength != 0 {
		if err := s.decode(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	var tree *mathtree.Node
	if body.Tree != nil {
		var err error
		if tree, err = mathtree.FromJSON(body.Tree); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	sess, err := s.store.Create(tree)
	if err != nil {
		s.log.Warn("session not created", zap.Error(err))
		writeError(w, s.sessionStatus(err), err.Error())
		return
	}
	s.writeSession(w, http.StatusCreated, sess, nil)
}

func (s *server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, s.sessionStatus(err), err.Error())
		return
	}
	s.writeSession(w, http.StatusOK, sess, nil)
}

func (s *server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.PathValue("id")); err != nil {
		writeError(w, s.sessionStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// keysHandler applies {"keys": [...]} where each key is either its script
// form ("type 2+x", "left") or an object {"name": ..., "text": ...}.
func (s *server) keysHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, s.sessionStatus(err), err.Error())
		return
	}
	var body struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	keys := make([]mathtree.Key, len(body.Keys))
	for i, raw := range body.Keys {
		if keys[i], err = decodeKey(raw); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("keys[%d]: %v", i, err))
			return
		}
	}

	_, applied, applyErr := sess.Apply(keys)
	for _, k := range keys[:applied] {
		s.metrics.keys.WithLabelValues(k.Name).Inc()
	}
	if applyErr != nil {
		s.log.Debug("key rejected", zap.String("session", sess.ID), zap.Error(applyErr))
		s.writeSession(w, http.StatusBadRequest, sess, applyErr)
		return
	}
	s.writeSession(w, http.StatusOK, sess, nil)
}

func decodeKey(raw json.RawMessage) (mathtree.Key, error) {
	var line string
	if err := json.Unmarshal(raw, &line); err == nil {
		return mathtree.ParseKey(line)
	}
	var k mathtree.Key
	if err := json.Unmarshal(raw, &k); err != nil {
		return mathtree.Key{}, err
	}
	return k, nil
}
