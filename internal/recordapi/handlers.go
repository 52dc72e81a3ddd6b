package recordapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/learnquest/internal/store"
)

type ctxKey struct{}

func collectionFrom(ctx context.Context) string {
	name, _ := ctx.Value(ctxKey{}).(string)
	return name
}

// collectionCtx rejects unknown collections before any handler runs.
func (s *Server) collectionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "collection")
		if !store.KnownCollection(name) {
			writeError(w, http.StatusNotFound, CodeUnknownCollection, fmt.Sprintf("unknown collection %q", name))
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	// A cheap read proves the backend is reachable.
	if _, err := s.backend.Fetch(r.Context(), store.Progress, store.Query{Limit: 1}); err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, CodeInternal, "backend unavailable")
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "ok"})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= 500 {
		s.logger.Error("backend call failed", zap.Error(err))
	}
	writeError(w, status, code, err.Error())
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	var q store.Query
	if r.ContentLength != 0 && !decode(w, r, &q) {
		return
	}
	docs, err := s.backend.Fetch(r.Context(), collectionFrom(r.Context()), q)
	if err != nil {
		s.fail(w, err)
		return
	}
	if docs == nil {
		docs = []json.RawMessage{}
	}
	data, err := json.Marshal(docs)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "record id must be a positive integer")
		return
	}
	doc, err := s.backend.FetchByID(r.Context(), collectionFrom(r.Context()), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: doc})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	s.batch(w, r, "create", s.backend.Create)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	s.batch(w, r, "update", s.backend.Update)
}

type batchFunc func(ctx context.Context, collection string, records []json.RawMessage) ([]store.ItemResult, error)

func (s *Server) batch(w http.ResponseWriter, r *http.Request, op string, call batchFunc) {
	var req RecordsRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "records must not be empty")
		return
	}
	coll := collectionFrom(r.Context())
	results, err := call(r.Context(), coll, req.Records)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondBatch(w, coll, op, results)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.RecordIDs) == 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "recordIds must not be empty")
		return
	}
	coll := collectionFrom(r.Context())
	results, err := s.backend.Delete(r.Context(), coll, req.RecordIDs)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondBatch(w, coll, "delete", results)
}

func (s *Server) respondBatch(w http.ResponseWriter, coll, op string, results []store.ItemResult) {
	failed := 0
	for _, res := range results {
		if !res.Success {
			failed++
		}
	}
	s.metrics.observeItems(coll, op, failed)

	env := Envelope{Success: true, Results: results}
	if failed > 0 {
		env.Message = fmt.Sprintf("%d of %d records failed", failed, len(results))
		s.logger.Warn("partial batch failure",
			zap.String("collection", coll),
			zap.String("op", op),
			zap.Int("failed", failed),
			zap.Int("total", len(results)),
		)
	}
	writeJSON(w, http.StatusOK, env)
}
