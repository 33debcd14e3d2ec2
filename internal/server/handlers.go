package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/llm"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/rag"
	"github.com/hyperjump/kotae/internal/storage"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.normalizeTopK(&query)
	if err := query.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("top_k", query.TopK))

	start := time.Now()
	results, err := s.engine.Search(r.Context(), query.Query, query.TopK, query.Filter)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := models.SearchResponse{
		Query:   query.Query,
		Results: results,
		Total:   len(results),
	}
	if query.GenerateAnswer {
		synth, err := s.synthesizerFor(query.Provider)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		answer := synth.GenerateAnswer(r.Context(), query.Query, results)
		response.Answer = &answer
	}
	response.QueryTime = time.Since(start).Milliseconds()
	s.respondJSON(w, http.StatusOK, response)
}

type askRequest struct {
	Question string                 `json:"question"`
	TopK     int                    `json:"top_k,omitempty"`
	Filter   map[string]interface{} `json:"filter,omitempty"`
	Provider string                 `json:"provider,omitempty"`
}

type askResponse struct {
	Question   string                `json:"question"`
	Answer     string                `json:"answer"`
	Sources    []models.SearchResult `json:"sources"`
	Confidence float64               `json:"confidence"`
	QueryTime  int64                 `json:"query_time_ms"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		s.respondError(w, http.StatusBadRequest, "question cannot be empty")
		return
	}
	query := models.SearchQuery{Query: req.Question, TopK: req.TopK, Filter: req.Filter}
	s.normalizeTopK(&query)
	s.logger.Debug("ask request", zap.String("question", req.Question), zap.Int("top_k", query.TopK))

	start := time.Now()
	results, err := s.engine.Search(r.Context(), query.Query, query.TopK, query.Filter)
	if err != nil {
		s.logger.Error("ask: search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	synth, err := s.synthesizerFor(req.Provider)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	answer := synth.GenerateAnswer(r.Context(), req.Question, results)
	s.respondJSON(w, http.StatusOK, askResponse{
		Question:   req.Question,
		Answer:     answer.Answer,
		Sources:    answer.Sources,
		Confidence: answer.Confidence,
		QueryTime:  time.Since(start).Milliseconds(),
	})
}

// normalizeTopK applies the configured default and cap.
func (s *Server) normalizeTopK(q *models.SearchQuery) {
	if q.TopK <= 0 {
		q.TopK = s.cfg.Search.DefaultTopK
	}
	if max := s.cfg.Search.MaxTopK; max > 0 && q.TopK > max {
		q.TopK = max
	}
}

// synthesizerFor returns the default synthesizer, or one backed by the named
// provider when the request overrides it.
func (s *Server) synthesizerFor(name string) (*rag.Synthesizer, error) {
	if name == "" {
		return s.synth, nil
	}
	provider, err := llm.New(name, llm.Config{
		APIKey:    os.Getenv("OPENAI_API_KEY"),
		Model:     s.cfg.LLM.Model,
		OllamaURL: s.cfg.LLM.OllamaURL,
	})
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(s.cfg.LLM.TimeoutSecs) * time.Second
	return rag.NewSynthesizer(provider, timeout, s.logger), nil
}

func (s *Server) handleIndexDocument(w http.ResponseWriter, r *http.Request) {
	var input models.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Content == "" {
		s.respondError(w, http.StatusBadRequest, "content cannot be empty")
		return
	}
	s.logger.Debug("index document request", zap.String("id", input.ID), zap.String("title", input.Title))
	id, err := s.indexer.IndexDocument(r.Context(), &input)
	if err != nil {
		s.logger.Error("indexing failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": id, "status": "indexed"})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 50)
	if limit > 200 {
		limit = 200
	}
	docs, err := s.storage.ListDocuments(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("list documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.storage.CountDocuments(r.Context())
	if err != nil {
		s.logger.Error("count documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"total":     total,
		"offset":    offset,
		"limit":     limit,
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.storage.GetDocument(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "document not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete document request", zap.String("id", id))
	if err := s.indexer.DeleteDocument(r.Context(), id); err != nil {
		s.logger.Error("deletion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docCount, err := s.storage.CountDocuments(ctx)
	if err != nil {
		s.logger.Error("status: count documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	chunkCount, err := s.storage.CountChunks(ctx)
	if err != nil {
		s.logger.Error("status: count chunks failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	stats := s.engine.Stats()
	resp := map[string]interface{}{
		"documents":     docCount,
		"chunks":        chunkCount,
		"total_vectors": stats.TotalVectors,
	}
	resp["config"] = map[string]interface{}{
		"index_kind":           stats.IndexKind,
		"embedding_provider":   s.cfg.Embedding.Provider,
		"embedding_dimensions": stats.Dimensions,
		"chunk_size":           s.cfg.Search.ChunkSize,
		"chunk_overlap":        s.cfg.Search.ChunkOverlap,
		"llm_provider":         s.cfg.LLM.Provider,
		"database_path":        s.cfg.Storage.DatabasePath,
		"vector_index_path":    s.cfg.Storage.VectorIndexPath,
	}
	diskBytes, err := storage.DiskUsageBytes(s.cfg.Storage.DatabasePath, s.cfg.Storage.VectorIndexPath)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWatchDirectoriesList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": s.watch.Directories()})
}

type watchAddRequest struct {
	Path string `json:"path"`
	Sync *bool  `json:"sync,omitempty"`
}

func (s *Server) handleWatchDirectoriesAdd(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	var req watchAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return
	}
	syncExisting := true
	if req.Sync != nil {
		syncExisting = *req.Sync
	}
	s.logger.Debug("watch add directory request", zap.String("path", abs), zap.Bool("sync_existing", syncExisting))
	if err := s.watch.AddDirectory(abs, syncExisting); err != nil {
		s.logger.Error("watch add directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleWatchDirectoriesRemove(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		var body struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Path != "" {
			path = body.Path
		}
	}
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required (query or body)")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	s.logger.Debug("watch remove directory request", zap.String("path", abs))
	if err := s.watch.RemoveDirectory(abs); err != nil {
		s.logger.Error("watch remove directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

func (s *Server) persistWatchDirectories() {
	if s.configPath == "" {
		return
	}
	s.configMu.Lock()
	s.cfg.Watch.Directories = s.watch.Directories()
	err := config.Save(s.configPath, s.cfg)
	s.configMu.Unlock()
	if err != nil {
		s.logger.Warn("failed to persist watch config", zap.Error(err))
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
