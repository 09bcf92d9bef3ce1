package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/snippetgen/pkg/generator"
	"github.com/platinummonkey/snippetgen/pkg/observability"
	"github.com/platinummonkey/snippetgen/pkg/schema"
	"github.com/platinummonkey/snippetgen/pkg/snippet"
	"github.com/platinummonkey/snippetgen/pkg/storage"
)

// GenerateRequest is the body of the generate endpoint.
type GenerateRequest struct {
	Config     *snippet.Config `json:"config"`
	APIVersion string          `json:"api_version"`
	// Variants selects "sync" and/or "async"; empty means both.
	Variants []string `json:"variants,omitempty"`
	// ProtoSources optionally carries inline proto definitions the
	// config is cross-checked against.
	ProtoSources map[string]string `json:"proto_sources,omitempty"`
	// Persist stores the generated snippets in the server's storage.
	Persist bool `json:"persist,omitempty"`
}

// GenerateResponse carries the generated snippets.
type GenerateResponse struct {
	Results []*generator.Result `json:"results"`
}

// generateSnippets generates snippets for an inline configuration
func (s *Server) generateSnippets(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Config == nil {
		writeError(w, http.StatusBadRequest, "config is required")
		return
	}
	if req.APIVersion == "" {
		writeError(w, http.StatusBadRequest, "api_version is required")
		return
	}

	variants, err := parseVariants(req.Variants)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var apiSchema *schema.API
	if len(req.ProtoSources) > 0 {
		apiSchema, err = schema.ParseSources(r.Context(), req.ProtoSources)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid proto sources: "+err.Error())
			return
		}
	}

	results := make([]*generator.Result, 0, len(variants))
	for _, sync := range variants {
		result, err := s.gen.Generate(r.Context(), &generator.Request{
			Schema:     apiSchema,
			Config:     req.Config,
			APIVersion: req.APIVersion,
			Sync:       sync,
		}, s.genConfig)
		if err != nil {
			logger.WithError(err).Warn("snippet generation failed")
			status := http.StatusUnprocessableEntity
			if errors.Is(err, snippet.ErrMissingField) || errors.Is(err, snippet.ErrBadParameter) {
				status = http.StatusBadRequest
			}
			writeError(w, status, err.Error())
			return
		}
		results = append(results, result)
	}

	if req.Persist {
		if s.storage == nil {
			writeError(w, http.StatusServiceUnavailable, "storage is not configured")
			return
		}
		for _, result := range results {
			err := s.storage.Put(r.Context(), &storage.Snippet{
				Filename:    result.Filename,
				RegionTag:   result.RegionTag,
				Code:        result.Code,
				Sync:        result.Sync,
				GeneratedAt: time.Now().UTC(),
			})
			if err != nil {
				logger.WithError(err).Error("failed to persist snippet")
				writeError(w, http.StatusInternalServerError, "failed to persist snippet")
				return
			}
			if s.metrics != nil {
				s.metrics.SnippetsWrittenTotal.Inc()
			}
		}
	}

	writeJSON(w, http.StatusOK, GenerateResponse{Results: results})
}

// listSnippets lists persisted snippets
func (s *Server) listSnippets(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}

	snippets, err := s.storage.List(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to list snippets")
		writeError(w, http.StatusInternalServerError, "failed to list snippets")
		return
	}

	type entry struct {
		Filename    string    `json:"filename"`
		RegionTag   string    `json:"region_tag"`
		Sync        bool      `json:"sync"`
		GeneratedAt time.Time `json:"generated_at"`
	}
	entries := make([]entry, 0, len(snippets))
	for _, sn := range snippets {
		entries = append(entries, entry{
			Filename:    sn.Filename,
			RegionTag:   sn.RegionTag,
			Sync:        sn.Sync,
			GeneratedAt: sn.GeneratedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"snippets": entries})
}

// getSnippet returns one persisted snippet's source text
func (s *Server) getSnippet(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}

	filename := mux.Vars(r)["filename"]
	sn, err := s.storage.Get(r.Context(), filename)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "snippet not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/x-python")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(sn.Code))
}

// parseVariants maps variant names to sync flags; empty means both
// variants, sync first.
func parseVariants(names []string) ([]bool, error) {
	if len(names) == 0 {
		return []bool{true, false}, nil
	}
	variants := make([]bool, 0, len(names))
	for _, name := range names {
		switch name {
		case "sync":
			variants = append(variants, true)
		case "async":
			variants = append(variants, false)
		default:
			return nil, errors.New("invalid variant: " + name)
		}
	}
	return variants, nil
}
