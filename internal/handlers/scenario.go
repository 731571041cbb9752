package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/wayfinder/pkg/scenario"
	"github.com/jwebster45206/wayfinder/pkg/storage"
)

const maxScenarioBytes = 1 << 20

type CreateScenarioResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ScenarioHandler struct {
	logger  *slog.Logger
	storage storage.Storage
	queries *QueryHandler
}

func NewScenarioHandler(logger *slog.Logger, storage storage.Storage, queries *QueryHandler) *ScenarioHandler {
	return &ScenarioHandler{
		logger:  logger,
		storage: storage,
		queries: queries,
	}
}

// ServeHTTP routes scenario requests.
// Routes:
// GET /v1/scenarios                 - List bundled scenario files
// GET /v1/scenarios/{file}.json     - Read a bundled scenario file
// POST /v1/scenarios[?file=x.json]  - Upload a scenario (body, or a bundled file)
// GET /v1/scenarios/{id}            - Read an uploaded scenario
// DELETE /v1/scenarios/{id}         - Delete an uploaded scenario
// GET /v1/scenarios/{id}/{query}    - Run distance, path, vicinity or acquire
func (h *ScenarioHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/scenarios"), "/")
	var parts []string
	if path != "" {
		parts = strings.Split(path, "/")
	}
	for _, p := range parts {
		if p == "" || strings.Contains(p, "..") {
			writeError(w, h.logger, http.StatusBadRequest, "Invalid path")
			return
		}
	}

	switch {
	case len(parts) == 0:
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, POST")
		}

	case len(parts) == 1 && strings.HasSuffix(parts[0], ".json"):
		if r.Method != http.MethodGet {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.handleGetFile(w, r, parts[0])

	default:
		id, err := uuid.Parse(parts[0])
		if err != nil {
			h.logger.Warn("Invalid scenario ID", "id", parts[0], "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid scenario ID format")
			return
		}
		if len(parts) > 2 {
			writeError(w, h.logger, http.StatusNotFound, "Not found")
			return
		}
		if len(parts) == 2 {
			if r.Method != http.MethodGet {
				writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
				return
			}
			h.handleQuery(w, r, id, parts[1])
			return
		}

		switch r.Method {
		case http.MethodGet:
			h.handleRead(w, r, id)
		case http.MethodDelete:
			h.handleDelete(w, r, id)
		default:
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, DELETE")
		}
	}
}

func (h *ScenarioHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.storage.ListScenarios(r.Context())
	if err != nil {
		h.logger.Error("Failed to list scenarios", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list scenarios")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, list)
}

func (h *ScenarioHandler) handleGetFile(w http.ResponseWriter, r *http.Request, filename string) {
	s, err := h.storage.GetScenario(r.Context(), filename)
	if err != nil {
		if errors.Is(err, storage.ErrScenarioNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Scenario not found")
			return
		}
		h.logger.Error("Failed to get scenario", "error", err, "filename", filename)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to retrieve scenario")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, s)
}

func (h *ScenarioHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var s *scenario.Scenario
	var err error
	source := "body"
	if filename := r.URL.Query().Get("file"); filename != "" {
		source = "file"
		s, err = h.storage.GetScenario(ctx, filename)
		if err != nil {
			if errors.Is(err, storage.ErrScenarioNotFound) {
				writeError(w, h.logger, http.StatusNotFound, "Scenario not found")
				return
			}
			h.logger.Error("Failed to get scenario", "error", err, "filename", filename)
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to retrieve scenario")
			return
		}
	} else {
		s, err = scenario.Decode(http.MaxBytesReader(w, r.Body, maxScenarioBytes))
		if err != nil {
			h.logger.Warn("Invalid scenario body", "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid scenario JSON: "+err.Error())
			return
		}
	}

	// Instantiating once proves every later query can build the world.
	if _, err := s.Instantiate(); err != nil {
		h.logger.Warn("Scenario failed validation", "name", s.Name, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	id := uuid.New()
	if err := h.storage.SaveScenario(ctx, id, s); err != nil {
		h.logger.Error("Failed to save scenario", "error", err, "id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save scenario")
		return
	}

	scenarioUploads.WithLabelValues(source).Inc()
	h.logger.Info("Scenario stored", "id", id, "name", s.Name, "source", source)
	writeJSON(w, h.logger, http.StatusCreated, CreateScenarioResponse{ID: id, Name: s.Name})
}

func (h *ScenarioHandler) load(w http.ResponseWriter, r *http.Request, id uuid.UUID) *scenario.Scenario {
	s, err := h.storage.LoadScenario(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load scenario", "error", err, "id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load scenario")
		return nil
	}
	if s == nil {
		writeError(w, h.logger, http.StatusNotFound, "Scenario not found")
		return nil
	}
	return s
}

func (h *ScenarioHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if s := h.load(w, r, id); s != nil {
		writeJSON(w, h.logger, http.StatusOK, s)
	}
}

func (h *ScenarioHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeleteScenario(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete scenario", "error", err, "id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete scenario")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScenarioHandler) handleQuery(w http.ResponseWriter, r *http.Request, id uuid.UUID, kind string) {
	if !h.queries.Supports(kind) {
		writeError(w, h.logger, http.StatusNotFound, "Unknown query "+kind)
		return
	}
	if s := h.load(w, r, id); s != nil {
		h.queries.Serve(w, r, id, s, kind)
	}
}
