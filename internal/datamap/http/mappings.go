package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/privacydesk/datamapd/internal/datamap/service"
	"github.com/privacydesk/datamapd/pkg/httpx"
	"github.com/privacydesk/datamapd/pkg/slogx"
)

type MappingsHandler struct {
	MappingService *service.MappingService
}

type mappingRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Department      string `json:"department"`
	DataSubjectType string `json:"dataSubjectType"`
}

func (req mappingRequest) input() service.MappingInput {
	return service.MappingInput{
		Title:           req.Title,
		Description:     req.Description,
		Department:      req.Department,
		DataSubjectType: req.DataSubjectType,
	}
}

// HandleList returns every mapping owned by the caller, newest first.
func (h *MappingsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	ownerID, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid or expired token"})
		return
	}

	mappings, err := h.MappingService.List(ctx, ownerID)
	if err != nil {
		log.Error("failed to list data mappings", "owner_id", ownerID, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, mappingError("Failed to fetch data mappings"))
		return
	}

	data := make([]mappingResponse, 0, len(mappings))
	for _, m := range mappings {
		data = append(data, newMappingResponse(m))
	}

	httpx.WriteJSON(w, http.StatusOK, mappingEnvelope{Success: true, Data: data})
}

// HandleGet returns one owned mapping by id.
func (h *MappingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	ownerID, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid or expired token"})
		return
	}

	id, ok := pathID(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusNotFound, mappingError("Data mapping not found"))
		return
	}

	mapping, err := h.MappingService.Get(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, service.ErrMappingNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, mappingError("Data mapping not found"))
			return
		}
		log.Error("failed to fetch data mapping", "owner_id", ownerID, "mapping_id", id, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, mappingError("Failed to fetch data mapping"))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, mappingEnvelope{Success: true, Data: newMappingResponse(mapping)})
}

// HandleCreate stores a new mapping owned by the caller.
func (h *MappingsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	ownerID, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid or expired token"})
		return
	}

	var req mappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, mappingError("Invalid request body"))
		return
	}

	id, err := h.MappingService.Create(ctx, ownerID, req.input())
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			httpx.WriteJSON(w, http.StatusBadRequest, mappingError("Title and department are required"))
			return
		}
		log.Error("failed to create data mapping", "owner_id", ownerID, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, mappingError("Failed to create data mapping"))
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, mappingEnvelope{
		Success: true,
		Message: "Data mapping created successfully",
		Data:    map[string]int64{"id": id},
	})
}

// HandleUpdate rewrites an owned mapping's fields.
func (h *MappingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	ownerID, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid or expired token"})
		return
	}

	id, ok := pathID(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusNotFound, mappingError("Data mapping not found"))
		return
	}

	var req mappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, mappingError("Invalid request body"))
		return
	}

	err := h.MappingService.Update(ctx, ownerID, id, req.input())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			httpx.WriteJSON(w, http.StatusBadRequest, mappingError("Title and department are required"))
		case errors.Is(err, service.ErrMappingNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, mappingError("Data mapping not found"))
		default:
			log.Error("failed to update data mapping", "owner_id", ownerID, "mapping_id", id, "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, mappingError("Failed to update data mapping"))
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, mappingEnvelope{
		Success: true,
		Message: "Data mapping updated successfully",
	})
}

// HandleDelete removes an owned mapping.
func (h *MappingsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	ownerID, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid or expired token"})
		return
	}

	id, ok := pathID(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusNotFound, mappingError("Data mapping not found"))
		return
	}

	err := h.MappingService.Delete(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, service.ErrMappingNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, mappingError("Data mapping not found"))
			return
		}
		log.Error("failed to delete data mapping", "owner_id", ownerID, "mapping_id", id, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, mappingError("Failed to delete data mapping"))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, mappingEnvelope{
		Success: true,
		Message: "Data mapping deleted successfully",
	})
}

// pathID parses the {id} path segment. A non-numeric id behaves exactly like
// an unknown one.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
