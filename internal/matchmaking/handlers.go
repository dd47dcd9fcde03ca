package matchmaking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/AnnedithB/BellaDating-sub003/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) JoinQueue(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto JoinQueueDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := h.service.Join(r.Context(), userID, &dto)
	if err != nil {
		respondServiceError(w, err, "Failed to join queue")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *Handler) LeaveQueue(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	if err := h.service.Leave(r.Context(), userID); err != nil {
		respondServiceError(w, err, "Failed to leave queue")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

func (h *Handler) QueueStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	status, err := h.service.Status(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get queue status")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, status)
}

func (h *Handler) FindMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	maxMatches := 10
	if raw := r.URL.Query().Get("max"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			maxMatches = n
		}
	}

	matches, err := h.service.FindMatches(r.Context(), userID, maxMatches)
	if err != nil {
		respondServiceError(w, err, "Failed to find matches")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, &FindMatchesResponse{Matches: matches})
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	prefs, err := h.service.GetPreferences(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get preferences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, prefs)
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto UpdatePreferencesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	prefs, err := h.service.UpdatePreferences(r.Context(), userID, &dto)
	if err != nil {
		respondServiceError(w, err, "Failed to update preferences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, prefs)
}

func (h *Handler) MatchHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	limit := 20
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			offset = n
		}
	}

	history, err := h.service.History(r.Context(), userID, limit, offset)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get match history")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, history)
}

func (h *Handler) QueueStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get queue stats")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}

// respondServiceError maps engine errors onto HTTP status codes.
// ErrStaleEntry never reaches here: the scheduler absorbs it internally.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrAlreadyInQueue), errors.Is(err, ErrNotInQueue):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrValidation):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUpstreamUnavailable):
		utils.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
