package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/skylandly/internal/api/request"
	"github.com/mcoot/skylandly/internal/api/response"
	"github.com/mcoot/skylandly/internal/services/history"
	"github.com/mcoot/skylandly/internal/services/ledger"
)

// HistoryHandler handles result recording and history queries
type HistoryHandler struct {
	ledger  *ledger.Ledger
	history *history.Service
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(l *ledger.Ledger, h *history.Service) *HistoryHandler {
	return &HistoryHandler{
		ledger:  l,
		history: h,
	}
}

func browserID(r *http.Request) (string, error) {
	id := r.URL.Query().Get("browser_id")
	if id == "" {
		return "", NewInvalidRequestError("browser_id is required")
	}
	return id, nil
}

// UpsertResult handles POST /api/v1/history/result
func (h *HistoryHandler) UpsertResult(w http.ResponseWriter, r *http.Request) {
	var req request.UpsertResultRequest
	if err := request.Decode(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.ledger.UpsertResult(r.Context(), req.ToModel())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(result))
}

// Summary handles GET /api/v1/history/summary
func (h *HistoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, err := browserID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	summary, err := h.history.Summary(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SummaryFromModel(summary))
}

// Games handles GET /api/v1/history/games
func (h *HistoryHandler) Games(w http.ResponseWriter, r *http.Request) {
	id, err := browserID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			WriteError(w, NewInvalidRequestError("limit must be an integer"))
			return
		}
		if limit == 0 {
			// An explicit zero is out of range, only an absent limit defaults
			WriteError(w, NewInvalidRequestError("limit must be between 1 and 365"))
			return
		}
	}

	games, err := h.history.Games(r.Context(), id, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModel(games))
}

// AverageGuesses handles GET /api/v1/history/average-guesses
func (h *HistoryHandler) AverageGuesses(w http.ResponseWriter, r *http.Request) {
	id, err := browserID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	avg, err := h.history.AverageGuesses(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AverageGuessesFromModel(avg))
}

// ForgetPlayer handles DELETE /api/v1/history/player
func (h *HistoryHandler) ForgetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := browserID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.ledger.ForgetPlayer(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
