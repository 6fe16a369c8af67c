package handler

import (
	"net/http"

	"github.com/mcoot/skylandly/internal/api/request"
	"github.com/mcoot/skylandly/internal/api/response"
	"github.com/mcoot/skylandly/internal/services/game"
)

// GameHandler handles the daily puzzle endpoints
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{
		gameController: gameController,
	}
}

// Daily handles GET /api/v1/game/daily
func (h *GameHandler) Daily(w http.ResponseWriter, r *http.Request) {
	answer, err := h.gameController.Daily(r.URL.Query().Get("date"))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DailyResponse{SkylanderName: answer.Name})
}

// Guess handles POST /api/v1/game/guess.
// The name may come from the JSON body or the skylander_name query parameter.
func (h *GameHandler) Guess(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := request.GuessRequest{
		SkylanderName: q.Get("skylander_name"),
		Date:          q.Get("date"),
	}
	if err := request.Decode(w, r, &req, true); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.gameController.Guess(req.SkylanderName, req.Date)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GuessResponseFromModel(result))
}

// Skylanders handles GET /api/v1/skylanders
func (h *GameHandler) Skylanders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entities := h.gameController.Skylanders(q.Get("element"), q.Get("gender"))
	response.JSON(w, http.StatusOK, response.SkylandersFromModel(entities))
}
