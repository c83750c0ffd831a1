package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DoyleJ11/checkers-server/internal/hub"
	"github.com/DoyleJ11/checkers-server/internal/lobby"
	"github.com/DoyleJ11/checkers-server/internal/types"
	pkgtypes "github.com/DoyleJ11/checkers-server/pkg/types"
	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RoomSnapshot serves the public view of one room. The read goes through
// the hub like any other event.
func RoomSnapshot(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := types.NormalizeCode(chi.URLParam(r, "code"))
		snap, err := h.Room(r.Context(), code)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, snap)
		case errors.Is(err, lobby.ErrRoomNotFound):
			writeJSON(w, http.StatusNotFound, pkgtypes.ErrorBody{Error: hub.CodeRoomNotFound, Message: err.Error()})
		default:
			writeJSON(w, http.StatusServiceUnavailable, pkgtypes.ErrorBody{Error: "Unavailable", Message: err.Error()})
		}
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
