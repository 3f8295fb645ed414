package handler

import (
	"errors"
	"net/http"

	"clinic-slot-engine/internal/converter"
	"clinic-slot-engine/internal/domain/entity"
	"clinic-slot-engine/internal/usecase"
	"clinic-slot-engine/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// writeError maps an error kind to a status code. Client errors carry the error
// text; anything unclassified becomes a 500 with fallback as message.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, entity.ErrConflict):
		response.Conflict(w, err.Error())
	case errors.Is(err, entity.ErrValidation):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

// writeRegenerationError reports a write that committed but whose regeneration
// failed, keeping the partial result in the error body.
func writeRegenerationError(w http.ResponseWriter, err error, result *usecase.RegenerationResult, fallback string) {
	var dayErr *usecase.DayRegenerationError
	if result == nil || !errors.As(err, &dayErr) {
		writeError(w, err, fallback)
		return
	}
	response.Error(w, http.StatusInternalServerError, err.Error(), converter.RegenerationToResponse(result))
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}
