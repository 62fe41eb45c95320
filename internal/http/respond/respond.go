package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/studioflow/internal/deadline"
	"github.com/MrJamesThe3rd/studioflow/internal/document"
	"github.com/MrJamesThe3rd/studioflow/internal/expense"
	"github.com/MrJamesThe3rd/studioflow/internal/project"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err with the status its kind maps to. Unknown errors are
// logged and reported as a plain 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", status)

		return
	}

	http.Error(w, err.Error(), status)
}

func Status(err error) int {
	var (
		validation *document.ValidationError
		transition *project.TransitionError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &transition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, document.ErrConflict), errors.Is(err, document.ErrInvalidState), errors.Is(err, project.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, document.ErrNotFound), errors.Is(err, project.ErrNotFound), errors.Is(err, expense.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, deadline.ErrStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
