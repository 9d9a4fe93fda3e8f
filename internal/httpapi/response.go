package httpapi

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/crudkit/pkg/outcome"
)

// StatusClientClosedRequest reports an operation canceled by its caller.
const StatusClientClosedRequest = 499

type errorBody struct {
	Error string `json:"error"`
}

// Status maps an outcome kind to an HTTP status. list selects 204 for an
// empty listing.
func Status(kind outcome.Kind, list bool) int {
	switch kind {
	case outcome.KindValue:
		return http.StatusOK
	case outcome.KindEmpty:
		if list {
			return http.StatusNoContent
		}
		return http.StatusOK
	case outcome.KindNotFound:
		return http.StatusNotFound
	case outcome.KindCanceled:
		return StatusClientClosedRequest
	}
	return http.StatusBadRequest
}

func writeOutcome[T any](w http.ResponseWriter, res outcome.Outcome[T], list bool) {
	status := Status(res.Kind(), list)
	switch res.Kind() {
	case outcome.KindValue:
		v, _ := res.Value()
		writeJSON(w, status, v)
	case outcome.KindEmpty:
		w.WriteHeader(status)
	default:
		writeError(w, status, res.Message())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
