package api

import (
	"encoding/json"
	"net/http"

	perrors "github.com/matzehuels/stacklens/pkg/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status through its error code. Errors without a
// code are reported as internal errors with a generic message.
func writeError(w http.ResponseWriter, err error) {
	code := perrors.GetCode(err)
	msg := perrors.UserMessage(err)
	if code == "" {
		code, msg = perrors.ErrCodeInternal, "internal error"
	}
	writeJSON(w, perrors.HTTPStatus(err), errorBody{Code: string(code), Message: msg})
}
