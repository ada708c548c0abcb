package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/scribbly/notes-api/internal/errors"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// WriteAppError maps an application error to an HTTP status and writes it.
// Misconfigured and Internal causes are masked with a generic message so
// secrets and infrastructure detail never reach the client.
func WriteAppError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status, masked := statusForCode(code)

	if masked {
		WriteJSON(w, status, map[string]string{
			"error":   string(code),
			"message": "Internal server error",
		})
		return
	}

	body := map[string]string{"error": string(code), "message": err.Error()}
	if field := apperrors.GetField(err); field != "" {
		body["field"] = field
	}
	WriteJSON(w, status, body)
}

// statusForCode maps error codes to HTTP statuses. The second return value
// indicates the message must be masked.
func statusForCode(code apperrors.ErrorCode) (int, bool) {
	switch code {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest, false
	case apperrors.ErrCodeInvalidCredentials, apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized, false
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound, false
	case apperrors.ErrCodeConflict:
		return http.StatusConflict, false
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, true
	case apperrors.ErrCodeMisconfigured:
		return http.StatusInternalServerError, true
	default:
		return http.StatusInternalServerError, true
	}
}
