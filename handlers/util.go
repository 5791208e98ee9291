package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"task-management-app/backend/domain"
)

type successResp struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResp struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Expired bool   `json:"expired,omitempty"`
}

func writeResp(data any, statusCode int, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data == nil {
		data = struct{}{}
	}
	if err := json.NewEncoder(w).Encode(successResp{Success: true, Data: data}); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func writeErrorResp(err error, w http.ResponseWriter) {
	if err == nil {
		return
	}

	resp := errorResp{Error: err.Error()}
	status := http.StatusInternalServerError

	var validation domain.ValidationError
	var notFound domain.NotFoundError
	var authentication domain.AuthenticationError
	var authorization domain.AuthorizationError
	var conflict domain.ConflictError
	var persistence domain.PersistenceError

	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
		resp.Kind = validation.Kind()
	case errors.As(err, &notFound):
		status = http.StatusNotFound
		resp.Kind = notFound.Kind()
	case errors.As(err, &authentication):
		status = http.StatusUnauthorized
		resp.Kind = authentication.Kind()
		resp.Expired = authentication.Expired
	case errors.As(err, &authorization):
		status = http.StatusForbidden
		resp.Kind = authorization.Kind()
	case errors.As(err, &conflict):
		status = http.StatusConflict
		resp.Kind = conflict.Kind()
	case errors.As(err, &persistence):
		log.Printf("Persistence error: %v", err)
		resp.Kind = persistence.Kind()
		resp.Error = "Server Error"
	default:
		log.Printf("Unexpected error: %v", err)
		resp.Error = "Server Error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		log.Printf("Error writing response: %v", encodeErr)
	}
}

func readReq(req any, r *http.Request, w http.ResponseWriter) error {
	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil {
		writeErrorResp(domain.ValidationError{Message: "Unable to decode json"}, w)
	}
	return err
}

// readReqStrict rejects unknown JSON keys, used for partial updates where a
// misspelled field must not silently no-op.
func readReqStrict(req any, r *http.Request, w http.ResponseWriter) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(req)
	if err != nil {
		writeErrorResp(domain.ValidationError{Message: "Unable to decode json: " + err.Error()}, w)
	}
	return err
}
