package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
)

func httpWriteResponse(w http.ResponseWriter, code int, obj any) {

	if code == http.StatusNoContent || obj == nil {
		w.WriteHeader(code)
		return
	}

	objBytes, err := json.Marshal(obj)
	if err != nil {
		httpWriteResponseError(w, fmt.Errorf("failed to marshal JSON response: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(objBytes)
}

func httpWriteResponseError(w http.ResponseWriter, err error) {
	var (
		code int
		resp []byte
	)

	codedErr, ok := err.(*ResponseError)
	if !ok {
		code = http.StatusInternalServerError
		resp = []byte(err.Error())
	} else {
		code = codedErr.code

		objBytes, err := json.Marshal(codedErr)
		if err != nil {
			return
		}
		resp = objBytes
		w.Header().Set("Content-Type", "application/json")
	}

	w.WriteHeader(code)
	_, _ = w.Write(resp)
}

// ResponseError mirrors the error body returned by the platform API.
type ResponseError struct {
	Msg  string `json:"message"`
	code int
}

func NewResponseError(err error, code int) *ResponseError {
	return &ResponseError{Msg: err.Error(), code: code}
}

func (r *ResponseError) Error() string { return r.Msg }
