package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/celestiaorg/taskman/internal/types"
)

// Request is what a handler sees of an HTTP request: path parameters, query
// parameters and the JSON body (an object, {} when the request had none)
type Request struct {
	Params map[string]string
	Query  url.Values
	Body   json.RawMessage
}

// Param returns a path parameter
func (r Request) Param(name string) string {
	return r.Params[name]
}

// Result is what a handler returns. The dispatcher writes Payload as JSON with
// Status. Err, when set, is the underlying cause of a failure and is only logged.
type Result struct {
	Status  int
	Payload interface{}
	Err     error
}

// HandlerFunc handles one API operation
type HandlerFunc func(ctx context.Context, req Request) Result

// OK returns a 200 result
func OK(payload interface{}) Result {
	return Result{Status: http.StatusOK, Payload: payload}
}

// Fail returns an error result with the message as its payload
func Fail(status int, msg string) Result {
	return Result{Status: status, Payload: types.ErrorResponse{Error: msg}}
}

// parseParams decodes the request body into a params struct
func parseParams[T any](req Request) (T, error) {
	var params T
	body := bytes.TrimSpace(req.Body)
	if len(body) == 0 {
		return params, nil
	}
	if err := json.Unmarshal(body, &params); err != nil {
		return params, err
	}
	return params, nil
}

// invalidParams is the result for a body that does not decode into the expected params
func invalidParams(err error) Result {
	if errors.Is(err, errInvalidID) {
		return Fail(http.StatusBadRequest, ErrMsgInvalidID)
	}
	if errors.Is(err, types.ErrInvalidEnum) {
		return Fail(http.StatusBadRequest, err.Error())
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch typeErr.Field {
		case "highlight":
			return Fail(http.StatusBadRequest, ErrMsgInvalidHighlight)
		case "done":
			return Fail(http.StatusBadRequest, ErrMsgInvalidDone)
		case "":
		default:
			return Fail(http.StatusBadRequest, ErrMsgInvalidParams+": "+typeErr.Field)
		}
	}
	return Fail(http.StatusBadRequest, ErrMsgInvalidParams)
}

var errInvalidID = errors.New(ErrMsgInvalidID)

// ID is a positive identifier that decodes from either a JSON number or a
// numeric string. Zero means the id was not supplied.
type ID uint64

// UnmarshalJSON implements json.Unmarshaler for ID
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*id = 0
		return nil
	}
	var n uint64
	if err := json.Unmarshal(data, &n); err == nil {
		if n == 0 {
			return errInvalidID
		}
		*id = ID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errInvalidID
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return errInvalidID
	}
	*id = ID(n)
	return nil
}

// validateID reports a missing id
func validateID(id ID) error {
	if id == 0 {
		return errors.New(ErrMsgIDRequired)
	}
	return nil
}
