package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// JSON-RPC 2.0 error codes.
const (
	ErrParseCode      = -32700
	ErrInvalidReq     = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603

	// ErrServer is the implementation-defined code for domain failures.
	ErrServer = -32000
)

// MaxBatch caps the number of calls in one batch.
const MaxBatch = 50

var errorMessages = map[int]string{
	ErrParseCode:      "parse error",
	ErrInvalidReq:     "invalid request",
	ErrMethodNotFound: "method not found",
	ErrInvalidParams:  "invalid params",
	ErrInternal:       "internal error",
	ErrServer:         "server error",
}

// Request represents a JSON-RPC 2.0 request. A request without an ID is a
// notification and gets no response.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id,omitempty"`
}

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// CodedError is a domain error that knows its JSON-RPC error code. The error
// value itself is sent as the error data, so it should marshal to the
// details a client acts on.
type CodedError interface {
	error
	RPCCode() int
}

// NewError builds the error object for err. Errors without a code become
// internal errors and their text is withheld.
func NewError(err error) *Error {
	var coded CodedError
	if errors.As(err, &coded) {
		code := coded.RPCCode()
		return &Error{Code: code, Message: errorMessage(code), Data: coded}
	}
	return &Error{Code: ErrInternal, Message: errorMessage(ErrInternal)}
}

func errorMessage(code int) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return errorMessages[ErrServer]
}

// ParseRequest decodes and validates one request object. Members outside
// the JSON-RPC envelope are rejected.
func ParseRequest(data []byte) (Request, error) {
	var req Request
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return Request{}, fmt.Errorf("invalid request: %w", err)
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		return Request{}, errors.New("invalid request: jsonrpc must be 2.0 and method is required")
	}
	return req, nil
}

// Call executes one request.
type Call func(ctx context.Context, req Request) (any, error)

// Dispatch runs the request or batch in body through call. It returns the
// payload to write: a Response, a []Response for a batch, or nil when only
// notifications were sent. An error from call for which abort reports true
// stops the dispatch and is returned as is.
func Dispatch(ctx context.Context, body io.Reader, call Call, abort func(error) bool) (any, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || !json.Valid(data) {
		return failure(nil, ErrParseCode), nil
	}

	if data[0] != '[' {
		resp, err := dispatchOne(ctx, data, call, abort)
		if err != nil || resp == nil {
			return nil, err
		}
		return *resp, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil || len(items) == 0 || len(items) > MaxBatch {
		return failure(nil, ErrInvalidReq), nil
	}
	responses := make([]Response, 0, len(items))
	for _, item := range items {
		resp, err := dispatchOne(ctx, item, call, abort)
		if err != nil {
			return nil, err
		}
		if resp != nil {
			responses = append(responses, *resp)
		}
	}
	if len(responses) == 0 {
		return nil, nil
	}
	return responses, nil
}

func dispatchOne(ctx context.Context, data []byte, call Call, abort func(error) bool) (*Response, error) {
	req, err := ParseRequest(data)
	if err != nil {
		resp := failure(nil, ErrInvalidReq)
		return &resp, nil
	}

	result, err := call(ctx, req)
	if err != nil && abort != nil && abort(err) {
		return nil, err
	}
	if req.ID == nil {
		return nil, nil
	}
	if err != nil {
		return &Response{JSONRPC: "2.0", Error: NewError(err), ID: req.ID}, nil
	}
	return &Response{JSONRPC: "2.0", Result: result, ID: req.ID}, nil
}

func failure(id any, code int) Response {
	return Response{JSONRPC: "2.0", Error: &Error{Code: code, Message: errorMessage(code)}, ID: id}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
