// Package rpc exposes the marketplace over HTTP JSON-RPC.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/nftstore/nftstored/internal/core/ledger/service"
)

// Handler processes one RPC method call.
type Handler func(ctx context.Context, params json.RawMessage) (any, error)

// Server handles HTTP JSON-RPC requests.
// Format: {"method": "method_name", "params": [{...}]}
type Server struct {
	svc     *service.Service
	methods map[string]Handler
	timeout time.Duration
}

// NewServer creates a new RPC server over the given service.
func NewServer(svc *service.Service, timeout time.Duration) *Server {
	s := &Server{
		svc:     svc,
		methods: make(map[string]Handler),
		timeout: timeout,
	}
	s.registerAllMethods()
	return s
}

// Request represents a JSON-RPC request.
type Request struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params,omitempty"`
}

// errorResponse is the error payload shape.
type errorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"error_message,omitempty"`
}

// ErrUnknownMethod is returned for unregistered method names.
var ErrUnknownMethod = errors.New("unknown method")

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, "malformed_request", err.Error())
		return
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, "malformed_request", err.Error())
		return
	}

	handler, ok := s.methods[req.Method]
	if !ok {
		writeError(w, "unknown_method", req.Method)
		return
	}

	var params json.RawMessage
	if len(req.Params) > 0 {
		params = req.Params[0]
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := handler(ctx, params)
	if err != nil {
		writeError(w, "request_failed", err.Error())
		return
	}

	resp := map[string]any{"result": result}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("rpc: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code, message string) {
	w.WriteHeader(http.StatusBadRequest)
	resp := map[string]any{
		"result": errorResponse{
			Status:  "error",
			Error:   code,
			Message: message,
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("rpc: encode error response: %v", err)
	}
}

// register installs a handler for a method name.
func (s *Server) register(name string, handler Handler) {
	s.methods[name] = handler
}
