// Package xmlrpctest provides an in-process XML-RPC endpoint for tests.
package xmlrpctest

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"

	"github.com/yndnr/xrpc-go/internal/core/domain"
	"github.com/yndnr/xrpc-go/internal/transport/xmlrpc"
)

// Call is one request received by the server. Params are the caller
// params after any auth tuple was removed; Raw keeps everything sent.
type Call struct {
	Method  string
	Params  []domain.Value
	Raw     []domain.Value
	Session string
	Header  http.Header
}

// HandlerFunc answers a call. Returning a *domain.FaultError sends a
// fault; any other error answers with HTTP 500.
type HandlerFunc func(call Call) (domain.Value, error)

// Server is a fake XML-RPC endpoint backed by httptest.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	handlers  map[string]HandlerFunc
	calls     []Call
	verifier  *Verifier
	protected map[string]bool
}

// NewServer starts a plain HTTP server.
func NewServer() *Server {
	s := newServer()
	s.Server = httptest.NewServer(s)
	return s
}

// NewTLSServer starts an HTTPS server with a self-signed certificate.
func NewTLSServer() *Server {
	s := newServer()
	s.Server = httptest.NewTLSServer(s)
	return s
}

func newServer() *Server {
	return &Server{
		handlers:  make(map[string]HandlerFunc),
		protected: make(map[string]bool),
	}
}

// Handle registers h for method.
func (s *Server) Handle(method string, h HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

// HandleValue answers method with a fixed value.
func (s *Server) HandleValue(method string, v domain.Value) {
	s.Handle(method, func(Call) (domain.Value, error) { return v, nil })
}

// HandleFault answers method with a fixed fault.
func (s *Server) HandleFault(method string, code int, message string) {
	s.Handle(method, func(Call) (domain.Value, error) {
		return nil, domain.NewFaultError(code, message)
	})
}

// RequireKeyAuth makes methods expect a leading auth tuple checked by v.
// Calls to other methods are passed through unchanged.
func (s *Server) RequireKeyAuth(v *Verifier, methods ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifier = v
	for _, m := range methods {
		s.protected[m] = true
	}
}

// Calls returns every call received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// LastCall returns the most recent call.
func (s *Server) LastCall() (Call, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return Call{}, false
	}
	return s.calls[len(s.calls)-1], true
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	method, params, err := xmlrpc.DecodeCall(body)
	if err != nil {
		writeXML(w, xmlrpc.EncodeFault(FaultParse, "parse error. not well formed"))
		return
	}

	call := Call{Method: method, Params: params, Raw: params, Header: r.Header.Clone()}

	s.mu.Lock()
	h, ok := s.handlers[method]
	verifier := s.verifier
	protected := s.protected[method]
	s.mu.Unlock()

	var authErr error
	if verifier != nil && protected {
		call.Params, call.Session, authErr = verifier.Verify(method, params)
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()

	if authErr != nil {
		s.writeError(w, authErr)
		return
	}
	if !ok {
		writeXML(w, xmlrpc.EncodeFault(FaultMethodNotFound, "server error. requested method "+method+" not specified."))
		return
	}

	v, err := h(call)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out, err := xmlrpc.EncodeResponse(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeXML(w, out)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var fault *domain.FaultError
	if errors.As(err, &fault) {
		writeXML(w, xmlrpc.EncodeFault(fault.Code, fault.Message))
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeXML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/xml")
	_, _ = w.Write(body)
}
