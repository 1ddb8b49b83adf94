package xmlrpctest

import (
	"strconv"
	"sync"
	"time"

	"github.com/yndnr/xrpc-go/internal/core/domain"
	"github.com/yndnr/xrpc-go/pkg/token"
)

// Fault codes returned by the fake endpoint.
const (
	FaultParse          = -32700
	FaultMethodNotFound = -32601
	FaultInvalidParams  = -32602
	FaultAccessDenied   = 401
)

// Verifier checks key-authentication tuples the way a keyed remote
// endpoint does: HMAC signature, timestamp window, nonce replay and
// session token.
type Verifier struct {
	apiKey string
	window time.Duration
	nonces *NonceCache
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]bool
}

// NewVerifier creates a verifier for apiKey accepting timestamps within
// window of the current time.
func NewVerifier(apiKey string, window time.Duration) *Verifier {
	return &Verifier{
		apiKey:   apiKey,
		window:   window,
		nonces:   NewNonceCache(10000, 2*window),
		now:      time.Now,
		sessions: make(map[string]bool),
	}
}

// SetClock overrides the time source for the timestamp window and nonce TTL.
func (v *Verifier) SetClock(now func() time.Time) {
	v.now = now
	v.nonces.now = now
}

// IssueSession registers and returns a fresh session token.
func (v *Verifier) IssueSession() (string, error) {
	sessid, err := token.Generate()
	if err != nil {
		return "", err
	}
	v.mu.Lock()
	v.sessions[sessid] = true
	v.mu.Unlock()
	return sessid, nil
}

// EndSession forgets a session token.
func (v *Verifier) EndSession(sessid string) {
	v.mu.Lock()
	delete(v.sessions, sessid)
	v.mu.Unlock()
}

// Verify splits the auth tuple off params and checks it for method.
// It returns the remaining caller params and the session token, or a
// *domain.FaultError.
func (v *Verifier) Verify(method string, params []domain.Value) ([]domain.Value, string, error) {
	if len(params) < domain.AuthParamCount {
		return nil, "", domain.NewFaultError(FaultInvalidParams, "missing authentication parameters")
	}

	fields := make([]string, domain.AuthParamCount)
	for i, p := range params[:domain.AuthParamCount] {
		s, ok := p.(string)
		if !ok {
			return nil, "", domain.NewFaultError(FaultInvalidParams, "authentication parameter "+strconv.Itoa(i)+" is not a string")
		}
		fields[i] = s
	}
	sig, dom, ts, nonce, sessid := fields[0], fields[1], fields[2], fields[3], fields[4]

	if !token.VerifySignature(v.apiKey, domain.SigningMessage(ts, dom, nonce, method), sig) {
		return nil, "", domain.NewFaultError(FaultAccessDenied, "invalid signature")
	}

	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, "", domain.NewFaultError(FaultInvalidParams, "invalid timestamp")
	}
	skew := v.now().Sub(time.Unix(sec, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > v.window {
		return nil, "", domain.NewFaultError(FaultAccessDenied, "timestamp outside acceptable window")
	}

	if !v.nonces.AddIfAbsent(nonce) {
		return nil, "", domain.NewFaultError(FaultAccessDenied, "nonce has been used before")
	}

	if sessid != "" {
		v.mu.Lock()
		known := v.sessions[sessid]
		v.mu.Unlock()
		if !known {
			return nil, "", domain.NewFaultError(FaultAccessDenied, "unknown session")
		}
	}

	return params[domain.AuthParamCount:], sessid, nil
}
