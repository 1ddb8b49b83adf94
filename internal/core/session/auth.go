package session

import (
	"strconv"

	"github.com/yndnr/xrpc-go/internal/core/domain"
	"github.com/yndnr/xrpc-go/pkg/token"
)

// BuildAuthParams computes the key-authentication tuple for method.
//
// The signature is HMAC-SHA256, keyed with the API key, over
// "timestamp;domain;nonce;method". The session token slot is empty until
// the remote end has issued one.
func (s *Session) BuildAuthParams(method string) (domain.AuthParams, error) {
	if s.apiKey == "" {
		return domain.AuthParams{}, domain.ErrAPIKeyMissing
	}

	nonce, err := s.nonce()
	if err != nil {
		return domain.AuthParams{}, domain.ErrNonce.WithCause(err)
	}
	timestamp := strconv.FormatInt(s.now().Unix(), 10)

	return domain.AuthParams{
		Signature:    token.Sign(s.apiKey, domain.SigningMessage(timestamp, s.domain, nonce, method)),
		Domain:       s.domain,
		Timestamp:    timestamp,
		Nonce:        nonce,
		SessionToken: s.token,
	}, nil
}
