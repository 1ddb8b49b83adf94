package xmlrpctest

import (
	"github.com/yndnr/xrpc-go/internal/core/domain"
)

// InstallSessionMethods registers a minimal session service:
//
//	system.connect            -> {sessid, user: {uid: 0}}
//	user.login(name, pass)    -> {sessid, user: {uid, name}}
//	user.logout               -> true
//
// Issued tokens are tracked by v. When v requires key auth, login and
// logout must be listed in RequireKeyAuth by the caller.
func (s *Server) InstallSessionMethods(v *Verifier, users map[string]string) {
	s.Handle("system.connect", func(Call) (domain.Value, error) {
		sessid, err := v.IssueSession()
		if err != nil {
			return nil, err
		}
		return map[string]any{
			domain.SessionTokenField: sessid,
			"user":                   map[string]any{"uid": 0},
		}, nil
	})

	s.Handle("user.login", func(c Call) (domain.Value, error) {
		if len(c.Params) != 2 {
			return nil, domain.NewFaultError(FaultInvalidParams, "user.login expects username and password")
		}
		name, _ := c.Params[0].(string)
		pass, _ := c.Params[1].(string)
		if want, ok := users[name]; !ok || want != pass {
			return nil, domain.NewFaultError(FaultAccessDenied, "wrong username or password")
		}
		if c.Session != "" {
			v.EndSession(c.Session)
		}
		sessid, err := v.IssueSession()
		if err != nil {
			return nil, err
		}
		return map[string]any{
			domain.SessionTokenField: sessid,
			"user":                   map[string]any{"uid": 1, "name": name},
		}, nil
	})

	s.Handle("user.logout", func(c Call) (domain.Value, error) {
		if c.Session != "" {
			v.EndSession(c.Session)
		}
		return true, nil
	})
}
