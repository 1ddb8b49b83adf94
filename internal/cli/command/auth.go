package command

import (
	"errors"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/xrpc-go/internal/core/domain"
	"github.com/yndnr/xrpc-go/internal/core/session"
)

// authView is the printed form of an auth tuple.
type authView struct {
	Signature    string `json:"signature" yaml:"signature"`
	Domain       string `json:"domain" yaml:"domain"`
	Timestamp    string `json:"timestamp" yaml:"timestamp"`
	Nonce        string `json:"nonce" yaml:"nonce"`
	SessionToken string `json:"sessid" yaml:"sessid"`
	Message      string `json:"signed_message" yaml:"signed_message"`
}

// AuthCommand returns the auth command.
func AuthCommand() *cli.Command {
	return &cli.Command{
		Name:      "auth",
		Usage:     "Print the key-authentication values for a method",
		ArgsUsage: "METHOD",
		Description: "Computes the signature, domain, timestamp, nonce and session " +
			"token that a signed call to METHOD would carry. Fix --timestamp and " +
			"--nonce to reproduce a signature seen on the server.",
		Flags: []cli.Flag{
			sessionTokenFlag(),
			&cli.Int64Flag{
				Name:  "timestamp",
				Usage: "Unix timestamp to sign (default: now)",
			},
			&cli.StringFlag{
				Name:  "nonce",
				Usage: "Nonce to sign (default: a fresh one)",
			},
		},
		Action: authAction,
	}
}

func authAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("auth: exactly one METHOD is required")
	}
	st, err := getState(c)
	if err != nil {
		return err
	}

	opts := sessionOptions(c)
	if c.IsSet("timestamp") {
		ts := time.Unix(c.Int64("timestamp"), 0)
		opts = append(opts, session.WithClock(func() time.Time { return ts }))
	}
	if c.IsSet("nonce") {
		nonce := c.String("nonce")
		opts = append(opts, session.WithNonce(func() (string, error) { return nonce, nil }))
	}

	s, err := st.Session(opts...)
	if err != nil {
		return err
	}

	method := c.Args().First()
	p, err := s.BuildAuthParams(method)
	if err != nil {
		return err
	}

	return st.Print(authView{
		Signature:    p.Signature,
		Domain:       p.Domain,
		Timestamp:    p.Timestamp,
		Nonce:        p.Nonce,
		SessionToken: p.SessionToken,
		Message:      domain.SigningMessage(p.Timestamp, p.Domain, p.Nonce, method),
	})
}
