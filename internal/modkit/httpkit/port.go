package httpkit

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	perr "confsrv/internal/platform/errors"
)

// TokenFunc resolves a bearer token to a contact id
type TokenFunc func(token string) (contactID int64, err error)

// Port implements middleware.AuthPort over the Authorization header
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port around fn
func NewPortFunc(fn TokenFunc) *Port { return &Port{parse: fn} }

// Parse reads "Authorization: Bearer <token>" (scheme case-insensitive) and resolves it
func (p *Port) Parse(r *http.Request) (int64, error) {
	scheme, token, _ := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	token = strings.TrimSpace(token)
	if !strings.EqualFold(scheme, "bearer") || token == "" {
		return 0, perr.Unauthorizedf("missing bearer token")
	}
	if p == nil || p.parse == nil {
		return 0, perr.Unauthorizedf("invalid bearer token")
	}
	id, err := p.parse(token)
	if err != nil || id <= 0 {
		return 0, perr.Unauthorizedf("invalid bearer token")
	}
	return id, nil
}

// StaticTokens resolves tokens from a fixed token -> contact id table, as read by
// config MayPairs; entries whose id does not parse are ignored
func StaticTokens(pairs map[string]string) TokenFunc {
	type entry struct {
		token []byte
		id    int64
	}
	var table []entry
	for tok, raw := range pairs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		table = append(table, entry{token: []byte(tok), id: id})
	}
	return func(token string) (int64, error) {
		var found int64
		for _, e := range table {
			if subtle.ConstantTimeCompare(e.token, []byte(token)) == 1 {
				found = e.id
			}
		}
		if found == 0 {
			return 0, perr.Unauthorizedf("unknown token")
		}
		return found, nil
	}
}
