package ports

// TokenService issues and verifies signed, time-bound session tokens.
// Claims are caller-supplied and passed through verbatim; the transport is
// trusted to have authenticated the caller before requesting a token.
type TokenService interface {
	// Issue signs the claims and stamps a fixed expiry from issuance time.
	Issue(claims map[string]any) (string, error)
	// Verify checks signature and expiry and returns the decoded claims.
	// Any failure (malformed, bad signature, expired) is domain.ErrUnauthenticated.
	Verify(token string) (map[string]any, error)
}
