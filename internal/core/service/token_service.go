package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/travelstay/marketplace-api/internal/core/domain"
)

const defaultTokenTTL = time.Hour

// TokenService is a stateless HS256 signing and verification wrapper. Tokens
// carry the caller-supplied claims plus iat/exp and are never persisted.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs the claims with a fixed expiry from now. Claims are accepted
// verbatim; no uniqueness or identity checks happen here.
func (s *TokenService) Issue(claims map[string]any) (string, error) {
	mapClaims := jwt.MapClaims{}
	for k, v := range claims {
		mapClaims[k] = v
	}
	now := time.Now().UTC()
	mapClaims["iat"] = now.Unix()
	mapClaims["exp"] = now.Add(s.ttl).Unix()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates the token. Every failure mode (malformed,
// wrong algorithm, bad signature, expired) collapses to ErrUnauthenticated
// so the boundary always rejects rather than leaking parse detail.
func (s *TokenService) Verify(token string) (map[string]any, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
