package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// DefaultTokenTTL is the lifetime of every issued token.
const DefaultTokenTTL = 24 * time.Hour

// VerificationFailure tells apart the ways a token can be rejected.
type VerificationFailure int

const (
	TokenMalformed VerificationFailure = iota + 1
	TokenSignatureInvalid
	TokenExpired
)

func (f VerificationFailure) String() string {
	switch f {
	case TokenExpired:
		return "expired"
	case TokenSignatureInvalid:
		return "signature_invalid"
	default:
		return "malformed"
	}
}

// VerificationError is returned by TokenService.Verify. Clients only ever
// see "invalid token"; Reason is for logs, metrics and tests.
type VerificationError struct {
	Reason VerificationFailure
	Err    error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid token (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid token (%s)", e.Reason)
}

func (e *VerificationError) Unwrap() error { return e.Err }

// TokenUser is the identity embedded in a token.
type TokenUser struct {
	ID string `json:"id"`
}

// TokenClaims is the signed payload: {"user":{"id":...},"iat":...,"exp":...}.
type TokenClaims struct {
	User TokenUser `json:"user"`
	jwt.StandardClaims
}

// TokenService issues and verifies stateless HS256 identity tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with secret.
// A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the issuance clock.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// TTL returns the token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for userID that expires after the configured TTL.
func (s *TokenService) Issue(userID string) (string, error) {
	issuedAt := s.now()
	claims := TokenClaims{
		User: TokenUser{ID: userID},
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: issuedAt.Add(s.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", storageError("failed to generate token", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity id.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", classifyTokenError(err)
	}
	if !token.Valid || claims.User.ID == "" {
		return "", &VerificationError{Reason: TokenMalformed, Err: errors.New("token carries no identity")}
	}
	return claims.User.ID, nil
}

// classifyTokenError maps jwt-go's validation bitmask to a single reason.
// A malformed token wins over a bad signature, which wins over expiry.
func classifyTokenError(err error) *VerificationError {
	var ve *jwt.ValidationError
	if !errors.As(err, &ve) {
		return &VerificationError{Reason: TokenMalformed, Err: err}
	}
	switch {
	case ve.Errors&jwt.ValidationErrorMalformed != 0:
		return &VerificationError{Reason: TokenMalformed, Err: err}
	case ve.Errors&(jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorUnverifiable) != 0:
		return &VerificationError{Reason: TokenSignatureInvalid, Err: err}
	case ve.Errors&jwt.ValidationErrorExpired != 0:
		return &VerificationError{Reason: TokenExpired, Err: err}
	default:
		return &VerificationError{Reason: TokenMalformed, Err: err}
	}
}
