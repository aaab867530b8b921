package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token identity constants. These are part of the wire contract with the
// web client and must not change between releases.
const (
	// TokenIssuerName is the iss claim on every issued token.
	TokenIssuerName = "Fiya webservice"

	// TokenAudience is the aud claim on every issued token. Access token
	// verification enforces it; refresh verification does not, because
	// refresh tokens are only ever checked against their stored session.
	TokenAudience = "Fiya webApp"
)

// AccessClaims is the payload of an access token.
// Wire format: {exp, iat, sub, iss, aud, role}.
type AccessClaims struct {
	jwt.RegisteredClaims
	Role Role `json:"role"`
}

// RefreshClaims is the payload of a refresh token. The id claim is the
// session id, not a token id: rotation replaces the session row (new id),
// so a rotated-out token fails its session lookup.
// Wire format: {id, sub, iat, exp}.
type RefreshClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"id"`
}

// TokenIssuer signs and verifies Fiya JWTs. The signing secret and TTLs
// are injected at construction; there is no global state.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer creates a TokenIssuer with the given signing secret and
// token lifetimes in minutes.
func NewTokenIssuer(secret string, accessTTLMinutes, refreshTTLMinutes int) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessTTLMinutes) * time.Minute,
		refreshTTL: time.Duration(refreshTTLMinutes) * time.Minute,
	}
}

// IssueAccessToken creates a signed access token for a user.
// Access tokens are validated by signature and audience only (no DB hit).
func (ti *TokenIssuer) IssueAccessToken(user *User) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    TokenIssuerName,
			Audience:  jwt.ClaimStrings{TokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.accessTTL)),
		},
		Role: user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return signed, nil
}

// IssueRefreshToken creates a signed refresh token bound to a session.
// It returns the token and its expiry (also the session row's expiry and
// the browser cookie's Expires attribute).
func (ti *TokenIssuer) IssueRefreshToken(sessionID, userID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ti.refreshTTL)
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing refresh token: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyAccessToken validates an access token's signature, expiry and
// audience, returning its claims.
func (ti *TokenIssuer) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := ti.verify(tokenString, claims, jwt.WithAudience(TokenAudience)); err != nil {
		return nil, err
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("%w: missing role", ErrTokenInvalid)
	}

	return claims, nil
}

// VerifyRefreshToken validates a refresh token's signature and expiry,
// returning its claims. The session lookup is the caller's job.
func (ti *TokenIssuer) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := ti.verify(tokenString, claims, nil); err != nil {
		return nil, err
	}

	if claims.SessionID == "" {
		return nil, fmt.Errorf("%w: missing session id", ErrTokenInvalid)
	}

	return claims, nil
}

// verify parses a token into claims, accepting HS256 only.
func (ti *TokenIssuer) verify(tokenString string, claims jwt.Claims, audience jwt.ParserOption) (err error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if audience != nil {
		opts = append(opts, audience)
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return ti.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
