package authservice

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

// sessionClaims are the claims embedded in a self-issued session JWT.
type sessionClaims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Roles   []Role `json:"roles"`
}

// sessionIssuer issues and validates self-signed session JWTs using
// HMAC-SHA256, matching the teacher's SessionManager adapted from an
// HTTP-cookie session store into an in-memory "current session" observable.
type sessionIssuer struct {
	signingKey []byte
	maxAge     time.Duration
}

func newSessionIssuer(signingKey []byte, maxAge time.Duration) *sessionIssuer {
	if len(signingKey) == 0 {
		signingKey = randomSigningKey()
	}
	return &sessionIssuer{signingKey: signingKey, maxAge: maxAge}
}

// randomSigningKey generates a process-local signing key when none is
// configured. Sessions issued before a restart do not survive it, which is
// acceptable: the core persists nothing across restarts anyway (spec.md §1).
func randomSigningKey() []byte {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("reading random bytes: %v", err))
	}
	return b
}

func (si *sessionIssuer) issue(u User) (string, time.Time, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: si.signingKey},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("creating signer: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(si.maxAge)
	registered := jwt.Claims{
		Subject:   u.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		Expiry:    jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    "orbit",
	}
	custom := sessionClaims{Subject: u.ID, Email: u.Email, Roles: u.Roles}

	token, err := jwt.Signed(signer).Claims(registered).Claims(custom).Serialize()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return token, expiresAt, nil
}

func (si *sessionIssuer) validate(raw string) (User, time.Time, error) {
	tok, err := jwt.ParseSigned(raw, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return User{}, time.Time{}, fmt.Errorf("parsing token: %w", err)
	}

	var registered jwt.Claims
	var custom sessionClaims
	if err := tok.Claims(si.signingKey, &registered, &custom); err != nil {
		return User{}, time.Time{}, fmt.Errorf("verifying token: %w", err)
	}
	if err := registered.ValidateWithLeeway(jwt.Expected{Issuer: "orbit", Time: time.Now()}, 5*time.Second); err != nil {
		return User{}, time.Time{}, fmt.Errorf("validating claims: %w", err)
	}

	expiry := time.Time{}
	if registered.Expiry != nil {
		expiry = registered.Expiry.Time()
	}
	return User{ID: custom.Subject, Email: custom.Email, Roles: custom.Roles}, expiry, nil
}
