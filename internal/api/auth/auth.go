package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid client id or secret")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrDisabled           = errors.New("token issuing is not configured")
)

// Authenticator issues and checks HS256 bearer tokens for a single API client.
// The client secret is only known by its bcrypt hash.
type Authenticator struct {
	signingKey []byte
	clientID   string
	secretHash []byte
	now        func() time.Time
}

func New(signingKey, clientID, secretHash string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(strings.TrimSpace(signingKey)),
		clientID:   strings.TrimSpace(clientID),
		secretHash: []byte(strings.TrimSpace(secretHash)),
		now:        time.Now,
	}
}

// Enabled reports whether requests must carry a token.
func (a *Authenticator) Enabled() bool {
	return a != nil && len(a.signingKey) > 0
}

// Issue returns a signed token valid for one hour.
func (a *Authenticator) Issue(clientID, secret string) (string, error) {
	if !a.Enabled() || a.clientID == "" || len(a.secretHash) == 0 {
		return "", ErrDisabled
	}
	if clientID != a.clientID {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.secretHash, []byte(secret)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": clientID,
		"exp": a.now().Add(tokenTTL).Unix(),
	})

	signed, err := token.SignedString(a.signingKey)
	if err != nil {
		return "", fmt.Errorf("issue token: sign: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns its subject.
func (a *Authenticator) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.signingKey, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
