// Package auth verifies BigCommerce signed-payload JWTs and issues the
// dashboard session tokens carried in the bc_session cookie.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the dashboard session cookie
const SessionCookieName = "bc_session"

// SessionTTL is how long a dashboard session stays valid
const SessionTTL = 24 * time.Hour

// SignedPayload is the claim set of a BigCommerce load/uninstall callback
// JWT. BigCommerce signs these with the app's client secret using HS256;
// the audience is the app's client id and the subject is "stores/{hash}".
type SignedPayload struct {
	Sub  string `json:"sub"`
	URL  string `json:"url"`
	User struct {
		ID     int    `json:"id"`
		Email  string `json:"email"`
		Locale string `json:"locale"`
	} `json:"user"`
	Owner struct {
		ID    int    `json:"id"`
		Email string `json:"email"`
	} `json:"owner"`
	ChannelID *int `json:"channel_id"`
	jwt.RegisteredClaims
}

// Verifier verifies and issues tokens for one app registration
type Verifier struct {
	clientID     string
	clientSecret []byte
}

// NewVerifier creates a verifier from the app's OAuth credentials
func NewVerifier(clientID, clientSecret string) *Verifier {
	return &Verifier{
		clientID:     clientID,
		clientSecret: []byte(clientSecret),
	}
}

// VerifySignedPayload verifies a signed_payload_jwt from a BigCommerce
// load or uninstall callback.
func (v *Verifier) VerifySignedPayload(signedPayload string) (*SignedPayload, error) {
	var claims SignedPayload
	_, err := jwt.ParseWithClaims(signedPayload, &claims, v.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.clientID),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid signed payload: %w", err)
	}
	return &claims, nil
}

// ExtractStoreHash parses the store hash out of a JWT subject of the form
// "stores/{storeHash}".
func ExtractStoreHash(sub string) (string, error) {
	parts := strings.Split(sub, "/")
	if len(parts) != 2 || parts[0] != "stores" || parts[1] == "" {
		return "", fmt.Errorf("invalid JWT subject: %s", sub)
	}
	return parts[1], nil
}

// SessionClaims is the claim set of a dashboard session token
type SessionClaims struct {
	StoreHash string `json:"storeHash"`
	UserID    int    `json:"userId"`
	jwt.RegisteredClaims
}

// CreateSessionToken issues a session JWT for dashboard access
func (v *Verifier) CreateSessionToken(storeHash string, userID int) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		StoreHash: storeHash,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.clientSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// VerifySessionToken verifies a session token from the dashboard cookie
func (v *Verifier) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	var claims SessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, v.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	return &claims, nil
}

func (v *Verifier) keyFunc(*jwt.Token) (interface{}, error) {
	return v.clientSecret, nil
}
