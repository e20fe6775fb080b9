package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/taskboard-server/internal/model"
)

// Claims represents JWT claims with token type and client ID.
type Claims struct {
	jwt.RegisteredClaims
	ClientID  uuid.UUID `json:"client_id"`
	TokenType string    `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

const typeClient = "client"

// NewJWT creates a client token manager signing with secretKey.
// Tokens expire after ttl.
func NewJWT(secretKey string, ttl time.Duration) model.TokenManager {
	return &JWT{secretKey: secretKey, ttl: ttl, now: time.Now}
}

// GenerateClientToken issues the token a client presents on every call.
func (j *JWT) GenerateClientToken(clientID uuid.UUID) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   clientID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		ClientID:  clientID,
		TokenType: typeClient,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign client token: %w", err)
	}

	return tokenString, nil
}

// ParseClientToken validates the token and extracts the client ID.
func (j *JWT) ParseClientToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse client token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("client token is invalid")
	}
	if claims.TokenType != typeClient {
		return uuid.Nil, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	if claims.ClientID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("client token has no client id")
	}
	return claims.ClientID, nil
}
