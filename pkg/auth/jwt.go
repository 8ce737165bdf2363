package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medipoint/clinic-api/internal/model"
)

// Claims are the token claims the service cares about: who the caller is
// and which role class they act in.
type Claims struct {
	Role model.ActorRole `json:"role"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret []byte
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// GenerateToken issues a signed token for a subject. Used by the identity
// provider integration and by tests.
func (s *JWTService) GenerateToken(subjectID string, role model.ActorRole, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses a token and returns the actor it represents.
func (s *JWTService) ValidateToken(tokenString string) (model.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return model.Actor{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return model.Actor{}, fmt.Errorf("invalid token")
	}

	return model.Actor{
		SubjectID: claims.Subject,
		Role:      claims.Role,
	}, nil
}
