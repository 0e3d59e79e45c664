package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenGenerator issues and validates company session tokens.
type TokenGenerator interface {
	GenerateAccessToken(companyID uuid.UUID, displayName, email string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	TTL() time.Duration
}

// Claims represents JWT token claims
type Claims struct {
	DisplayName string `json:"nomeFantasia"`
	Email       string `json:"email"`
	CompanyID   string `json:"empresaId"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	Secret         []byte
	AccessTokenTTL time.Duration
	now            func() time.Time
}

// NewJWTTokenGenerator creates an HS256 token generator
func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTTokenGenerator{
		Secret:         []byte(secret),
		AccessTokenTTL: ttl,
		now:            time.Now,
	}
}

func (j *JWTTokenGenerator) TTL() time.Duration {
	return j.AccessTokenTTL
}

func (j *JWTTokenGenerator) GenerateAccessToken(companyID uuid.UUID, displayName, email string) (string, error) {
	issuedAt := j.now()

	claims := &Claims{
		DisplayName: displayName,
		Email:       email,
		CompanyID:   companyID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(j.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Subject:   companyID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithTimeFunc(j.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, internal.ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.CompanyID); err != nil {
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	return claims, nil
}
