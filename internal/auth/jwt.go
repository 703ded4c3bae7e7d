package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTProvider issues and verifies HS256 access tokens.
type JWTProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTProvider(secret string, ttl time.Duration) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (p *JWTProvider) Generate(u domain.User) (string, time.Time, error) {
	now := p.now().UTC()
	expiresAt := now.Add(p.ttl)
	claims := Claims{
		Email: u.Email,
		Role:  string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies the token and returns the actor it names.
func (p *JWTProvider) Parse(token string) (domain.Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now))
	if err != nil {
		return domain.Actor{}, domain.NewError(domain.KindUnauthorized, "invalid token", err)
	}
	if claims.Subject == "" {
		return domain.Actor{}, domain.NewError(domain.KindUnauthorized, "invalid token", errors.New("missing subject"))
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Actor{}, domain.NewError(domain.KindUnauthorized, "invalid token", err)
	}
	return domain.Actor{ID: claims.Subject, Email: claims.Email, Role: role}, nil
}
