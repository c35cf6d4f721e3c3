package auth

import (
	"errors"
	"fmt"
	"time"

	"virtualcto/internal/domain"
	"virtualcto/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig is the process-wide signing configuration.
type TokenConfig struct {
	Secret    []byte
	Algorithm string // HS256, HS384 or HS512
	TTL       time.Duration
	Issuer    string
}

// JWTService implements TokenService with HMAC-signed JWTs.
type JWTService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTService validates cfg and builds a token service.
func NewJWTService(cfg TokenConfig) (*JWTService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret cannot be empty")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
	}

	return &JWTService{
		secret: cfg.Secret,
		method: method,
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the service that reads time from now.
// Issuing and expiry checks both use it.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	c := *s
	c.now = now
	return &c
}

// Issue implements TokenService
func (s *JWTService) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject cannot be empty")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	now := s.now()
	claims := models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify implements TokenService
func (s *JWTService) Verify(tokenString string) (*models.TokenClaims, error) {
	if tokenString == "" {
		return nil, domain.ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		// Prevent algorithm confusion: only the configured method is accepted
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}

	return claims, nil
}
