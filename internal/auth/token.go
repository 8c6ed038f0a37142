package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/talentoplus/backend/internal/config"
	"github.com/talentoplus/backend/internal/domain"
)

type Claims struct {
	EmployeeID int64    `json:"EmpleadoId"`
	Roles      []string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) HasAnyRole(required ...domain.Role) bool {
	for _, role := range required {
		if slices.Contains(c.Roles, string(role)) {
			return true
		}
	}
	return false
}

type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	lifetime time.Duration
	now      func() time.Time
}

func NewIssuer(cfg *config.Config) *Issuer {
	return &Issuer{
		secret:   []byte(cfg.JWT.Secret),
		issuer:   cfg.JWT.Issuer,
		audience: cfg.JWT.Audience,
		lifetime: cfg.TokenLifetime(),
		now:      time.Now,
	}
}

// Issue 签发一个 HS256 令牌，每个令牌都有唯一的 jti
func (i *Issuer) Issue(username string, employeeID int64, roles []domain.Role) (string, time.Time, error) {
	now := i.now()
	expiration := now.Add(i.lifetime)

	claims := Claims{
		EmployeeID: employeeID,
		Roles:      domain.RoleNames(roles),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if i.audience != "" {
		claims.Audience = jwt.ClaimStrings{i.audience}
	}

	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return ss, expiration, nil
}

func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}
	if i.audience != "" {
		opts = append(opts, jwt.WithAudience(i.audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
