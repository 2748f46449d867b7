package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrNoSecret     = errors.New("jwt secret not configured")
)

// Claims identify a viewer of the notification stream. RestaurantID narrows the stream to
// one restaurant when set.
type Claims struct {
	RestaurantID string `json:"rid,omitempty"`
	jwt.RegisteredClaims
}

type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

// JWTValidator checks HMAC-signed tokens against a shared secret.
type JWTValidator struct {
	secret []byte
	now    func() time.Time
}

func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{secret: []byte(strings.TrimSpace(secret)), now: time.Now}
}

// Enabled reports whether a secret is configured.
func (v *JWTValidator) Enabled() bool { return len(v.secret) > 0 }

// hmacMethods are the algorithms Validate accepts.
var hmacMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

func (v *JWTValidator) Validate(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	switch {
	case token == "":
		return nil, ErrMissingToken
	case !v.Enabled():
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrNoSecret)
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods(hmacMethods),
		jwt.WithLeeway(5*time.Second),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return &claims, nil
}

// Issue signs an HS256 token for subject. A ttl of zero leaves out the expiry.
func (v *JWTValidator) Issue(subject, restaurantID string, ttl time.Duration) (string, error) {
	switch {
	case !v.Enabled():
		return "", ErrNoSecret
	case strings.TrimSpace(subject) == "":
		return "", errors.New("issue token: missing subject")
	}
	now := v.now()
	claims := Claims{
		RestaurantID: restaurantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
