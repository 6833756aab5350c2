package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Claims is the JWT claim set issued on login.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies signed bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer constructs a TokenIssuer with an HMAC secret and token TTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given account.
func (t *TokenIssuer) Issue(acct *Account, now time.Time) (string, error) {
	claims := Claims{
		Username: acct.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(acct.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a signed token and returns the caller identity.
func (t *TokenIssuer) Verify(tokenString string) (shared.Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %q", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return shared.Identity{}, shared.ErrInvalidCredentials
	}
	staffID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return shared.Identity{}, shared.ErrInvalidCredentials
	}
	return shared.Identity{StaffID: staffID, Username: claims.Username}, nil
}
