package identity

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload understood by the API.
type Claims struct {
	CompanyID uint   `json:"company_id,omitempty"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for id.
func IssueToken(secret []byte, id Identity, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("jwt secret is empty")
	}
	if id.UserID == 0 {
		return "", errors.New("user id is required")
	}
	role := id.Role
	if id.IsAdmin {
		role = RolePlatformAdmin
	}
	now := time.Now()
	claims := Claims{
		CompanyID: id.CompanyAccountID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken validates raw and converts its claims into an Identity.
func ParseToken(secret []byte, raw string) (Identity, error) {
	if len(secret) == 0 {
		return Identity{}, errors.New("jwt secret is empty")
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, err
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return Identity{}, fmt.Errorf("invalid subject %q", claims.Subject)
	}
	return Identity{
		UserID:           uint(userID),
		CompanyAccountID: claims.CompanyID,
		Role:             claims.Role,
		IsAdmin:          claims.Role == RolePlatformAdmin,
	}, nil
}
