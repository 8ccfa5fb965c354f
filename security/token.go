package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"showtime/api/api/common"
)

type SessionClaims struct {
	ViewerNo    string `json:"viewer_no"`
	DisplayName string `json:"display_name"`
	Elevated    bool   `json:"elevated"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid session token")

// IssueToken signs a session token. The elevated claim mirrors the persisted
// flag at issue time; a revoke invalidates it through the account row, not
// the token.
func IssueToken(secret, viewerNo, displayName string, elevated bool) (string, error) {
	claims := SessionClaims{
		ViewerNo:    viewerNo,
		DisplayName: displayName,
		Elevated:    elevated,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(common.TOKEN_DURATION)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
