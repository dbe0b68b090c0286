package utils

import (
	"time"

	"github.com/fathoor/library-service/pkg/errs"
	"github.com/golang-jwt/jwt"
	"github.com/oklog/ulid/v2"
)

// TokenClaims is the decoded payload of a bearer token.
type TokenClaims struct {
	UserID    string
	Name      string
	RoleID    string
	TokenID   string
	IssuedAt  int64
	ExpiresAt int64
}

func CreateJWTToken(userID string, userName string, roleID string, jwtSecretKey string, expiry time.Duration) (token string, tokenID string, err error) {
	now := time.Now()
	tokenID = ulid.Make().String()

	claims := jwt.MapClaims{}
	claims["sub"] = userID
	claims["name"] = userName
	claims["role_id"] = roleID
	claims["jti"] = tokenID
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(expiry).Unix()

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = jwtToken.SignedString([]byte(jwtSecretKey))

	return
}

func ParseJWTToken(tokenString string, jwtSecretKey string) (claims TokenClaims, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrInvalidToken
		}
		return []byte(jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return claims, errs.ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return claims, errs.ErrInvalidToken
	}

	claims.UserID, _ = mapClaims["sub"].(string)
	claims.Name, _ = mapClaims["name"].(string)
	claims.RoleID, _ = mapClaims["role_id"].(string)
	claims.TokenID, _ = mapClaims["jti"].(string)

	if iat, ok := mapClaims["iat"].(float64); ok {
		claims.IssuedAt = int64(iat)
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = int64(exp)
	}

	if claims.UserID == "" || claims.TokenID == "" {
		return claims, errs.ErrInvalidToken
	}

	return claims, nil
}
