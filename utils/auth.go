package utils

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Roles carried in JWT claims
const (
	RoleAdmin      = "admin"
	RoleAmbassador = "ambassador"
)

// TokenClaims are the fields carried by every issued token
type TokenClaims struct {
	UserID string
	Email  string
	Role   string
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken creates a signed JWT carrying userId, email and role
func GenerateToken(claims TokenClaims) (string, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return "", errors.New("JWT_SECRET not configured")
	}

	token := jwt.New(jwt.SigningMethodHS256)
	mapClaims := token.Claims.(jwt.MapClaims)
	mapClaims["userId"] = claims.UserID
	mapClaims["email"] = claims.Email
	mapClaims["role"] = claims.Role
	mapClaims["exp"] = time.Now().Add(tokenLifetime()).Unix()

	return token.SignedString([]byte(jwtSecret))
}

// ValidateToken validates a JWT and returns its claims
func ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	userID, _ := mapClaims["userId"].(string)
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	if userID == "" || role == "" {
		return nil, errors.New("invalid token claims")
	}

	return &TokenClaims{UserID: userID, Email: email, Role: role}, nil
}

// tokenLifetime reads JWT_EXPIRES_IN, supporting the "7d" day-suffix shorthand
// alongside Go duration strings. Defaults to 7 days.
func tokenLifetime() time.Duration {
	raw := os.Getenv("JWT_EXPIRES_IN")
	if raw == "" {
		return 7 * 24 * time.Hour
	}
	if strings.HasSuffix(raw, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(raw, "d")); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return 7 * 24 * time.Hour
}
