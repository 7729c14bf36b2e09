package services

import (
	"context"
	"time"

	apperrors "github.com/ShinaSIT/Helix-Telebot/internal/pkg/errors"
	"github.com/golang-jwt/jwt"
)

type contextKey string

const callerContextKey contextKey = "caller"

// Caller is the authenticated identity behind a callable request.
type Caller struct {
	UID  string
	Name string
}

type AuthService interface {
	IssueToken(uid, name string, ttl time.Duration) (string, error)
	VerifyToken(token string) (*Caller, error)
}

type authService struct {
	jwtSecret string
}

func NewAuthService(jwtSecret string) AuthService {
	return &authService{jwtSecret: jwtSecret}
}

func (s *authService) IssueToken(uid, name string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  uid,
		"name": name,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) VerifyToken(tokenString string) (*Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrUnauthenticated
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.ErrUnauthenticated
	}
	uid, _ := claims["sub"].(string)
	if uid == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	name, _ := claims["name"].(string)

	return &Caller{UID: uid, Name: name}, nil
}

func WithCallerContext(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

func CallerFromContext(ctx context.Context) (*Caller, bool) {
	caller, ok := ctx.Value(callerContextKey).(*Caller)
	return caller, ok
}
