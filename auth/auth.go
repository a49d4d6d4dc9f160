// Package auth issues and verifies the bearer tokens that guard the HTTP
// API. Access credentials are separate from the banking domain: a CPF gets
// a password here before its holder can call the authenticated endpoints.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid cpf or password")
)

// Claims carried by every access token.
type Claims struct {
	CPF string `json:"cpf"`
	jwt.StandardClaims
}

type ctxKey struct{}

// CPF returns the authenticated CPF set by VerifyToken, or "".
func CPF(ctx context.Context) string {
	cpf, _ := ctx.Value(ctxKey{}).(string)
	return cpf
}

// Authenticator holds the in-memory credential store and signs tokens.
type Authenticator struct {
	secret []byte
	expiry time.Duration

	mu    sync.Mutex
	users map[string]string // cpf -> bcrypt hash
}

func New(secret string, expiry time.Duration) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		expiry: expiry,
		users:  make(map[string]string),
	}
}

// Register stores credentials for a CPF. Registering twice fails.
func (a *Authenticator) Register(cpf, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.users[cpf]; ok {
		return ErrUserExists
	}
	a.users[cpf] = string(hash)
	return nil
}

// Login checks the credentials and returns a signed access token.
func (a *Authenticator) Login(cpf, password string) (string, error) {
	a.mu.Lock()
	hash, ok := a.users[cpf]
	a.mu.Unlock()
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := &Claims{
		CPF: cpf,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(a.expiry).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// VerifyToken is the middleware guarding the authenticated subrouter. It
// rejects missing, malformed or expired tokens and stashes the CPF in the
// request context.
func (a *Authenticator) VerifyToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if tokenString == "" {
			http.Error(w, "Authorization token required", http.StatusUnauthorized)
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, claims.CPF)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
