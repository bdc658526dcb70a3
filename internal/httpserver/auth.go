package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 14 * 24 * time.Hour

type tokenReq struct {
	Key string `json:"key"`
}

type tokenRes struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ctxSubjectKey is the context key type for the authenticated subject.
type ctxSubjectKey struct{}

// mountAuth registers POST /auth/token.
func (s *Server) mountAuth() {
	s.r.Post("/auth/token", s.handleToken)
}

// handleToken exchanges the admin key for a bearer token.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if s.deps.AdminKeyHash == "" {
		writeError(w, http.StatusForbidden, "token_minting_disabled")
		return
	}
	var body tokenReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if !checkKey(s.deps.AdminKeyHash, body.Key) {
		writeError(w, http.StatusUnauthorized, "invalid_key")
		return
	}
	tok, exp, err := signJWT(s.deps.JWTSecret, "admin")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	_ = json.NewEncoder(w).Encode(tokenRes{Token: tok, ExpiresAt: exp})
}

// checkKey is a bcrypt verifier.
func checkKey(hash, key string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}

// signJWT creates an HS256 JWT for subject.
func signJWT(secret, subject string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(tokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(secret))
	return ss, exp, err
}

// subject returns the authenticated subject set by requireAuth, or "".
func subject(r *http.Request) string {
	sub, _ := r.Context().Value(ctxSubjectKey{}).(string)
	return sub
}

// bearer extracts a bearer token from the Authorization header.
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// requireAuth enforces a valid JWT and injects its subject into the context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearer(r)
			if tokenStr == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(s.deps.JWTSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid || claims.Subject == "" {
				writeError(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			ctx := context.WithValue(r.Context(), ctxSubjectKey{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
