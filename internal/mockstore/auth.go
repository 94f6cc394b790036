package mockstore

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/storeadmin/app/models"
)

// AdminEmail and AdminPassword are the seeded staff credentials.
const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "secret"
)

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *Server) seedAdmin() {
	hash, _ := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.DefaultCost)
	s.users[AdminEmail] = user{
		firstname: "Store",
		lastname:  "Admin",
		email:     AdminEmail,
		hash:      string(hash),
	}
}

func (s *Server) issueToken(email string) (string, error) {
	c := claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

func (s *Server) validateToken(t string) (*claims, error) {
	token, err := jwt.ParseWithClaims(t, &claims{}, func(tok *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return c, nil
}

// POST /auth/authenticate
func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req models.AuthRequest
	if !decodeBody(r, &req) {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	u, ok := s.users[req.Email]
	s.mu.Unlock()

	// Spring Security answers 403 for bad credentials; keep that quirk so
	// the client's 401/403 handling stays honest.
	if !ok || bcrypt.CompareHashAndPassword([]byte(u.hash), []byte(req.Password)) != nil {
		writeMessage(w, http.StatusForbidden, "bad credentials")
		return
	}

	token, err := s.issueToken(req.Email)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "token generation failed")
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token})
}

// POST /auth/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeBody(r, &req) {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[req.Email]; exists {
		writeMessage(w, http.StatusBadRequest, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "hashing failed")
		return
	}

	s.users[req.Email] = user{
		firstname: req.Firstname,
		lastname:  req.Lastname,
		email:     req.Email,
		hash:      string(hash),
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"firstname": req.Firstname,
		"lastname":  req.Lastname,
		"email":     req.Email,
	})
}

// requireAuth guards every resource route with a bearer check.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, err := s.validateToken(token); err != nil {
			writeMessage(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
