// Package apitest runs an in-process stand-in for the CRM REST backend so
// the client stack can be exercised end to end in tests. It implements only
// what the admin client relies on: login/register, product and category
// CRUD, the public catalog and enquiry submission.
package apitest

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/pestcrm/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultAPIKey is the x-api-key the server accepts unless overridden.
const DefaultAPIKey = "test-api-key"

type account struct {
	user models.User
	hash []byte
}

type claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Server is the fake backend. Zero configuration is needed; use New.
type Server struct {
	srv *httptest.Server

	APIKey   string
	TokenTTL time.Duration

	// BeforeLogin, when set, runs before a login attempt is answered.
	// Tests use it to hold responses back and reorder them.
	BeforeLogin func(email string)

	mu         sync.Mutex
	secret     []byte
	accounts   map[string]*account
	products   map[string]models.Product
	categories map[string]models.Category
	enquiries  []models.Enquiry

	loginCalls atomic.Int64
}

func New() *Server {
	s := &Server{
		APIKey:     DefaultAPIKey,
		TokenTTL:   time.Hour,
		secret:     newSecret(),
		accounts:   make(map[string]*account),
		products:   make(map[string]models.Product),
		categories: make(map[string]models.Category),
	}
	s.srv = httptest.NewServer(s.routes())
	return s
}

func newSecret() []byte {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return b
}

// URL is the API base URL, including the /api prefix.
func (s *Server) URL() string { return s.srv.URL + "/api" }

func (s *Server) Close() { s.srv.Close() }

// LoginCalls counts POST /auth/login requests.
func (s *Server) LoginCalls() int64 { return s.loginCalls.Load() }

// AddUser registers an account and returns the stored user.
func (s *Server) AddUser(u models.User, password string) models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	now := time.Now().UTC().Truncate(time.Second)
	u.CreatedAt, u.UpdatedAt = now, now

	s.mu.Lock()
	s.accounts[strings.ToLower(u.Email)] = &account{user: u, hash: hash}
	s.mu.Unlock()
	return u
}

func (s *Server) AddCategory(c models.Category) models.Category {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.categories[c.ID] = c
	s.mu.Unlock()
	return c
}

func (s *Server) AddProduct(p models.Product) models.Product {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.products[p.ID] = p
	s.mu.Unlock()
	return p
}

func (s *Server) Enquiries() []models.Enquiry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Enquiry(nil), s.enquiries...)
}

// RevokeTokens rotates the signing key, so every issued token now gets 401.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	s.secret = newSecret()
	s.mu.Unlock()
}

// IssueToken signs a token for u with the given lifetime.
func (s *Server) IssueToken(u models.User, ttl time.Duration) string {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: u.Role,
	})
	s.mu.Lock()
	secret := s.secret
	s.mu.Unlock()
	signed, err := tok.SignedString(secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireAPIKey)

		r.Post("/auth/login", s.login)
		r.Post("/auth/register", s.register)

		r.Route("/public", func(r chi.Router) {
			r.Get("/products", s.listProducts)
			r.Get("/categories", s.listCategories)
			r.Post("/enquiries", s.submitEnquiry)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)
			r.Get("/products", s.listProducts)
			r.Get("/products/{id}", s.getProduct)
			r.Get("/categories", s.listCategories)
			r.Get("/categories/{id}", s.getCategory)

			r.Group(func(r chi.Router) {
				r.Use(requireRole(models.RoleAdmin))
				r.Post("/products", s.createProduct)
				r.Put("/products/{id}", s.updateProduct)
				r.Delete("/products/{id}", s.deleteProduct)
				r.Post("/categories", s.createCategory)
				r.Put("/categories/{id}", s.updateCategory)
				r.Delete("/categories/{id}", s.deleteCategory)
			})
		})
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

type roleKey struct{}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != s.APIKey || r.Header.Get("x-app-version") == "" {
			writeError(w, http.StatusForbidden, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "no token provided")
			return
		}

		s.mu.Lock()
		secret := s.secret
		s.mu.Unlock()

		var c claims
		_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired"
			}
			writeError(w, http.StatusUnauthorized, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(contextWithRole(r, c.Role)))
	})
}

func requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got, _ := r.Context().Value(roleKey{}).(string); got != role {
				writeError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
