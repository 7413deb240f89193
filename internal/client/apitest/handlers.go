package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/pestcrm/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func contextWithRole(r *http.Request, role string) context.Context {
	return context.WithValue(r.Context(), roleKey{}, role)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return false
	}
	return true
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	s.loginCalls.Add(1)

	var creds models.Credentials
	if !decode(w, r, &creds) {
		return
	}
	if s.BeforeLogin != nil {
		s.BeforeLogin(creds.Email)
	}

	s.mu.Lock()
	acc, ok := s.accounts[strings.ToLower(creds.Email)]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acc.hash, []byte(creds.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResult{
		Token: s.IssueToken(acc.user, s.TokenTTL),
		User:  acc.user,
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	_, exists := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if exists {
		writeError(w, http.StatusConflict, "User already exists")
		return
	}

	u := s.AddUser(models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      models.RoleUser,
	}, req.Password)
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	s.mu.Lock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p, ok := s.products[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if !decode(w, r, &p) {
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	now := time.Now().UTC().Truncate(time.Second)
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now
	writeJSON(w, http.StatusCreated, s.AddProduct(p))
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var p models.Product
	if !decode(w, r, &p) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.products[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	p.ID = id
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	s.products[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	delete(s.products, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	c, ok := s.categories[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var c models.Category
	if !decode(w, r, &c) {
		return
	}
	if err := c.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	now := time.Now().UTC().Truncate(time.Second)
	c.ID = uuid.NewString()
	c.CreatedAt, c.UpdatedAt = now, now
	writeJSON(w, http.StatusCreated, s.AddCategory(c))
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var c models.Category
	if !decode(w, r, &c) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.categories[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	c.ID = id
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	s.categories[id] = c
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	delete(s.categories, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) submitEnquiry(w http.ResponseWriter, r *http.Request) {
	var e models.Enquiry
	if !decode(w, r, &e) {
		return
	}
	if err := e.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	s.enquiries = append(s.enquiries, e)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Enquiry received"})
}
