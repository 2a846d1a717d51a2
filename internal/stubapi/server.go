// Package stubapi implements a local development stand-in for the
// storefront API: the four endpoints the client consumes, served from
// an in-memory product set with seeded credentials.
package stubapi

import (
	"net/http"
	"sync"
	"time"

	"storefront/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

// Server holds the in-memory API state.
type Server struct {
	mu       sync.Mutex
	products []domain.Product
	users    map[string]string // email -> bcrypt hash

	jwtSecret []byte
	tokenTTL  time.Duration
}

// New creates a Server seeded with the given products. Products without
// an ID get one assigned. Tokens are signed with secret.
func New(secret []byte, seed ...domain.Product) *Server {
	s := &Server{
		users:     make(map[string]string),
		jwtSecret: secret,
		tokenTTL:  24 * time.Hour,
	}
	for _, p := range seed {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		s.products = append(s.products, p)
	}
	return s
}

// AddUser registers a login. The password is stored bcrypt-hashed.
func (s *Server) AddUser(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = string(hash)
	return nil
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	r.HandleFunc("/products", s.handleCreateProduct).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}", s.handleUpdateProduct).Methods(http.MethodPut)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	return r
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := parseJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if p.Name == "" {
		writeError(w, http.StatusBadRequest, errMissingField("name"))
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Stock < 0 {
		p.Stock = 0
	}

	s.mu.Lock()
	for _, existing := range s.products {
		if existing.ID == p.ID {
			s.mu.Unlock()
			writeError(w, http.StatusConflict, errDuplicateID(p.ID))
			return
		}
	}
	s.products = append(s.products, p)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var p domain.Product
	if err := parseJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p.ID = id
	if p.Stock < 0 {
		p.Stock = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.products {
		if existing.ID == id {
			s.products[i] = p
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, errUnknownID(id))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	hash, ok := s.users[req.Email]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": req.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"accessToken": signed})
}
