// Package devserver is an in-memory implementation of the product REST API.
// cmd/catalogd serves it for local development and tests use it as the HTTP
// fixture behind catalog.Client.
package devserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/logging"
)

// Server holds the product collection in insertion order.
type Server struct {
	mu       sync.Mutex
	products map[string]catalog.Product
	order    []string
	failures map[string][]int
	requests map[string]int

	now    func() time.Time
	newID  func() string
	logger logging.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithClock overrides the createdAt source.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithIDs overrides id generation.
func WithIDs(newID func() string) Option {
	return func(s *Server) { s.newID = newID }
}

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New returns an empty server.
func New(opts ...Option) *Server {
	s := &Server{
		products: make(map[string]catalog.Product),
		failures: make(map[string][]int),
		requests: make(map[string]int),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns a chi router with the product routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes mounts the collection under catalog.CollectionPath.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route(catalog.CollectionPath, func(r chi.Router) {
		r.Get("/", s.listProducts)
		r.Post("/", s.createProduct)
		r.Put("/{id}", s.updateProduct)
		r.Delete("/{id}", s.deleteProduct)
	})
}

// Seed inserts products as-is, assigning ids and timestamps when missing.
func (s *Server) Seed(products ...catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		if p.ID == "" {
			p.ID = s.newID()
		}
		if p.CreatedAt == "" {
			p.CreatedAt = s.now().UTC().Format(time.RFC3339)
		}
		if _, exists := s.products[p.ID]; !exists {
			s.order = append(s.order, p.ID)
		}
		s.products[p.ID] = p
	}
}

// Products returns the collection in insertion order.
func (s *Server) Products() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

// FailNext makes the next request with the given method answer status
// instead of being served. Calls queue up.
func (s *Server) FailNext(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	method = strings.ToUpper(method)
	s.failures[method] = append(s.failures[method], status)
}

// Requests reports how many requests with method reached the server,
// injected failures included.
func (s *Server) Requests(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[strings.ToUpper(method)]
}

func (s *Server) listLocked() []catalog.Product {
	out := make([]catalog.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.products[id])
	}
	return out
}

// intercept counts the request and serves a queued failure if any.
func (s *Server) intercept(w http.ResponseWriter, r *http.Request) bool {
	s.mu.Lock()
	s.requests[r.Method]++
	queue := s.failures[r.Method]
	status := 0
	if len(queue) > 0 {
		status = queue[0]
		s.failures[r.Method] = queue[1:]
	}
	s.mu.Unlock()

	if status == 0 {
		return false
	}
	s.logger.Warn(r.Context(), "injected failure", "method", r.Method, "path", r.URL.Path, "status", status)
	http.Error(w, http.StatusText(status), status)
	return true
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, r) {
		return
	}
	s.mu.Lock()
	products := s.listLocked()
	s.mu.Unlock()
	respond(w, http.StatusOK, products)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, r) {
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	p := catalog.Product{
		ID:          s.newID(),
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}
	s.products[p.ID] = p
	s.order = append(s.order, p.ID)
	s.mu.Unlock()

	s.logger.Info(r.Context(), "product created", "id", p.ID, "name", p.Name)
	respond(w, http.StatusCreated, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, r) {
		return
	}
	id := productID(r)
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	p, exists := s.products[id]
	if exists {
		p.Name = in.Name
		p.Price = in.Price
		p.Description = in.Description
		p.Category = in.Category
		s.products[id] = p
	}
	s.mu.Unlock()

	if !exists {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	s.logger.Info(r.Context(), "product updated", "id", id)
	respond(w, http.StatusOK, p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, r) {
		return
	}
	id := productID(r)

	s.mu.Lock()
	_, exists := s.products[id]
	if exists {
		delete(s.products, id)
		for i, candidate := range s.order {
			if candidate == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()

	if !exists {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	s.logger.Info(r.Context(), "product deleted", "id", id)
	respond(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// productID returns the decoded {id} segment. chi routes on the raw path when
// the request carries escaped reserved characters, so the parameter may still
// be escaped.
func productID(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id
	}
	if decoded, err := url.PathUnescape(id); err == nil {
		return decoded
	}
	return id
}

func decodeInput(w http.ResponseWriter, r *http.Request) (catalog.ProductInput, bool) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return catalog.ProductInput{}, false
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return catalog.ProductInput{}, false
	}
	if in.Price < 0 {
		http.Error(w, "price must not be negative", http.StatusBadRequest)
		return catalog.ProductInput{}, false
	}
	if in.Category == "" {
		in.Category = catalog.DefaultCategory
	}
	category, ok := catalog.ParseCategory(string(in.Category))
	if !ok {
		http.Error(w, "unknown category", http.StatusBadRequest)
		return catalog.ProductInput{}, false
	}
	in.Category = category
	return in, true
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ListenAndServe serves h on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
