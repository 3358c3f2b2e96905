// API HTTP del carrito
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type CartServer struct {
	svc *Service
}

func NewCartServer(svc *Service) *CartServer {
	return &CartServer{svc: svc}
}

// Handler arma el mux con todas las rutas. health puede ser nil (sin /healthz).
func (s *CartServer) Handler(health grpc_health_v1.HealthClient, origins []string) (http.Handler, error) {
	opts := []runtime.ServeMuxOption{runtime.WithRoutingErrorHandler(routingError)}
	if health != nil {
		opts = append(opts, runtime.WithHealthzEndpoint(health))
	}
	mux := runtime.NewServeMux(opts...)

	routes := []struct {
		method, path string
		fn           runtime.HandlerFunc
	}{
		{http.MethodGet, "/recipes", s.handleListRecipes},
		{http.MethodPost, "/carts", s.handleCreateCart},
		{http.MethodGet, "/carts/{id}", s.handleGetCart},
		{http.MethodPost, "/carts/{cartId}/add_recipe", s.handleAddRecipe},
		{http.MethodDelete, "/carts/{cartId}/recipes/{recipeId}", s.handleRemoveRecipe},
	}
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.path, rt.fn); err != nil {
			return nil, fmt.Errorf("route %s %s: %w", rt.method, rt.path, err)
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	return c.Handler(withRequestLog(mux)), nil
}

type ProductView struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PriceInCents int64  `json:"priceInCents"`
}

type RecipeView struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Products []ProductView `json:"products"`
}

type CartRecipeView struct {
	RecipeID int64  `json:"recipeId"`
	Name     string `json:"name"`
	Quantity int32  `json:"quantity"`
}

type CartItemView struct {
	ProductID        int64  `json:"productId"`
	Name             string `json:"name"`
	UnitPriceInCents int64  `json:"unitPriceInCents"`
	Quantity         int32  `json:"quantity"`
	LineTotalInCents int64  `json:"lineTotalInCents"`
}

type CartView struct {
	ID           int64            `json:"id"`
	TotalInCents int64            `json:"totalInCents"`
	Total        string           `json:"total"`
	Recipes      []CartRecipeView `json:"recipes"`
	Items        []CartItemView   `json:"items"`
}

type AddRecipeRequest struct {
	RecipeID int64 `json:"recipeId"`
}

type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
}

func toRecipeView(r Recipe) RecipeView {
	view := RecipeView{ID: r.ID, Name: r.Name, Products: make([]ProductView, 0, len(r.Products))}
	for _, p := range r.Products {
		view.Products = append(view.Products, ProductView{ID: p.ID, Name: p.Name, PriceInCents: p.PriceInCents})
	}
	return view
}

func toCartView(c *Cart) CartView {
	view := CartView{
		ID:           c.ID,
		TotalInCents: c.TotalInCents(),
		Total:        c.Total().String(),
		Recipes:      []CartRecipeView{},
		Items:        []CartItemView{},
	}
	for _, l := range c.RecipeLines() {
		view.Recipes = append(view.Recipes, CartRecipeView{
			RecipeID: l.RecipeID(),
			Name:     l.Recipe.Name,
			Quantity: l.Quantity,
		})
	}
	for _, it := range c.ProductLines() {
		view.Items = append(view.Items, CartItemView{
			ProductID:        it.ProductID,
			Name:             it.Name,
			UnitPriceInCents: it.UnitPriceCents,
			Quantity:         it.Quantity,
			LineTotalInCents: it.LineTotal().Cents,
		})
	}
	return view
}

func (s *CartServer) handleListRecipes(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	recipes, err := s.svc.ListRecipes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]RecipeView, 0, len(recipes))
	for _, rc := range recipes {
		out = append(out, toRecipeView(rc))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *CartServer) handleCreateCart(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	c, err := s.svc.CreateCart(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCartView(c))
}

func (s *CartServer) handleGetCart(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := pathID(params, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.svc.GetCart(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(c))
}

func (s *CartServer) handleAddRecipe(w http.ResponseWriter, r *http.Request, params map[string]string) {
	cartID, err := pathID(params, "cartId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req AddRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, badRequest("invalid request body: %v", err))
		return
	}
	if req.RecipeID <= 0 {
		writeError(w, r, badRequest("recipeId must be positive"))
		return
	}
	c, err := s.svc.AddRecipeToCart(r.Context(), cartID, req.RecipeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(c))
}

func (s *CartServer) handleRemoveRecipe(w http.ResponseWriter, r *http.Request, params map[string]string) {
	cartID, err := pathID(params, "cartId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	recipeID, err := pathID(params, "recipeId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.svc.RemoveRecipeFromCart(r.Context(), cartID, recipeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(c))
}

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

// statusError lleva un codigo HTTP ya decidido (rutas inexistentes, metodo
// no permitido).
type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string { return e.msg }

// routingError responde las peticiones sin ruta con el mismo cuerpo de error
// que el resto de la API.
func routingError(_ context.Context, _ *runtime.ServeMux, _ runtime.Marshaler, w http.ResponseWriter, r *http.Request, status int) {
	var msg string
	switch status {
	case http.StatusMethodNotAllowed:
		msg = fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path)
	case http.StatusNotFound:
		msg = fmt.Sprintf("no route for %s", r.URL.Path)
	default:
		msg = http.StatusText(status)
	}
	writeError(w, r, &statusError{status: status, msg: msg})
}

func pathID(params map[string]string, name string) (int64, error) {
	id, err := strconv.ParseInt(params[name], 10, 64)
	if err != nil {
		return 0, badRequest("invalid %s %q", name, params[name])
	}
	return id, nil
}

// statusFor traduce errores de dominio a codigos HTTP.
func statusFor(err error) int {
	var notInCart *RecipeNotInCartError
	var bad *badRequestError
	var se *statusError
	switch {
	case errors.As(err, &se):
		return se.status
	case errors.As(err, &notInCart), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &bad):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = "internal error"
	}
	writeJSON(w, status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Debug().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("http")
	})
}
