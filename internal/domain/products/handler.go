package products

import (
	"net/http"
	"time"

	"vetadmin/internal/platform/httpx"
	"vetadmin/internal/platform/money"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/products", func(pr chi.Router) {
		pr.Post("/", createProductHandler(svc))
		pr.Get("/", listProductsHandler(svc))
		pr.Get("/{productID}", getProductHandler(svc))
		pr.Patch("/{productID}", updateProductHandler(svc))
		pr.Delete("/{productID}", deleteProductHandler(svc))
		pr.Post("/{productID}/stock", restockHandler(svc))
	})
}

// unit_price acepta número o string ("15.00").
type createProductRequest struct {
	Name       string          `json:"name"`
	Stock      int             `json:"stock"`
	UnitPrice  decimal.Decimal `json:"unit_price" swaggertype:"string"`
	Category   string          `json:"category"`
	CategoryID string          `json:"category_id"`
}

type updateProductRequest struct {
	Name       *string          `json:"name"`
	UnitPrice  *decimal.Decimal `json:"unit_price" swaggertype:"string"`
	Category   *string          `json:"category"`
	CategoryID *string          `json:"category_id"`
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

type productResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Stock      int       `json:"stock"`
	UnitPrice  string    `json:"unit_price"`
	Category   string    `json:"category,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// createProductHandler godoc
// @Summary Crear producto
// @Tags products
// @Accept json
// @Produce json
// @Param payload body createProductRequest true "Producto"
// @Success 201 {object} productResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Failure 404 {object} map[string]string "categoría inexistente"
// @Router /products [post]
func createProductHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Name:       req.Name,
			Stock:      req.Stock,
			UnitPrice:  req.UnitPrice,
			Category:   req.Category,
			CategoryID: req.CategoryID,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toProductResponse(p))
	}
}

func listProductsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := make([]productResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toProductResponse(p))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getProductHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toProductResponse(p))
	}
}

func updateProductHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateProductRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "productID"), UpdateInput{
			Name:       req.Name,
			UnitPrice:  req.UnitPrice,
			Category:   req.Category,
			CategoryID: req.CategoryID,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toProductResponse(p))
	}
}

func deleteProductHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// restockHandler godoc
// @Summary Reponer stock
// @Description Suma unidades al stock del producto. Es la única forma de aumentar stock.
// @Tags products
// @Accept json
// @Produce json
// @Param productID path string true "ID del producto"
// @Param payload body restockRequest true "Cantidad a sumar (> 0)"
// @Success 200 {object} productResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Failure 404 {object} map[string]string "not_found"
// @Router /products/{productID}/stock [post]
func restockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req restockRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		p, err := svc.Restock(r.Context(), chi.URLParam(r, "productID"), req.Quantity)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toProductResponse(p))
	}
}

func toProductResponse(p Product) productResponse {
	return productResponse{
		ID:         p.ID,
		Name:       p.Name,
		Stock:      p.Stock,
		UnitPrice:  money.Format(p.UnitPrice),
		Category:   p.Category,
		CategoryID: p.CategoryID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
