package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/elektromontazh-pro/order-service/internal/cart"
	"github.com/elektromontazh-pro/order-service/internal/catalog"
)

// CartItemRequest is one user selection sent by the UI.
type CartItemRequest struct {
	ProductID  string   `json:"product_id" validate:"required"`
	Quantity   int      `json:"quantity" validate:"required,min=1"`
	Option     string   `json:"option" validate:"omitempty,oneof=install-only with-wiring"`
	AddOptions []string `json:"add_options"`
}

// QuoteRequest asks the server to price a cart: the engine appends the
// mandatory site-visit line and derives the install aggregate.
type QuoteRequest struct {
	Items []CartItemRequest `json:"items" validate:"required,min=1,dive"`
}

type QuoteResponse struct {
	Items    []cart.Item `json:"items"`
	Totals   cart.Totals `json:"totals"`
	Subtotal float64     `json:"subtotal"`
}

// buildCart replays request lines through the cart engine.
func buildCart(reqItems []CartItemRequest) ([]cart.Item, error) {
	var items []cart.Item
	for _, ri := range reqItems {
		p, ok := catalog.ByID(ri.ProductID)
		if !ok {
			return nil, fmt.Errorf("unknown product %q", ri.ProductID)
		}
		option := ri.Option
		if option == "" {
			option = catalog.OptionInstallOnly
		}
		items = cart.Add(items, p, ri.Quantity, option, ri.AddOptions)
	}
	return items, nil
}

type CartHandler struct {
	validate *validator.Validate
}

func NewCartHandler() *CartHandler {
	return &CartHandler{validate: validator.New()}
}

// HandleQuote prices a cart without persisting anything.
func (h *CartHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		log.Error().Err(err).Msg("Failed to decode quote request")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload %v", err))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   "Validation failed",
				Details: formatValidationErrors(validationErrors),
			})
		} else {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	items, err := buildCart(req.Items)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, QuoteResponse{
		Items:    items,
		Totals:   cart.CalculateTotals(items),
		Subtotal: cart.Subtotal(items),
	})
}

// HandleCatalog returns the full product catalogue.
func (h *CartHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	type productResponse struct {
		ID              string  `json:"id"`
		Name            string  `json:"name"`
		Description     string  `json:"description,omitempty"`
		Category        string  `json:"category"`
		PriceInstall    float64 `json:"price_install"`
		PriceWithWiring float64 `json:"price_with_wiring"`
		OldPrice        float64 `json:"old_price,omitempty"`
		Slots           int     `json:"slots,omitempty"`
	}

	all := catalog.All()
	out := make([]productResponse, 0, len(all))
	for _, p := range all {
		if p.ID == catalog.InstallAggregateID {
			continue // system line, not user-selectable
		}
		out = append(out, productResponse{
			ID:              p.ID,
			Name:            p.Name,
			Description:     p.Description,
			Category:        p.Category.String(),
			PriceInstall:    p.PriceInstall,
			PriceWithWiring: p.PriceWithWiring,
			OldPrice:        p.OldPrice,
			Slots:           p.Slots,
		})
	}
	respondWithJSON(w, http.StatusOK, out)
}
