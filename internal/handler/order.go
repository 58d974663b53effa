package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/elektromontazh-pro/order-service/internal/earnings"
	"github.com/elektromontazh-pro/order-service/internal/order"
)

type CreateOrderRequest struct {
	CustomerName string            `json:"customer_name" validate:"required,min=2"`
	Phone        string            `json:"phone" validate:"required,min=5"`
	Email        string            `json:"email" validate:"omitempty,email"`
	Address      string            `json:"address" validate:"required"`
	Date         string            `json:"date" validate:"required"`
	Time         string            `json:"time" validate:"required"`
	Comment      string            `json:"comment"`
	Items        []CartItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed in_progress completed"`
}

type AssignExecutorRequest struct {
	ExecutorID   string `json:"executor_id" validate:"required"`
	ExecutorName string `json:"executor_name"`
}

type OverrideTotalRequest struct {
	TotalAmount float64 `json:"total_amount" validate:"gte=0"`
}

type AddPaymentRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Method      string  `json:"method" validate:"omitempty,oneof=cash card bank_transfer yookassa tinkoff sberbank"`
	Status      string  `json:"status" validate:"omitempty,oneof=unpaid partially_paid paid refunded pending"`
	Description string  `json:"description"`
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=unpaid partially_paid paid refunded pending"`
}

type AttachSyncIDsRequest struct {
	CalendarEventID string `json:"calendar_event_id"`
	PlanfixTaskID   string `json:"planfix_task_id"`
	NoteID          string `json:"note_id"`
}

type OrderHandler struct {
	svc      order.Service
	validate *validator.Validate
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc, validate: validator.New()}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/orders", h.handleCreateOrder)
	router.Get("/orders", h.handleListOrders)
	router.Get("/orders/{id}", h.handleGetOrderByID)
	router.Get("/orders/{id}/planfix", h.handleGetPlanfixRecord)
	router.Patch("/orders/{id}/status", h.handleUpdateStatus)
	router.Patch("/orders/{id}/executor", h.handleAssignExecutor)
	router.Patch("/orders/{id}/total", h.handleOverrideTotal)
	router.Patch("/orders/{id}/sync", h.handleAttachSyncIDs)
	router.Post("/orders/{id}/payments", h.handleAddPayment)
	router.Patch("/orders/{id}/payments/{paymentID}", h.handleUpdatePaymentStatus)
	router.Get("/executors/{id}/earnings", h.handleExecutorEarnings)
}

// decodeAndValidate handles the shared decode/validate/respond dance. It
// reports whether the request may proceed.
func (h *OrderHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		log.Error().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload %v", err))
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   "Validation failed",
				Details: formatValidationErrors(validationErrors),
			})
		} else {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return false
	}
	return true
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	items, err := buildCart(req.Items)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.svc.CreateOrder(r.Context(), items, order.Meta{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		Date:         req.Date,
		Time:         req.Time,
		Comment:      req.Comment,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create order via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create order")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *OrderHandler) handleGetOrderByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "id is required")
		return
	}

	o, err := h.svc.GetOrderByID(r.Context(), id)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get order")
		return
	}

	respondWithJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) handleGetPlanfixRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	o, err := h.svc.GetOrderByID(r.Context(), id)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get order")
		return
	}

	respondWithJSON(w, http.StatusOK, o.ToPlanfix())
}

// parseTimeParam accepts RFC 3339 or a bare date.
func parseTimeParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func (h *OrderHandler) listFilter(w http.ResponseWriter, r *http.Request) (order.Filter, bool) {
	q := r.URL.Query()

	from, err := parseTimeParam(q.Get("from"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid 'from' parameter")
		return order.Filter{}, false
	}
	to, err := parseTimeParam(q.Get("to"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid 'to' parameter")
		return order.Filter{}, false
	}

	return order.Filter{
		ExecutorID: q.Get("executor_id"),
		Status:     order.Status(q.Get("status")),
		From:       from,
		To:         to,
	}, true
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.listFilter(w, r)
	if !ok {
		return
	}

	orders, err := h.svc.ListOrders(r.Context(), filter)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, order.Status(req.Status)); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

func (h *OrderHandler) handleAssignExecutor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AssignExecutorRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.AssignExecutor(r.Context(), id, req.ExecutorID, req.ExecutorName); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to assign executor")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"id": id, "executor_id": req.ExecutorID})
}

func (h *OrderHandler) handleOverrideTotal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req OverrideTotalRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	o, err := h.svc.OverrideTotal(r.Context(), id, req.TotalAmount)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to override total")
		return
	}

	respondWithJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) handleAttachSyncIDs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AttachSyncIDsRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.AttachSyncIDs(r.Context(), id, req.CalendarEventID, req.PlanfixTaskID, req.NoteID); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to attach sync ids")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *OrderHandler) handleAddPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AddPaymentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	o, err := h.svc.AddPayment(r.Context(), id, order.PaymentInput{
		Amount:      req.Amount,
		Method:      order.PaymentMethod(req.Method),
		Status:      order.PaymentStatus(req.Status),
		Description: req.Description,
	})
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to add payment")
		return
	}

	respondWithJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) handleUpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	paymentID, err := uuid.FromString(chi.URLParam(r, "paymentID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid payment id")
		return
	}

	var req UpdatePaymentStatusRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	o, err := h.svc.UpdatePaymentStatus(r.Context(), id, paymentID, order.PaymentStatus(req.Status))
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update payment status")
		return
	}

	respondWithJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) handleExecutorEarnings(w http.ResponseWriter, r *http.Request) {
	executorID := chi.URLParam(r, "id")
	if executorID == "" {
		respondWithError(w, http.StatusBadRequest, "executor id is required")
		return
	}

	q := r.URL.Query()
	from, err := parseTimeParam(q.Get("from"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid 'from' parameter")
		return
	}
	to, err := parseTimeParam(q.Get("to"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid 'to' parameter")
		return
	}

	orders, err := h.svc.ListOrders(r.Context(), order.Filter{ExecutorID: executorID})
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list executor orders")
		return
	}

	respondWithJSON(w, http.StatusOK, earnings.ForExecutor(orders, executorID, from, to))
}
