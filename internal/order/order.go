package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"

	"github.com/elektromontazh-pro/order-service/internal/cart"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrStatusAlreadySet        = errors.New("status is already set to the desired value")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// The lifecycle is linear: pending → confirmed → in_progress → completed.
// Cancellation lives outside this layer.
var allowedTransitions = map[Status]map[Status]bool{
	StatusPending:    {StatusConfirmed: true},
	StatusConfirmed:  {StatusInProgress: true},
	StatusInProgress: {StatusCompleted: true},
	StatusCompleted:  {},
}

// CanTransition reports whether the status machine allows from → to.
func CanTransition(from, to Status) bool {
	return allowedTransitions[from][to]
}

// Meta is the customer and scheduling data the form layer collects. The
// handler validates it; NewFromCart trusts its shape.
type Meta struct {
	CustomerName string
	Phone        string
	Email        string
	Address      string
	Date         string
	Time         string
	Comment      string
}

// NewFromCart snapshots a priced cart into an order: each cart line becomes a
// flattened item priced by its selected option, the total is the sum over
// price×quantity, and the derived counts are computed from the same snapshot.
func NewFromCart(items []cart.Item, meta Meta) *Order {
	now := time.Now().UTC()

	orderItems := make([]Item, 0, len(items))
	var total float64
	for _, it := range items {
		price := it.Price()
		orderItems = append(orderItems, Item{
			Name:        it.Name,
			Price:       price,
			Quantity:    it.Quantity,
			Category:    it.Category,
			Description: it.Description,
		})
		total += price * float64(it.Quantity)
	}

	return &Order{
		ID:            fmt.Sprintf("ORD-%d", now.UnixMilli()),
		CustomerName:  meta.CustomerName,
		Phone:         meta.Phone,
		Email:         meta.Email,
		Address:       meta.Address,
		Date:          meta.Date,
		Time:          meta.Time,
		Comment:       meta.Comment,
		Items:         orderItems,
		Totals:        cart.CalculateTotals(items),
		TotalAmount:   total,
		Status:        StatusPending,
		Payments:      []Payment{},
		PaymentStatus: PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// PaymentInput is the data needed to attach a payment. Zero-value fields get
// the primary-flow defaults: method cash, status paid.
type PaymentInput struct {
	Amount      float64
	Method      PaymentMethod
	Status      PaymentStatus
	Description string
}

// AddPayment appends a payment record and re-derives the paid amount and
// payment status from the full list.
func (o *Order) AddPayment(in PaymentInput) (Payment, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return Payment{}, fmt.Errorf("generate payment id: %w", err)
	}

	p := Payment{
		ID:          id,
		Amount:      in.Amount,
		Method:      in.Method,
		Status:      in.Status,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if p.Method == "" {
		p.Method = MethodCash
	}
	if p.Status == "" {
		p.Status = PaymentPaid
	}

	o.Payments = append(o.Payments, p)
	o.recomputePayments()
	return p, nil
}

// SetPaymentStatus changes one payment's status and re-derives the order's
// payment fields.
func (o *Order) SetPaymentStatus(paymentID uuid.UUID, status PaymentStatus) error {
	for i := range o.Payments {
		if o.Payments[i].ID == paymentID {
			o.Payments[i].Status = status
			o.recomputePayments()
			return nil
		}
	}
	return ErrPaymentNotFound
}

// recomputePayments derives PaidAmount and PaymentStatus from scratch. Never
// adjusted incrementally, so the derived fields cannot drift from the list.
// An overpaid order still classifies as paid.
func (o *Order) recomputePayments() {
	var paid float64
	for _, p := range o.Payments {
		if p.Status == PaymentPaid {
			paid += p.Amount
		}
	}
	o.PaidAmount = paid

	switch {
	case paid == 0:
		o.PaymentStatus = PaymentUnpaid
	case paid >= o.TotalAmount:
		o.PaymentStatus = PaymentPaid
	default:
		o.PaymentStatus = PaymentPartiallyPaid
	}
}
