package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/elektromontazh-pro/order-service/internal/cart"
)

type Service interface {
	CreateOrder(ctx context.Context, items []cart.Item, meta Meta) (*Order, error)
	GetOrderByID(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context, f Filter) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, newStatus Status) error
	AssignExecutor(ctx context.Context, orderID, executorID, executorName string) error
	AddPayment(ctx context.Context, orderID string, in PaymentInput) (*Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID string, paymentID uuid.UUID, status PaymentStatus) (*Order, error)
	OverrideTotal(ctx context.Context, orderID string, total float64) (*Order, error)
	AttachSyncIDs(ctx context.Context, orderID, calendarEventID, planfixTaskID, noteID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateOrder(ctx context.Context, items []cart.Item, meta Meta) (*Order, error) {
	if len(items) == 0 {
		log.Warn().Msg("service: attempt to create order with no items")
		return nil, errors.New("service: order must contain at least one item")
	}

	o := NewFromCart(items, meta)

	if err := s.repo.Create(ctx, o); err != nil {
		log.Error().Err(err).Msg("service: failed to create order in repository")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().Str("order_id", o.ID).Float64("total", o.TotalAmount).Msg("service: order created")
	return o, nil
}

func (s *service) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Err(err).Str("order_id", id).Msg("service: order not found by id")
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Msg("service: failed to fetch order by id in repository")
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context, f Filter) ([]Order, error) {
	orders, err := s.repo.List(ctx, f)
	if err != nil {
		log.Error().Err(err).Str("executor_id", f.ExecutorID).Msg("service: failed to fetch orders in repository")
		return nil, fmt.Errorf("service: failed to fetch orders: %w", err)
	}
	return orders, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID string, newStatus Status) error {
	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Err(err).Str("order_id", orderID).Stringer("new_status", newStatus).Msg("service: order not found, cannot update status")
			return ErrOrderNotFound
		}
		log.Error().Err(err).Str("order_id", orderID).Msg("service: failed to get order for status update")
		return fmt.Errorf("service: failed to get order for status update: %w", err)
	}

	if current.Status == newStatus {
		log.Info().Str("order_id", orderID).Stringer("status", newStatus).Msg("service: order status is already the same, no update needed")
		return nil
	}

	if !CanTransition(current.Status, newStatus) {
		log.Warn().
			Str("order_id", current.ID).
			Stringer("current_status", current.Status).
			Stringer("new_status", newStatus).
			Msg("service: invalid status transition attempt")
		return fmt.Errorf("service: %w: %s to %s", ErrInvalidStatusTransition, current.Status, newStatus)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, newStatus); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Str("order_id", orderID).Stringer("new_status", newStatus).Msg("service: failed to update order status in repository")
		return fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().Str("order_id", orderID).Stringer("old_status", current.Status).Stringer("new_status", newStatus).Msg("service: order status updated")
	return nil
}

func (s *service) AssignExecutor(ctx context.Context, orderID, executorID, executorName string) error {
	if err := s.repo.UpdateExecutor(ctx, orderID, executorID, executorName); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Str("order_id", orderID).Str("executor_id", executorID).Msg("service: failed to assign executor")
		return fmt.Errorf("service: failed to assign executor: %w", err)
	}
	log.Info().Str("order_id", orderID).Str("executor_id", executorID).Msg("service: executor assigned")
	return nil
}

func (s *service) AddPayment(ctx context.Context, orderID string, in PaymentInput) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to get order for payment: %w", err)
	}

	p, err := o.AddPayment(in)
	if err != nil {
		return nil, fmt.Errorf("service: failed to add payment: %w", err)
	}

	if err := s.repo.ReplacePayments(ctx, orderID, o.Payments, o.PaidAmount, o.PaymentStatus); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Str("order_id", orderID).Msg("service: failed to persist payment")
		return nil, fmt.Errorf("service: failed to persist payment: %w", err)
	}

	log.Info().
		Str("order_id", orderID).
		Stringer("payment_id", p.ID).
		Float64("amount", p.Amount).
		Stringer("payment_status", o.PaymentStatus).
		Msg("service: payment added")
	return o, nil
}

func (s *service) UpdatePaymentStatus(ctx context.Context, orderID string, paymentID uuid.UUID, status PaymentStatus) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to get order for payment status update: %w", err)
	}

	if err := o.SetPaymentStatus(paymentID, status); err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Stringer("payment_id", paymentID).Msg("service: payment not found")
		return nil, err
	}

	if err := s.repo.ReplacePayments(ctx, orderID, o.Payments, o.PaidAmount, o.PaymentStatus); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to persist payment status: %w", err)
	}

	log.Info().
		Str("order_id", orderID).
		Stringer("payment_id", paymentID).
		Stringer("payment_status", o.PaymentStatus).
		Msg("service: payment status updated")
	return o, nil
}

// OverrideTotal replaces the order total with a manager-supplied value. This
// is a deliberate correction: the stored total is allowed to diverge from the
// item sum afterwards, and the payment status is re-derived against the new
// total.
func (s *service) OverrideTotal(ctx context.Context, orderID string, total float64) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to get order for total override: %w", err)
	}

	oldTotal := o.TotalAmount
	o.TotalAmount = total
	o.recomputePayments()

	if err := s.repo.UpdateTotal(ctx, orderID, o.TotalAmount, o.PaymentStatus); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to persist total override: %w", err)
	}

	log.Info().
		Str("order_id", orderID).
		Float64("old_total", oldTotal).
		Float64("new_total", total).
		Msg("service: order total overridden")
	return o, nil
}

func (s *service) AttachSyncIDs(ctx context.Context, orderID, calendarEventID, planfixTaskID, noteID string) error {
	if err := s.repo.UpdateSyncIDs(ctx, orderID, calendarEventID, planfixTaskID, noteID); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to attach sync ids: %w", err)
	}
	return nil
}
