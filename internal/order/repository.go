package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Filter narrows List results. Zero values mean "any".
type Filter struct {
	ExecutorID string
	Status     Status
	From       time.Time
	To         time.Time
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, f Filter) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateExecutor(ctx context.Context, id, executorID, executorName string) error
	UpdateTotal(ctx context.Context, id string, total float64, paymentStatus PaymentStatus) error
	ReplacePayments(ctx context.Context, id string, payments []Payment, paidAmount float64, paymentStatus PaymentStatus) error
	UpdateSyncIDs(ctx context.Context, id, calendarEventID, planfixTaskID, noteID string) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, o *Order) (err error) {
	tx, beginErr := r.db.Begin(ctx)
	if beginErr != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", beginErr)
	}
	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic_value", p).Str("order_id", o.ID).Msg("Panic recovered during Create, rolling back")
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Str("order_id", o.ID).Msg("Failed to rollback transaction after panic")
			}
			panic(p)
		} else if err != nil {
			log.Warn().Err(err).Str("order_id", o.ID).Msg("Transaction for Create failed, rolling back")
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Str("order_id", o.ID).Msg("Failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				log.Error().Err(commitErr).Str("order_id", o.ID).Msg("Failed to commit transaction")
				err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
			}
		}
	}()

	queryOrder := `
		INSERT INTO orders (id, customer_name, phone, email, address, scheduled_date, scheduled_time,
			comment, total_price, status, paid_amount, payment_status,
			total_switches, total_outlets, total_points, cable_meters, frame_count,
			executor_id, executor_name, calendar_event_id, planfix_task_id, note_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`
	_, err = tx.Exec(ctx, queryOrder,
		o.ID,
		o.CustomerName,
		o.Phone,
		o.Email,
		o.Address,
		o.Date,
		o.Time,
		o.Comment,
		o.TotalAmount,
		string(o.Status),
		o.PaidAmount,
		string(o.PaymentStatus),
		o.Totals.Switches,
		o.Totals.Outlets,
		o.Totals.Points,
		o.Totals.CableMeters,
		o.Totals.Frames,
		o.ExecutorID,
		o.ExecutorName,
		o.CalendarEventID,
		o.PlanfixTaskID,
		o.NoteID,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}

	queryItem := `
		INSERT INTO order_items (order_id, position, name, price, quantity, category, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, item := range o.Items {
		_, err = tx.Exec(ctx, queryItem, o.ID, i, item.Name, item.Price, item.Quantity, item.Category, item.Description)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order item for order %s: %w", o.ID, err)
		}
	}

	for _, p := range o.Payments {
		if err = insertPayment(ctx, tx, o.ID, p); err != nil {
			return err
		}
	}

	return nil
}

func insertPayment(ctx context.Context, tx pgx.Tx, orderID string, p Payment) error {
	query := `
		INSERT INTO payments (id, order_id, amount, method, status, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.Exec(ctx, query, p.ID, orderID, p.Amount, string(p.Method), string(p.Status), p.Description, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert payment for order %s: %w", orderID, err)
	}
	return nil
}

const orderColumns = `
	id, customer_name, phone, email, address, scheduled_date, scheduled_time,
	comment, total_price, status, paid_amount, payment_status,
	total_switches, total_outlets, total_points, cable_meters, frame_count,
	executor_id, executor_name, calendar_event_id, planfix_task_id, note_id,
	created_at, updated_at
`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.CustomerName,
		&o.Phone,
		&o.Email,
		&o.Address,
		&o.Date,
		&o.Time,
		&o.Comment,
		&o.TotalAmount,
		&o.Status,
		&o.PaidAmount,
		&o.PaymentStatus,
		&o.Totals.Switches,
		&o.Totals.Outlets,
		&o.Totals.Points,
		&o.Totals.CableMeters,
		&o.Totals.Frames,
		&o.ExecutorID,
		&o.ExecutorName,
		&o.CalendarEventID,
		&o.PlanfixTaskID,
		&o.NoteID,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Items = make([]Item, 0)
	o.Payments = make([]Payment, 0)
	return &o, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", orderID, err)
	}

	if err := r.loadItems(ctx, map[string]*Order{o.ID: o}, []string{o.ID}); err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, map[string]*Order{o.ID: o}, []string{o.ID}); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *postgresRepository) List(ctx context.Context, f Filter) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}

	if f.ExecutorID != "" {
		args = append(args, f.ExecutorID)
		query += fmt.Sprintf(" AND executor_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	ordersMap := make(map[string]*Order)
	var orderIDs []string

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		ordersMap[o.ID] = o
		orderIDs = append(orderIDs, o.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	if len(orderIDs) == 0 {
		return []Order{}, nil
	}

	if err := r.loadItems(ctx, ordersMap, orderIDs); err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, ordersMap, orderIDs); err != nil {
		return nil, err
	}

	result := make([]Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		result = append(result, *ordersMap[id])
	}
	return result, nil
}

func (r *postgresRepository) loadItems(ctx context.Context, ordersMap map[string]*Order, orderIDs []string) error {
	query := `
		SELECT order_id, name, price, quantity, category, description
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`
	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return fmt.Errorf("repository: failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item Item
		if err := rows.Scan(&orderID, &item.Name, &item.Price, &item.Quantity, &item.Category, &item.Description); err != nil {
			return fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		if o, ok := ordersMap[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("repository: error iterating order items: %w", err)
	}
	return nil
}

func (r *postgresRepository) loadPayments(ctx context.Context, ordersMap map[string]*Order, orderIDs []string) error {
	query := `
		SELECT order_id, id, amount, method, status, description, created_at
		FROM payments
		WHERE order_id = ANY($1)
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return fmt.Errorf("repository: failed to query payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var p Payment
		if err := rows.Scan(&orderID, &p.ID, &p.Amount, &p.Method, &p.Status, &p.Description, &p.CreatedAt); err != nil {
			return fmt.Errorf("repository: failed to scan payment: %w", err)
		}
		if o, ok := ordersMap[orderID]; ok {
			o.Payments = append(o.Payments, p)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("repository: error iterating payments: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, orderID string, newStatus Status) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`

	cmdTag, err := r.db.Exec(ctx, query, string(newStatus), time.Now().UTC(), orderID)
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Str("new_status", string(newStatus)).Msg("repository: failed to update order status")
		return fmt.Errorf("repository: failed to update order status %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		log.Warn().Str("order_id", orderID).Str("new_status", string(newStatus)).Msg("repository: order not found for status update")
		return ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateExecutor(ctx context.Context, orderID, executorID, executorName string) error {
	query := `UPDATE orders SET executor_id = $1, executor_name = $2, updated_at = $3 WHERE id = $4`

	cmdTag, err := r.db.Exec(ctx, query, executorID, executorName, time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to update order executor %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateTotal(ctx context.Context, orderID string, total float64, paymentStatus PaymentStatus) error {
	query := `UPDATE orders SET total_price = $1, payment_status = $2, updated_at = $3 WHERE id = $4`

	cmdTag, err := r.db.Exec(ctx, query, total, string(paymentStatus), time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to update order total %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ReplacePayments rewrites the order's payment list together with its derived
// payment fields in one transaction, keeping the stored columns consistent
// with the list they are computed from.
func (r *postgresRepository) ReplacePayments(ctx context.Context, orderID string, payments []Payment, paidAmount float64, paymentStatus PaymentStatus) (err error) {
	tx, beginErr := r.db.Begin(ctx)
	if beginErr != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", beginErr)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Str("order_id", orderID).Msg("Failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
			}
		}
	}()

	queryOrder := `UPDATE orders SET paid_amount = $1, payment_status = $2, updated_at = $3 WHERE id = $4`
	cmdTag, err := tx.Exec(ctx, queryOrder, paidAmount, string(paymentStatus), time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to update payment fields for order %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		err = ErrOrderNotFound
		return err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM payments WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("repository: failed to clear payments for order %s: %w", orderID, err)
	}
	for _, p := range payments {
		if err = insertPayment(ctx, tx, orderID, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresRepository) UpdateSyncIDs(ctx context.Context, orderID, calendarEventID, planfixTaskID, noteID string) error {
	query := `UPDATE orders SET calendar_event_id = $1, planfix_task_id = $2, note_id = $3, updated_at = $4 WHERE id = $5`

	cmdTag, err := r.db.Exec(ctx, query, calendarEventID, planfixTaskID, noteID, time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to update sync ids for order %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}
