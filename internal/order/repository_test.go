package order_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektromontazh-pro/order-service/internal/order"
)

// setupRepo connects to the database named by the DB_* environment variables
// and truncates the order tables around each test. Tests are skipped when no
// database is configured.
func setupRepo(t *testing.T) (order.Repository, *pgxpool.Pool) {
	t.Helper()

	host := os.Getenv("DB_HOST")
	if host == "" {
		t.Skip("DB_HOST not set, skipping repository tests")
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host,
		os.Getenv("DB_PORT"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_SSLMODE"),
	)

	db, err := pgxpool.New(context.Background(), connStr)
	require.NoError(t, err, "failed to connect to test database")

	truncate := func() {
		_, err := db.Exec(context.Background(), "TRUNCATE TABLE orders, order_items, payments")
		require.NoError(t, err, "failed to truncate tables")
	}
	truncate()

	t.Cleanup(func() {
		truncate()
		db.Close()
	})

	return order.NewRepository(db), db
}

func persistedOrder(t *testing.T) *order.Order {
	t.Helper()
	o := sampleOrder(t)
	o.ID = fmt.Sprintf("ORD-%d", time.Now().UnixMilli())
	return o
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	o := persistedOrder(t)
	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)

	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.CustomerName, got.CustomerName)
	assert.Equal(t, o.TotalAmount, got.TotalAmount)
	assert.Equal(t, o.Status, got.Status)
	assert.Equal(t, o.Totals, got.Totals)
	require.Len(t, got.Items, len(o.Items))
	assert.Equal(t, o.Items[0].Name, got.Items[0].Name)
	assert.Equal(t, o.Items[0].Price, got.Items[0].Price)
	require.Len(t, got.Payments, len(o.Payments))
	assert.Equal(t, o.Payments[0].ID, got.Payments[0].ID)
	assert.Equal(t, o.Payments[0].Amount, got.Payments[0].Amount)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _ := setupRepo(t)

	_, err := repo.GetByID(context.Background(), "ORD-does-not-exist")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	o := persistedOrder(t)
	require.NoError(t, repo.Create(ctx, o))

	require.NoError(t, repo.UpdateStatus(ctx, o.ID, order.StatusInProgress))

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusInProgress, got.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "ORD-missing", order.StatusConfirmed), order.ErrOrderNotFound)
}

func TestRepository_ReplacePayments(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	o := persistedOrder(t)
	require.NoError(t, repo.Create(ctx, o))

	_, err := o.AddPayment(order.PaymentInput{Amount: 3000, Method: order.MethodYookassa})
	require.NoError(t, err)
	require.NoError(t, repo.ReplacePayments(ctx, o.ID, o.Payments, o.PaidAmount, o.PaymentStatus))

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, got.Payments, 2)
	assert.Equal(t, o.PaidAmount, got.PaidAmount)
	assert.Equal(t, o.PaymentStatus, got.PaymentStatus)
}

func TestRepository_ListByExecutor(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	first := persistedOrder(t)
	first.ExecutorID = "exec-list-1"
	require.NoError(t, repo.Create(ctx, first))

	second := persistedOrder(t)
	second.ID = first.ID + "-b"
	second.ExecutorID = "exec-list-2"
	require.NoError(t, repo.Create(ctx, second))

	got, err := repo.List(ctx, order.Filter{ExecutorID: "exec-list-1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)
	require.Len(t, got[0].Items, len(first.Items))

	all, err := repo.List(ctx, order.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
