package order

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/elektromontazh-pro/order-service/internal/cart"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodYookassa     PaymentMethod = "yookassa"
	MethodTinkoff      PaymentMethod = "tinkoff"
	MethodSberbank     PaymentMethod = "sberbank"
)

type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentPaid          PaymentStatus = "paid"
	PaymentRefunded      PaymentStatus = "refunded"
	PaymentPending       PaymentStatus = "pending"
)

func (s PaymentStatus) String() string {
	return string(s)
}

// Item is a flattened, priced order line. Decoupled from the live catalogue
// on purpose: an order keeps the name and price it was sold at.
type Item struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
}

// Payment is an append-only record attached to an order.
type Payment struct {
	ID          uuid.UUID     `json:"id"`
	Amount      float64       `json:"amount"`
	Method      PaymentMethod `json:"method"`
	Status      PaymentStatus `json:"status"`
	Description string        `json:"description,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Order is a committed snapshot of a cart plus customer and scheduling data.
// PaidAmount and PaymentStatus are always derived from Payments, never edited
// directly. TotalAmount is derived from Items, except when a manager override
// deliberately replaces it.
type Order struct {
	ID            string        `json:"id" db:"id"`
	CustomerName  string        `json:"customer_name" db:"customer_name"`
	Phone         string        `json:"phone" db:"phone"`
	Email         string        `json:"email,omitempty" db:"email"`
	Address       string        `json:"address" db:"address"`
	Date          string        `json:"date" db:"scheduled_date"`
	Time          string        `json:"time" db:"scheduled_time"`
	Comment       string        `json:"comment,omitempty" db:"comment"`
	Items         []Item        `json:"items" db:"-"`
	Totals        cart.Totals   `json:"totals" db:"-"`
	TotalAmount   float64       `json:"total_amount" db:"total_price"`
	Status        Status        `json:"status" db:"status"`
	Payments      []Payment     `json:"payments" db:"-"`
	PaidAmount    float64       `json:"paid_amount" db:"paid_amount"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	ExecutorID    string        `json:"executor_id,omitempty" db:"executor_id"`
	ExecutorName  string        `json:"executor_name,omitempty" db:"executor_name"`

	// Third-party sync identifiers, stored opaquely.
	CalendarEventID string `json:"calendar_event_id,omitempty" db:"calendar_event_id"`
	PlanfixTaskID   string `json:"planfix_task_id,omitempty" db:"planfix_task_id"`
	NoteID          string `json:"note_id,omitempty" db:"note_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
