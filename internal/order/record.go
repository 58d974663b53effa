package order

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/elektromontazh-pro/order-service/internal/cart"
)

// FlexFloat unmarshals from a JSON number, a numeric string, or null. The
// backing store historically wrote monetary columns as strings.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// DBRecord is the flat snake_case shape exchanged with the persistence
// collaborator.
type DBRecord struct {
	ID              string    `json:"id"`
	CustomerName    string    `json:"customer_name"`
	CustomerPhone   string    `json:"customer_phone"`
	CustomerEmail   string    `json:"customer_email,omitempty"`
	Address         string    `json:"address"`
	ScheduledDate   string    `json:"scheduled_date"`
	ScheduledTime   string    `json:"scheduled_time"`
	Comment         string    `json:"comment,omitempty"`
	Items           []Item    `json:"items"`
	Payments        []Payment `json:"payments"`
	TotalPrice      FlexFloat `json:"total_price"`
	PaidAmount      FlexFloat `json:"paid_amount"`
	PaymentStatus   string    `json:"payment_status"`
	TotalSwitches   int       `json:"total_switches"`
	TotalOutlets    int       `json:"total_outlets"`
	TotalPoints     int       `json:"total_points"`
	CableMeters     int       `json:"cable_meters"`
	FrameCount      int       `json:"frame_count"`
	Status          string    `json:"status"`
	ExecutorID      string    `json:"executor_id,omitempty"`
	ExecutorName    string    `json:"executor_name,omitempty"`
	CalendarEventID string    `json:"calendar_event_id,omitempty"`
	PlanfixTaskID   string    `json:"planfix_task_id,omitempty"`
	NoteID          string    `json:"note_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PlanfixRecord is the reduced order shape sent to the Planfix task sync.
type PlanfixRecord struct {
	OrderID       string  `json:"order_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	Address       string  `json:"address"`
	ScheduledDate string  `json:"scheduled_date"`
	ScheduledTime string  `json:"scheduled_time"`
	TotalAmount   float64 `json:"total_amount"`
	Items         []Item  `json:"items"`
	Status        string  `json:"status"`
}

// ToRecord maps an order to the persistence shape.
func (o *Order) ToRecord() DBRecord {
	items := o.Items
	if items == nil {
		items = []Item{}
	}
	payments := o.Payments
	if payments == nil {
		payments = []Payment{}
	}
	return DBRecord{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.Phone,
		CustomerEmail:   o.Email,
		Address:         o.Address,
		ScheduledDate:   o.Date,
		ScheduledTime:   o.Time,
		Comment:         o.Comment,
		Items:           items,
		Payments:        payments,
		TotalPrice:      FlexFloat(o.TotalAmount),
		PaidAmount:      FlexFloat(o.PaidAmount),
		PaymentStatus:   string(o.PaymentStatus),
		TotalSwitches:   o.Totals.Switches,
		TotalOutlets:    o.Totals.Outlets,
		TotalPoints:     o.Totals.Points,
		CableMeters:     o.Totals.CableMeters,
		FrameCount:      o.Totals.Frames,
		Status:          string(o.Status),
		ExecutorID:      o.ExecutorID,
		ExecutorName:    o.ExecutorName,
		CalendarEventID: o.CalendarEventID,
		PlanfixTaskID:   o.PlanfixTaskID,
		NoteID:          o.NoteID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// FromRecord maps a persistence record back to an order, substituting
// documented defaults for anything missing: status pending, unpaid, empty
// collections.
func FromRecord(r DBRecord) *Order {
	status := Status(r.Status)
	if status == "" {
		status = StatusPending
	}
	payStatus := PaymentStatus(r.PaymentStatus)
	if payStatus == "" {
		payStatus = PaymentUnpaid
	}
	items := r.Items
	if items == nil {
		items = []Item{}
	}
	payments := r.Payments
	if payments == nil {
		payments = []Payment{}
	}
	return &Order{
		ID:            r.ID,
		CustomerName:  r.CustomerName,
		Phone:         r.CustomerPhone,
		Email:         r.CustomerEmail,
		Address:       r.Address,
		Date:          r.ScheduledDate,
		Time:          r.ScheduledTime,
		Comment:       r.Comment,
		Items:         items,
		Payments:      payments,
		TotalAmount:   float64(r.TotalPrice),
		PaidAmount:    float64(r.PaidAmount),
		PaymentStatus: payStatus,
		Totals: cart.Totals{
			Switches:    r.TotalSwitches,
			Outlets:     r.TotalOutlets,
			Points:      r.TotalPoints,
			CableMeters: r.CableMeters,
			Frames:      r.FrameCount,
		},
		Status:          status,
		ExecutorID:      r.ExecutorID,
		ExecutorName:    r.ExecutorName,
		CalendarEventID: r.CalendarEventID,
		PlanfixTaskID:   r.PlanfixTaskID,
		NoteID:          r.NoteID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ToPlanfix maps an order to the reduced Planfix shape.
func (o *Order) ToPlanfix() PlanfixRecord {
	items := o.Items
	if items == nil {
		items = []Item{}
	}
	return PlanfixRecord{
		OrderID:       o.ID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.Phone,
		Address:       o.Address,
		ScheduledDate: o.Date,
		ScheduledTime: o.Time,
		TotalAmount:   o.TotalAmount,
		Items:         items,
		Status:        string(o.Status),
	}
}
