package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeExpenseCreated = "expense.created"
	EventTypeExpenseDeleted = "expense.deleted"
)

type ExpenseCreatedEvent struct {
	BaseEvent
	ExpenseID int64     `json:"expense_id"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Date      time.Time `json:"date"`
}

func NewExpenseCreatedEvent(expenseID int64, title string, amount float64, category string, date time.Time) *ExpenseCreatedEvent {
	return &ExpenseCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeExpenseCreated,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"expense_id": expenseID,
				"title":      title,
				"amount":     amount,
				"category":   category,
				"date":       date,
			},
		},
		ExpenseID: expenseID,
		Title:     title,
		Amount:    amount,
		Category:  category,
		Date:      date,
	}
}

type ExpenseDeletedEvent struct {
	BaseEvent
	ExpenseID int64 `json:"expense_id"`
}

func NewExpenseDeletedEvent(expenseID int64) *ExpenseDeletedEvent {
	return &ExpenseDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeExpenseDeleted,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"expense_id": expenseID,
			},
		},
		ExpenseID: expenseID,
	}
}

// Envelope is the serialised form of an event on the message broker.
type Envelope struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func ToEnvelope(event Event) Envelope {
	data, _ := event.Payload().(map[string]interface{})
	return Envelope{
		ID:        event.EventID(),
		Type:      event.EventType(),
		Timestamp: event.OccurredAt(),
		Data:      data,
	}
}

func (e Envelope) EventType() string     { return e.Type }
func (e Envelope) EventID() string       { return e.ID }
func (e Envelope) OccurredAt() time.Time { return e.Timestamp }
func (e Envelope) Payload() interface{}  { return e.Data }
