package storage

import (
	"errors"
	"sort"
	"time"

	"github.com/simonolocco/bot-wasap/internal/models"
)

var (
	// ErrOrderNotFound is returned when an order id does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderClosed is returned when a transition is attempted on a
	// canceled order. Canceled is terminal.
	ErrOrderClosed = errors.New("order is canceled")
)

// Store defines the interface for storage operations
type Store interface {
	// Order operations
	CreateOrder(chatID, customerName, detail string) (*models.Order, error)
	GetOrder(id int) (*models.Order, error)
	SubmitOrder(id int) (*models.Order, error)
	CancelOrder(id int) error
	AcceptOrder(id int) (*models.Order, error)
	ListOrders() ([]*models.Order, error)

	// Alias training operations (admin panel)
	ListAliasAssignments() ([]*models.AliasAssignment, error)
	AssignAlias(key, productCode string) error
	ListUnitAliasAssignments() ([]*models.UnitAliasAssignment, error)
	AssignUnitAlias(key, canonical string) error
}

// nowISO returns the current UTC time with fixed millisecond width, so the
// persisted timestamps sort correctly under plain string comparison.
func nowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// sortOrdersNewestFirst orders by creation timestamp descending, ties broken
// by lexical comparison (the timestamps are fixed-width ISO 8601).
func sortOrdersNewestFirst(orders []*models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt != orders[j].CreatedAt {
			return orders[i].CreatedAt > orders[j].CreatedAt
		}
		return orders[i].ID > orders[j].ID
	})
}
