package storage

import (
	"sync"

	"github.com/simonolocco/bot-wasap/internal/models"
)

// MemoryStore holds all data in memory, for tests and local development.
type MemoryStore struct {
	mu          sync.RWMutex
	orders      map[int]*models.Order
	nextOrderID int
	aliases     map[string]*models.AliasAssignment
	unitAliases map[string]*models.UnitAliasAssignment
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:      make(map[int]*models.Order),
		nextOrderID: 1,
		aliases:     make(map[string]*models.AliasAssignment),
		unitAliases: make(map[string]*models.UnitAliasAssignment),
	}
}

func (m *MemoryStore) CreateOrder(chatID, customerName, detail string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order := &models.Order{
		ID:           m.nextOrderID,
		ChatID:       chatID,
		CustomerName: customerName,
		Detail:       detail,
		CreatedAt:    nowISO(),
		Status:       models.OrderStatusPendingCustomer,
	}
	m.nextOrderID++
	m.orders[order.ID] = order
	copied := *order
	return &copied, nil
}

func (m *MemoryStore) GetOrder(id int) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, exists := m.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *MemoryStore) SubmitOrder(id int) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, exists := m.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	if order.Closed() {
		return nil, ErrOrderClosed
	}
	order.Status = models.OrderStatusSubmitted
	copied := *order
	return &copied, nil
}

func (m *MemoryStore) CancelOrder(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, exists := m.orders[id]
	if !exists {
		return ErrOrderNotFound
	}
	order.Status = models.OrderStatusCanceled
	return nil
}

func (m *MemoryStore) AcceptOrder(id int) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, exists := m.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	if order.Closed() {
		return nil, ErrOrderClosed
	}
	order.Status = models.OrderStatusAccepted
	order.Accepted = true
	order.AcceptedAt = nowISO()
	copied := *order
	return &copied, nil
}

func (m *MemoryStore) ListOrders() ([]*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := make([]*models.Order, 0, len(m.orders))
	for _, order := range m.orders {
		copied := *order
		orders = append(orders, &copied)
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (m *MemoryStore) ListAliasAssignments() ([]*models.AliasAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	assignments := make([]*models.AliasAssignment, 0, len(m.aliases))
	for _, a := range m.aliases {
		copied := *a
		assignments = append(assignments, &copied)
	}
	return assignments, nil
}

func (m *MemoryStore) AssignAlias(key, productCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.aliases[key] = &models.AliasAssignment{
		Key:         key,
		ProductCode: productCode,
		AssignedAt:  nowISO(),
	}
	return nil
}

func (m *MemoryStore) ListUnitAliasAssignments() ([]*models.UnitAliasAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	assignments := make([]*models.UnitAliasAssignment, 0, len(m.unitAliases))
	for _, a := range m.unitAliases {
		copied := *a
		assignments = append(assignments, &copied)
	}
	return assignments, nil
}

func (m *MemoryStore) AssignUnitAlias(key, canonical string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unitAliases[key] = &models.UnitAliasAssignment{
		Key:        key,
		Canonical:  canonical,
		AssignedAt: nowISO(),
	}
	return nil
}
