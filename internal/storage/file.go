package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/simonolocco/bot-wasap/internal/models"
)

const (
	ordersFile  = "orders.json"
	aliasesFile = "aliases.json"

	dataFileMode = 0o644
	dataDirMode  = 0o755
)

// FileStore keeps all records in memory and rewrites the whole collection to
// a JSON file on every mutation. Writes go through a temp file and an atomic
// rename so a crash mid-write cannot leave a truncated file behind.
type FileStore struct {
	mu          sync.RWMutex
	ordersPath  string
	aliasesPath string

	orders      map[int]*models.Order
	nextOrderID int
	aliases     map[string]*models.AliasAssignment
	unitAliases map[string]*models.UnitAliasAssignment
}

// aliasDocument is the on-disk layout of the alias training file.
type aliasDocument struct {
	Aliases     []*models.AliasAssignment     `json:"aliases"`
	UnitAliases []*models.UnitAliasAssignment `json:"unit_aliases"`
}

// NewFileStore opens (or creates) the JSON data files under dataDir. A
// missing or malformed file degrades to an empty collection; the error is
// logged, not fatal.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, dataDirMode); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &FileStore{
		ordersPath:  filepath.Join(dataDir, ordersFile),
		aliasesPath: filepath.Join(dataDir, aliasesFile),
		orders:      make(map[int]*models.Order),
		nextOrderID: 1,
		aliases:     make(map[string]*models.AliasAssignment),
		unitAliases: make(map[string]*models.UnitAliasAssignment),
	}
	s.loadOrders()
	s.loadAliases()
	return s, nil
}

func (s *FileStore) loadOrders() {
	raw, err := os.ReadFile(s.ordersPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️  Could not read %s: %v", s.ordersPath, err)
		}
		return
	}

	var list []*models.Order
	if err := json.Unmarshal(raw, &list); err != nil {
		log.Printf("⚠️  Malformed orders file %s, starting empty: %v", s.ordersPath, err)
		return
	}
	for _, order := range list {
		s.orders[order.ID] = order
		if order.ID >= s.nextOrderID {
			s.nextOrderID = order.ID + 1
		}
	}
	log.Printf("📦 Loaded %d orders from %s", len(list), s.ordersPath)
}

func (s *FileStore) loadAliases() {
	raw, err := os.ReadFile(s.aliasesPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️  Could not read %s: %v", s.aliasesPath, err)
		}
		return
	}

	var doc aliasDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Printf("⚠️  Malformed aliases file %s, starting empty: %v", s.aliasesPath, err)
		return
	}
	for _, a := range doc.Aliases {
		s.aliases[a.Key] = a
	}
	for _, a := range doc.UnitAliases {
		s.unitAliases[a.Key] = a
	}
}

// saveOrders serializes the full order collection. Callers hold the write
// lock. A write failure is logged and returned but the in-memory mutation
// stays applied.
func (s *FileStore) saveOrders() error {
	list := make([]*models.Order, 0, len(s.orders))
	for _, order := range s.orders {
		list = append(list, order)
	}
	sortOrdersNewestFirst(list)
	return writeJSONFile(s.ordersPath, list)
}

func (s *FileStore) saveAliases() error {
	doc := aliasDocument{
		Aliases:     make([]*models.AliasAssignment, 0, len(s.aliases)),
		UnitAliases: make([]*models.UnitAliasAssignment, 0, len(s.unitAliases)),
	}
	for _, a := range s.aliases {
		doc.Aliases = append(doc.Aliases, a)
	}
	for _, a := range s.unitAliases {
		doc.UnitAliases = append(doc.UnitAliases, a)
	}
	return writeJSONFile(s.aliasesPath, doc)
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, dataFileMode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) CreateOrder(chatID, customerName, detail string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := &models.Order{
		ID:           s.nextOrderID,
		ChatID:       chatID,
		CustomerName: customerName,
		Detail:       detail,
		CreatedAt:    nowISO(),
		Status:       models.OrderStatusPendingCustomer,
	}
	s.nextOrderID++
	s.orders[order.ID] = order

	if err := s.saveOrders(); err != nil {
		log.Printf("❌ Failed to persist orders: %v", err)
	}
	copied := *order
	return &copied, nil
}

func (s *FileStore) GetOrder(id int) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *FileStore) SubmitOrder(id int) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, exists := s.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	if order.Closed() {
		return nil, ErrOrderClosed
	}
	order.Status = models.OrderStatusSubmitted
	if err := s.saveOrders(); err != nil {
		log.Printf("❌ Failed to persist orders: %v", err)
	}
	copied := *order
	return &copied, nil
}

func (s *FileStore) CancelOrder(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, exists := s.orders[id]
	if !exists {
		return ErrOrderNotFound
	}
	order.Status = models.OrderStatusCanceled
	if err := s.saveOrders(); err != nil {
		log.Printf("❌ Failed to persist orders: %v", err)
	}
	return nil
}

func (s *FileStore) AcceptOrder(id int) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, exists := s.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	if order.Closed() {
		return nil, ErrOrderClosed
	}
	order.Status = models.OrderStatusAccepted
	order.Accepted = true
	order.AcceptedAt = nowISO()
	if err := s.saveOrders(); err != nil {
		log.Printf("❌ Failed to persist orders: %v", err)
	}
	copied := *order
	return &copied, nil
}

func (s *FileStore) ListOrders() ([]*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]*models.Order, 0, len(s.orders))
	for _, order := range s.orders {
		copied := *order
		orders = append(orders, &copied)
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (s *FileStore) ListAliasAssignments() ([]*models.AliasAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignments := make([]*models.AliasAssignment, 0, len(s.aliases))
	for _, a := range s.aliases {
		copied := *a
		assignments = append(assignments, &copied)
	}
	return assignments, nil
}

func (s *FileStore) AssignAlias(key, productCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.aliases[key] = &models.AliasAssignment{
		Key:         key,
		ProductCode: productCode,
		AssignedAt:  nowISO(),
	}
	return s.saveAliases()
}

func (s *FileStore) ListUnitAliasAssignments() ([]*models.UnitAliasAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignments := make([]*models.UnitAliasAssignment, 0, len(s.unitAliases))
	for _, a := range s.unitAliases {
		copied := *a
		assignments = append(assignments, &copied)
	}
	return assignments, nil
}

func (s *FileStore) AssignUnitAlias(key, canonical string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unitAliases[key] = &models.UnitAliasAssignment{
		Key:        key,
		Canonical:  canonical,
		AssignedAt: nowISO(),
	}
	return s.saveAliases()
}
