package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/simonolocco/bot-wasap/internal/models"
	"github.com/simonolocco/bot-wasap/internal/normalizer"
	"github.com/simonolocco/bot-wasap/internal/storage"
)

// AliasService derives the alias-training queues the admin panel works
// through: order-text tokens the normalizer does not recognize yet, and unit
// words it cannot classify.
type AliasService struct {
	store storage.Store
}

// NewAliasService creates a new alias service
func NewAliasService(store storage.Store) *AliasService {
	return &AliasService{store: store}
}

// PendingAliases scans stored orders for meaningful tokens that are neither
// trained vocabulary nor already assigned to a product.
func (a *AliasService) PendingAliases() ([]*models.PendingAlias, error) {
	assigned, err := a.assignedAliasKeys()
	if err != nil {
		return nil, err
	}

	orders, err := a.store.ListOrders()
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	pending := make(map[string]*models.PendingAlias)
	for _, order := range orders {
		if order.Status == models.OrderStatusCanceled {
			continue
		}
		for _, token := range normalizer.MeaningfulTokens(order.Detail) {
			if normalizer.KnownToken(token) || assigned[token] {
				continue
			}
			// Unit words go through the unit-alias queue, not this one.
			if normalizer.KnownGateUnit(token) || normalizer.NormalizeBaseUnit(token) != token {
				continue
			}
			entry, ok := pending[token]
			if !ok {
				entry = &models.PendingAlias{Key: token, DisplayText: token}
				pending[token] = entry
			}
			entry.Occurrences++
			if order.CreatedAt > entry.LastSeen {
				entry.LastSeen = order.CreatedAt
			}
		}
	}
	return sortPendingAliases(pending), nil
}

// AssignAlias records a product assignment for a trained token and reports
// how many records were updated.
func (a *AliasService) AssignAlias(aliasKey, productCode string) (int, error) {
	aliasKey = strings.ToLower(strings.TrimSpace(aliasKey))
	productCode = strings.TrimSpace(productCode)
	if aliasKey == "" || productCode == "" {
		return 0, fmt.Errorf("aliasKey and productCode are required")
	}
	if err := a.store.AssignAlias(aliasKey, productCode); err != nil {
		return 0, err
	}
	return 1, nil
}

// PendingUnitAliases scans order text for words used as units (right after a
// quantity) that the gate-unit normalizer does not recognize.
func (a *AliasService) PendingUnitAliases() ([]*models.PendingUnitAlias, error) {
	assignments, err := a.store.ListUnitAliasAssignments()
	if err != nil {
		return nil, fmt.Errorf("list unit aliases: %w", err)
	}
	assigned := make(map[string]bool, len(assignments))
	for _, u := range assignments {
		assigned[u.Key] = true
	}

	orders, err := a.store.ListOrders()
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	pending := make(map[string]*models.PendingUnitAlias)
	for _, order := range orders {
		if order.Status == models.OrderStatusCanceled {
			continue
		}
		tokens := strings.Fields(normalizer.Normalize(order.Detail))
		for i := 1; i < len(tokens); i++ {
			if !isQuantity(tokens[i-1]) {
				continue
			}
			word := tokens[i]
			if normalizer.KnownGateUnit(word) || normalizer.NormalizeBaseUnit(word) != word {
				continue
			}
			// Product vocabulary and filler right after a number is not a
			// unit word ("3 quesos", "3 de queso").
			if normalizer.KnownToken(word) || normalizer.IsStopword(word) || assigned[word] {
				continue
			}
			entry, ok := pending[word]
			if !ok {
				entry = &models.PendingUnitAlias{Key: word}
				pending[word] = entry
			}
			entry.Occurrences++
			if order.CreatedAt > entry.LastSeen {
				entry.LastSeen = order.CreatedAt
			}
		}
	}

	list := make([]*models.PendingUnitAlias, 0, len(pending))
	for _, p := range pending {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Occurrences != list[j].Occurrences {
			return list[i].Occurrences > list[j].Occurrences
		}
		return list[i].Key < list[j].Key
	})
	return list, nil
}

// AssignUnitAlias records the canonical gate unit for a unit word. Only
// "unidad" and "caja" can be trained from the panel.
func (a *AliasService) AssignUnitAlias(aliasKey, canonical string) (int, error) {
	aliasKey = strings.ToLower(strings.TrimSpace(aliasKey))
	canonical = strings.ToLower(strings.TrimSpace(canonical))
	if aliasKey == "" {
		return 0, fmt.Errorf("aliasKey is required")
	}
	if canonical != "unidad" && canonical != "caja" {
		return 0, fmt.Errorf("canonical must be unidad or caja")
	}
	if err := a.store.AssignUnitAlias(aliasKey, canonical); err != nil {
		return 0, err
	}
	return 1, nil
}

// SearchProducts is the product catalog lookup behind the admin alias
// assignment UI. There is no catalog wired in, so it always comes back empty.
func (a *AliasService) SearchProducts(query string) ([]*models.Product, error) {
	return []*models.Product{}, nil
}

func (a *AliasService) assignedAliasKeys() (map[string]bool, error) {
	assignments, err := a.store.ListAliasAssignments()
	if err != nil {
		return nil, fmt.Errorf("list alias assignments: %w", err)
	}
	keys := make(map[string]bool, len(assignments))
	for _, assignment := range assignments {
		keys[assignment.Key] = true
	}
	return keys, nil
}

func sortPendingAliases(pending map[string]*models.PendingAlias) []*models.PendingAlias {
	list := make([]*models.PendingAlias, 0, len(pending))
	for _, p := range pending {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Occurrences != list[j].Occurrences {
			return list[i].Occurrences > list[j].Occurrences
		}
		return list[i].Key < list[j].Key
	})
	return list
}

func isQuantity(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
