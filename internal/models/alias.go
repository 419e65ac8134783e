package models

// PendingAlias is a free-text token seen in orders that the normalizer does
// not recognize yet. The admin panel resolves it to a product code.
type PendingAlias struct {
	Key         string `json:"key"`
	DisplayText string `json:"display_text"`
	Occurrences int    `json:"occurrences"`
	LastSeen    string `json:"last_seen"`
}

// AliasAssignment maps a trained token to a product code.
type AliasAssignment struct {
	Key         string `json:"key"`
	ProductCode string `json:"product_code"`
	AssignedAt  string `json:"assigned_at"`
}

// PendingUnitAlias is an unrecognized unit word found in order text.
type PendingUnitAlias struct {
	Key         string `json:"key"`
	Occurrences int    `json:"occurrences"`
	LastSeen    string `json:"last_seen"`
}

// UnitAliasAssignment maps a unit word to its canonical gate unit.
type UnitAliasAssignment struct {
	Key        string `json:"key"`
	Canonical  string `json:"canonical"`
	AssignedAt string `json:"assigned_at"`
}

// Product is a catalog entry returned by the admin product search.
type Product struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Brand string `json:"brand,omitempty"`
}
