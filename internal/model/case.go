package model

// Case is one labeled claim/truth pair loaded from the source table
type Case struct {
	ID    int    `json:"case_id"` // Zero-based position among accepted rows
	Claim string `json:"claim"`   // Claim under verification (trimmed, non-empty)
	Truth string `json:"truth"`   // Reference truth (trimmed, non-empty)
}
