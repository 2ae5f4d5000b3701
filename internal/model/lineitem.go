package model

// LineItem is one sellable variant derived from a listing's option
// combinations. Line items are never persisted; they exist only inside the
// outbound submission payload.
type LineItem struct {
	ItemName  string
	SalePrice int64

	// RoundedFrom holds the pre-rounding price when the 10-KRW round-up was
	// applied, 0 otherwise. Surfaced so rounding is observable, not silent.
	RoundedFrom int64

	Attributes []AttributeAssignment
}
