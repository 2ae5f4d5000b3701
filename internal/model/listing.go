package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle status of a queued listing.
type Status string

const (
	// StatusPending listings are awaiting submission.
	StatusPending Status = "pending"
	// StatusSkipInvalid is terminal: the listing could not be made valid.
	StatusSkipInvalid Status = "skip_invalid"
	// StatusError records a transport-level submission failure. Not retried
	// automatically; an operator (or a separate requeue policy) decides.
	StatusError Status = "error"
	// StatusRegistered means the marketplace accepted the submission and the
	// listing is awaiting approval.
	StatusRegistered Status = "registered"
	// StatusApproved is the marketplace's final acceptance.
	StatusApproved Status = "approved"
	// StatusDenied means the marketplace rejected the listing after
	// submission. Bounded automatic remediation applies.
	StatusDenied Status = "denied"
	// StatusDeniedPermanent is terminal: remediation gave up.
	StatusDeniedPermanent Status = "denied_permanent"
	// StatusStockStopped is owned by the stock monitor. The registrar never
	// sets or clears it, only preserves it.
	StatusStockStopped Status = "stock_stopped"
)

// AttributeAssignment is one attribute on a listing or line item.
type AttributeAssignment struct {
	TypeName  string `json:"attributeTypeName"`
	ValueName string `json:"attributeValueName"`
	Exposed   string `json:"exposed,omitempty"`
}

// OptionValue is one selectable value inside an option group.
type OptionValue struct {
	Name     string `json:"name"`
	PriceAdd int64  `json:"priceAdd,omitempty"`
	OptionNo string `json:"optionNo,omitempty"`
}

// OptionGroup is one raw option group harvested from the source listing.
type OptionGroup struct {
	GroupName string        `json:"groupName"`
	Values    []OptionValue `json:"values"`
}

// ListingRecord is one row in the registration queue. It is owned by the
// registrar and mutated only through status transitions; records are never
// deleted, only moved to a terminal status.
type ListingRecord struct {
	ID uuid.UUID `json:"id"`

	DisplayName  string `json:"display_name"`
	SellerName   string `json:"seller_name"`
	OriginalName string `json:"original_name,omitempty"`

	SalePrice        int64    `json:"sale_price"`
	MinOrderQuantity int      `json:"min_order_quantity,omitempty"`
	ImageURL         string   `json:"image_url"`
	DetailImages     []string `json:"detail_images,omitempty"`
	SearchTags       []string `json:"search_tags,omitempty"`

	SourceProductNo string `json:"source_product_no,omitempty"`
	SourceURL       string `json:"source_url,omitempty"`
	CategoryHint    string `json:"category_hint,omitempty"`

	OptionGroups []OptionGroup         `json:"option_groups,omitempty"`
	Attributes   []AttributeAssignment `json:"attributes,omitempty"`

	Status     Status `json:"status"`
	RetryCount int    `json:"retry_count"`

	// Optimized is set by the upstream naming collaborator once the display
	// name has been enriched. Unoptimized listings are submitted anyway after
	// the enrichment timeout elapses; EnrichTimedOut marks that fallback.
	Optimized      bool `json:"optimized"`
	EnrichTimedOut bool `json:"enrich_timed_out,omitempty"`

	ExternalProductID *int64  `json:"external_product_id,omitempty"`
	ExternalStatus    string  `json:"external_status,omitempty"`
	Error             *string `json:"error,omitempty"`
	DeniedReason      *string `json:"denied_reason,omitempty"`

	AddedAt      time.Time  `json:"added_at"`
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Validate reports whether the status is one of the known lifecycle values.
func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusSkipInvalid, StatusError, StatusRegistered,
		StatusApproved, StatusDenied, StatusDeniedPermanent, StatusStockStopped:
		return nil
	default:
		return fmt.Errorf("unknown status: %q", s)
	}
}

// Terminal reports whether the listing can never leave its current status.
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusDeniedPermanent, StatusSkipInvalid:
		return true
	default:
		return false
	}
}
