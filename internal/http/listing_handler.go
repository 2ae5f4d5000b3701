package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openclaw/lister/internal/apperr"
	"github.com/openclaw/lister/internal/model"
	"github.com/openclaw/lister/internal/service"
	"github.com/openclaw/lister/pkg/validator"
)

type listingHandler struct {
	listingSvc service.ListingService
	validate   validator.Validator
}

func newListingHandler(listingSvc service.ListingService, validate validator.Validator) *listingHandler {
	return &listingHandler{
		listingSvc: listingSvc,
		validate:   validate,
	}
}

type optionValueRequest struct {
	Name     string `json:"name" validate:"required"`
	PriceAdd int64  `json:"priceAdd"`
	OptionNo string `json:"optionNo"`
}

type optionGroupRequest struct {
	GroupName string               `json:"groupName" validate:"required"`
	Values    []optionValueRequest `json:"values" validate:"required,min=1,dive"`
}

type attributeRequest struct {
	TypeName  string `json:"attributeTypeName" validate:"required"`
	ValueName string `json:"attributeValueName" validate:"required"`
	Exposed   string `json:"exposed"`
}

type createListingRequest struct {
	DisplayName      string               `json:"display_name" validate:"required,max=100"`
	SellerName       string               `json:"seller_name" validate:"required"`
	OriginalName     string               `json:"original_name"`
	SalePrice        int64                `json:"sale_price" validate:"required,gte=1"`
	MinOrderQuantity int                  `json:"min_order_quantity" validate:"gte=0"`
	ImageURL         string               `json:"image_url" validate:"required,url"`
	DetailImages     []string             `json:"detail_images"`
	SearchTags       []string             `json:"search_tags" validate:"max=20"`
	SourceProductNo  string               `json:"source_product_no"`
	SourceURL        string               `json:"source_url"`
	CategoryHint     string               `json:"category_hint"`
	OptionGroups     []optionGroupRequest `json:"option_groups" validate:"dive"`
	Attributes       []attributeRequest   `json:"attributes" validate:"dive"`
	Optimized        bool                 `json:"optimized"`
}

type listingResponse struct {
	ID                uuid.UUID  `json:"id"`
	DisplayName       string     `json:"display_name"`
	SellerName        string     `json:"seller_name"`
	SalePrice         int64      `json:"sale_price"`
	ImageURL          string     `json:"image_url"`
	Status            string     `json:"status"`
	RetryCount        int        `json:"retry_count"`
	Optimized         bool       `json:"optimized"`
	EnrichTimedOut    bool       `json:"enrich_timed_out"`
	ExternalProductID *int64     `json:"external_product_id,omitempty"`
	ExternalStatus    string     `json:"external_status,omitempty"`
	Error             *string    `json:"error,omitempty"`
	DeniedReason      *string    `json:"denied_reason,omitempty"`
	AddedAt           time.Time  `json:"added_at"`
	RegisteredAt      *time.Time `json:"registered_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func toListingResponse(rec model.ListingRecord) listingResponse {
	return listingResponse{
		ID:                rec.ID,
		DisplayName:       rec.DisplayName,
		SellerName:        rec.SellerName,
		SalePrice:         rec.SalePrice,
		ImageURL:          rec.ImageURL,
		Status:            string(rec.Status),
		RetryCount:        rec.RetryCount,
		Optimized:         rec.Optimized,
		EnrichTimedOut:    rec.EnrichTimedOut,
		ExternalProductID: rec.ExternalProductID,
		ExternalStatus:    rec.ExternalStatus,
		Error:             rec.Error,
		DeniedReason:      rec.DeniedReason,
		AddedAt:           rec.AddedAt,
		RegisteredAt:      rec.RegisteredAt,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}

func (h *listingHandler) CreateListing(w http.ResponseWriter, r *http.Request) error {
	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.ValidationErr.WrapParent(err)
	}
	if err := h.validate.Validate(req); err != nil {
		return err
	}

	groups := make([]model.OptionGroup, 0, len(req.OptionGroups))
	for _, g := range req.OptionGroups {
		values := make([]model.OptionValue, 0, len(g.Values))
		for _, v := range g.Values {
			values = append(values, model.OptionValue{Name: v.Name, PriceAdd: v.PriceAdd, OptionNo: v.OptionNo})
		}
		groups = append(groups, model.OptionGroup{GroupName: g.GroupName, Values: values})
	}

	attrs := make([]model.AttributeAssignment, 0, len(req.Attributes))
	for _, a := range req.Attributes {
		attrs = append(attrs, model.AttributeAssignment{TypeName: a.TypeName, ValueName: a.ValueName, Exposed: a.Exposed})
	}

	rec, err := h.listingSvc.CreateListing(r.Context(), service.CreateListingParams{
		DisplayName:      req.DisplayName,
		SellerName:       req.SellerName,
		OriginalName:     req.OriginalName,
		SalePrice:        req.SalePrice,
		MinOrderQuantity: req.MinOrderQuantity,
		ImageURL:         req.ImageURL,
		DetailImages:     req.DetailImages,
		SearchTags:       req.SearchTags,
		SourceProductNo:  req.SourceProductNo,
		SourceURL:        req.SourceURL,
		CategoryHint:     req.CategoryHint,
		OptionGroups:     groups,
		Attributes:       attrs,
		Optimized:        req.Optimized,
	})
	if err != nil {
		return fmt.Errorf("listing service create listing: %w", err)
	}

	return writeJSON(w, http.StatusCreated, toListingResponse(rec))
}

func (h *listingHandler) GetListing(w http.ResponseWriter, r *http.Request) error {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return apperr.ValidationErr.WrapParent(err)
	}

	rec, err := h.listingSvc.GetListing(r.Context(), id)
	if err != nil {
		return fmt.Errorf("listing service get listing: %w", err)
	}

	return writeJSON(w, http.StatusOK, toListingResponse(rec))
}

type listListingsQuery struct {
	Status model.Status `validate:"omitempty,enum"`
}

func (h *listingHandler) ListListings(w http.ResponseWriter, r *http.Request) error {
	var limit int32
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed < 1 {
			return apperr.ValidationErr.WrapParent(fmt.Errorf("invalid limit %q", raw))
		}
		limit = int32(parsed)
	}

	query := listListingsQuery{Status: model.Status(r.URL.Query().Get("status"))}
	if err := h.validate.Validate(query); err != nil {
		return err
	}

	recs, err := h.listingSvc.ListListings(r.Context(), service.ListListingsParams{
		Status: query.Status,
		Limit:  limit,
	})
	if err != nil {
		return fmt.Errorf("listing service list listings: %w", err)
	}

	items := make([]listingResponse, 0, len(recs))
	for _, rec := range recs {
		items = append(items, toListingResponse(rec))
	}

	return writeJSON(w, http.StatusOK, items)
}

func (h *listingHandler) QueueStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.listingSvc.QueueStats(r.Context())
	if err != nil {
		return fmt.Errorf("listing service queue stats: %w", err)
	}

	return writeJSON(w, http.StatusOK, map[string]int64{
		"pending":          stats.Pending,
		"registered":       stats.Registered,
		"approved":         stats.Approved,
		"denied":           stats.Denied,
		"denied_permanent": stats.DeniedPermanent,
		"skip_invalid":     stats.SkipInvalid,
		"error":            stats.Error,
		"stock_stopped":    stats.StockStopped,
	})
}
