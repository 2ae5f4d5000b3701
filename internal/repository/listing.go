package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/openclaw/lister/internal/model"
	"github.com/openclaw/lister/internal/storage/db"
)

// ErrListingNotFound is returned when a lookup matches no row.
var ErrListingNotFound = errors.New("listing not found")

type ListListingsParams struct {
	Status model.Status // empty matches all
	Limit  int32
}

type NextPendingParams struct {
	// StaleBefore is the cutoff for submitting unoptimized listings anyway.
	StaleBefore time.Time
}

type ListDeniedParams struct {
	Limit int32
}

type QueueStats struct {
	Pending         int64
	Registered      int64
	Approved        int64
	Denied          int64
	DeniedPermanent int64
	SkipInvalid     int64
	Error           int64
	StockStopped    int64
}

type ListingRepository interface {
	WithDB(db db.DB) ListingRepository
	CreateListing(ctx context.Context, rec model.ListingRecord) error
	GetListing(ctx context.Context, id uuid.UUID) (model.ListingRecord, error)
	UpdateListing(ctx context.Context, rec model.ListingRecord) error
	ListListings(ctx context.Context, params ListListingsParams) ([]model.ListingRecord, error)

	// NextPending claims the next submittable pending listing: optimized
	// first, then unoptimized ones whose enrichment window has lapsed. The
	// claimed row is locked until the surrounding transaction ends.
	NextPending(ctx context.Context, params NextPendingParams) (model.ListingRecord, error)

	// ListRegistered returns listings awaiting an approval verdict.
	ListRegistered(ctx context.Context) ([]model.ListingRecord, error)

	// ListDenied returns denied listings oldest first, locked for the
	// surrounding transaction. Records at the retry ceiling are included so
	// the caller can finalize them; denied is never a resting status.
	ListDenied(ctx context.Context, params ListDeniedParams) ([]model.ListingRecord, error)

	Stats(ctx context.Context) (QueueStats, error)
}

type listingRepository struct {
	db db.DB
}

func NewListingRepository(db db.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r listingRepository) WithDB(db db.DB) ListingRepository {
	return &listingRepository{db: db}
}

const listingColumns = `
	id, display_name, seller_name, original_name,
	sale_price, min_order_quantity, image_url, detail_images, search_tags,
	source_product_no, source_url, category_hint,
	option_groups, attributes,
	status, retry_count, optimized, enrich_timed_out,
	external_product_id, external_status, error, denied_reason,
	added_at, registered_at, created_at, updated_at`

func (r listingRepository) CreateListing(ctx context.Context, rec model.ListingRecord) error {
	args, err := listingArgs(rec)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO listings (`+listingColumns+`)
		VALUES (
			@id, @display_name, @seller_name, @original_name,
			@sale_price, @min_order_quantity, @image_url, @detail_images, @search_tags,
			@source_product_no, @source_url, @category_hint,
			@option_groups, @attributes,
			@status, @retry_count, @optimized, @enrich_timed_out,
			@external_product_id, @external_status, @error, @denied_reason,
			@added_at, @registered_at, @created_at, @updated_at
		);
	`, args)
	if err != nil {
		return fmt.Errorf("create listing: %w", err)
	}

	return nil
}

func (r listingRepository) GetListing(ctx context.Context, id uuid.UUID) (model.ListingRecord, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE id = @id;
	`, pgx.NamedArgs{"id": id})

	rec, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ListingRecord{}, ErrListingNotFound
	}
	if err != nil {
		return model.ListingRecord{}, fmt.Errorf("get listing: %w", err)
	}
	return rec, nil
}

func (r listingRepository) UpdateListing(ctx context.Context, rec model.ListingRecord) error {
	rec.UpdatedAt = time.Now()
	args, err := listingArgs(rec)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE listings
		SET
			display_name        = @display_name,
			seller_name         = @seller_name,
			original_name       = @original_name,
			sale_price          = @sale_price,
			min_order_quantity  = @min_order_quantity,
			image_url           = @image_url,
			detail_images       = @detail_images,
			search_tags         = @search_tags,
			source_product_no   = @source_product_no,
			source_url          = @source_url,
			category_hint       = @category_hint,
			option_groups       = @option_groups,
			attributes          = @attributes,
			status              = @status,
			retry_count         = @retry_count,
			optimized           = @optimized,
			enrich_timed_out    = @enrich_timed_out,
			external_product_id = @external_product_id,
			external_status     = @external_status,
			error               = @error,
			denied_reason       = @denied_reason,
			registered_at       = @registered_at,
			updated_at          = @updated_at
		WHERE id = @id;
	`, args)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrListingNotFound
	}

	return nil
}

func (r listingRepository) ListListings(ctx context.Context, params ListListingsParams) ([]model.ListingRecord, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE (@status = '' OR status = @status)
		ORDER BY added_at DESC
		LIMIT @limit;
	`, pgx.NamedArgs{"status": string(params.Status), "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

func (r listingRepository) NextPending(ctx context.Context, params NextPendingParams) (model.ListingRecord, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE status = 'pending'
		  AND (optimized OR added_at <= @stale_before)
		ORDER BY optimized DESC, added_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED;
	`, pgx.NamedArgs{"stale_before": params.StaleBefore})

	rec, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ListingRecord{}, ErrListingNotFound
	}
	if err != nil {
		return model.ListingRecord{}, fmt.Errorf("next pending listing: %w", err)
	}
	return rec, nil
}

func (r listingRepository) ListRegistered(ctx context.Context) ([]model.ListingRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE status = 'registered'
		  AND external_product_id IS NOT NULL
		ORDER BY registered_at;
	`)
	if err != nil {
		return nil, fmt.Errorf("list registered listings: %w", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

func (r listingRepository) ListDenied(ctx context.Context, params ListDeniedParams) ([]model.ListingRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE status = 'denied'
		ORDER BY updated_at
		LIMIT @limit
		FOR UPDATE SKIP LOCKED;
	`, pgx.NamedArgs{"limit": params.Limit})
	if err != nil {
		return nil, fmt.Errorf("list denied listings: %w", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

func (r listingRepository) Stats(ctx context.Context) (QueueStats, error) {
	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*)
		FROM listings
		GROUP BY status;
	`)
	if err != nil {
		return QueueStats{}, fmt.Errorf("listing stats: %w", err)
	}
	defer rows.Close()

	var stats QueueStats
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return QueueStats{}, fmt.Errorf("scan listing stats: %w", err)
		}
		switch model.Status(status) {
		case model.StatusPending:
			stats.Pending = count
		case model.StatusRegistered:
			stats.Registered = count
		case model.StatusApproved:
			stats.Approved = count
		case model.StatusDenied:
			stats.Denied = count
		case model.StatusDeniedPermanent:
			stats.DeniedPermanent = count
		case model.StatusSkipInvalid:
			stats.SkipInvalid = count
		case model.StatusError:
			stats.Error = count
		case model.StatusStockStopped:
			stats.StockStopped = count
		}
	}
	if err := rows.Err(); err != nil {
		return QueueStats{}, fmt.Errorf("iterate listing stats: %w", err)
	}

	return stats, nil
}

func listingArgs(rec model.ListingRecord) (pgx.NamedArgs, error) {
	optionGroups, err := json.Marshal(rec.OptionGroups)
	if err != nil {
		return nil, fmt.Errorf("marshal option groups: %w", err)
	}
	attributes, err := json.Marshal(rec.Attributes)
	if err != nil {
		return nil, fmt.Errorf("marshal attributes: %w", err)
	}

	return pgx.NamedArgs{
		"id":                  rec.ID,
		"display_name":        rec.DisplayName,
		"seller_name":         rec.SellerName,
		"original_name":       rec.OriginalName,
		"sale_price":          rec.SalePrice,
		"min_order_quantity":  rec.MinOrderQuantity,
		"image_url":           rec.ImageURL,
		"detail_images":       rec.DetailImages,
		"search_tags":         rec.SearchTags,
		"source_product_no":   rec.SourceProductNo,
		"source_url":          rec.SourceURL,
		"category_hint":       rec.CategoryHint,
		"option_groups":       optionGroups,
		"attributes":          attributes,
		"status":              string(rec.Status),
		"retry_count":         rec.RetryCount,
		"optimized":           rec.Optimized,
		"enrich_timed_out":    rec.EnrichTimedOut,
		"external_product_id": rec.ExternalProductID,
		"external_status":     rec.ExternalStatus,
		"error":               rec.Error,
		"denied_reason":       rec.DeniedReason,
		"added_at":            rec.AddedAt,
		"registered_at":       rec.RegisteredAt,
		"created_at":          rec.CreatedAt,
		"updated_at":          rec.UpdatedAt,
	}, nil
}

func scanListing(row pgx.Row) (model.ListingRecord, error) {
	var (
		rec          model.ListingRecord
		status       string
		optionGroups []byte
		attributes   []byte
	)
	err := row.Scan(
		&rec.ID, &rec.DisplayName, &rec.SellerName, &rec.OriginalName,
		&rec.SalePrice, &rec.MinOrderQuantity, &rec.ImageURL, &rec.DetailImages, &rec.SearchTags,
		&rec.SourceProductNo, &rec.SourceURL, &rec.CategoryHint,
		&optionGroups, &attributes,
		&status, &rec.RetryCount, &rec.Optimized, &rec.EnrichTimedOut,
		&rec.ExternalProductID, &rec.ExternalStatus, &rec.Error, &rec.DeniedReason,
		&rec.AddedAt, &rec.RegisteredAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return model.ListingRecord{}, err
	}

	rec.Status = model.Status(status)
	if len(optionGroups) > 0 {
		if err := json.Unmarshal(optionGroups, &rec.OptionGroups); err != nil {
			return model.ListingRecord{}, fmt.Errorf("unmarshal option groups: %w", err)
		}
	}
	if len(attributes) > 0 {
		if err := json.Unmarshal(attributes, &rec.Attributes); err != nil {
			return model.ListingRecord{}, fmt.Errorf("unmarshal attributes: %w", err)
		}
	}

	return rec, nil
}

func collectListings(rows pgx.Rows) ([]model.ListingRecord, error) {
	var recs []model.ListingRecord
	for rows.Next() {
		rec, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return recs, nil
}
