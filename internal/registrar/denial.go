package registrar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openclaw/lister/internal/event"
	"github.com/openclaw/lister/internal/listing"
	"github.com/openclaw/lister/internal/model"
	"github.com/openclaw/lister/internal/repository"
	"github.com/openclaw/lister/internal/storage/db"
	"github.com/openclaw/lister/pkg/ptr"
)

// DenialCategory classifies a marketplace rejection by its remediation.
type DenialCategory string

const (
	DenialImage     DenialCategory = "image"
	DenialCategoryP DenialCategory = "category"
	DenialAttribute DenialCategory = "attribute"
	DenialUnknown   DenialCategory = "unknown"
)

const reasonUnavailable = "(reason unavailable)"

// ClassifyDenial buckets the joined rejection reasons. Checks run in order;
// the first matching bucket wins.
func ClassifyDenial(reasons []string) DenialCategory {
	text := strings.ToLower(strings.Join(reasons, " "))
	switch {
	case containsAny(text, "이미지", "image", "사진"):
		return DenialImage
	case containsAny(text, "카테고리", "category", "분류"):
		return DenialCategoryP
	case containsAny(text, "속성", "attribute", "필수", "required"):
		return DenialAttribute
	default:
		return DenialUnknown
	}
}

func containsAny(text string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(text, sub) {
			return true
		}
	}
	return false
}

// processDenied works off up to DeniedBatchSize denied listings in one
// transaction. A remediated listing goes back to pending with its retry
// counter bumped and its enrichment flag cleared so the naming optimizer
// gets another look; an unremediable one, or one at the retry ceiling,
// becomes denied_permanent.
func (s *Service) processDenied(ctx context.Context) error {
	return s.db.WithTx(ctx, func(tx db.DB) error {
		//nolint:gosec
		recs, err := s.listingRepo.WithDB(tx).ListDenied(ctx, repository.ListDeniedParams{
			Limit: int32(s.cfg.DeniedBatchSize),
		})
		if err != nil {
			return err
		}

		for i := range recs {
			if err := s.remediate(ctx, tx, &recs[i]); err != nil {
				return err
			}
			s.pace(ctx)
		}

		return nil
	})
}

func (s *Service) remediate(ctx context.Context, tx db.DB, rec *model.ListingRecord) error {
	logger := s.logger.With(
		slog.String("listing_id", rec.ID.String()),
		slog.String("seller_name", rec.SellerName),
		slog.Int("retry_count", rec.RetryCount),
	)

	// The retry ceiling makes a denial final. Finalized here rather than
	// filtered out of the query so denied never becomes a resting status.
	if rec.RetryCount >= s.cfg.MaxRetry {
		if rec.DeniedReason == nil {
			rec.DeniedReason = ptr.New(reasonUnavailable)
		}
		rec.Status = model.StatusDeniedPermanent
		logger.WarnContext(ctx, "retry ceiling reached, listing abandoned")

		if err := s.listingRepo.WithDB(tx).UpdateListing(ctx, *rec); err != nil {
			return fmt.Errorf("update listing: %w", err)
		}
		return s.emit(ctx, tx, event.TopicListingAbandoned, rec.ID.String(), event.ListingAbandonedEvent{
			ListingID:  rec.ID.String(),
			Reason:     *rec.DeniedReason,
			RetryCount: rec.RetryCount,
		})
	}

	var reasons []string
	if rec.ExternalProductID != nil {
		var err error
		reasons, err = s.market.DenialReasons(ctx, *rec.ExternalProductID)
		if err != nil {
			logger.WarnContext(ctx, "denial reason lookup failed", slog.Any("error", err))
		}
	}

	reasonText := strings.Join(reasons, " | ")
	if reasonText == "" {
		reasonText = reasonUnavailable
	}

	category := ClassifyDenial(reasons)
	logger.InfoContext(ctx, "remediating denied listing",
		slog.String("denial_category", string(category)),
		slog.String("reasons", reasonText),
	)

	fixed := false
	switch category {
	case DenialImage:
		fixed = s.remediateImage(ctx, rec, logger)
	case DenialCategoryP:
		// A fresh prediction happens on resubmission anyway; remediation only
		// verifies one exists and resets attributes for the new schema.
		cat, err := s.market.PredictCategory(ctx, rec.DisplayName)
		if err != nil {
			logger.WarnContext(ctx, "category re-prediction failed", slog.Any("error", err))
		} else if cat.ID != 0 {
			rec.Attributes = nil
			fixed = true
		}
	case DenialAttribute:
		rec.Attributes = nil
		fixed = true
	case DenialUnknown:
		// Unknown reasons get exactly one blind retry, and only from a clean
		// record: once any remediation has run, an unknown denial is final.
		if rec.RetryCount == 0 {
			rec.Attributes = nil
			fixed = true
		}
	}

	rec.DeniedReason = ptr.New(reasonText)

	if !fixed {
		rec.Status = model.StatusDeniedPermanent
		logger.WarnContext(ctx, "listing abandoned")

		if err := s.listingRepo.WithDB(tx).UpdateListing(ctx, *rec); err != nil {
			return fmt.Errorf("update listing: %w", err)
		}
		return s.emit(ctx, tx, event.TopicListingAbandoned, rec.ID.String(), event.ListingAbandonedEvent{
			ListingID:  rec.ID.String(),
			Reason:     reasonText,
			RetryCount: rec.RetryCount,
		})
	}

	rec.Status = model.StatusPending
	rec.RetryCount++
	rec.Optimized = false
	rec.EnrichTimedOut = false
	rec.ExternalProductID = nil
	rec.ExternalStatus = ""
	rec.RegisteredAt = nil
	rec.Error = nil

	logger.InfoContext(ctx, "listing requeued", slog.Int("retry_count", rec.RetryCount))

	if err := s.listingRepo.WithDB(tx).UpdateListing(ctx, *rec); err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	return s.emit(ctx, tx, event.TopicListingRequeued, rec.ID.String(), event.ListingRequeuedEvent{
		ListingID:      rec.ID.String(),
		DenialCategory: string(category),
		RetryCount:     rec.RetryCount,
	})
}

// remediateImage swaps a bad representative image for the first usable
// detail image. A representative image that already passes validation is
// treated as fixable, the denial may concern a transient fetch failure.
func (s *Service) remediateImage(ctx context.Context, rec *model.ListingRecord, logger *slog.Logger) bool {
	if listing.SafeVendorPath(rec.ImageURL) != "" && listing.IsValidImageURL(rec.ImageURL) {
		return true
	}

	for _, alt := range rec.DetailImages {
		if safe := listing.SafeVendorPath(alt); safe != "" {
			rec.ImageURL = safe
			logger.InfoContext(ctx, "replaced representative image", slog.String("image_url", safe))
			return true
		}
	}

	logger.WarnContext(ctx, "no replacement image available")
	return false
}
