package registrar

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openclaw/lister/internal/attribute"
	"github.com/openclaw/lister/internal/event"
	"github.com/openclaw/lister/internal/listing"
	"github.com/openclaw/lister/internal/model"
	"github.com/openclaw/lister/internal/storage/db"
	"github.com/openclaw/lister/pkg/ptr"
)

// Rejection stages reported on listing.rejected events.
const (
	stagePreflight  = "preflight"
	stageAttributes = "attributes"
	stageValidation = "validation"
	stageImageCheck = "image_check"
	stageSubmission = "submission"
)

// register runs the full submission flow for one claimed listing and leaves
// the outcome on the record. Failures never abort the surrounding
// transaction: a listing that cannot be submitted is parked with a reason,
// which is itself a result worth committing.
func (s *Service) register(ctx context.Context, tx db.DB, rec *model.ListingRecord) {
	logger := s.logger.With(
		slog.String("listing_id", rec.ID.String()),
		slog.String("seller_name", rec.SellerName),
	)

	if reason := listing.Preflight(rec); reason != "" {
		s.park(ctx, tx, rec, stagePreflight, reason, logger)
		return
	}

	cat, err := s.market.PredictCategory(ctx, rec.DisplayName)
	if err != nil {
		s.fail(ctx, tx, rec, fmt.Sprintf("predict category: %v", err), logger)
		return
	}
	s.pace(ctx)

	meta, err := s.market.CategoryMeta(ctx, cat.ID)
	if err != nil {
		s.fail(ctx, tx, rec, fmt.Sprintf("category meta: %v", err), logger)
		return
	}
	s.pace(ctx)

	result := s.reconciler.Reconcile(rec.Attributes, rec.DisplayName, meta.Schema)
	if result.Failed() {
		s.park(ctx, tx, rec, stageAttributes, result.FailureReason, logger)
		return
	}
	for _, a := range result.Attributes {
		if a.ValueName == attribute.Sentinel {
			s.park(ctx, tx, rec, stageAttributes,
				fmt.Sprintf("attribute %q still carries placeholder value", a.TypeName), logger)
			return
		}
	}

	expansion := listing.Expand(rec, result.Attributes)
	if expansion.Truncated {
		logger.WarnContext(ctx, "option combinations truncated",
			slog.Int("kept", len(expansion.Items)),
			slog.Int("cap", listing.MaxCombinations),
		)
	}

	payload := s.payloads.Build(rec, cat, meta, expansion.Items)
	if err := listing.ValidatePayload(&payload); err != nil {
		s.park(ctx, tx, rec, stageValidation, err.Error(), logger)
		return
	}

	if img := payload.Items[0].Images[0].VendorPath; !s.market.Reachable(ctx, img) {
		s.park(ctx, tx, rec, stageImageCheck,
			fmt.Sprintf("representative image unreachable: %.80s", img), logger)
		return
	}
	s.pace(ctx)

	submit, err := s.market.Submit(ctx, payload)
	if err != nil {
		s.fail(ctx, tx, rec, err.Error(), logger)
		return
	}
	if !submit.Success {
		reason := submit.Message
		if reason == "" {
			reason = submit.Code
		}
		s.fail(ctx, tx, rec, reason, logger)
		return
	}
	s.pace(ctx)

	now := s.now()
	rec.Status = model.StatusRegistered
	rec.ExternalProductID = &submit.ProductID
	rec.RegisteredAt = &now
	rec.Error = nil

	logger.InfoContext(ctx, "listing registered", slog.Int64("external_product_id", submit.ProductID))

	if err := s.emit(ctx, tx, event.TopicListingRegistered, rec.ID.String(), event.ListingRegisteredEvent{
		ListingID:         rec.ID.String(),
		SellerName:        rec.SellerName,
		ExternalProductID: submit.ProductID,
	}); err != nil {
		logger.ErrorContext(ctx, "emit registered event", slog.Any("error", err))
	}
}

// park moves a listing to skip_invalid with a reason. Terminal by policy:
// these listings need human or upstream attention, not a retry.
func (s *Service) park(ctx context.Context, tx db.DB, rec *model.ListingRecord, stage, reason string, logger *slog.Logger) {
	rec.Status = model.StatusSkipInvalid
	rec.Error = ptr.New(reason)

	logger.WarnContext(ctx, "listing skipped",
		slog.String("stage", stage),
		slog.String("reason", reason),
	)

	if err := s.emit(ctx, tx, event.TopicListingRejected, rec.ID.String(), event.ListingRejectedEvent{
		ListingID: rec.ID.String(),
		Stage:     stage,
		Reason:    reason,
	}); err != nil {
		logger.ErrorContext(ctx, "emit rejected event", slog.Any("error", err))
	}
}

// fail records a submission-time failure. Unlike park, error status is left
// for an operator or a requeue policy to resolve.
func (s *Service) fail(ctx context.Context, tx db.DB, rec *model.ListingRecord, reason string, logger *slog.Logger) {
	rec.Status = model.StatusError
	rec.Error = ptr.New(reason)

	logger.ErrorContext(ctx, "listing submission failed", slog.String("reason", reason))

	if err := s.emit(ctx, tx, event.TopicListingRejected, rec.ID.String(), event.ListingRejectedEvent{
		ListingID: rec.ID.String(),
		Stage:     stageSubmission,
		Reason:    reason,
	}); err != nil {
		logger.ErrorContext(ctx, "emit rejected event", slog.Any("error", err))
	}
}
