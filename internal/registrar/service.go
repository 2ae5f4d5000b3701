// Package registrar drives queued listings through the marketplace
// registration lifecycle: submission, approval polling, and bounded denial
// remediation. One pass handles at most one submission, so the marketplace
// rate limits are respected by construction.
package registrar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openclaw/lister/internal/attribute"
	"github.com/openclaw/lister/internal/config"
	"github.com/openclaw/lister/internal/coupang"
	"github.com/openclaw/lister/internal/event"
	"github.com/openclaw/lister/internal/model"
	"github.com/openclaw/lister/internal/repository"
	"github.com/openclaw/lister/internal/storage/db"
	"github.com/openclaw/lister/pkg/outbox"
	"github.com/openclaw/lister/pkg/ptr"
)

// Marketplace is the subset of the marketplace client the registrar needs.
type Marketplace interface {
	PredictCategory(ctx context.Context, name string) (coupang.Category, error)
	CategoryMeta(ctx context.Context, categoryID int64) (coupang.CategoryMeta, error)
	Submit(ctx context.Context, payload coupang.Payload) (coupang.SubmitResult, error)
	ProductStatus(ctx context.Context, productID int64) (string, error)
	DenialReasons(ctx context.Context, productID int64) ([]string, error)
	Reachable(ctx context.Context, url string) bool
}

type Service struct {
	cfg         config.Registrar
	logger      *slog.Logger
	db          db.DB
	listingRepo repository.ListingRepository
	outboxRepo  repository.OutboxMsgRepository
	market      Marketplace
	reconciler  *attribute.Reconciler
	payloads    *coupang.PayloadBuilder

	stopChan chan struct{}
	now      func() time.Time
}

func NewService(
	cfg config.Registrar,
	logger *slog.Logger,
	db db.DB,
	listingRepo repository.ListingRepository,
	outboxRepo repository.OutboxMsgRepository,
	market Marketplace,
	reconciler *attribute.Reconciler,
	payloads *coupang.PayloadBuilder,
) *Service {
	return &Service{
		cfg:         cfg,
		logger:      logger.With(slog.String("service", "registrar")),
		db:          db,
		listingRepo: listingRepo,
		outboxRepo:  outboxRepo,
		market:      market,
		reconciler:  reconciler,
		payloads:    payloads,
		stopChan:    make(chan struct{}),
		now:         time.Now,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) CleanupFunc {
	ctx, cancel := context.WithCancel(ctx)

	stoppedChan := make(chan struct{})
	go func() {
		defer close(stoppedChan)
		s.run(ctx)
	}()

	return func() {
		close(s.stopChan)
		select {
		case <-stoppedChan:
		case <-time.After(5 * time.Second):
			cancel()
		}
	}
}

func (s *Service) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-time.After(s.cfg.Interval):
			if err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "registrar pass failed", slog.Any("error", err))
			}
		}
	}
}

// RunOnce executes one registrar pass: submit at most one pending listing,
// poll approval verdicts when nothing was submittable, then remediate a
// bounded batch of denied listings.
func (s *Service) RunOnce(ctx context.Context) error {
	submitted, err := s.submitNextPending(ctx)
	if err != nil {
		return fmt.Errorf("submit next pending: %w", err)
	}

	if !submitted {
		if err := s.pollRegistered(ctx); err != nil {
			return fmt.Errorf("poll registered: %w", err)
		}
	}

	if err := s.processDenied(ctx); err != nil {
		return fmt.Errorf("process denied: %w", err)
	}

	return nil
}

var errNoPending = errors.New("no pending listing")

// submitNextPending claims and processes one pending listing. The claim, the
// resulting status transition, and the lifecycle event share one transaction
// so a crashed pass leaves the record untouched and unlocked.
func (s *Service) submitNextPending(ctx context.Context) (bool, error) {
	err := s.db.WithTx(ctx, func(tx db.DB) error {
		rec, err := s.listingRepo.WithDB(tx).NextPending(ctx, repository.NextPendingParams{
			StaleBefore: s.now().Add(-s.cfg.EnrichTimeout),
		})
		if errors.Is(err, repository.ErrListingNotFound) {
			return errNoPending
		}
		if err != nil {
			return err
		}

		if !rec.Optimized {
			rec.EnrichTimedOut = true
			s.logger.InfoContext(ctx, "enrichment window lapsed, submitting as-is",
				slog.String("listing_id", rec.ID.String()),
				slog.String("seller_name", rec.SellerName),
			)
		}

		s.register(ctx, tx, &rec)

		if err := s.listingRepo.WithDB(tx).UpdateListing(ctx, rec); err != nil {
			return fmt.Errorf("update listing: %w", err)
		}
		return nil
	})
	if errors.Is(err, errNoPending) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// pollRegistered fetches the marketplace verdict for every listing awaiting
// approval. Each verdict is committed per record so one failing lookup does
// not lose the rest.
func (s *Service) pollRegistered(ctx context.Context) error {
	recs, err := s.listingRepo.ListRegistered(ctx)
	if err != nil {
		return err
	}

	for _, rec := range recs {
		status, err := s.market.ProductStatus(ctx, *rec.ExternalProductID)
		if err != nil {
			s.logger.ErrorContext(ctx, "status lookup failed",
				slog.String("listing_id", rec.ID.String()),
				slog.Any("error", err),
			)
			continue
		}

		rec.ExternalStatus = status
		switch status {
		case coupang.StatusNameApproved:
			rec.Status = model.StatusApproved
		case coupang.StatusNameDenied:
			rec.Status = model.StatusDenied
		}

		if err := s.db.WithTx(ctx, func(tx db.DB) error {
			if err := s.listingRepo.WithDB(tx).UpdateListing(ctx, rec); err != nil {
				return err
			}
			if rec.Status == model.StatusApproved {
				return s.emit(ctx, tx, event.TopicListingApproved, rec.ID.String(), event.ListingApprovedEvent{
					ListingID:         rec.ID.String(),
					ExternalProductID: *rec.ExternalProductID,
				})
			}
			return nil
		}); err != nil {
			s.logger.ErrorContext(ctx, "record verdict failed",
				slog.String("listing_id", rec.ID.String()),
				slog.Any("error", err),
			)
			continue
		}

		s.logger.InfoContext(ctx, "verdict recorded",
			slog.String("listing_id", rec.ID.String()),
			slog.String("seller_name", rec.SellerName),
			slog.String("marketplace_status", status),
		)

		s.pace(ctx)
	}

	return nil
}

// pace inserts the configured delay between consecutive marketplace calls.
func (s *Service) pace(ctx context.Context) {
	if s.cfg.PaceDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(s.cfg.PaceDelay):
	}
}

func (s *Service) emit(ctx context.Context, tx db.DB, topic, partitionKey string, ev any) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	if err := s.outboxRepo.WithDB(tx).CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
		Topic:        topic,
		Headers:      outbox.BuildHeaders(ctx),
		Payload:      payload,
		PartitionKey: ptr.New(partitionKey),
	}); err != nil {
		return fmt.Errorf("create outbox msg: %w", err)
	}

	return nil
}
