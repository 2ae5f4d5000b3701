package event

import (
	"context"
	"log/slog"
)

// Listing lifecycle topics. Every status transition the registrar makes is
// mirrored to the bus through the outbox, so downstream consumers (ops
// dashboards, the stock monitor) never poll the queue table.
const (
	TopicListingRegistered = "listing.registered"
	TopicListingRejected   = "listing.rejected"
	TopicListingApproved   = "listing.approved"
	TopicListingRequeued   = "listing.requeued"
	TopicListingAbandoned  = "listing.abandoned"
)

// ListingRegisteredEvent is emitted when the marketplace accepts a
// submission and the listing starts waiting for approval.
type ListingRegisteredEvent struct {
	ListingID         string `json:"listing_id"`
	SellerName        string `json:"seller_name"`
	ExternalProductID int64  `json:"external_product_id"`
}

// ListingRejectedEvent is emitted when a listing is parked before or at
// submission: preflight failure, unresolvable attributes, payload
// validation, unreachable image, or a submission error.
type ListingRejectedEvent struct {
	ListingID string `json:"listing_id"`
	Stage     string `json:"stage"`
	Reason    string `json:"reason"`
}

// ListingApprovedEvent is the terminal happy path.
type ListingApprovedEvent struct {
	ListingID         string `json:"listing_id"`
	ExternalProductID int64  `json:"external_product_id"`
}

// ListingRequeuedEvent is emitted when denial remediation re-queues a denied
// listing for another attempt.
type ListingRequeuedEvent struct {
	ListingID      string `json:"listing_id"`
	DenialCategory string `json:"denial_category"`
	RetryCount     int    `json:"retry_count"`
}

// ListingAbandonedEvent is emitted when remediation gives up.
type ListingAbandonedEvent struct {
	ListingID  string `json:"listing_id"`
	Reason     string `json:"reason"`
	RetryCount int    `json:"retry_count"`
}

func (s *Service) handleListingRegistered(ctx context.Context, ev ListingRegisteredEvent) error {
	s.logger.InfoContext(ctx, "listing registered", slog.Any("event", ev))
	return nil
}

func (s *Service) handleListingRejected(ctx context.Context, ev ListingRejectedEvent) error {
	s.logger.WarnContext(ctx, "listing rejected", slog.Any("event", ev))
	return nil
}

func (s *Service) handleListingApproved(ctx context.Context, ev ListingApprovedEvent) error {
	s.logger.InfoContext(ctx, "listing approved", slog.Any("event", ev))
	return nil
}

func (s *Service) handleListingRequeued(ctx context.Context, ev ListingRequeuedEvent) error {
	s.logger.InfoContext(ctx, "listing requeued after denial", slog.Any("event", ev))
	return nil
}

func (s *Service) handleListingAbandoned(ctx context.Context, ev ListingAbandonedEvent) error {
	s.logger.WarnContext(ctx, "listing abandoned", slog.Any("event", ev))
	return nil
}
