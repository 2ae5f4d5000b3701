// Package service is the application layer behind the HTTP API: queue
// intake and inspection. The registrar owns all status transitions past
// pending.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openclaw/lister/internal/apperr"
	"github.com/openclaw/lister/internal/model"
	"github.com/openclaw/lister/internal/repository"
)

type CreateListingParams struct {
	DisplayName      string
	SellerName       string
	OriginalName     string
	SalePrice        int64
	MinOrderQuantity int
	ImageURL         string
	DetailImages     []string
	SearchTags       []string
	SourceProductNo  string
	SourceURL        string
	CategoryHint     string
	OptionGroups     []model.OptionGroup
	Attributes       []model.AttributeAssignment
	Optimized        bool
}

type ListListingsParams struct {
	Status model.Status
	Limit  int32
}

type ListingService interface {
	CreateListing(ctx context.Context, params CreateListingParams) (model.ListingRecord, error)
	GetListing(ctx context.Context, id uuid.UUID) (model.ListingRecord, error)
	ListListings(ctx context.Context, params ListListingsParams) ([]model.ListingRecord, error)
	QueueStats(ctx context.Context) (repository.QueueStats, error)
}

type listingService struct {
	listingRepo repository.ListingRepository
}

func NewListingService(listingRepo repository.ListingRepository) ListingService {
	return &listingService{listingRepo: listingRepo}
}

func (s *listingService) CreateListing(ctx context.Context, params CreateListingParams) (model.ListingRecord, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.ListingRecord{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	rec := model.ListingRecord{
		ID:               id,
		DisplayName:      params.DisplayName,
		SellerName:       params.SellerName,
		OriginalName:     params.OriginalName,
		SalePrice:        params.SalePrice,
		MinOrderQuantity: params.MinOrderQuantity,
		ImageURL:         params.ImageURL,
		DetailImages:     params.DetailImages,
		SearchTags:       params.SearchTags,
		SourceProductNo:  params.SourceProductNo,
		SourceURL:        params.SourceURL,
		CategoryHint:     params.CategoryHint,
		OptionGroups:     params.OptionGroups,
		Attributes:       params.Attributes,
		Status:           model.StatusPending,
		Optimized:        params.Optimized,
		AddedAt:          now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.listingRepo.CreateListing(ctx, rec); err != nil {
		return model.ListingRecord{}, fmt.Errorf("listing repository create listing: %w", err)
	}

	return rec, nil
}

func (s *listingService) GetListing(ctx context.Context, id uuid.UUID) (model.ListingRecord, error) {
	rec, err := s.listingRepo.GetListing(ctx, id)
	if errors.Is(err, repository.ErrListingNotFound) {
		return model.ListingRecord{}, apperr.ListingNotFound.WrapParent(err)
	}
	if err != nil {
		return model.ListingRecord{}, fmt.Errorf("listing repository get listing: %w", err)
	}
	return rec, nil
}

func (s *listingService) ListListings(ctx context.Context, params ListListingsParams) ([]model.ListingRecord, error) {
	recs, err := s.listingRepo.ListListings(ctx, repository.ListListingsParams{
		Status: params.Status,
		Limit:  params.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing repository list listings: %w", err)
	}
	return recs, nil
}

func (s *listingService) QueueStats(ctx context.Context) (repository.QueueStats, error) {
	stats, err := s.listingRepo.Stats(ctx)
	if err != nil {
		return repository.QueueStats{}, fmt.Errorf("listing repository stats: %w", err)
	}
	return stats, nil
}
