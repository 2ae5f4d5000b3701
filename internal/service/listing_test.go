package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/lister/internal/apperr"
	"github.com/openclaw/lister/internal/model"
	"github.com/openclaw/lister/internal/repository"
	"github.com/openclaw/lister/internal/service"
	"github.com/openclaw/lister/internal/storage/db"
	"github.com/openclaw/lister/pkg/zerror"
)

type stubListingRepo struct {
	repository.ListingRepository

	created []model.ListingRecord
	byID    map[uuid.UUID]model.ListingRecord
}

func (r *stubListingRepo) CreateListing(_ context.Context, rec model.ListingRecord) error {
	r.created = append(r.created, rec)
	return nil
}

func (r *stubListingRepo) GetListing(_ context.Context, id uuid.UUID) (model.ListingRecord, error) {
	rec, ok := r.byID[id]
	if !ok {
		return model.ListingRecord{}, repository.ErrListingNotFound
	}
	return rec, nil
}

func (r *stubListingRepo) WithDB(db.DB) repository.ListingRepository { return r }

func TestListingService_CreateListing(t *testing.T) {
	t.Run("Should queue a new listing as pending", func(t *testing.T) {
		repo := &stubListingRepo{}
		svc := service.NewListingService(repo)

		rec, err := svc.CreateListing(context.Background(), service.CreateListingParams{
			DisplayName: "보온 텀블러 500ml",
			SellerName:  "텀블러 도매",
			SalePrice:   10000,
			ImageURL:    "http://img.example.com/1.jpg",
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, rec.ID)
		assert.Equal(t, model.StatusPending, rec.Status)
		assert.False(t, rec.AddedAt.IsZero())
		require.Len(t, repo.created, 1)
		assert.Equal(t, rec, repo.created[0])
	})
}

func TestListingService_GetListing(t *testing.T) {
	t.Run("Should map a missing row to the listing-not-found error", func(t *testing.T) {
		repo := &stubListingRepo{byID: map[uuid.UUID]model.ListingRecord{}}
		svc := service.NewListingService(repo)

		_, err := svc.GetListing(context.Background(), uuid.New())

		require.Error(t, err)
		var zErr zerror.ZError
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, apperr.ListingNotFoundCode, zErr.Code())
		assert.Equal(t, zerror.StatusNotFound, zErr.Status())
	})
}
