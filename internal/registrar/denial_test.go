package registrar_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/lister/internal/event"
	"github.com/openclaw/lister/internal/model"
	"github.com/openclaw/lister/internal/registrar"
)

func TestClassifyDenial(t *testing.T) {
	tests := []struct {
		name    string
		reasons []string
		want    registrar.DenialCategory
	}{
		{"Should classify image complaints", []string{"대표 이미지 불량"}, registrar.DenialImage},
		{"Should classify english image complaints", []string{"invalid IMAGE resolution"}, registrar.DenialImage},
		{"Should classify category complaints", []string{"카테고리 부적합"}, registrar.DenialCategoryP},
		{"Should classify attribute complaints", []string{"필수 속성 누락"}, registrar.DenialAttribute},
		{"Should prefer the image bucket when reasons mix", []string{"카테고리 부적합", "이미지 불량"}, registrar.DenialImage},
		{"Should fall through to unknown", []string{"심사 기준 미달"}, registrar.DenialUnknown},
		{"Should treat no reasons as unknown", nil, registrar.DenialUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, registrar.ClassifyDenial(tt.reasons))
		})
	}
}

func deniedListing(retryCount int, productID int64) *model.ListingRecord {
	now := time.Now()
	return &model.ListingRecord{
		ID:                uuid.New(),
		DisplayName:       "보온 텀블러 500ml",
		SellerName:        "텀블러 도매",
		SalePrice:         10000,
		ImageURL:          "http://img.example.com/1.jpg",
		Status:            model.StatusDenied,
		RetryCount:        retryCount,
		Optimized:         true,
		ExternalProductID: &productID,
		ExternalStatus:    "승인반려",
		AddedAt:           now,
	}
}

func TestService_ProcessDenied(t *testing.T) {
	ctx := context.Background()

	t.Run("Should requeue an image denial after swapping in a detail image", func(t *testing.T) {
		rec := deniedListing(0, 9)
		rec.ImageURL = "http://img.example.com/noimage.jpg"
		rec.DetailImages = []string{"ftp://img.example.com/bad.jpg", "http://img.example.com/d1.jpg"}
		market := happyMarket()
		market.denials = map[int64][]string{9: {"대표 이미지 불량"}}
		svc, repo, outbox := newTestService(t, market, rec)

		require.NoError(t, svc.RunOnce(ctx))

		got := repo.get(t, rec.ID)
		assert.Equal(t, model.StatusPending, got.Status)
		assert.Equal(t, 1, got.RetryCount)
		assert.Equal(t, "http://img.example.com/d1.jpg", got.ImageURL)
		assert.Nil(t, got.ExternalProductID)
		assert.Empty(t, got.ExternalStatus)
		assert.False(t, got.Optimized)
		require.NotNil(t, got.DeniedReason)
		assert.Equal(t, "대표 이미지 불량", *got.DeniedReason)
		assert.Contains(t, outbox.topics(), event.TopicListingRequeued)
	})

	t.Run("Should requeue an image denial whose image already validates", func(t *testing.T) {
		rec := deniedListing(0, 9)
		market := happyMarket()
		market.denials = map[int64][]string{9: {"이미지 확인 불가"}}
		svc, repo, _ := newTestService(t, market, rec)

		require.NoError(t, svc.RunOnce(ctx))

		got := repo.get(t, rec.ID)
		assert.Equal(t, model.StatusPending, got.Status)
		assert.Equal(t, "http://img.example.com/1.jpg", got.ImageURL)
	})

	t.Run("Should abandon an image denial with no replacement", func(t *testing.T) {
		rec := deniedListing(0, 9)
		rec.ImageURL = "http://img.example.com/noimage.jpg"
		market := happyMarket()
		market.denials = map[int64][]string{9: {"이미지 불량"}}
		svc, repo, outbox := newTestService(t, market, rec)

		require.NoError(t, svc.RunOnce(ctx))

		got := repo.get(t, rec.ID)
		assert.Equal(t, model.StatusDeniedPermanent, got.Status)
		assert.Equal(t, 0, got.RetryCount)
		assert.Contains(t, outbox.topics(), event.TopicListingAbandoned)
	})

	t.Run("Should reset attributes on an attribute denial", func(t *testing.T) {
		rec := deniedListing(1, 9)
		rec.Attributes = []model.AttributeAssignment{{TypeName: "색상", ValueName: "블랙"}}
		market := happyMarket()
		market.denials = map[int64][]string{9: {"필수 속성 누락"}}
		svc, repo, _ := newTestService(t, market, rec)

		require.NoError(t, svc.RunOnce(ctx))

		got := repo.get(t, rec.ID)
		assert.Equal(t, model.StatusPending, got.Status)
		assert.Equal(t, 2, got.RetryCount)
		assert.Nil(t, got.Attributes)
	})

	t.Run("Should requeue a category denial when a prediction exists", func(t *testing.T) {
		rec := deniedListing(0, 9)
		rec.Attributes = []model.AttributeAssignment{{TypeName: "색상", ValueName: "블랙"}}
		market := happyMarket()
		market.denials = map[int64][]string{9: {"카테고리 부적합"}}
		svc, repo, _ := newTestService(t, market, rec)

		require.NoError(t, svc.RunOnce(ctx))

		got := repo.get(t, rec.ID)
		assert.Equal(t, model.StatusPending, got.Status)
		assert.Nil(t, got.Attributes)
	})

	t.Run("Should give an unknown denial exactly one blind retry", func(t *testing.T) {
		rec := deniedListing(0, 9)
		market := happyMarket()
		market.denials = map[int64][]string{9: {"심사 기준 미달"}}
		svc, repo, _ := newTestService(t, market, rec)

		require.NoError(t, svc.RunOnce(ctx))
		assert.Equal(t, model.StatusPending, repo.get(t, rec.ID).Status)
	})

	t.Run("Should abandon an unknown denial after any prior remediation", func(t *testing.T) {
		rec := deniedListing(1, 9)
		market := happyMarket()
		market.denials = map[int64][]string{9: {"심사 기준 미달"}}
		svc, repo, outbox := newTestService(t, market, rec)

		require.NoError(t, svc.RunOnce(ctx))

		assert.Equal(t, model.StatusDeniedPermanent, repo.get(t, rec.ID).Status)
		assert.Contains(t, outbox.topics(), event.TopicListingAbandoned)
	})

	t.Run("Should record a placeholder when no reason is available", func(t *testing.T) {
		rec := deniedListing(0, 9)
		svc, repo, _ := newTestService(t, happyMarket(), rec)

		require.NoError(t, svc.RunOnce(ctx))

		got := repo.get(t, rec.ID)
		require.NotNil(t, got.DeniedReason)
		assert.Equal(t, "(reason unavailable)", *got.DeniedReason)
	})

	t.Run("Should finalize a listing at the retry ceiling without another remediation", func(t *testing.T) {
		rec := deniedListing(3, 9)
		reason := "이미지 불량"
		rec.DeniedReason = &reason
		market := happyMarket()
		market.denials = map[int64][]string{9: {"이미지 불량"}}
		svc, repo, outbox := newTestService(t, market, rec)

		require.NoError(t, svc.RunOnce(ctx))

		got := repo.get(t, rec.ID)
		assert.Equal(t, model.StatusDeniedPermanent, got.Status)
		assert.Equal(t, 3, got.RetryCount)
		require.NotNil(t, got.DeniedReason)
		assert.Equal(t, "이미지 불량", *got.DeniedReason)
		assert.Contains(t, outbox.topics(), event.TopicListingAbandoned)
	})

	t.Run("Should stop remediating after the third denial cycle", func(t *testing.T) {
		pid := int64(9)
		rec := deniedListing(0, pid)
		market := happyMarket()
		market.denials = map[int64][]string{pid: {"이미지 불량"}}
		svc, repo, _ := newTestService(t, market, rec)

		for cycle := 1; cycle <= 3; cycle++ {
			require.NoError(t, svc.RunOnce(ctx))
			got := repo.get(t, rec.ID)
			require.Equal(t, model.StatusPending, got.Status)
			require.Equal(t, cycle, got.RetryCount)

			// The marketplace denies the resubmission again.
			got.Status = model.StatusDenied
			got.ExternalProductID = &pid
			repo.recs[rec.ID] = &got
		}

		require.NoError(t, svc.RunOnce(ctx))
		got := repo.get(t, rec.ID)
		assert.Equal(t, model.StatusDeniedPermanent, got.Status)
		assert.Equal(t, 3, got.RetryCount)
	})

	t.Run("Should remediate at most the configured batch per pass", func(t *testing.T) {
		recs := []*model.ListingRecord{deniedListing(0, 1), deniedListing(0, 2), deniedListing(0, 3)}
		for i, rec := range recs {
			rec.AddedAt = rec.AddedAt.Add(time.Duration(i) * time.Second)
		}
		market := happyMarket()
		market.denials = map[int64][]string{
			1: {"필수 속성 누락"},
			2: {"필수 속성 누락"},
			3: {"필수 속성 누락"},
		}
		svc, repo, _ := newTestService(t, market, recs[0], recs[1], recs[2])

		require.NoError(t, svc.RunOnce(ctx))

		remediated := 0
		for _, rec := range recs {
			if repo.get(t, rec.ID).Status == model.StatusPending {
				remediated++
			}
		}
		assert.Equal(t, 2, remediated)
	})
}
