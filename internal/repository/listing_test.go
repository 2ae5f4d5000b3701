package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/lister/internal/model"
)

func TestListingArgs(t *testing.T) {
	t.Run("Should bind every column of the listings table", func(t *testing.T) {
		args, err := listingArgs(model.ListingRecord{ID: uuid.New()})
		require.NoError(t, err)

		for _, column := range []string{
			"id", "display_name", "seller_name", "original_name",
			"sale_price", "min_order_quantity", "image_url", "detail_images", "search_tags",
			"source_product_no", "source_url", "category_hint",
			"option_groups", "attributes",
			"status", "retry_count", "optimized", "enrich_timed_out",
			"external_product_id", "external_status", "error", "denied_reason",
			"added_at", "registered_at", "created_at", "updated_at",
		} {
			assert.Contains(t, args, column)
		}
	})

	t.Run("Should marshal option groups and attributes as JSON", func(t *testing.T) {
		rec := model.ListingRecord{
			ID: uuid.New(),
			OptionGroups: []model.OptionGroup{
				{GroupName: "색상", Values: []model.OptionValue{{Name: "블랙", PriceAdd: 500}}},
			},
			Attributes: []model.AttributeAssignment{{TypeName: "색상", ValueName: "블랙", Exposed: "EXPOSED"}},
			AddedAt:    time.Now(),
		}

		args, err := listingArgs(rec)
		require.NoError(t, err)

		var groups []model.OptionGroup
		require.NoError(t, json.Unmarshal(args["option_groups"].([]byte), &groups))
		require.Len(t, groups, 1)
		assert.Equal(t, int64(500), groups[0].Values[0].PriceAdd)

		var attrs []model.AttributeAssignment
		require.NoError(t, json.Unmarshal(args["attributes"].([]byte), &attrs))
		assert.Equal(t, rec.Attributes, attrs)
	})

	t.Run("Should pass nullable fields through as nil", func(t *testing.T) {
		args, err := listingArgs(model.ListingRecord{ID: uuid.New()})
		require.NoError(t, err)

		assert.Nil(t, args["external_product_id"])
		assert.Nil(t, args["error"])
		assert.Nil(t, args["denied_reason"])
		assert.Nil(t, args["registered_at"])
	})
}
