package listing_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/lister/internal/coupang"
	"github.com/openclaw/lister/internal/listing"
	"github.com/openclaw/lister/internal/model"
)

func TestIsValidImageURL(t *testing.T) {
	t.Run("Should reject placeholder images regardless of case", func(t *testing.T) {
		assert.False(t, listing.IsValidImageURL("http://mall.example.com/img_notexist.gif"))
		assert.False(t, listing.IsValidImageURL("http://mall.example.com/NoImage.jpg"))
		assert.False(t, listing.IsValidImageURL(""))
	})

	t.Run("Should accept a regular image URL", func(t *testing.T) {
		assert.True(t, listing.IsValidImageURL("http://mall.example.com/item/1.jpg"))
	})
}

func TestSafeVendorPath(t *testing.T) {
	t.Run("Should pass a short http URL through", func(t *testing.T) {
		assert.Equal(t, "http://img.example.com/1.jpg", listing.SafeVendorPath("http://img.example.com/1.jpg"))
	})

	t.Run("Should strip the query string when the URL is over 200 chars", func(t *testing.T) {
		base := "http://img.example.com/" + strings.Repeat("a", 150) + ".jpg"
		url := base + "?" + strings.Repeat("q", 100)
		assert.Equal(t, base, listing.SafeVendorPath(url))
	})

	t.Run("Should reject URLs that stay over 200 chars without a query", func(t *testing.T) {
		assert.Equal(t, "", listing.SafeVendorPath("http://img.example.com/"+strings.Repeat("a", 300)+".jpg"))
	})

	t.Run("Should reject non-http and placeholder URLs", func(t *testing.T) {
		assert.Equal(t, "", listing.SafeVendorPath("ftp://img.example.com/1.jpg"))
		assert.Equal(t, "", listing.SafeVendorPath("http://img.example.com/noimage.jpg"))
	})
}

func TestRoundPriceUp10(t *testing.T) {
	t.Run("Should round up to the nearest 10", func(t *testing.T) {
		assert.Equal(t, int64(10510), listing.RoundPriceUp10(10505))
		assert.Equal(t, int64(10), listing.RoundPriceUp10(1))
	})

	t.Run("Should leave grid-aligned prices alone", func(t *testing.T) {
		assert.Equal(t, int64(10500), listing.RoundPriceUp10(10500))
	})
}

func TestPreflight(t *testing.T) {
	valid := func() *model.ListingRecord {
		return &model.ListingRecord{
			DisplayName: "보온 텀블러",
			SalePrice:   10000,
			ImageURL:    "http://img.example.com/1.jpg",
		}
	}

	t.Run("Should pass a valid record", func(t *testing.T) {
		assert.Equal(t, "", listing.Preflight(valid()))
	})

	t.Run("Should skip placeholder images", func(t *testing.T) {
		rec := valid()
		rec.ImageURL = "http://img.example.com/noimage.jpg"
		assert.Equal(t, "image missing or placeholder", listing.Preflight(rec))
	})

	t.Run("Should skip over-long image URLs", func(t *testing.T) {
		rec := valid()
		rec.ImageURL = "http://img.example.com/" + strings.Repeat("a", 300) + ".jpg"
		assert.Equal(t, "image URL over 200 chars", listing.Preflight(rec))
	})

	t.Run("Should correct an off-grid price in place", func(t *testing.T) {
		rec := valid()
		rec.SalePrice = 10505
		assert.Equal(t, "", listing.Preflight(rec))
		assert.Equal(t, int64(10510), rec.SalePrice)
	})

	t.Run("Should skip prices under 100 KRW", func(t *testing.T) {
		rec := valid()
		rec.SalePrice = 90
		assert.Equal(t, "sale price missing or under 100 KRW", listing.Preflight(rec))
	})
}

func TestValidatePayload(t *testing.T) {
	valid := func() *coupang.Payload {
		return &coupang.Payload{
			DisplayProductName:  "보온 텀블러",
			DisplayCategoryCode: 1001,
			ReturnCenterCode:    "RC-1",
			ReturnChargeName:    "기본 반품지",
			Items: []coupang.Item{{
				ItemName:      "보온 텀블러",
				SalePrice:     10000,
				OriginalPrice: 10000,
				Images:        []coupang.Image{{ImageOrder: 0, ImageType: "REPRESENTATION", VendorPath: "http://img.example.com/1.jpg"}},
				Attributes:    []model.AttributeAssignment{{TypeName: "색상", ValueName: "블랙"}},
			}},
		}
	}

	t.Run("Should accept a complete payload", func(t *testing.T) {
		assert.NoError(t, listing.ValidatePayload(valid()))
	})

	t.Run("Should reject a name over 100 runes", func(t *testing.T) {
		p := valid()
		p.DisplayProductName = strings.Repeat("가", 101)
		err := listing.ValidatePayload(p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "display product name")
	})

	t.Run("Should accept a 100-rune multibyte name", func(t *testing.T) {
		p := valid()
		p.DisplayProductName = strings.Repeat("가", 100)
		assert.NoError(t, listing.ValidatePayload(p))
	})

	t.Run("Should reject a missing category code", func(t *testing.T) {
		p := valid()
		p.DisplayCategoryCode = 0
		assert.Error(t, listing.ValidatePayload(p))
	})

	t.Run("Should reject empty items", func(t *testing.T) {
		p := valid()
		p.Items = nil
		assert.Error(t, listing.ValidatePayload(p))
	})

	t.Run("Should correct off-grid item prices before the price check", func(t *testing.T) {
		p := valid()
		p.Items[0].SalePrice = 10505
		require.NoError(t, listing.ValidatePayload(p))
		assert.Equal(t, int64(10510), p.Items[0].SalePrice)
		assert.Equal(t, int64(10510), p.Items[0].OriginalPrice)
	})

	t.Run("Should reject a non-positive price", func(t *testing.T) {
		p := valid()
		p.Items[0].SalePrice = 0
		p.Items[0].OriginalPrice = 0
		assert.Error(t, listing.ValidatePayload(p))
	})

	t.Run("Should require at least one http image", func(t *testing.T) {
		p := valid()
		p.Items[0].Images = nil
		assert.Error(t, listing.ValidatePayload(p))

		p = valid()
		p.Items[0].Images[0].VendorPath = "ftp://img.example.com/1.jpg"
		assert.Error(t, listing.ValidatePayload(p))
	})

	t.Run("Should require attributes on the first item", func(t *testing.T) {
		p := valid()
		p.Items[0].Attributes = nil
		assert.Error(t, listing.ValidatePayload(p))
	})
}
