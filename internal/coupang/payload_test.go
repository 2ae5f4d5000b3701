package coupang

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/lister/internal/config"
	"github.com/openclaw/lister/internal/model"
)

func testBuilder() *PayloadBuilder {
	b := NewPayloadBuilder(config.Coupang{
		VendorID:                  "A00012345",
		ReturnCenterCode:          "RC-1",
		ReturnChargeName:          "기본 반품지",
		ReturnZipCode:             "06236",
		ReturnAddress:             "서울특별시 강남구",
		CompanyContactNumber:      "02-0000-0000",
		OutboundShippingPlaceCode: 42,
		DeliveryCompanyCode:       "KDEXP",
	})
	b.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return b
}

func TestPayloadBuilder_Build(t *testing.T) {
	b := testBuilder()
	rec := &model.ListingRecord{
		DisplayName: "보온 텀블러 500ml",
		SellerName:  "텀블러 도매",
		SalePrice:   10000,
		ImageURL:    "http://img.example.com/1.jpg",
		SearchTags:  []string{"텀블러", "보온"},
	}
	category := Category{ID: 1001, Name: "텀블러"}
	items := []model.LineItem{
		{ItemName: "블랙", SalePrice: 10000, Attributes: []model.AttributeAssignment{{TypeName: "색상", ValueName: "블랙"}}},
		{ItemName: "블루", SalePrice: 10510, Attributes: []model.AttributeAssignment{{TypeName: "색상", ValueName: "블루"}}},
	}

	p := b.Build(rec, category, CategoryMeta{}, items)

	t.Run("Should stamp seller account data and sale window", func(t *testing.T) {
		assert.Equal(t, int64(1001), p.DisplayCategoryCode)
		assert.Equal(t, "A00012345", p.VendorID)
		assert.Equal(t, "A00012345", p.VendorUserID)
		assert.Equal(t, "텀블러 도매", p.SellerProductName)
		assert.Equal(t, "보온 텀블러 500ml", p.DisplayProductName)
		assert.Equal(t, "2026-03-01T12:00:00", p.SaleStartedAt)
		assert.Equal(t, "2099-01-01T23:59:59", p.SaleEndedAt)
		assert.Equal(t, "RC-1", p.ReturnCenterCode)
		assert.Equal(t, int64(42), p.OutboundShippingPlaceCode)
		assert.True(t, p.Requested)
	})

	t.Run("Should apply the fixed delivery terms", func(t *testing.T) {
		assert.Equal(t, "SEQUENCIAL", p.DeliveryMethod)
		assert.Equal(t, "FREE", p.DeliveryChargeType)
		assert.Equal(t, 100000, p.FreeShipOverAmount)
		assert.Equal(t, 5000, p.DeliveryChargeOnReturn)
		assert.Equal(t, 5000, p.ReturnCharge)
		assert.Equal(t, "UNION_DELIVERY", p.UnionDeliveryType)
	})

	t.Run("Should shape one payload item per line item", func(t *testing.T) {
		require.Len(t, p.Items, 2)
		assert.Equal(t, "블랙", p.Items[0].ItemName)
		assert.Equal(t, int64(10510), p.Items[1].SalePrice)
		assert.Equal(t, int64(10510), p.Items[1].OriginalPrice)
		assert.Equal(t, "블루", p.Items[1].Attributes[0].ValueName)
	})

	t.Run("Should fill the fixed item policy fields", func(t *testing.T) {
		item := p.Items[0]
		assert.Equal(t, 99999, item.MaximumBuyCount)
		assert.Equal(t, 99999, item.MaximumBuyForPerson)
		assert.Equal(t, 2, item.OutboundShippingTimeDay)
		assert.Equal(t, 1, item.UnitCount)
		assert.Equal(t, 1, item.MinimumQuantity)
		assert.Equal(t, "EVERYONE", item.AdultOnly)
		assert.Equal(t, "TAX", item.TaxType)
		assert.Equal(t, "NOT_PARALLEL_IMPORTED", item.ParallelImported)
		assert.Equal(t, "NOT_OVERSEAS_PURCHASED", item.OverseasPurchased)
		assert.True(t, item.EmptyBarcode)
		assert.Equal(t, "바코드 없음", item.EmptyBarcodeReason)
		require.Len(t, item.Certifications, 1)
		assert.Equal(t, "NOT_REQUIRED", item.Certifications[0].CertificationType)
		assert.Equal(t, "NEW", item.OfferCondition)
		assert.Equal(t, []string{"텀블러", "보온"}, item.SearchTags)
	})

	t.Run("Should carry a single representative image", func(t *testing.T) {
		require.Len(t, p.Items[0].Images, 1)
		assert.Equal(t, "REPRESENTATION", p.Items[0].Images[0].ImageType)
		assert.Equal(t, "http://img.example.com/1.jpg", p.Items[0].Images[0].VendorPath)
	})

	t.Run("Should honor the source minimum order quantity", func(t *testing.T) {
		rec := &model.ListingRecord{DisplayName: "묶음 상품", SalePrice: 10000, MinOrderQuantity: 3}
		p := b.Build(rec, category, CategoryMeta{}, []model.LineItem{{ItemName: "묶음", SalePrice: 10000}})
		assert.Equal(t, 3, p.Items[0].MinimumQuantity)
	})

	t.Run("Should drop an over-long representative image", func(t *testing.T) {
		rec := &model.ListingRecord{
			DisplayName: "보온 텀블러",
			SalePrice:   10000,
			ImageURL:    "http://img.example.com/" + strings.Repeat("a", 300) + ".jpg",
		}
		p := b.Build(rec, category, CategoryMeta{}, []model.LineItem{{ItemName: "단품", SalePrice: 10000}})
		assert.Empty(t, p.Items[0].Images)
	})
}

func TestBuildNotices(t *testing.T) {
	t.Run("Should prefer the notice category containing 기타", func(t *testing.T) {
		meta := CategoryMeta{NoticeCategories: []NoticeCategory{
			{Name: "주방용품", Details: []NoticeDetail{{Name: "재질", Required: "MANDATORY"}}},
			{Name: "기타 재화", Details: []NoticeDetail{
				{Name: "품명 및 모델명", Required: "MANDATORY"},
				{Name: "인증사항", Required: "OPTIONAL"},
			}},
		}}

		notices := BuildNotices(meta)

		require.Len(t, notices, 1)
		assert.Equal(t, "기타 재화", notices[0].NoticeCategoryName)
		assert.Equal(t, "품명 및 모델명", notices[0].NoticeCategoryDetailName)
		assert.Equal(t, "상세페이지 참조", notices[0].Content)
	})

	t.Run("Should fall back to the first category and keep only mandatory details", func(t *testing.T) {
		meta := CategoryMeta{NoticeCategories: []NoticeCategory{
			{Name: "주방용품", Details: []NoticeDetail{
				{Name: "재질", Required: "MANDATORY"},
				{Name: "크기", Required: "MANDATORY"},
				{Name: "수입여부", Required: "OPTIONAL"},
			}},
		}}

		notices := BuildNotices(meta)

		require.Len(t, notices, 2)
		assert.Equal(t, "주방용품", notices[0].NoticeCategoryName)
	})

	t.Run("Should emit the generic goods notice when the schema offers none", func(t *testing.T) {
		notices := BuildNotices(CategoryMeta{})

		require.Len(t, notices, 1)
		assert.Equal(t, "기타 재화", notices[0].NoticeCategoryName)
		assert.Equal(t, "품명 및 모델명", notices[0].NoticeCategoryDetailName)
	})

	t.Run("Should emit the generic notice when the preferred category has no mandatory details", func(t *testing.T) {
		meta := CategoryMeta{NoticeCategories: []NoticeCategory{
			{Name: "기타 재화", Details: []NoticeDetail{{Name: "인증사항", Required: "OPTIONAL"}}},
		}}

		notices := BuildNotices(meta)

		require.Len(t, notices, 1)
		assert.Equal(t, "품명 및 모델명", notices[0].NoticeCategoryDetailName)
	})
}

func TestGenerateDetailHTML(t *testing.T) {
	t.Run("Should render the name, the representative image and valid detail images", func(t *testing.T) {
		rec := &model.ListingRecord{
			DisplayName: "보온 텀블러",
			ImageURL:    "http://img.example.com/rep.jpg",
			DetailImages: []string{
				"http://img.example.com/d1.jpg",
				"ftp://img.example.com/d2.jpg",
				"http://img.example.com/" + strings.Repeat("a", 300) + ".jpg",
				"",
			},
		}

		html := GenerateDetailHTML(rec)

		assert.Contains(t, html, "<h2")
		assert.Contains(t, html, "보온 텀블러")
		assert.Contains(t, html, "http://img.example.com/rep.jpg")
		assert.Contains(t, html, "http://img.example.com/d1.jpg")
		assert.NotContains(t, html, "ftp://")
		assert.Equal(t, 2, strings.Count(html, "<img"))
	})

	t.Run("Should cap the rendered HTML length", func(t *testing.T) {
		rec := &model.ListingRecord{DisplayName: "보온 텀블러", ImageURL: "http://img.example.com/rep.jpg"}
		for i := 0; i < 300; i++ {
			rec.DetailImages = append(rec.DetailImages,
				fmt.Sprintf("http://img.example.com/%s-%03d.jpg", strings.Repeat("a", 150), i))
		}

		html := GenerateDetailHTML(rec)

		assert.Len(t, html, 20000)
	})

	t.Run("Should cut oversized HTML on a rune boundary", func(t *testing.T) {
		// Shifting the prefix walks the cap across every byte offset of a
		// multibyte rune.
		for _, prefix := range []string{"", "A", "AB"} {
			rec := &model.ListingRecord{DisplayName: prefix + strings.Repeat("텀", 7000)}

			html := GenerateDetailHTML(rec)

			assert.LessOrEqual(t, len(html), detailHTMLMaxLen)
			assert.True(t, utf8.ValidString(html))
		}
	})

	t.Run("Should fall back to the seller name and then a generic title", func(t *testing.T) {
		assert.Contains(t, GenerateDetailHTML(&model.ListingRecord{SellerName: "텀블러 도매"}), "텀블러 도매")
		assert.Contains(t, GenerateDetailHTML(&model.ListingRecord{}), "상품")
	})
}
