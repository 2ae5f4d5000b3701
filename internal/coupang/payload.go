package coupang

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/openclaw/lister/internal/config"
	"github.com/openclaw/lister/internal/model"
)

// Sale and delivery policy applied to every submission. The seller-account
// fields (return center, shipping place, contact) come from config; these
// are fixed commercial terms.
const (
	saleEnd                = "2099-01-01T23:59:59"
	deliveryMethod         = "SEQUENCIAL"
	deliveryChargeType     = "FREE"
	freeShipOverAmount     = 100000
	deliveryChargeOnReturn = 5000
	returnCharge           = 5000
	unionDeliveryType      = "UNION_DELIVERY"

	emptyBarcodeReason = "바코드 없음"
	detailHTMLMaxLen   = 20000
	placeholderContent = "상세페이지 참조"
)

// PayloadBuilder assembles seller-product submission payloads.
type PayloadBuilder struct {
	cfg config.Coupang
	now func() time.Time
}

func NewPayloadBuilder(cfg config.Coupang) *PayloadBuilder {
	return &PayloadBuilder{cfg: cfg, now: time.Now}
}

// Build assembles the full registration payload for one listing. The line
// items must already be expanded and priced; Build only shapes them into the
// wire format and stamps the seller account data on top.
func (b *PayloadBuilder) Build(rec *model.ListingRecord, category Category, meta CategoryMeta, lineItems []model.LineItem) Payload {
	notices := BuildNotices(meta)

	return Payload{
		DisplayCategoryCode:       category.ID,
		SellerProductName:         rec.SellerName,
		VendorID:                  b.cfg.VendorID,
		SaleStartedAt:             b.now().UTC().Format("2006-01-02T15:04:05"),
		SaleEndedAt:               saleEnd,
		DisplayProductName:        rec.DisplayName,
		GeneralProductName:        rec.DisplayName,
		DeliveryMethod:            deliveryMethod,
		DeliveryCompanyCode:       b.cfg.DeliveryCompanyCode,
		DeliveryChargeType:        deliveryChargeType,
		DeliveryCharge:            0,
		FreeShipOverAmount:        freeShipOverAmount,
		DeliveryChargeOnReturn:    deliveryChargeOnReturn,
		ReturnCharge:              returnCharge,
		RemoteAreaDeliverable:     "N",
		UnionDeliveryType:         unionDeliveryType,
		ReturnCenterCode:          b.cfg.ReturnCenterCode,
		ReturnChargeName:          b.cfg.ReturnChargeName,
		CompanyContactNumber:      b.cfg.CompanyContactNumber,
		ReturnZipCode:             b.cfg.ReturnZipCode,
		ReturnAddress:             b.cfg.ReturnAddress,
		ReturnAddressDetail:       b.cfg.ReturnAddressDetail,
		OutboundShippingPlaceCode: b.cfg.OutboundShippingPlaceCode,
		VendorUserID:              b.cfg.EffectiveVendorUserID(),
		Requested:                 true,
		Items:                     b.buildItems(rec, notices, lineItems),
	}
}

func (b *PayloadBuilder) buildItems(rec *model.ListingRecord, notices []Notice, lineItems []model.LineItem) []Item {
	minQty := rec.MinOrderQuantity
	if minQty < 1 {
		minQty = 1
	}

	detail := []Content{{
		ContentsType: "TEXT",
		ContentDetails: []ContentDetail{{
			Content:    GenerateDetailHTML(rec),
			DetailType: "TEXT",
		}},
	}}
	images := buildImages(rec)

	items := make([]Item, 0, len(lineItems))
	for _, li := range lineItems {
		items = append(items, Item{
			ItemName:                  li.ItemName,
			OriginalPrice:             li.SalePrice,
			SalePrice:                 li.SalePrice,
			MaximumBuyCount:           99999,
			MaximumBuyForPerson:       99999,
			MaximumBuyForPersonPeriod: 1,
			OutboundShippingTimeDay:   2,
			UnitCount:                 1,
			MinimumQuantity:           minQty,
			AdultOnly:                 "EVERYONE",
			TaxType:                   "TAX",
			ParallelImported:          "NOT_PARALLEL_IMPORTED",
			OverseasPurchased:         "NOT_OVERSEAS_PURCHASED",
			PccNeeded:                 false,
			EmptyBarcode:              true,
			EmptyBarcodeReason:        emptyBarcodeReason,
			Certifications:            []Certification{{CertificationType: "NOT_REQUIRED"}},
			SearchTags:                rec.SearchTags,
			Images:                    images,
			Notices:                   notices,
			Contents:                  detail,
			OfferCondition:            "NEW",
			Attributes:                li.Attributes,
		})
	}

	return items
}

// BuildNotices produces the legally required product notice lines. A notice
// category containing "기타" is preferred over the category's first entry;
// only mandatory detail fields are filled, always with the placeholder
// content. With no notice categories at all, the generic goods notice is
// emitted so the payload never ships without one.
func BuildNotices(meta CategoryMeta) []Notice {
	var preferred *NoticeCategory
	for i := range meta.NoticeCategories {
		if strings.Contains(meta.NoticeCategories[i].Name, "기타") {
			preferred = &meta.NoticeCategories[i]
			break
		}
	}
	if preferred == nil && len(meta.NoticeCategories) > 0 {
		preferred = &meta.NoticeCategories[0]
	}

	var notices []Notice
	if preferred != nil {
		for _, d := range preferred.Details {
			if d.Required != "MANDATORY" {
				continue
			}
			notices = append(notices, Notice{
				NoticeCategoryName:       preferred.Name,
				NoticeCategoryDetailName: d.Name,
				Content:                  placeholderContent,
			})
		}
	}
	if len(notices) == 0 {
		notices = append(notices, Notice{
			NoticeCategoryName:       "기타 재화",
			NoticeCategoryDetailName: "품명 및 모델명",
			Content:                  placeholderContent,
		})
	}

	return notices
}

// GenerateDetailHTML renders the detail page from the listing's images
// instead of passing through the source mall's raw HTML. Detail image URLs
// that are not plain http URLs of at most 200 characters are dropped. The
// result is capped at 20000 bytes, cut on a rune boundary.
func GenerateDetailHTML(rec *model.ListingRecord) string {
	name := rec.DisplayName
	if name == "" {
		name = rec.SellerName
	}
	if name == "" {
		name = "상품"
	}

	var sb strings.Builder
	sb.WriteString(`<div style="max-width:860px;margin:0 auto;font-family:sans-serif;">`)
	fmt.Fprintf(&sb, `<h2 style="text-align:center;margin:20px 0;">%s</h2>`, name)
	if rec.ImageURL != "" {
		fmt.Fprintf(&sb, `<p style="text-align:center;"><img src="%s" style="max-width:100%%;height:auto;" /></p>`, rec.ImageURL)
	}
	for _, src := range rec.DetailImages {
		if src == "" || !strings.HasPrefix(src, "http") || len(src) > 200 {
			continue
		}
		fmt.Fprintf(&sb, `<p style="text-align:center;"><img src="%s" style="max-width:100%%;height:auto;" /></p>`, src)
	}
	sb.WriteString(`</div>`)

	html := sb.String()
	if len(html) > detailHTMLMaxLen {
		// Back up to a rune boundary so the cut never ships broken UTF-8.
		cut := detailHTMLMaxLen
		for cut > 0 && !utf8.RuneStart(html[cut]) {
			cut--
		}
		html = html[:cut]
	}
	return html
}

// buildImages keeps a single representative image; detail images appear only
// inside the generated detail HTML.
func buildImages(rec *model.ListingRecord) []Image {
	if rec.ImageURL == "" || len(rec.ImageURL) > 200 {
		return nil
	}
	return []Image{{ImageOrder: 0, ImageType: "REPRESENTATION", VendorPath: rec.ImageURL}}
}
