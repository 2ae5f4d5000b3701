package listing

import (
	"fmt"
	"strings"

	"github.com/openclaw/lister/internal/coupang"
	"github.com/openclaw/lister/internal/model"
)

// InvalidImagePatterns are substrings that mark a source-mall placeholder
// image. Matching is case-insensitive.
var InvalidImagePatterns = []string{"img_notExist", "noimage", "no_image", "default_img"}

// IsValidImageURL reports whether url is non-empty and not a placeholder.
func IsValidImageURL(url string) bool {
	if url == "" {
		return false
	}
	lower := strings.ToLower(url)
	for _, p := range InvalidImagePatterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return false
		}
	}
	return true
}

// SafeVendorPath normalizes an image URL to the marketplace's vendorPath
// rules: http(s) scheme, no placeholder, at most 200 characters. URLs over
// the limit are retried with the query string stripped. Returns "" when the
// URL cannot be made safe.
func SafeVendorPath(url string) string {
	if url == "" || !strings.HasPrefix(url, "http") || !IsValidImageURL(url) {
		return ""
	}
	if len(url) <= 200 {
		return url
	}
	noQuery, _, _ := strings.Cut(url, "?")
	if len(noQuery) <= 200 {
		return noQuery
	}
	return ""
}

// RoundPriceUp10 rounds a price up to the nearest 10 KRW.
func RoundPriceUp10(price int64) int64 {
	if price%10 == 0 {
		return price
	}
	return (price/10 + 1) * 10
}

// Preflight checks a queued record before any marketplace call is spent on
// it. It returns a skip reason, or "" when the record may proceed. A price
// that is merely off the 10-KRW grid is corrected in place, not rejected.
func Preflight(rec *model.ListingRecord) string {
	if !IsValidImageURL(rec.ImageURL) {
		return "image missing or placeholder"
	}
	if len(rec.ImageURL) > 200 {
		return "image URL over 200 chars"
	}
	if rec.SalePrice%10 != 0 {
		rec.SalePrice = RoundPriceUp10(rec.SalePrice)
	}
	if rec.SalePrice < 100 {
		return "sale price missing or under 100 KRW"
	}
	return ""
}

// ValidatePayload runs the ordered pre-submission checks on an assembled
// payload and returns the first failure. Item prices off the 10-KRW grid
// are corrected in place before the positive-price check.
func ValidatePayload(p *coupang.Payload) error {
	if p.DisplayProductName == "" || len([]rune(p.DisplayProductName)) > 100 {
		return fmt.Errorf("display product name missing or over 100 chars (%d)", len([]rune(p.DisplayProductName)))
	}
	if p.DisplayCategoryCode == 0 {
		return fmt.Errorf("display category code missing")
	}
	if p.ReturnCenterCode == "" {
		return fmt.Errorf("return center code missing")
	}
	if p.ReturnChargeName == "" {
		return fmt.Errorf("return charge name missing")
	}
	if len(p.Items) == 0 {
		return fmt.Errorf("items empty")
	}

	for i := range p.Items {
		item := &p.Items[i]
		if item.SalePrice%10 != 0 {
			item.SalePrice = RoundPriceUp10(item.SalePrice)
			item.OriginalPrice = item.SalePrice
		}
	}

	first := &p.Items[0]
	if first.SalePrice <= 0 {
		return fmt.Errorf("sale price invalid: %d", first.SalePrice)
	}
	if len(first.Images) < 1 {
		return fmt.Errorf("images empty, at least one required")
	}
	for _, img := range first.Images {
		if img.VendorPath == "" || !strings.HasPrefix(img.VendorPath, "http") {
			return fmt.Errorf("image URL invalid: %s", img.VendorPath)
		}
	}
	if first.Attributes == nil {
		return fmt.Errorf("attributes missing")
	}

	return nil
}
