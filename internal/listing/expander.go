// Package listing turns a queued listing into sellable line items: option
// combination expansion, price correction, and pre-submission validation.
package listing

import (
	"regexp"
	"strings"

	"github.com/openclaw/lister/internal/attribute"
	"github.com/openclaw/lister/internal/model"
)

// MaxCombinations caps option-combination expansion. Listings with more raw
// combinations are truncated, not rejected.
const MaxCombinations = 30

// Option groups that describe fulfilment, not the product itself. They never
// become line-item variants.
var nonAttributeGroupRe = regexp.MustCompile(`발송|배송|수령|택배`)

var (
	parenRe        = regexp.MustCompile(`\(([^)]+)\)`)
	optionSizeRe   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:cm|mm|m|인치)`)
	genericGroupRe = regexp.MustCompile(`(?i)선택|옵션|option`)
	colorNameRe    = regexp.MustCompile(`색상|색`)
	sizeNameRe     = regexp.MustCompile(`사이즈|크기|(?i:size)`)
)

// Expansion is the result of expanding a listing's option groups.
type Expansion struct {
	Items []model.LineItem

	// Truncated reports that the raw combination count exceeded
	// MaxCombinations and the tail was dropped.
	Truncated bool
}

// Expand produces one line item per option combination. The first group
// varies slowest. Fulfilment-only groups are filtered out first; a listing
// with no product option groups left yields a single line item carrying the
// reconciled attributes unchanged.
//
// Per-combination prices are base price plus the combination's price deltas,
// rounded up to the nearest 10 KRW when needed; the pre-rounding price is
// kept on the line item.
func Expand(rec *model.ListingRecord, attrs []model.AttributeAssignment) Expansion {
	groups := make([]model.OptionGroup, 0, len(rec.OptionGroups))
	for _, g := range rec.OptionGroups {
		if nonAttributeGroupRe.MatchString(g.GroupName) || len(g.Values) == 0 {
			continue
		}
		groups = append(groups, g)
	}

	if len(groups) == 0 {
		return Expansion{Items: []model.LineItem{{
			ItemName:   rec.DisplayName,
			SalePrice:  rec.SalePrice,
			Attributes: attrs,
		}}}
	}

	total := 1
	for _, g := range groups {
		total *= len(g.Values)
	}
	count := total
	if count > MaxCombinations {
		count = MaxCombinations
	}

	items := make([]model.LineItem, 0, count)
	combo := make([]int, len(groups))
	for n := 0; n < count; n++ {
		items = append(items, buildLineItem(rec, groups, combo, attrs))

		// Advance odometer-style, last group fastest.
		for i := len(combo) - 1; i >= 0; i-- {
			combo[i]++
			if combo[i] < len(groups[i].Values) {
				break
			}
			combo[i] = 0
		}
	}

	return Expansion{Items: items, Truncated: total > MaxCombinations}
}

func buildLineItem(rec *model.ListingRecord, groups []model.OptionGroup, combo []int, attrs []model.AttributeAssignment) model.LineItem {
	names := make([]string, len(groups))
	var priceAdd int64
	for i, g := range groups {
		v := g.Values[combo[i]]
		names[i] = v.Name
		priceAdd += v.PriceAdd
	}

	price := rec.SalePrice + priceAdd
	var roundedFrom int64
	if price%10 != 0 {
		roundedFrom = price
		price = RoundPriceUp10(price)
	}

	itemAttrs := make([]model.AttributeAssignment, len(attrs))
	for i, a := range attrs {
		itemAttrs[i] = a
		for j, g := range groups {
			v := g.Values[combo[j]]
			if optionMatchesAttribute(g.GroupName, a.TypeName, v.Name) {
				itemAttrs[i].ValueName = cleanOptionForAttribute(v.Name, a.TypeName)
				break
			}
		}
	}

	return model.LineItem{
		ItemName:    strings.Join(names, " "),
		SalePrice:   price,
		RoundedFrom: roundedFrom,
		Attributes:  itemAttrs,
	}
}

// optionMatchesAttribute decides whether an option group's value should
// override an attribute assignment. Exact group/attribute name match wins;
// beyond that, generically named groups map to a color attribute when the
// value contains a recognizable color, and color/size groups map to
// color/size attributes by name family.
func optionMatchesAttribute(groupName, attrName, optValue string) bool {
	switch {
	case groupName == attrName:
		return true
	case genericGroupRe.MatchString(groupName) && colorNameRe.MatchString(attrName) && extractOptionColor(optValue) != "":
		return true
	case colorNameRe.MatchString(groupName) && colorNameRe.MatchString(attrName):
		return true
	case sizeNameRe.MatchString(groupName) && sizeNameRe.MatchString(attrName):
		return true
	}
	return false
}

// cleanOptionForAttribute reduces a raw option value to something the
// attribute schema will accept: a bare color keyword for color attributes,
// a bare numeral for size attributes. Unrecognized values pass through.
func cleanOptionForAttribute(optValue, attrName string) string {
	if colorNameRe.MatchString(attrName) {
		if c := extractOptionColor(optValue); c != "" {
			return c
		}
		return optValue
	}
	if sizeNameRe.MatchString(attrName) {
		if m := optionSizeRe.FindStringSubmatch(optValue); m != nil {
			return m[1]
		}
	}
	return optValue
}

// extractOptionColor prefers a color keyword inside parentheses over one in
// the bare value, so "탄산수 500ml (블루)" resolves to 블루.
func extractOptionColor(optValue string) string {
	if m := parenRe.FindStringSubmatch(optValue); m != nil {
		if c := attribute.MatchColorKeyword(m[1]); c != "" {
			return c
		}
	}
	return attribute.MatchColorKeyword(optValue)
}
