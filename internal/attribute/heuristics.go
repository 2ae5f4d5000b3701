package attribute

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/openclaw/lister/internal/model"
)

// Sentinel is the schema provider's placeholder for "unset default". It must
// never appear in a submitted attribute value.
const Sentinel = "기본"

// ColorKeywords are matched against product names and option labels, longest
// first so compound colors win over their suffixes.
var ColorKeywords = []string{
	"다크그레이", "라이트그레이", "혼합색상", "스카이블루", "로즈골드", "매트블랙",
	"블랙", "화이트", "레드", "블루", "그린", "옐로우", "핑크", "퍼플",
	"그레이", "실버", "골드", "브라운", "베이지", "네이비", "아이보리",
	"투명", "클리어", "혼합", "랜덤", "오렌지", "민트", "카키", "와인",
	"크림", "차콜", "라벤더", "코랄",
}

var scentKeywords = []string{
	"무향", "레몬", "라벤더", "로즈", "머스크", "자몽", "바닐라", "피치", "베이비파우더",
}

var modelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(아이폰\s?\d+(?:\s?프로맥스|\s?프로|\s?플러스)?)`),
	regexp.MustCompile(`(?i)(갤럭시\s?[A-Z]?\d+)`),
	regexp.MustCompile(`(S\d{1,2})`),
	regexp.MustCompile(`(A\d{1,2})`),
}

// MatchColorKeyword returns the first color keyword contained in s, or "".
func MatchColorKeyword(s string) string {
	for _, c := range ColorKeywords {
		if strings.Contains(s, c) {
			return c
		}
	}
	return ""
}

func matchScentKeyword(s string) string {
	for _, k := range scentKeywords {
		if strings.Contains(s, k) {
			return k
		}
	}
	return ""
}

// MatchModelName extracts a device model designation from s, or "".
func MatchModelName(s string) string {
	for _, p := range modelPatterns {
		if m := p.FindStringSubmatch(s); m != nil {
			return m[1]
		}
	}
	return ""
}

// inferInput is what a fallback strategy sees when asked to produce a value
// for one attribute.
type inferInput struct {
	productName string
	attrName    string
	dataType    model.AttributeDataType
	basicUnit   string
}

// fallbackStrategy is one (predicate, inference) pair. Strategies are
// consulted in order; the first whose predicate accepts the attribute name
// produces the value.
type fallbackStrategy struct {
	matches func(in inferInput) bool
	infer   func(in inferInput) string
}

func attrNameMatches(pattern string) func(inferInput) bool {
	re := regexp.MustCompile(pattern)
	return func(in inferInput) bool { return re.MatchString(in.attrName) }
}

var fallbackStrategies = []fallbackStrategy{
	{
		matches: attrNameMatches(`색상|색`),
		infer: func(in inferInput) string {
			if c := MatchColorKeyword(in.productName); c != "" {
				return c
			}
			return "혼합색상"
		},
	},
	{
		matches: attrNameMatches(`향`),
		infer: func(in inferInput) string {
			if s := matchScentKeyword(in.productName); s != "" {
				return s
			}
			return "무향"
		},
	},
	{
		matches: attrNameMatches(`모델|품번|품명`),
		infer: func(in inferInput) string {
			if m := MatchModelName(in.productName); m != "" {
				return m
			}
			return "상세페이지 참조"
		},
	},
	{
		matches: attrNameMatches(`적용모델|호환`),
		infer: func(in inferInput) string {
			if m := MatchModelName(in.productName); m != "" {
				return m
			}
			return "범용"
		},
	},
	{
		matches: attrNameMatches(`사이즈|크기`),
		infer: func(in inferInput) string {
			if v := ExtractRangeValue(in.productName, in.attrName, in.basicUnit); v != "" {
				return v
			}
			return "FREE"
		},
	},
	{
		matches: attrNameMatches(`길이|두께|높이|폭|너비`),
		infer: func(in inferInput) string {
			v := ExtractRangeValue(in.productName, in.attrName, in.basicUnit)
			if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
				return v
			}
			return "1"
		},
	},
	{
		matches: attrNameMatches(`^수량$`),
		infer:   func(inferInput) string { return "1" },
	},
	{
		matches: attrNameMatches(`용량|중량|무게|개당|총\s*수량`),
		infer: func(in inferInput) string {
			if v := ExtractRangeValue(in.productName, in.attrName, in.basicUnit); v != "" {
				return v
			}
			return "1"
		},
	},
	{
		matches: func(in inferInput) bool { return in.dataType == model.DataTypeNumber },
		infer: func(in inferInput) string {
			if v := ExtractRangeValue(in.productName, in.attrName, in.basicUnit); v != "" {
				return v
			}
			return "1"
		},
	},
}

// inferFallbackValue walks the strategy list and returns the first inferred
// value; attributes no strategy claims point buyers at the detail page.
func inferFallbackValue(in inferInput) string {
	for _, s := range fallbackStrategies {
		if s.matches(in) {
			return s.infer(in)
		}
	}
	return "상세페이지 참조"
}
