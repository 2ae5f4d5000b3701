package attribute

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/openclaw/lister/internal/model"
)

// Result is the outcome of reconciling a listing's attributes against a
// category schema. Failure is a first-class outcome: when FailureReason is
// non-empty the listing must not be submitted.
type Result struct {
	Attributes    []model.AttributeAssignment
	FailureReason string
}

// Failed reports whether reconciliation could not produce a submittable set.
func (r Result) Failed() bool { return r.FailureReason != "" }

// Reconciler merges a listing's existing attributes with a category's
// mandatory attribute schema.
type Reconciler struct {
	logger *slog.Logger
}

func NewReconciler(logger *slog.Logger) *Reconciler {
	return &Reconciler{logger: logger.With(slog.String("component", "reconciler"))}
}

var (
	numericRe     = regexp.MustCompile(`\d+(?:\.\d+)?`)
	pureNumericRe = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	nonNumericRe  = regexp.MustCompile(`[^\d.]`)
	dimensionRe   = regexp.MustCompile(`용량|중량|무게|길이|두께|높이|폭|너비|사이즈|크기`)

	volumeCueRe = regexp.MustCompile(`(?i)(ml|리터|\bl\b)`)
	weightCueRe = regexp.MustCompile(`(?i)(kg|g|그램|킬로)`)
	volumeRe    = regexp.MustCompile(`용량`)
	weightRe    = regexp.MustCompile(`중량|무게`)
)

// Reconcile produces the final attribute set for one listing. It replaces
// sentinel values, normalizes NUMBER values to carry the schema's base unit,
// deduplicates mutually exclusive attribute groups, and synthesizes values
// for mandatory attributes that are still missing. Deterministic: identical
// inputs always yield identical output.
func (r *Reconciler) Reconcile(existing []model.AttributeAssignment, productName string, schema model.CategorySchema) Result {
	attrs := make([]model.AttributeAssignment, len(existing))
	copy(attrs, existing)

	for i := range attrs {
		r.normalizeExisting(&attrs[i], productName, schema)
	}

	attrs = r.dedupeGroups(attrs, productName, schema)

	return r.fillMandatory(attrs, productName, schema)
}

// normalizeExisting replaces sentinel values and enforces the NUMBER unit
// suffix contract on one pre-existing assignment.
func (r *Reconciler) normalizeExisting(a *model.AttributeAssignment, productName string, schema model.CategorySchema) {
	def, hasDef := schema.Definition(a.TypeName)

	if a.ValueName == Sentinel {
		in := inferInput{productName: productName, attrName: a.TypeName}
		var replacement string
		if hasDef {
			in.dataType = def.DataType
			in.basicUnit = def.BasicUnit
			replacement = pickAllowedValue(def, productName)
			if replacement == "" || replacement == Sentinel {
				// An enumeration offering nothing but the placeholder is no
				// better than no enumeration.
				replacement = inferFallbackValue(in)
			}
		} else {
			replacement = inferFallbackValue(in)
		}
		if replacement != "" && replacement != Sentinel {
			a.ValueName = replacement
			r.logger.Info("placeholder value replaced",
				slog.String("attribute", a.TypeName), slog.String("value", a.ValueName))
		}
		return
	}

	if !hasDef || def.DataType != model.DataTypeNumber {
		return
	}

	raw := a.ValueName

	// A value re-extracted from the product name in the schema's base unit
	// supersedes whatever digits the source carried.
	if def.BasicUnit != "" && dimensionRe.MatchString(a.TypeName) {
		inferred := ExtractRangeValue(productName, a.TypeName, def.BasicUnit)
		if inferred != "" && inferred != nonNumericRe.ReplaceAllString(raw, "") {
			a.ValueName = inferred + def.BasicUnit
			r.logger.Info("unit value corrected",
				slog.String("attribute", a.TypeName), slog.String("value", a.ValueName))
			return
		}
	}

	numOnly := numericRe.FindString(raw)
	if numOnly == "" {
		numOnly = raw
	}
	if def.BasicUnit != "" && !strings.HasSuffix(raw, def.BasicUnit) {
		a.ValueName = numOnly + def.BasicUnit
		r.logger.Info("unit suffix added",
			slog.String("attribute", a.TypeName), slog.String("value", a.ValueName))
	} else if def.BasicUnit == "" && numericRe.MatchString(raw) && !pureNumericRe.MatchString(raw) {
		a.ValueName = numOnly
		r.logger.Info("numeric value normalized",
			slog.String("attribute", a.TypeName), slog.String("value", a.ValueName))
	}
}

// dedupeGroups keeps at most one attribute per exclusivity group, preferring
// the one whose semantics match the product name's volume/weight cues.
func (r *Reconciler) dedupeGroups(attrs []model.AttributeAssignment, productName string, schema model.CategorySchema) []model.AttributeAssignment {
	kept := make([]model.AttributeAssignment, 0, len(attrs))
	groupIdx := make(map[string]int)

	for _, a := range attrs {
		def, ok := schema.Definition(a.TypeName)
		if !ok || !def.Grouped() {
			kept = append(kept, a)
			continue
		}

		prevIdx, seen := groupIdx[def.GroupNumber]
		if !seen {
			groupIdx[def.GroupNumber] = len(kept)
			kept = append(kept, a)
			continue
		}

		prev := kept[prevIdx]
		if preferGroupAttr(productName, a.TypeName, prev.TypeName) {
			kept[prevIdx] = a
			r.logger.Info("group duplicate replaced",
				slog.String("group", def.GroupNumber),
				slog.String("dropped", prev.TypeName), slog.String("kept", a.TypeName))
		} else {
			r.logger.Info("group duplicate dropped",
				slog.String("group", def.GroupNumber), slog.String("dropped", a.TypeName))
		}
	}

	return kept
}

// preferGroupAttr decides whether candidate should replace incumbent within
// the same exclusivity group. The product name's unit cues break the tie:
// volume cues favor 용량, weight cues favor 중량/무게. Ties keep the incumbent.
func preferGroupAttr(productName, candidate, incumbent string) bool {
	prefersVolume := volumeCueRe.MatchString(productName)
	prefersWeight := weightCueRe.MatchString(productName)

	score := func(attrName string) int {
		s := 0
		if volumeRe.MatchString(attrName) {
			if prefersVolume {
				s += 3
			} else {
				s++
			}
		}
		if weightRe.MatchString(attrName) {
			if prefersWeight {
				s += 3
			} else {
				s++
			}
		}
		return s
	}

	return score(candidate) > score(incumbent)
}

// fillMandatory synthesizes values for mandatory schema attributes that are
// still absent, honoring group exclusivity. A mandatory attribute whose only
// synthesizable value is the sentinel fails the whole reconciliation.
func (r *Reconciler) fillMandatory(attrs []model.AttributeAssignment, productName string, schema model.CategorySchema) Result {
	present := make(map[string]struct{}, len(attrs))
	groupsSeen := make(map[string]struct{})
	for _, a := range attrs {
		present[a.TypeName] = struct{}{}
		if def, ok := schema.Definition(a.TypeName); ok && def.Grouped() {
			groupsSeen[def.GroupNumber] = struct{}{}
		}
	}

	for _, def := range schema.MandatoryAttributes() {
		if _, ok := present[def.TypeName]; ok {
			continue
		}
		if def.Grouped() {
			if _, ok := groupsSeen[def.GroupNumber]; ok {
				r.logger.Info("mandatory attribute skipped, group occupied",
					slog.String("attribute", def.TypeName), slog.String("group", def.GroupNumber))
				continue
			}
		}

		var value string
		if def.DataType == model.DataTypeRange {
			value = ExtractRangeValue(productName, def.TypeName, def.BasicUnit)
			if value == "" {
				value = "1"
			}
		} else {
			value = pickAllowedValue(def, productName)
			if value == "" {
				value = inferFallbackValue(inferInput{
					productName: productName,
					attrName:    def.TypeName,
					dataType:    def.DataType,
					basicUnit:   def.BasicUnit,
				})
			}
		}

		if value == Sentinel {
			return Result{
				Attributes:    attrs,
				FailureReason: fmt.Sprintf("mandatory attribute %q only resolvable to placeholder %q", def.TypeName, Sentinel),
			}
		}

		if def.DataType == model.DataTypeNumber && def.BasicUnit != "" && !strings.HasSuffix(value, def.BasicUnit) {
			value = nonNumericRe.ReplaceAllString(value, "") + def.BasicUnit
			if value == def.BasicUnit {
				value = "1" + def.BasicUnit
			}
		}

		attrs = append(attrs, model.AttributeAssignment{
			TypeName:  def.TypeName,
			ValueName: value,
			Exposed:   "EXPOSED",
		})
		r.logger.Info("mandatory attribute synthesized",
			slog.String("attribute", def.TypeName), slog.String("value", value))

		if def.Grouped() {
			groupsSeen[def.GroupNumber] = struct{}{}
		}
	}

	return Result{Attributes: attrs}
}

// pickAllowedValue selects from the schema's allowed-value enumeration:
// the heuristically inferred value when the list contains it, otherwise the
// first non-sentinel entry. A list that enumerates nothing but the sentinel
// surfaces the sentinel so the caller can fail; empty when the definition has
// no values at all.
func pickAllowedValue(def model.AttributeDefinition, productName string) string {
	if len(def.AllowedValues) == 0 {
		return ""
	}

	nonSentinel := make([]string, 0, len(def.AllowedValues))
	hasSentinel := false
	for _, v := range def.AllowedValues {
		if v == Sentinel {
			hasSentinel = true
		}
		if v != "" && v != Sentinel {
			nonSentinel = append(nonSentinel, v)
		}
	}
	if len(nonSentinel) == 0 {
		if hasSentinel {
			return Sentinel
		}
		return ""
	}

	inferred := inferFallbackValue(inferInput{
		productName: productName,
		attrName:    def.TypeName,
		dataType:    def.DataType,
		basicUnit:   def.BasicUnit,
	})
	for _, v := range nonSentinel {
		if v == inferred {
			return inferred
		}
	}

	return nonSentinel[0]
}
