package model

// AttributeDataType is the schema-declared type of an attribute value.
type AttributeDataType string

const (
	DataTypeText   AttributeDataType = "TEXT"
	DataTypeNumber AttributeDataType = "NUMBER"
	DataTypeRange  AttributeDataType = "RANGE"
)

const (
	RequiredMandatory = "MANDATORY"
	RequiredOptional  = "OPTIONAL"
)

// GroupNone marks an attribute that belongs to no exclusivity group.
const GroupNone = "NONE"

// AttributeDefinition is one attribute in a category's schema, as returned by
// the marketplace metadata API. Read-only.
type AttributeDefinition struct {
	TypeName      string            `json:"attributeTypeName"`
	DataType      AttributeDataType `json:"dataType"`
	Required      string            `json:"required"`
	GroupNumber   string            `json:"groupNumber,omitempty"`
	BasicUnit     string            `json:"basicUnit,omitempty"`
	AllowedValues []string          `json:"allowedValues,omitempty"`
}

// Mandatory reports whether the attribute must be present for the category.
func (d AttributeDefinition) Mandatory() bool {
	return d.Required == RequiredMandatory
}

// Grouped reports whether the attribute participates in a mutual-exclusivity
// group. Attributes sharing a group number may appear at most once.
func (d AttributeDefinition) Grouped() bool {
	return d.GroupNumber != "" && d.GroupNumber != GroupNone
}

// CategorySchema is the attribute schema of one predicted category.
type CategorySchema struct {
	CategoryID   int64
	CategoryName string
	Attributes   []AttributeDefinition
}

// Definition looks up an attribute definition by type name.
func (s CategorySchema) Definition(typeName string) (AttributeDefinition, bool) {
	for _, d := range s.Attributes {
		if d.TypeName == typeName {
			return d, true
		}
	}
	return AttributeDefinition{}, false
}

// MandatoryAttributes returns the schema's mandatory attributes in schema order.
func (s CategorySchema) MandatoryAttributes() []AttributeDefinition {
	out := make([]AttributeDefinition, 0, len(s.Attributes))
	for _, d := range s.Attributes {
		if d.Mandatory() {
			out = append(out, d)
		}
	}
	return out
}
