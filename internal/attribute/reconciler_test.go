package attribute_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/lister/internal/attribute"
	"github.com/openclaw/lister/internal/model"
)

func newReconciler() *attribute.Reconciler {
	return attribute.NewReconciler(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestReconciler_Reconcile(t *testing.T) {
	r := newReconciler()

	t.Run("Should replace sentinel with an allowed value matched from the product name", func(t *testing.T) {
		schema := model.CategorySchema{Attributes: []model.AttributeDefinition{
			{TypeName: "색상", DataType: model.DataTypeText, Required: model.RequiredMandatory, AllowedValues: []string{"블랙", "블루"}},
		}}
		existing := []model.AttributeAssignment{{TypeName: "색상", ValueName: attribute.Sentinel, Exposed: "EXPOSED"}}

		res := r.Reconcile(existing, "스텐 텀블러 블루", schema)

		require.False(t, res.Failed())
		require.Len(t, res.Attributes, 1)
		assert.Equal(t, "블루", res.Attributes[0].ValueName)
	})

	t.Run("Should append the base unit to bare NUMBER values", func(t *testing.T) {
		schema := model.CategorySchema{Attributes: []model.AttributeDefinition{
			{TypeName: "용량", DataType: model.DataTypeNumber, Required: model.RequiredMandatory, BasicUnit: "ml"},
		}}
		existing := []model.AttributeAssignment{{TypeName: "용량", ValueName: "500", Exposed: "EXPOSED"}}

		res := r.Reconcile(existing, "보온 텀블러", schema)

		require.False(t, res.Failed())
		require.Len(t, res.Attributes, 1)
		assert.Equal(t, "500ml", res.Attributes[0].ValueName)
	})

	t.Run("Should correct a NUMBER value that disagrees with the product name", func(t *testing.T) {
		schema := model.CategorySchema{Attributes: []model.AttributeDefinition{
			{TypeName: "용량", DataType: model.DataTypeNumber, Required: model.RequiredMandatory, BasicUnit: "ml"},
		}}
		existing := []model.AttributeAssignment{{TypeName: "용량", ValueName: "350ml", Exposed: "EXPOSED"}}

		res := r.Reconcile(existing, "스텐 텀블러 500ml", schema)

		require.Len(t, res.Attributes, 1)
		assert.Equal(t, "500ml", res.Attributes[0].ValueName)
	})

	t.Run("Should keep one attribute per exclusivity group, favoring the product name's unit cue", func(t *testing.T) {
		schema := model.CategorySchema{Attributes: []model.AttributeDefinition{
			{TypeName: "용량", DataType: model.DataTypeNumber, Required: model.RequiredMandatory, GroupNumber: "1", BasicUnit: "ml"},
			{TypeName: "중량", DataType: model.DataTypeNumber, Required: model.RequiredMandatory, GroupNumber: "1", BasicUnit: "g"},
		}}
		existing := []model.AttributeAssignment{
			{TypeName: "용량", ValueName: "500ml", Exposed: "EXPOSED"},
			{TypeName: "중량", ValueName: "200g", Exposed: "EXPOSED"},
		}

		res := r.Reconcile(existing, "생수 500ml", schema)

		require.False(t, res.Failed())
		require.Len(t, res.Attributes, 1)
		assert.Equal(t, "용량", res.Attributes[0].TypeName)
	})

	t.Run("Should synthesize a missing mandatory NUMBER attribute from the product name", func(t *testing.T) {
		schema := model.CategorySchema{Attributes: []model.AttributeDefinition{
			{TypeName: "용량", DataType: model.DataTypeNumber, Required: model.RequiredMandatory, BasicUnit: "ml"},
		}}

		res := r.Reconcile(nil, "스텐 텀블러 500ml", schema)

		require.False(t, res.Failed())
		require.Len(t, res.Attributes, 1)
		assert.Equal(t, "용량", res.Attributes[0].TypeName)
		assert.Equal(t, "500ml", res.Attributes[0].ValueName)
		assert.Equal(t, "EXPOSED", res.Attributes[0].Exposed)
	})

	t.Run("Should synthesize a RANGE attribute converted to the base unit", func(t *testing.T) {
		schema := model.CategorySchema{Attributes: []model.AttributeDefinition{
			{TypeName: "중량", DataType: model.DataTypeRange, Required: model.RequiredMandatory, BasicUnit: "g"},
		}}

		res := r.Reconcile(nil, "쌀 2kg 소포장", schema)

		require.Len(t, res.Attributes, 1)
		assert.Equal(t, "2000", res.Attributes[0].ValueName)
	})

	t.Run("Should fall back to the detail-page placeholder for unclaimed mandatory text", func(t *testing.T) {
		schema := model.CategorySchema{Attributes: []model.AttributeDefinition{
			{TypeName: "구성품", DataType: model.DataTypeText, Required: model.RequiredMandatory},
		}}

		res := r.Reconcile(nil, "연필깎이", schema)

		require.Len(t, res.Attributes, 1)
		assert.Equal(t, "상세페이지 참조", res.Attributes[0].ValueName)
	})

	t.Run("Should replace an existing sentinel even when the enumeration offers only the placeholder", func(t *testing.T) {
		schema := model.CategorySchema{Attributes: []model.AttributeDefinition{
			{TypeName: "타입", DataType: model.DataTypeText, Required: model.RequiredMandatory, AllowedValues: []string{attribute.Sentinel}},
		}}
		existing := []model.AttributeAssignment{{TypeName: "타입", ValueName: attribute.Sentinel, Exposed: "EXPOSED"}}

		res := r.Reconcile(existing, "연필깎이", schema)

		require.False(t, res.Failed())
		require.Len(t, res.Attributes, 1)
		assert.Equal(t, "상세페이지 참조", res.Attributes[0].ValueName)
	})

	t.Run("Should fail when a mandatory attribute enumerates only the placeholder", func(t *testing.T) {
		schema := model.CategorySchema{Attributes: []model.AttributeDefinition{
			{TypeName: "타입", DataType: model.DataTypeText, Required: model.RequiredMandatory, AllowedValues: []string{attribute.Sentinel}},
		}}

		res := r.Reconcile(nil, "연필깎이", schema)

		assert.True(t, res.Failed())
		assert.Contains(t, res.FailureReason, "타입")
	})

	t.Run("Should not synthesize a mandatory attribute whose group is already occupied", func(t *testing.T) {
		schema := model.CategorySchema{Attributes: []model.AttributeDefinition{
			{TypeName: "용량", DataType: model.DataTypeNumber, Required: model.RequiredMandatory, GroupNumber: "2", BasicUnit: "ml"},
			{TypeName: "중량", DataType: model.DataTypeNumber, Required: model.RequiredMandatory, GroupNumber: "2", BasicUnit: "g"},
		}}
		existing := []model.AttributeAssignment{{TypeName: "용량", ValueName: "500ml", Exposed: "EXPOSED"}}

		res := r.Reconcile(existing, "텀블러 500ml", schema)

		require.False(t, res.Failed())
		require.Len(t, res.Attributes, 1)
		assert.Equal(t, "용량", res.Attributes[0].TypeName)
	})

	t.Run("Should be idempotent", func(t *testing.T) {
		schema := model.CategorySchema{Attributes: []model.AttributeDefinition{
			{TypeName: "용량", DataType: model.DataTypeNumber, Required: model.RequiredMandatory, BasicUnit: "ml"},
			{TypeName: "색상", DataType: model.DataTypeText, Required: model.RequiredMandatory, AllowedValues: []string{"블랙", "블루"}},
		}}

		first := r.Reconcile(nil, "스텐 텀블러 500ml 블루", schema)
		require.False(t, first.Failed())

		second := r.Reconcile(first.Attributes, "스텐 텀블러 500ml 블루", schema)
		assert.Equal(t, first.Attributes, second.Attributes)
	})
}

func TestMatchColorKeyword(t *testing.T) {
	t.Run("Should prefer compound colors over their suffixes", func(t *testing.T) {
		assert.Equal(t, "다크그레이", attribute.MatchColorKeyword("머그컵 다크그레이 2P"))
	})

	t.Run("Should return empty when no keyword is present", func(t *testing.T) {
		assert.Equal(t, "", attribute.MatchColorKeyword("머그컵 2P"))
	})
}
