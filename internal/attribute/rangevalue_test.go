package attribute_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openclaw/lister/internal/attribute"
)

func TestExtractRangeValue(t *testing.T) {
	t.Run("Should extract value in the target unit", func(t *testing.T) {
		assert.Equal(t, "500", attribute.ExtractRangeValue("스텐 텀블러 500ml 블루", "용량", "ml"))
	})

	t.Run("Should convert litres to millilitres", func(t *testing.T) {
		assert.Equal(t, "1500", attribute.ExtractRangeValue("생수 1.5l 묶음", "용량", "ml"))
	})

	t.Run("Should convert kilograms to grams", func(t *testing.T) {
		assert.Equal(t, "2000", attribute.ExtractRangeValue("쌀 2kg 소포장", "중량", "g"))
	})

	t.Run("Should convert centimetres to millimetres", func(t *testing.T) {
		assert.Equal(t, "250", attribute.ExtractRangeValue("자 25cm", "길이", "mm"))
	})

	t.Run("Should count piece units", func(t *testing.T) {
		assert.Equal(t, "30", attribute.ExtractRangeValue("물티슈 30매 캡형", "수량", "개"))
	})

	t.Run("Should use the unit hint from the attribute name", func(t *testing.T) {
		assert.Equal(t, "25", attribute.ExtractRangeValue("자 25cm", "길이(cm)", ""))
	})

	t.Run("Should return the raw number when no target unit applies", func(t *testing.T) {
		assert.Equal(t, "500", attribute.ExtractRangeValue("텀블러 500ml", "용량", ""))
	})

	t.Run("Should return empty when nothing matches", func(t *testing.T) {
		assert.Equal(t, "", attribute.ExtractRangeValue("보온 텀블러", "용량", "ml"))
	})

	t.Run("Should match milliamp hours", func(t *testing.T) {
		assert.Equal(t, "10000", attribute.ExtractRangeValue("보조배터리 10000mAh", "용량", "mah"))
	})
}
