package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductValidate(t *testing.T) {
	valid := testProduct(t)
	require.NoError(t, valid.Validate())

	noID := valid
	noID.ID = ""
	assert.Error(t, noID.Validate())

	badSource := valid
	badSource.Source = "mystery_catalog"
	assert.Error(t, badSource.Validate())

	negative := valid
	negative.Macronutrients.FatG = dec(t, "-1")
	assert.Error(t, negative.Validate())
}

func TestProductValidateLiquidNeedsVolume(t *testing.T) {
	liquid := testProduct(t)
	liquid.IsLiquid = true
	assert.Error(t, liquid.Validate())

	liquid.VolumeMlPer100g = DefaultVolumeFactor()
	assert.NoError(t, liquid.Validate())

	liquid.VolumeMlPer100g = decPtr(t, "-10")
	assert.Error(t, liquid.Validate())
}

func TestParseSource(t *testing.T) {
	source, err := ParseSource("open_food_facts")
	require.NoError(t, err)
	assert.Equal(t, SourceOpenFoodFacts, source)

	_, err = ParseSource("mystery_catalog")
	assert.Error(t, err)
}
