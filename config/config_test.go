package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMatchesDocumentedValues(t *testing.T) {
	assert := assert.New(t)
	c := Default()
	assert.Equal(1.0, c.StepMultiplier)
	assert.Equal(5e-6, c.ZeroFindingAccuracyFt)
	assert.Equal(50.0, c.MinimumVelocityFps)
	assert.Equal(-15000.0, c.MaximumDropFt)
	assert.Equal(-1500.0, c.MinimumAltitudeFt)
	assert.Equal(-32.17405, c.GravityFtS2)
	assert.Equal(50, c.MaxIterations)
	assert.Equal(1e-5, c.SeparateRowTimeDeltaS)
	assert.Equal(9e9, c.MaxIntegrationRangeFt)
	assert.Equal(0.5, c.DefaultTimeStep)
}
