package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossValidate(t *testing.T) {
	ds := churnDataset(t, 60)

	scores, err := CrossValidate(testConfig(), ds, 5)
	require.NoError(t, err)
	require.Len(t, scores, 5)

	// The outcome is a deterministic function of tenure, so every fold
	// should score well above chance.
	for i, acc := range scores {
		assert.GreaterOrEqual(t, acc, 0.75, "fold %d", i)
		assert.LessOrEqual(t, acc, 1.0, "fold %d", i)
	}
}

func TestCrossValidateDeterminism(t *testing.T) {
	ds := churnDataset(t, 60)

	first, err := CrossValidate(testConfig(), ds, 4)
	require.NoError(t, err)
	second, err := CrossValidate(testConfig(), ds, 4)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
