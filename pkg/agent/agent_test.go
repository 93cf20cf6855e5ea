package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boristopalov/arena/pkg/core"
)

func TestRandomAgent(t *testing.T) {
	ctx := context.Background()
	space := core.NewDiscrete(3)
	a := NewRandomAgent(space, 42)
	assert.True(t, strings.HasPrefix(a.GetID(), "agent-"))

	var first []any
	for i := 0; i < 20; i++ {
		action, err := a.Act(ctx, core.Outcome{})
		require.NoError(t, err)
		assert.True(t, space.Contains(action))
		first = append(first, action)
	}

	t.Run("copy replays from the seed", func(t *testing.T) {
		c := a.Copy()
		assert.NotSame(t, a, c)
		for i := 0; i < 20; i++ {
			action, err := c.Act(ctx, core.Outcome{})
			require.NoError(t, err)
			assert.Equal(t, first[i], action)
		}
	})
}

func TestConstantAgent(t *testing.T) {
	a := NewConstantAgent(2)
	action, err := a.Act(context.Background(), core.NewOutcome(0, nil, false, nil))
	require.NoError(t, err)
	assert.Equal(t, 2, action)

	c := a.Copy().(*ConstantAgent)
	assert.NotEqual(t, a.GetID(), c.GetID())
	action, err = c.Act(context.Background(), core.Outcome{})
	require.NoError(t, err)
	assert.Equal(t, 2, action)
}
