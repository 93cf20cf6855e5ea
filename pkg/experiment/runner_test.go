package experiment

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boristopalov/arena/pkg/agent"
	"github.com/boristopalov/arena/pkg/core"
	"github.com/boristopalov/arena/pkg/environment"
	"github.com/boristopalov/arena/pkg/log"
)

func newTokenGame(t *testing.T, opts ...environment.TokenGameOption) *environment.TokenGame {
	t.Helper()
	g, err := environment.NewTokenGame(opts...)
	require.NoError(t, err)
	return g
}

func TestRunnerTokenGameScenario(t *testing.T) {
	ctx := context.Background()
	game := newTokenGame(t, environment.WithRounds(1))

	t.Run("both agents named", func(t *testing.T) {
		runner, err := NewMultiAgentRunner(game, WithLogger(log.Nop()))
		require.NoError(t, err)
		rewards, err := runner.Run(ctx,
			Named("player_0", agent.NewConstantAgent(2)),
			Named("player_1", agent.NewConstantAgent(0)),
		)
		require.NoError(t, err)
		assert.Equal(t, Rewards{"player_0": 0, "player_1": 1}, rewards)
	})

	t.Run("fixed agent delegated", func(t *testing.T) {
		partial, err := environment.WithAgents(ctx, game, map[string]core.Agent{"player_1": agent.NewConstantAgent(0)})
		require.NoError(t, err)

		runner, err := NewMultiAgentRunner(partial, WithLogger(log.Nop()))
		require.NoError(t, err)
		rewards, err := runner.Run(ctx, Named("player_0", agent.NewConstantAgent(2)))
		require.NoError(t, err)
		assert.Equal(t, Rewards{"player_0": 0}, rewards)
		assert.Equal(t, []string{"player_0"}, partial.AgentNames())
	})

	t.Run("single agent", func(t *testing.T) {
		partial, err := environment.WithAgents(ctx, game, map[string]core.Agent{"player_1": agent.NewConstantAgent(0)})
		require.NoError(t, err)
		single, err := partial.AsSingleAgent()
		require.NoError(t, err)

		runner, err := NewSingleAgentRunner(single, WithLogger(log.Nop()))
		require.NoError(t, err)
		assert.True(t, runner.SingleAgent())
		rewards, err := runner.Run(ctx, Single(agent.NewConstantAgent(2)))
		require.NoError(t, err)
		value, ok := rewards.Scalar()
		require.True(t, ok)
		assert.Equal(t, 0.0, value)
	})
}

func TestRunnerRewardAveraging(t *testing.T) {
	ctx := context.Background()
	game := newTokenGame(t, environment.WithRounds(3))
	for k := 1; k <= 5; k++ {
		runner, err := NewMultiAgentRunner(game, WithRepetitions(k), WithLogger(log.Nop()))
		require.NoError(t, err)
		rewards, err := runner.Run(ctx,
			Named("player_0", agent.NewConstantAgent(0)),
			Named("player_1", agent.NewConstantAgent(1)),
		)
		require.NoError(t, err)
		assert.Equal(t, Rewards{"player_0": 3, "player_1": 0}, rewards, "k=%d", k)
	}
}

func TestRunnerStepLimit(t *testing.T) {
	ctx := context.Background()
	for _, m := range []int{0, 1, 7} {
		env := &endlessEnv{names: []string{"a"}, reward: 1}
		a := &countingAgent{action: 0}
		runner, err := NewMultiAgentRunner(env, WithMaxSteps(m), WithLogger(log.Nop()))
		require.NoError(t, err)

		episode, err := runner.RunEpisode(ctx, Named("a", a))
		require.NoError(t, err)
		assert.Equal(t, m, env.steps, "m=%d", m)
		assert.Equal(t, m, episode.Steps)
		assert.False(t, episode.Done)
		assert.Equal(t, m+1, a.acts, "m cycles plus the terminal act")
		assert.Equal(t, float64(m), episode.Rewards["a"])
	}
}

func TestRunnerTerminalAct(t *testing.T) {
	ctx := context.Background()
	env := &classicEnv{length: 3}
	a := &countingAgent{action: 0}
	runner, err := NewSingleAgentRunner(env, WithLogger(log.Nop()))
	require.NoError(t, err)

	reward, err := runner.Run(ctx, Single(a))
	require.NoError(t, err)
	assert.Equal(t, Rewards{SingleAgentKey: 3}, reward)
	assert.Equal(t, 4, a.acts)
	assert.True(t, a.last.Done)
	assert.Equal(t, 1, a.resets)
}

func TestRunnerResetsAgentsEveryRepetition(t *testing.T) {
	env := &classicEnv{length: 1}
	a := &countingAgent{action: 0}
	runner, err := NewSingleAgentRunner(env, WithRepetitions(4), WithLogger(log.Nop()))
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), Single(a))
	require.NoError(t, err)
	assert.Equal(t, 4, a.resets)
}

func TestRunnerNilReward(t *testing.T) {
	env := &endlessEnv{names: []string{"a"}, nilReward: true}
	runner, err := NewMultiAgentRunner(env, WithMaxSteps(3), WithLogger(log.Nop()))
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), Named("a", &countingAgent{}))
	assert.ErrorIs(t, err, core.ErrNilReward)
}

func TestRunnerMissingAgent(t *testing.T) {
	env := &endlessEnv{names: []string{"a", "b"}, reward: 1}
	runner, err := NewMultiAgentRunner(env, WithMaxSteps(3), WithLogger(log.Nop()))
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), Named("a", &countingAgent{}))
	assert.ErrorIs(t, err, core.ErrUnknownAgents)
}

func TestRunnerArguments(t *testing.T) {
	ctx := context.Background()
	multi, err := NewMultiAgentRunner(&endlessEnv{names: []string{"a"}}, WithMaxSteps(1), WithLogger(log.Nop()))
	require.NoError(t, err)
	single, err := NewSingleAgentRunner(&classicEnv{length: 1}, WithLogger(log.Nop()))
	require.NoError(t, err)

	cases := []struct {
		name   string
		runner *Runner
		args   []AgentArg
	}{
		{"no agents", multi, nil},
		{"no agents single", single, nil},
		{"mixed", multi, []AgentArg{Single(&countingAgent{}), Named("a", &countingAgent{})}},
		{"two unnamed", single, []AgentArg{Single(&countingAgent{}), Single(&countingAgent{})}},
		{"duplicate name", multi, []AgentArg{Named("a", &countingAgent{}), Named("a", &countingAgent{})}},
		{"nil agent", multi, []AgentArg{Named("a", nil)}},
		{"unnamed on multi-agent env", multi, []AgentArg{Single(&countingAgent{})}},
		{"named on single-agent env", single, []AgentArg{Named("a", &countingAgent{})}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := c.runner.Run(ctx, c.args...)
			assert.ErrorIs(t, err, core.ErrInvalidArguments)
		})
	}
}

func TestNewRunnerRejectsZeroRepetitions(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := NewSingleAgentRunner(&classicEnv{length: 1}, WithRepetitions(n))
		assert.ErrorIs(t, err, core.ErrInvalidArguments)
	}
	r, err := NewSingleAgentRunner(&classicEnv{length: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Repetitions())
	assert.Equal(t, Unbounded, r.MaxSteps())
}

func TestRunnerAgentError(t *testing.T) {
	a := &countingAgent{actErr: core.ErrNotImplemented}
	runner, err := NewSingleAgentRunner(&classicEnv{length: 2}, WithLogger(log.Nop()))
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), Single(a))
	assert.ErrorIs(t, err, core.ErrNotImplemented)
}

func TestRunnerContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner, err := NewMultiAgentRunner(&endlessEnv{names: []string{"a"}}, WithLogger(log.Nop()))
	require.NoError(t, err)
	_, err = runner.Run(ctx, Named("a", &countingAgent{}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSummary(t *testing.T) {
	env := &endlessEnv{names: []string{"a", "b"}, growing: true}
	runner, err := NewMultiAgentRunner(env, WithRepetitions(3), WithMaxSteps(1), WithLogger(log.Nop()))
	require.NoError(t, err)

	summary, err := runner.RunSummary(context.Background(),
		NamedAgents(map[string]core.Agent{"a": &countingAgent{}, "b": &countingAgent{}})...)
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 3, summary.Repetitions)
	assert.Equal(t, 2.0, summary.Mean["a"])
	assert.Equal(t, 1.0, summary.Min["a"])
	assert.Equal(t, 3.0, summary.Max["b"])
	assert.InDelta(t, math.Sqrt(2.0/3.0), summary.StdDev["a"], 1e-12)
	assert.Equal(t, 3, summary.TotalSteps())
	assert.Equal(t, 3, summary.Truncated())
	assert.Equal(t, []string{"a", "b"}, summary.Mean.Names())
}
