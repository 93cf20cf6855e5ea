package experiment

import (
	"context"

	"github.com/boristopalov/arena/pkg/core"
)

// endlessEnv never terminates and rewards every participant with its reward each step.
// Each reset bumps the reward so episodes differ.
type endlessEnv struct {
	core.UnimplementedMultiAgentEnv
	names     []string
	nilReward bool
	growing   bool
	reward    float64
	resets    int
	steps     int
}

func (e *endlessEnv) Reset(ctx context.Context) (map[string]any, error) {
	e.resets++
	if e.growing {
		e.reward = float64(e.resets)
	}
	obs := make(map[string]any, len(e.names))
	for _, name := range e.names {
		obs[name] = 0
	}
	return obs, nil
}

func (e *endlessEnv) Step(ctx context.Context, actions map[string]any) (core.StepResult, error) {
	e.steps++
	r := core.StepResult{Observations: map[string]any{}, Rewards: map[string]float64{}}
	for _, name := range e.names {
		r.Observations[name] = e.steps
		if !e.nilReward {
			r.Rewards[name] = e.reward
		}
	}
	return r, nil
}

func (e *endlessEnv) AgentNames() []string         { return e.names }
func (e *endlessEnv) ObservationSpace() core.Space { return core.NewDiscrete(1) }
func (e *endlessEnv) ActionSpace() core.Space      { return core.NewDiscrete(1) }

// countingAgent counts the calls it receives
type countingAgent struct {
	action any
	acts   int
	resets int
	last   core.Outcome
	actErr error
}

func (a *countingAgent) Act(ctx context.Context, outcome core.Outcome) (any, error) {
	a.acts++
	a.last = outcome
	return a.action, a.actErr
}

func (a *countingAgent) Reset() { a.resets++ }

func (a *countingAgent) Copy() core.Agent { return &countingAgent{action: a.action} }

// classicEnv is a single-agent environment ending after a number of steps with a
// reward of 1 per step.
type classicEnv struct {
	length int
	step   int
}

func (e *classicEnv) Reset(ctx context.Context) (any, error) {
	e.step = 0
	return e.step, nil
}

func (e *classicEnv) Step(ctx context.Context, action any) (core.Outcome, error) {
	e.step++
	return core.NewOutcome(e.step, core.Reward(1), e.step >= e.length, nil), nil
}

func (e *classicEnv) ObservationSpace() core.Space { return core.NewDiscrete(e.length + 1) }
func (e *classicEnv) ActionSpace() core.Space      { return core.NewDiscrete(1) }
