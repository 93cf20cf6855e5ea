package environment

import (
	"context"

	"github.com/boristopalov/arena/pkg/core"
)

// scriptedEnv returns whatever its step function produces. Copy keeps the counters,
// so tests can tell which instance a wrapper was built from.
type scriptedEnv struct {
	names  []string
	stepFn func(actions map[string]any) core.StepResult
	resets int
	steps  int
	seen   []map[string]any
}

func newScriptedEnv(stepFn func(actions map[string]any) core.StepResult, names ...string) *scriptedEnv {
	return &scriptedEnv{names: names, stepFn: stepFn}
}

func (e *scriptedEnv) Reset(ctx context.Context) (map[string]any, error) {
	e.resets++
	obs := make(map[string]any, len(e.names))
	for _, name := range e.names {
		obs[name] = "start"
	}
	return obs, nil
}

func (e *scriptedEnv) Step(ctx context.Context, actions map[string]any) (core.StepResult, error) {
	e.steps++
	e.seen = append(e.seen, actions)
	return e.stepFn(actions), nil
}

func (e *scriptedEnv) Copy() (core.MultiAgentEnv, error) {
	return &scriptedEnv{
		names:  e.names,
		stepFn: e.stepFn,
		resets: e.resets,
		steps:  e.steps,
	}, nil
}

func (e *scriptedEnv) AgentNames() []string         { return e.names }
func (e *scriptedEnv) ObservationSpace() core.Space { return core.NewDiscrete(1) }
func (e *scriptedEnv) ActionSpace() core.Space      { return core.NewDiscrete(3) }

// recordingAgent plays a fixed action and remembers every outcome it was shown.
// Copies share the log so tests can observe the copies a wrapper owns.
type recordingAgent struct {
	action any
	log    *[]core.Outcome
}

func newRecordingAgent(action any) *recordingAgent {
	return &recordingAgent{action: action, log: &[]core.Outcome{}}
}

func (a *recordingAgent) Act(ctx context.Context, outcome core.Outcome) (any, error) {
	*a.log = append(*a.log, outcome)
	return a.action, nil
}

func (a *recordingAgent) Reset() {}

func (a *recordingAgent) Copy() core.Agent {
	return &recordingAgent{action: a.action, log: a.log}
}

func rewardAll(names ...string) func(map[string]any) core.StepResult {
	return func(actions map[string]any) core.StepResult {
		r := core.StepResult{
			Observations: map[string]any{},
			Rewards:      map[string]float64{},
		}
		for _, name := range names {
			r.Observations[name] = "next"
			r.Rewards[name] = 1
		}
		return r
	}
}
