package environment

import (
	"context"
	"fmt"

	"github.com/boristopalov/arena/pkg/core"
)

// SingleAgentEnv exposes a PartialEnv with one remaining participant as a classic
// environment.
type SingleAgentEnv struct {
	env       *PartialEnv
	agentName string
}

func NewSingleAgentEnv(env *PartialEnv) (*SingleAgentEnv, error) {
	names := env.AgentNames()
	if len(names) != 1 {
		return nil, fmt.Errorf("%w: %d remaining (%v)", core.ErrAgentCount, len(names), names)
	}
	return &SingleAgentEnv{
		env:       env,
		agentName: names[0],
	}, nil
}

// AgentName returns the participant played through this environment
func (e *SingleAgentEnv) AgentName() string {
	return e.agentName
}

func (e *SingleAgentEnv) ObservationSpace() core.Space {
	return e.env.ObservationSpace()
}

func (e *SingleAgentEnv) ActionSpace() core.Space {
	return e.env.ActionSpace()
}

func (e *SingleAgentEnv) Reset(ctx context.Context) (any, error) {
	obs, err := e.env.Reset(ctx)
	if err != nil {
		return nil, err
	}
	o, ok := obs[e.agentName]
	if !ok {
		return nil, fmt.Errorf("%w: %s missing from reset", core.ErrAgentNotReady, e.agentName)
	}
	return o, nil
}

// Step plays action for the remaining participant. The returned outcome is done when
// either the participant or the whole episode is done.
func (e *SingleAgentEnv) Step(ctx context.Context, action any) (core.Outcome, error) {
	result, err := e.env.Step(ctx, map[string]any{e.agentName: action})
	if err != nil {
		return core.Outcome{}, err
	}
	outcomes, allDone := core.FromMultiAgentStep(result)
	outcome, ok := outcomes[e.agentName]
	if !ok {
		return core.Outcome{}, fmt.Errorf("%w: %s missing from step", core.ErrAgentNotReady, e.agentName)
	}
	outcome.Done = outcome.Done || allDone
	return outcome, nil
}

func (e *SingleAgentEnv) Copy() (*SingleAgentEnv, error) {
	env, err := e.env.copyPartial(context.Background())
	if err != nil {
		return nil, err
	}
	return NewSingleAgentEnv(env)
}
