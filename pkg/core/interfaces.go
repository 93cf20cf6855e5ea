package core

import (
	"context"
)

// Agent is a policy acting on outcomes
type Agent interface {
	// Act returns the action to take given the latest outcome
	Act(ctx context.Context, outcome Outcome) (any, error)
	// Reset clears internal state between episodes
	Reset()
	// Copy returns a new independent agent of the same kind with default state
	Copy() Agent
}

// MultiAgentEnv is an environment with a named, possibly varying, set of participants.
// Only participants ready to act appear in the mappings returned by Step.
type MultiAgentEnv interface {
	// Reset starts a new episode and returns the initial observations
	Reset(ctx context.Context) (map[string]any, error)
	// Step applies one action per ready participant
	Step(ctx context.Context, actions map[string]any) (StepResult, error)
	// Copy returns an environment with the same configuration and no shared state
	Copy() (MultiAgentEnv, error)
	// AgentNames lists every participant, in a stable order
	AgentNames() []string
	ObservationSpace() Space
	ActionSpace() Space
}

// Env is the classic single-agent environment
type Env interface {
	Reset(ctx context.Context) (any, error)
	Step(ctx context.Context, action any) (Outcome, error)
	ObservationSpace() Space
	ActionSpace() Space
}

// UnimplementedAgent can be embedded by agents that only override part of the contract.
type UnimplementedAgent struct{}

func (UnimplementedAgent) Act(ctx context.Context, outcome Outcome) (any, error) {
	return nil, ErrNotImplemented
}

func (UnimplementedAgent) Reset() {}

// UnimplementedMultiAgentEnv can be embedded by environments under construction.
type UnimplementedMultiAgentEnv struct{}

func (UnimplementedMultiAgentEnv) Reset(ctx context.Context) (map[string]any, error) {
	return nil, ErrNotImplemented
}

func (UnimplementedMultiAgentEnv) Step(ctx context.Context, actions map[string]any) (StepResult, error) {
	return StepResult{}, ErrNotImplemented
}

func (UnimplementedMultiAgentEnv) Copy() (MultiAgentEnv, error) {
	return nil, ErrNotImplemented
}
