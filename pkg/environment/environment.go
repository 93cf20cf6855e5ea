package environment

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/boristopalov/arena/pkg/core"
	"github.com/boristopalov/arena/pkg/log"
)

// PartialEnv wraps a multi-agent environment and plays some of its participants with
// agents it owns. Callers only see, and act for, the remaining participants.
type PartialEnv struct {
	env        core.MultiAgentEnv
	agents     map[string]core.Agent
	agentNames []string
	// latest outcome of every ready delegated agent, fed back on the next Step
	agentsOutcome map[string]core.Outcome
}

// WithAgents delegates the named participants of env to the given agents.
func WithAgents(ctx context.Context, env core.MultiAgentEnv, agents map[string]core.Agent) (*PartialEnv, error) {
	return NewPartialEnv(ctx, env, agents)
}

// NewPartialEnv copies env and every agent, so the wrapper shares no state with its
// arguments, and resets the copied environment once.
func NewPartialEnv(ctx context.Context, env core.MultiAgentEnv, agents map[string]core.Agent) (*PartialEnv, error) {
	known := make(map[string]bool, len(env.AgentNames()))
	for _, name := range env.AgentNames() {
		known[name] = true
	}
	var unknown []string
	for name := range agents {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownAgents, strings.Join(unknown, ", "))
	}

	envCopy, err := env.Copy()
	if err != nil {
		return nil, fmt.Errorf("failed to copy environment: %w", err)
	}
	owned := make(map[string]core.Agent, len(agents))
	for name, a := range agents {
		owned[name] = a.Copy()
	}
	if _, err := envCopy.Reset(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset environment: %w", err)
	}

	remaining := make([]string, 0, len(env.AgentNames()))
	for _, name := range env.AgentNames() {
		if _, ok := owned[name]; !ok {
			remaining = append(remaining, name)
		}
	}

	return &PartialEnv{
		env:           envCopy,
		agents:        owned,
		agentNames:    remaining,
		agentsOutcome: make(map[string]core.Outcome),
	}, nil
}

// AgentNames returns the participants left to the caller, in the base environment's order
func (e *PartialEnv) AgentNames() []string {
	names := make([]string, len(e.agentNames))
	copy(names, e.agentNames)
	return names
}

// DelegatedNames returns the participants played internally, in the base environment's order
func (e *PartialEnv) DelegatedNames() []string {
	names := make([]string, 0, len(e.agents))
	for _, name := range e.env.AgentNames() {
		if _, ok := e.agents[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

func (e *PartialEnv) ObservationSpace() core.Space {
	return e.env.ObservationSpace()
}

func (e *PartialEnv) ActionSpace() core.Space {
	return e.env.ActionSpace()
}

func (e *PartialEnv) isDelegated(name string) bool {
	_, ok := e.agents[name]
	return ok
}

func (e *PartialEnv) cacheOutcomes(outcomes map[string]core.Outcome) {
	e.agentsOutcome = make(map[string]core.Outcome, len(e.agents))
	for name := range e.agents {
		if outcome, ok := outcomes[name]; ok {
			e.agentsOutcome[name] = outcome
		}
	}
}

// Reset resets the environment and returns the observations of the remaining participants
func (e *PartialEnv) Reset(ctx context.Context) (map[string]any, error) {
	obs, err := e.env.Reset(ctx)
	if err != nil {
		return nil, err
	}
	outcomes := core.OutcomesFromReset(obs)
	e.cacheOutcomes(outcomes)

	external := make(map[string]any, len(outcomes))
	for name, outcome := range outcomes {
		if !e.isDelegated(name) {
			external[name] = outcome.Observation
		}
	}
	return external, nil
}

// Step lets every ready delegated agent act on its latest outcome, merges in the
// caller's actions (which win on collision) and steps the environment.
func (e *PartialEnv) Step(ctx context.Context, actions map[string]any) (core.StepResult, error) {
	fullActions := make(map[string]any, len(e.agentsOutcome)+len(actions))
	for _, name := range e.DelegatedNames() {
		outcome, ok := e.agentsOutcome[name]
		if !ok {
			continue
		}
		action, err := e.agents[name].Act(ctx, outcome)
		if err != nil {
			return core.StepResult{}, fmt.Errorf("delegated agent %s failed to act: %w", name, err)
		}
		log.Debugf("delegated agent %s plays %v", name, action)
		fullActions[name] = action
	}
	for name, action := range actions {
		fullActions[name] = action
	}

	result, err := e.env.Step(ctx, fullActions)
	if err != nil {
		return core.StepResult{}, err
	}
	outcomes, done := core.FromMultiAgentStep(result)
	e.cacheOutcomes(outcomes)

	external := make(map[string]core.Outcome, len(outcomes))
	for name, outcome := range outcomes {
		if !e.isDelegated(name) {
			external[name] = outcome
		}
	}
	return core.ToMultiAgentStep(external, done), nil
}

// Copy snapshots the wrapper: the copy is built over a copy of the current environment
// and of the agents held now, not of the ones given at construction.
func (e *PartialEnv) Copy() (core.MultiAgentEnv, error) {
	return e.copyPartial(context.Background())
}

func (e *PartialEnv) copyPartial(ctx context.Context) (*PartialEnv, error) {
	return NewPartialEnv(ctx, e.env, e.agents)
}

// AsSingleAgent narrows the wrapper to the classic single-agent contract. It fails
// unless exactly one participant remains.
func (e *PartialEnv) AsSingleAgent() (*SingleAgentEnv, error) {
	return NewSingleAgentEnv(e)
}
