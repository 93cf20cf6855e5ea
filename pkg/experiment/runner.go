package experiment

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/boristopalov/arena/pkg/core"
	"github.com/boristopalov/arena/pkg/log"
)

// SingleAgentKey is the participant name used for the agent of a classic environment
const SingleAgentKey = "single_agent"

// Unbounded disables the step limit
const Unbounded = -1

// Rewards maps participant names to rewards
type Rewards map[string]float64

// Scalar returns the reward of a single-agent run
func (r Rewards) Scalar() (float64, bool) {
	v, ok := r[SingleAgentKey]
	return v, ok && len(r) == 1
}

// Names returns the participant names, sorted
func (r Rewards) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// driver hides whether the environment is classic or multi-agent. Both shapes are
// reduced to per-participant outcomes plus the overall done flag.
type driver interface {
	reset(ctx context.Context) (map[string]core.Outcome, bool, error)
	step(ctx context.Context, actions map[string]any) (map[string]core.Outcome, bool, error)
	single() bool
}

type singleDriver struct {
	env core.Env
}

func (d singleDriver) reset(ctx context.Context) (map[string]core.Outcome, bool, error) {
	obs, err := d.env.Reset(ctx)
	if err != nil {
		return nil, false, err
	}
	return map[string]core.Outcome{SingleAgentKey: core.NewOutcome(obs, nil, false, nil)}, false, nil
}

func (d singleDriver) step(ctx context.Context, actions map[string]any) (map[string]core.Outcome, bool, error) {
	outcome, err := d.env.Step(ctx, actions[SingleAgentKey])
	if err != nil {
		return nil, false, err
	}
	return map[string]core.Outcome{SingleAgentKey: outcome}, outcome.Done, nil
}

func (d singleDriver) single() bool { return true }

type multiDriver struct {
	env core.MultiAgentEnv
}

func (d multiDriver) reset(ctx context.Context) (map[string]core.Outcome, bool, error) {
	obs, err := d.env.Reset(ctx)
	if err != nil {
		return nil, false, err
	}
	return core.OutcomesFromReset(obs), false, nil
}

func (d multiDriver) step(ctx context.Context, actions map[string]any) (map[string]core.Outcome, bool, error) {
	result, err := d.env.Step(ctx, actions)
	if err != nil {
		return nil, false, err
	}
	outcomes, done := core.FromMultiAgentStep(result)
	return outcomes, done, nil
}

func (d multiDriver) single() bool { return false }

// Runner plays agents against an environment for a number of repetitions and averages
// the rewards.
type Runner struct {
	driver      driver
	repetitions int
	maxSteps    int
	logger      log.Logger
}

type RunnerParams struct {
	Repetitions int
	MaxSteps    int
	Logger      log.Logger
}

type Option func(*RunnerParams)

// WithRepetitions sets the number of episodes averaged by Run; it must be at least 1
func WithRepetitions(n int) Option {
	return func(p *RunnerParams) {
		p.Repetitions = n
	}
}

// WithMaxSteps bounds the number of steps per episode. Negative means unbounded.
func WithMaxSteps(n int) Option {
	return func(p *RunnerParams) {
		p.MaxSteps = n
	}
}

func WithLogger(l log.Logger) Option {
	return func(p *RunnerParams) {
		p.Logger = l
	}
}

// NewSingleAgentRunner runs one unnamed agent on a classic environment
func NewSingleAgentRunner(env core.Env, opts ...Option) (*Runner, error) {
	return newRunner(singleDriver{env: env}, opts)
}

// NewMultiAgentRunner runs named agents on a multi-agent environment
func NewMultiAgentRunner(env core.MultiAgentEnv, opts ...Option) (*Runner, error) {
	return newRunner(multiDriver{env: env}, opts)
}

func newRunner(d driver, opts []Option) (*Runner, error) {
	params := &RunnerParams{
		Repetitions: 1,
		MaxSteps:    Unbounded,
	}
	for _, opt := range opts {
		opt(params)
	}
	if params.Repetitions < 1 {
		return nil, fmt.Errorf("%w: repetitions must be at least 1, got %d", core.ErrInvalidArguments, params.Repetitions)
	}
	if params.Logger == nil {
		params.Logger = log.Default
	}
	return &Runner{
		driver:      d,
		repetitions: params.Repetitions,
		maxSteps:    params.MaxSteps,
		logger:      params.Logger,
	}, nil
}

func (r *Runner) Repetitions() int {
	return r.repetitions
}

func (r *Runner) MaxSteps() int {
	return r.maxSteps
}

// SingleAgent reports whether the runner drives a classic environment
func (r *Runner) SingleAgent() bool {
	return r.driver.single()
}

// Run plays Repetitions episodes and returns the mean reward of every participant.
// Pass either one Single agent or one or more Named agents.
func (r *Runner) Run(ctx context.Context, args ...AgentArg) (Rewards, error) {
	summary, err := r.RunSummary(ctx, args...)
	if err != nil {
		return nil, err
	}
	return summary.Mean, nil
}

// RunSummary is Run with per-participant spread statistics.
func (r *Runner) RunSummary(ctx context.Context, args ...AgentArg) (*Summary, error) {
	agents, err := r.resolveAgents(args)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	r.logger.Infow("starting run", "run_id", runID, "repetitions", r.repetitions, "max_steps", r.maxSteps, "agents", len(agents))

	episodes := make([]Episode, 0, r.repetitions)
	for i := 0; i < r.repetitions; i++ {
		episode, err := r.runOnce(ctx, agents)
		if err != nil {
			return nil, fmt.Errorf("repetition %d failed: %w", i+1, err)
		}
		r.logger.Debugw("episode finished", "run_id", runID, "repetition", i+1, "steps", episode.Steps, "rewards", episode.Rewards)
		episodes = append(episodes, episode)
	}

	names := make([]string, 0, len(agents))
	for name := range agents {
		names = append(names, name)
	}
	summary := summarize(names, episodes)
	summary.RunID = runID
	summary.log(r.logger)
	return summary, nil
}

// RunEpisode plays a single episode and returns the summed reward of every participant
// that received one.
func (r *Runner) RunEpisode(ctx context.Context, args ...AgentArg) (Episode, error) {
	agents, err := r.resolveAgents(args)
	if err != nil {
		return Episode{}, err
	}
	return r.runOnce(ctx, agents)
}

func (r *Runner) runOnce(ctx context.Context, agents map[string]core.Agent) (Episode, error) {
	for _, a := range agents {
		a.Reset()
	}
	outcomes, done, err := r.driver.reset(ctx)
	if err != nil {
		return Episode{}, fmt.Errorf("failed to reset environment: %w", err)
	}

	rewardSum := make(Rewards)
	step := 0
	for (r.maxSteps < 0 || step < r.maxSteps) && !done {
		if err := ctx.Err(); err != nil {
			return Episode{}, err
		}
		actions := make(map[string]any, len(outcomes))
		for _, name := range sortedNames(outcomes) {
			action, err := act(ctx, agents, name, outcomes[name])
			if err != nil {
				return Episode{}, err
			}
			actions[name] = action
		}
		outcomes, done, err = r.driver.step(ctx, actions)
		if err != nil {
			return Episode{}, fmt.Errorf("failed to step environment at step %d: %w", step, err)
		}
		for name, outcome := range outcomes {
			if outcome.Reward == nil {
				return Episode{}, fmt.Errorf("%w: participant %s at step %d", core.ErrNilReward, name, step)
			}
			rewardSum[name] += *outcome.Reward
		}
		step++
	}

	// the terminal transition is shown to every active agent, its action is dropped
	for _, name := range sortedNames(outcomes) {
		if _, err := act(ctx, agents, name, outcomes[name]); err != nil {
			return Episode{}, err
		}
	}
	return Episode{Rewards: rewardSum, Steps: step, Done: done}, nil
}

func act(ctx context.Context, agents map[string]core.Agent, name string, outcome core.Outcome) (any, error) {
	a, ok := agents[name]
	if !ok {
		return nil, fmt.Errorf("%w: no agent plays %s", core.ErrUnknownAgents, name)
	}
	action, err := a.Act(ctx, outcome)
	if err != nil {
		return nil, fmt.Errorf("agent %s failed to act: %w", name, err)
	}
	return action, nil
}

func sortedNames(outcomes map[string]core.Outcome) []string {
	names := make([]string, 0, len(outcomes))
	for name := range outcomes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
