package agent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/boristopalov/arena/pkg/core"
	"github.com/boristopalov/arena/pkg/log"
	"github.com/boristopalov/arena/pkg/memory"
)

const (
	ACTION_PROMPT_TEMPLATE = `%s

You are playing one participant of a turn based game. Legal actions are the integers of %s.

Your most recent transitions, oldest first:
%s

Your current observation is: %v
The reward you received for your last action is: %s

Very briefly think step by step about which action maximizes your total reward, then provide your answer. Your answer should follow the string "ANSWER" like so: ANSWER: <action>`

	DEFAULT_TASK = "Maximize your total reward over the episode."

	historyWindow = 5
)

var answerPattern = regexp.MustCompile(`ANSWER:\s*(-?\d+)`)

// Client completes a prompt with a language model
type Client interface {
	Complete(ctx context.Context, model string, prompt string) (string, error)
}

type ModelInfo struct {
	Id     string         // e.g. "gpt-4o-mini"
	Config map[string]any // model-specific configuration
}

// LLMAgent asks a language model for the action to play. Transitions are remembered
// so the model sees what happened in the previous steps of the episode.
type LLMAgent struct {
	id          string
	model       ModelInfo
	client      Client
	task        string
	actionSpace core.Space
	memory      *memory.Memory
}

type AgentParams struct {
	AgentID        string
	Model          ModelInfo
	Client         Client
	Task           string
	ActionSpace    core.Space
	MemoryCapacity int
}

type AgentOption func(*AgentParams)

func WithAgentId(id string) AgentOption {
	return func(p *AgentParams) {
		p.AgentID = id
	}
}

func WithModel(model ModelInfo) AgentOption {
	return func(p *AgentParams) {
		p.Model = model
	}
}

func WithClient(client Client) AgentOption {
	return func(p *AgentParams) {
		p.Client = client
	}
}

func WithTask(task string) AgentOption {
	return func(p *AgentParams) {
		p.Task = task
	}
}

func WithActionSpace(space core.Space) AgentOption {
	return func(p *AgentParams) {
		p.ActionSpace = space
	}
}

func WithMemoryCapacity(capacity int) AgentOption {
	return func(p *AgentParams) {
		p.MemoryCapacity = capacity
	}
}

func defaultAgentParams() *AgentParams {
	return &AgentParams{
		Model: ModelInfo{
			Id:     "gpt-4o-mini",
			Config: make(map[string]any),
		},
		Task:           DEFAULT_TASK,
		AgentID:        newAgentID(),
		MemoryCapacity: 100,
	}
}

// NewLLMAgent creates an agent; a client and an action space are required
func NewLLMAgent(opts ...AgentOption) (*LLMAgent, error) {
	params := defaultAgentParams()
	for _, opt := range opts {
		opt(params)
	}
	if params.Client == nil {
		return nil, fmt.Errorf("%w: llm agent needs a client", core.ErrInvalidArguments)
	}
	if params.ActionSpace == nil {
		return nil, fmt.Errorf("%w: llm agent needs an action space", core.ErrInvalidArguments)
	}
	return newLLMAgent(params), nil
}

func newLLMAgent(params *AgentParams) *LLMAgent {
	return &LLMAgent{
		id:          params.AgentID,
		model:       params.Model,
		client:      params.Client,
		task:        params.Task,
		actionSpace: params.ActionSpace,
		memory:      memory.NewMemory(params.MemoryCapacity),
	}
}

func (a *LLMAgent) GetID() string {
	return a.id
}

func (a *LLMAgent) GetModel() ModelInfo {
	return a.model
}

func (a *LLMAgent) GetMemory() *memory.Memory {
	return a.memory
}

// Act records the outcome and, unless the episode is over, queries the model.
func (a *LLMAgent) Act(ctx context.Context, outcome core.Outcome) (any, error) {
	history := strings.Join(a.memory.Recent(historyWindow), "\n")
	if history == "" {
		history = "None, this is the first step."
	}
	if err := a.memory.Store(describeOutcome(outcome)); err != nil {
		log.Warnf("failed to store memory for agent %s: %v", a.id, err)
	}
	if outcome.Done {
		return nil, nil
	}

	prompt := fmt.Sprintf(ACTION_PROMPT_TEMPLATE,
		a.task,
		a.actionSpace,
		history,
		outcome.Observation,
		formatReward(outcome.Reward),
	)
	response, err := a.client.Complete(ctx, a.model.Id, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}
	log.Debugf("action response for agent %s: %s", a.id, response)

	action, err := parseActionResponse(response)
	if err != nil {
		return nil, err
	}
	if !a.actionSpace.Contains(action) {
		return nil, fmt.Errorf("action %d is not in %s", action, a.actionSpace)
	}
	return action, nil
}

// Reset forgets the previous episode
func (a *LLMAgent) Reset() {
	a.memory.Reset()
}

// Copy returns an agent with the same model, client and task but an empty memory
func (a *LLMAgent) Copy() core.Agent {
	return newLLMAgent(&AgentParams{
		AgentID:        newAgentID(),
		Model:          a.model,
		Client:         a.client,
		Task:           a.task,
		ActionSpace:    a.actionSpace,
		MemoryCapacity: a.memory.Capacity(),
	})
}

func describeOutcome(o core.Outcome) string {
	return fmt.Sprintf("observation %v, reward %s, done %t", o.Observation, formatReward(o.Reward), o.Done)
}

func formatReward(r *float64) string {
	if r == nil {
		return "none yet"
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}

// parseActionResponse extracts the integer following "ANSWER:"
func parseActionResponse(response string) (int, error) {
	matches := answerPattern.FindStringSubmatch(response)
	if len(matches) < 2 {
		return 0, fmt.Errorf("could not find answer in response: %s", response)
	}
	action, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("could not parse action: %w", err)
	}
	return action, nil
}
