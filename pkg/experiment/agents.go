package experiment

import (
	"fmt"

	"github.com/boristopalov/arena/pkg/core"
)

// AgentArg is one agent handed to Runner.Run, either unnamed or bound to a participant.
type AgentArg struct {
	name  string
	named bool
	agent core.Agent
}

// Single passes the one unnamed agent of a classic environment
func Single(a core.Agent) AgentArg {
	return AgentArg{agent: a}
}

// Named binds an agent to a participant of a multi-agent environment
func Named(name string, a core.Agent) AgentArg {
	return AgentArg{name: name, named: true, agent: a}
}

// NamedAgents converts a name to agent mapping into arguments
func NamedAgents(agents map[string]core.Agent) []AgentArg {
	args := make([]AgentArg, 0, len(agents))
	for name, a := range agents {
		args = append(args, Named(name, a))
	}
	return args
}

func (r *Runner) resolveAgents(args []AgentArg) (map[string]core.Agent, error) {
	var unnamed []core.Agent
	named := make(map[string]core.Agent)
	for _, arg := range args {
		if arg.agent == nil {
			return nil, fmt.Errorf("%w: nil agent", core.ErrInvalidArguments)
		}
		if !arg.named {
			unnamed = append(unnamed, arg.agent)
			continue
		}
		if _, dup := named[arg.name]; dup {
			return nil, fmt.Errorf("%w: agent %s given twice", core.ErrInvalidArguments, arg.name)
		}
		named[arg.name] = arg.agent
	}

	switch {
	case len(unnamed) == 1 && len(named) == 0:
		if !r.driver.single() {
			return nil, fmt.Errorf("%w: a multi-agent environment needs named agents", core.ErrInvalidArguments)
		}
		return map[string]core.Agent{SingleAgentKey: unnamed[0]}, nil
	case len(unnamed) == 0 && len(named) > 0:
		if r.driver.single() {
			return nil, fmt.Errorf("%w: a single-agent environment needs one unnamed agent", core.ErrInvalidArguments)
		}
		return named, nil
	default:
		return nil, fmt.Errorf("%w: either provide 1 unnamed agent or several named agents", core.ErrInvalidArguments)
	}
}
