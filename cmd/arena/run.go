package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/boristopalov/arena/pkg/agent"
	"github.com/boristopalov/arena/pkg/config"
	"github.com/boristopalov/arena/pkg/core"
	"github.com/boristopalov/arena/pkg/environment"
	"github.com/boristopalov/arena/pkg/experiment"
	"github.com/boristopalov/arena/pkg/log"
	"github.com/boristopalov/arena/pkg/providers"
)

type runFlags struct {
	configPath  string
	repetitions int
	maxSteps    int
	rounds      int
	players     int
}

func newRunCmd() *cobra.Command {
	flags := &runFlags{}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured agents on the token game and print their mean rewards",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			cfg, err := config.LoadConfig(flags.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, flags, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			log.Configure(cfg.Logging.Level, cfg.Logging.Format)
			return runExperiment(ctx, cfg, cmd.OutOrStdout())
		},
	}
	runCmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to a YAML config file")
	runCmd.Flags().IntVarP(&flags.repetitions, "repetitions", "n", 1, "number of episodes to average")
	runCmd.Flags().IntVar(&flags.maxSteps, "max-steps", experiment.Unbounded, "step limit per episode, negative for none")
	runCmd.Flags().IntVar(&flags.rounds, "rounds", 10, "rounds per episode of the token game")
	runCmd.Flags().IntVar(&flags.players, "players", 2, "number of players of the token game")
	return runCmd
}

// applyFlags lets explicitly set flags win over the config file
func applyFlags(cmd *cobra.Command, flags *runFlags, cfg *config.ExperimentConfig) {
	if cmd.Flags().Changed("repetitions") {
		cfg.Runner.Repetitions = flags.repetitions
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.Runner.MaxSteps = flags.maxSteps
	}
	if cmd.Flags().Changed("rounds") {
		cfg.Environment.Rounds = flags.rounds
	}
	if cmd.Flags().Changed("players") {
		cfg.Environment.Players = flags.players
	}
}

func runExperiment(ctx context.Context, cfg *config.ExperimentConfig, out io.Writer) error {
	game, err := environment.NewTokenGame(
		environment.WithRounds(cfg.Environment.Rounds),
		environment.WithPlayers(cfg.Environment.Players),
	)
	if err != nil {
		return err
	}

	agentConfigs := cfg.Agents
	if len(agentConfigs) == 0 {
		for _, name := range game.AgentNames() {
			agentConfigs = append(agentConfigs, config.AgentConfig{Name: name, Type: config.AgentRandom})
		}
	}

	delegated := make(map[string]core.Agent)
	external := make(map[string]core.Agent)
	for _, ac := range agentConfigs {
		a, err := buildAgent(ctx, ac, cfg.Provider, game.ActionSpace())
		if err != nil {
			return fmt.Errorf("failed to create agent %s: %w", ac.Name, err)
		}
		if ac.Delegate {
			delegated[ac.Name] = a
		} else {
			external[ac.Name] = a
		}
		log.Infof("Created %s agent for %s", ac.Type, ac.Name)
	}

	opts := []experiment.Option{
		experiment.WithRepetitions(cfg.Runner.Repetitions),
		experiment.WithMaxSteps(cfg.Runner.MaxSteps),
	}

	var env core.MultiAgentEnv = game
	if len(delegated) > 0 {
		partial, err := environment.WithAgents(ctx, game, delegated)
		if err != nil {
			return err
		}
		if names := partial.AgentNames(); len(names) == 1 && len(external) == 1 {
			single, err := partial.AsSingleAgent()
			if err != nil {
				return err
			}
			a, ok := external[single.AgentName()]
			if !ok {
				return fmt.Errorf("%w: no agent plays %s", core.ErrUnknownAgents, single.AgentName())
			}
			runner, err := experiment.NewSingleAgentRunner(single, opts...)
			if err != nil {
				return err
			}
			rewards, err := runner.Run(ctx, experiment.Single(a))
			if err != nil {
				return err
			}
			value, _ := rewards.Scalar()
			fmt.Fprintf(out, "%s\t%.4f\n", single.AgentName(), value)
			return nil
		}
		env = partial
	}

	runner, err := experiment.NewMultiAgentRunner(env, opts...)
	if err != nil {
		return err
	}
	rewards, err := runner.Run(ctx, experiment.NamedAgents(external)...)
	if err != nil {
		return err
	}
	for _, name := range rewards.Names() {
		fmt.Fprintf(out, "%s\t%.4f\n", name, rewards[name])
	}
	return nil
}

func buildAgent(ctx context.Context, ac config.AgentConfig, pc config.ProviderConfig, space core.Space) (core.Agent, error) {
	switch ac.Type {
	case config.AgentRandom:
		return agent.NewRandomAgent(space, ac.Seed), nil
	case config.AgentConstant:
		if !space.Contains(ac.Action) {
			return nil, fmt.Errorf("action %d is not in %s", ac.Action, space)
		}
		return agent.NewConstantAgent(ac.Action), nil
	case config.AgentLLM:
		var opts []providers.ProviderOption
		if pc.BaseURL != "" {
			opts = append(opts, providers.WithBaseURL(pc.BaseURL))
		}
		if pc.APIKey != "" {
			opts = append(opts, providers.WithAPIKey(pc.APIKey))
		}
		client, err := providers.New(ctx, pc.Name, opts...)
		if err != nil {
			return nil, err
		}
		agentOpts := []agent.AgentOption{
			agent.WithClient(client),
			agent.WithModel(agent.ModelInfo{Id: pc.Model, Config: make(map[string]any)}),
			agent.WithActionSpace(space),
		}
		if ac.Task != "" {
			agentOpts = append(agentOpts, agent.WithTask(ac.Task))
		}
		return agent.NewLLMAgent(agentOpts...)
	default:
		return nil, fmt.Errorf("unknown agent type %q", ac.Type)
	}
}
