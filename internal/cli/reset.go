package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/swiss/internal/engine"
)

// ResetOptions holds flags for the reset command.
type ResetOptions struct {
	*RootOptions
	Matches bool
	Players bool
}

// ResetResult reports which parts of the tournament were cleared.
type ResetResult struct {
	Matches bool `json:"matches"`
	Players bool `json:"players"`
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete matches, players, or both",
		Long: `Delete tournament records.

--matches removes every reported match and generated round; players and
their standings stay. --players removes every player as well. With
neither flag, both are reset.

Examples:
  swiss reset --matches
  swiss reset`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Matches, "matches", false, "delete matches and pairings")
	cmd.Flags().BoolVar(&opts.Players, "players", false, "delete players and standings")

	return cmd
}

func runReset(opts *ResetOptions, cmd *cobra.Command) error {
	res := ResetResult{Matches: opts.Matches, Players: opts.Players}
	if !res.Matches && !res.Players {
		res = ResetResult{Matches: true, Players: true}
	}

	return opts.withEngine(cmd, func(eng *engine.Engine, f *OutputFormatter) error {
		ctx := cmd.Context()
		if res.Matches {
			if err := eng.ResetMatches(ctx); err != nil {
				return f.Fail("reset matches", err)
			}
			f.VerboseLog("matches deleted")
		}
		if res.Players {
			if err := eng.ResetPlayers(ctx); err != nil {
				return f.Fail("reset players", err)
			}
			f.VerboseLog("players deleted")
		}

		if f.IsJSON() {
			return f.Success(res)
		}
		switch {
		case res.Matches && res.Players:
			return f.Success("Matches and players deleted.")
		case res.Players:
			return f.Success("Players deleted.")
		default:
			return f.Success("Matches deleted.")
		}
	})
}
