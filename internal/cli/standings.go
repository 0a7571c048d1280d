package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/swiss/internal/engine"
	"github.com/roach88/swiss/internal/model"
)

// NewStandingsCommand creates the standings command.
func NewStandingsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "standings",
		Short: "Print the ranked standings",
		Long: `Print every player's record, first place first.

Players are ranked by wins; equal records are ranked by registration
order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withEngine(cmd, func(eng *engine.Engine, f *OutputFormatter) error {
				standings, err := eng.Standings(cmd.Context())
				if err != nil {
					return f.Fail("read standings", err)
				}
				if f.IsJSON() {
					return f.Success(standings)
				}
				renderStandings(f.Writer, standings)
				return nil
			})
		},
	}
}

// MatchesOptions holds flags for the matches command.
type MatchesOptions struct {
	*RootOptions
	Round int
}

// NewMatchesCommand creates the matches command.
func NewMatchesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Print the match ledger in report order",
		Long: `Print every reported match, oldest first.

A match belongs to the round that was current when it was reported;
matches reported before the first pairing belong to round 0. --round
limits the ledger to one round.

Examples:
  swiss matches
  swiss matches --round 2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEngine(cmd, func(eng *engine.Engine, f *OutputFormatter) error {
				var matches []model.Match
				var err error
				if cmd.Flags().Changed("round") {
					matches, err = eng.RoundMatches(cmd.Context(), opts.Round)
				} else {
					matches, err = eng.Matches(cmd.Context())
				}
				if err != nil {
					return f.Fail("read matches", err)
				}
				if f.IsJSON() {
					return f.Success(matches)
				}
				renderMatches(f.Writer, matches)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&opts.Round, "round", 0, "only print matches of this round")

	return cmd
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify standings against players and the match ledger",
		Long: `Verify that every player has a standing and that each standing's
counters equal the totals recorded in the match ledger.

Exit codes:
  0 - Consistent
  1 - Integrity violation
  2 - Command error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withEngine(cmd, func(eng *engine.Engine, f *OutputFormatter) error {
				if err := eng.CheckIntegrity(cmd.Context()); err != nil {
					return f.Fail("check integrity", err)
				}
				if f.IsJSON() {
					return f.Success(map[string]bool{"consistent": true})
				}
				return f.Success("Standings are consistent.")
			})
		},
	}
}
