package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/swiss/internal/engine"
	"github.com/roach88/swiss/internal/model"
)

// PairingsOptions holds flags for the pairings command.
type PairingsOptions struct {
	*RootOptions
	Round  int
	Player int64
}

// NewPairCommand creates the pair command.
func NewPairCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pair",
		Short: "Generate the next round of pairings",
		Long: `Pair players with adjacent ranks for the next round.

The roster must be non-empty and even. The first and second ranked
players meet at table 1, the third and fourth at table 2, and so on.

Exit codes:
  0 - Round generated
  1 - Roster cannot be paired
  2 - Command error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withEngine(cmd, func(eng *engine.Engine, f *OutputFormatter) error {
				pairs, err := eng.GeneratePairings(cmd.Context())
				if err != nil {
					return f.Fail("generate pairings", err)
				}
				if f.IsJSON() {
					return f.Success(pairs)
				}
				renderPairings(f.Writer, pairs)
				return nil
			})
		},
	}
}

// NewPairingsCommand creates the pairings command.
func NewPairingsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PairingsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "pairings",
		Short: "Print the pairings of a generated round",
		Long: `Print a stored round without generating a new one.

With --player, only the table that player sits at is printed.

Examples:
  swiss pairings
  swiss pairings --round 1
  swiss pairings --player 3`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEngine(cmd, func(eng *engine.Engine, f *OutputFormatter) error {
				pairs, err := eng.Pairings(cmd.Context(), opts.Round)
				if err != nil {
					return f.Fail("read pairings", err)
				}
				if opts.Player > 0 {
					pairs = tablesOf(pairs, opts.Player)
				}
				if f.IsJSON() {
					return f.Success(pairs)
				}
				if opts.Player > 0 && len(pairs) == 0 {
					fmt.Fprintf(f.Writer, "Player #%d has no table.\n", opts.Player)
					return nil
				}
				renderPairings(f.Writer, pairs)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&opts.Round, "round", 0, "round to print (0 = latest)")
	cmd.Flags().Int64Var(&opts.Player, "player", 0, "only print the table of this player id")

	return cmd
}

// tablesOf keeps the pairings that seat the given player.
func tablesOf(pairs []model.Pairing, playerID int64) []model.Pairing {
	seated := []model.Pairing{}
	for _, p := range pairs {
		if p.Involves(playerID) {
			seated = append(seated, p)
		}
	}
	return seated
}
