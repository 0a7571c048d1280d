package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/swiss/internal/engine"
	"github.com/roach88/swiss/internal/model"
)

// CountResult is the JSON payload of the count command.
type CountResult struct {
	Players int `json:"players"`
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "register <name>...",
		Short: "Register players",
		Long: `Register one or more players with a zero record.

Names need not be unique; each registration gets its own id. Names are
registered in argument order, so earlier names receive lower ids and
rank ahead on ties.

Each name is committed on its own. If one fails, the names before it stay
registered and are listed (under "registered" in JSON error details);
the names after it are not attempted.

Examples:
  swiss register "Twilight Sparkle" Fluttershy Applejack "Pinkie Pie"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withEngine(cmd, func(eng *engine.Engine, f *OutputFormatter) error {
				players := make([]model.Player, 0, len(args))
				for _, name := range args {
					p, err := eng.RegisterPlayer(cmd.Context(), name)
					if err != nil {
						if len(players) == 0 {
							return f.Fail("register player", err)
						}
						if !f.IsJSON() {
							printRegistered(f, players)
						}
						return f.FailWithDetails("register player", err, map[string]interface{}{
							"registered": players,
						})
					}
					players = append(players, p)
				}

				if f.IsJSON() {
					return f.Success(players)
				}
				printRegistered(f, players)
				return nil
			})
		},
	}
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "count",
		Short:         "Print the number of registered players",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withEngine(cmd, func(eng *engine.Engine, f *OutputFormatter) error {
				n, err := eng.CountPlayers(cmd.Context())
				if err != nil {
					return f.Fail("count players", err)
				}
				if f.IsJSON() {
					return f.Success(CountResult{Players: n})
				}
				return f.Success(n)
			})
		},
	}
}

func printRegistered(f *OutputFormatter, players []model.Player) {
	for _, p := range players {
		fmt.Fprintf(f.Writer, "Registered #%d %s\n", p.ID, p.Name)
	}
}
