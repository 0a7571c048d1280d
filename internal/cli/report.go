package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/swiss/internal/engine"
)

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report <winner-id> <loser-id>",
		Short: "Report the result of a match",
		Long: `Record that one player beat another.

The winner's wins and both players' match counts go up by one, and the
match is appended to the ledger tagged with the current round.

Examples:
  swiss report 1 2`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			winner, err := parsePlayerID(args[0])
			if err != nil {
				return invalidArgument(rootOpts.formatter(cmd), "winner", err)
			}
			loser, err := parsePlayerID(args[1])
			if err != nil {
				return invalidArgument(rootOpts.formatter(cmd), "loser", err)
			}

			return rootOpts.withEngine(cmd, func(eng *engine.Engine, f *OutputFormatter) error {
				m, err := eng.ReportMatch(cmd.Context(), winner, loser)
				if err != nil {
					return f.Fail("report match", err)
				}
				if f.IsJSON() {
					return f.Success(m)
				}
				fmt.Fprintf(f.Writer, "Recorded match %d: #%d beat #%d (round %d)\n", m.ID, m.WinnerID, m.LoserID, m.Round)
				return nil
			})
		},
	}
}

func parsePlayerID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("player id %q is not an integer", s)
	}
	if id <= 0 {
		return 0, fmt.Errorf("player id %d must be positive", id)
	}
	return id, nil
}

// invalidArgument reports a malformed command argument the way the engine
// reports INVALID_ARGUMENT.
func invalidArgument(f *OutputFormatter, arg string, err error) error {
	return f.Fail("parse "+arg, &engine.Error{
		Code:    engine.CodeInvalidArgument,
		Message: err.Error(),
		Details: map[string]string{"argument": arg},
	})
}
