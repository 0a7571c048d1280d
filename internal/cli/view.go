package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/swiss/internal/model"
)

// Podium colors for the top three standings.
var podium = []lipgloss.Color{"220", "250", "208"} // gold, silver, bronze

// renderStandings writes a leaderboard. Styles degrade to plain text when w
// is not a terminal.
func renderStandings(w io.Writer, standings []model.Standing) {
	if len(standings) == 0 {
		fmt.Fprintln(w, "No players registered.")
		return
	}

	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Foreground(lipgloss.Color("240"))

	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("%-5s %-6s %-24s %5s %7s %7s", "Rank", "ID", "Name", "Wins", "Losses", "Matches")))
	b.WriteString("\n")

	for i, s := range standings {
		line := fmt.Sprintf("%-5s %-6d %-24s %5d %7d %7d",
			fmt.Sprintf("#%d", i+1), s.PlayerID, s.Name, s.Wins, s.Losses(), s.Matches)

		style := r.NewStyle()
		if i < len(podium) && s.Wins > 0 {
			style = style.Foreground(podium[i])
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	fmt.Fprint(w, b.String())
}

// renderPairings writes one line per table.
func renderPairings(w io.Writer, pairings []model.Pairing) {
	if len(pairings) == 0 {
		fmt.Fprintln(w, "No pairings generated.")
		return
	}

	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true)
	vs := r.NewStyle().Foreground(lipgloss.Color("240")).Render(" vs ")

	fmt.Fprintln(w, title.Render(fmt.Sprintf("Round %d", pairings[0].Round)))
	for _, p := range pairings {
		fmt.Fprintf(w, "Table %-3d %s%s%s\n",
			p.Table,
			fmt.Sprintf("%-24s", fmt.Sprintf("%s (#%d)", p.Player1Name, p.Player1ID)),
			vs,
			fmt.Sprintf("%s (#%d)", p.Player2Name, p.Player2ID),
		)
	}
}

// renderMatches writes the ledger, one match per line.
func renderMatches(w io.Writer, matches []model.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches reported.")
		return
	}

	r := lipgloss.NewRenderer(w)
	winner := r.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)

	for _, m := range matches {
		fmt.Fprintf(w, "Match %-4d round %-3d %s beat #%d\n",
			m.ID, m.Round, winner.Render(fmt.Sprintf("#%d", m.WinnerID)), m.LoserID)
	}
}
