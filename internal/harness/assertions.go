package harness

import (
	"context"
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Executed steps for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nSteps:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s", event.Step, event.Op)
		if event.Args != nil {
			fmt.Fprintf(&buf, " %v", event.Args)
		}
		fmt.Fprintf(&buf, " -> %s\n", event.Outcome)
	}

	return buf.String()
}

// evaluateAssertions runs every assertion and collects the failures.
func (h *Harness) evaluateAssertions(ctx context.Context, assertions []Assertion, trace []TraceEvent) []error {
	var errs []error
	for _, a := range assertions {
		if err := h.evaluate(ctx, a, trace); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (h *Harness) evaluate(ctx context.Context, a Assertion, trace []TraceEvent) error {
	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Expected: expected, Actual: actual, Trace: trace}
	}

	switch a.Type {
	case AssertPlayerCount:
		n, err := h.engine.CountPlayers(ctx)
		if err != nil {
			return fail(fmt.Sprintf("%d players", a.Count), err.Error())
		}
		if n != a.Count {
			return fail(fmt.Sprintf("%d players", a.Count), fmt.Sprintf("%d players", n))
		}

	case AssertStandings:
		standings, err := h.engine.Standings(ctx)
		if err != nil {
			return fail(formatStandings(a.Standings), err.Error())
		}
		got := make([]StandingExpect, 0, len(standings))
		for _, s := range standings {
			got = append(got, StandingExpect{Name: s.Name, Wins: s.Wins, Matches: s.Matches})
		}
		if formatStandings(got) != formatStandings(a.Standings) {
			return fail(formatStandings(a.Standings), formatStandings(got))
		}

	case AssertPairings:
		pairs, err := h.engine.Pairings(ctx, a.Round)
		if err != nil {
			return fail(formatPairings(a.Pairings), err.Error())
		}
		got := make([][2]string, 0, len(pairs))
		for _, p := range pairs {
			got = append(got, [2]string{p.Player1Name, p.Player2Name})
		}
		if formatPairings(got) != formatPairings(a.Pairings) {
			return fail(formatPairings(a.Pairings), formatPairings(got))
		}

	case AssertWinsTotal:
		standings, err := h.engine.Standings(ctx)
		if err != nil {
			return fail(fmt.Sprintf("%d wins", a.Count), err.Error())
		}
		matches, err := h.engine.Matches(ctx)
		if err != nil {
			return fail(fmt.Sprintf("%d wins", a.Count), err.Error())
		}
		wins := 0
		for _, s := range standings {
			wins += s.Wins
		}
		if wins != a.Count || len(matches) != a.Count {
			return fail(
				fmt.Sprintf("%d wins over %d matches", a.Count, a.Count),
				fmt.Sprintf("%d wins over %d matches", wins, len(matches)),
			)
		}

	case AssertIntegrity:
		if err := h.engine.CheckIntegrity(ctx); err != nil {
			return fail("consistent standings", err.Error())
		}

	default:
		return fail("known assertion type", fmt.Sprintf("unknown type %q", a.Type))
	}

	return nil
}

func formatStandings(rows []StandingExpect) string {
	parts := make([]string, 0, len(rows))
	for _, r := range rows {
		parts = append(parts, fmt.Sprintf("%s %d/%d", r.Name, r.Wins, r.Matches))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatPairings(pairs [][2]string) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p[0]+" vs "+p[1])
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
