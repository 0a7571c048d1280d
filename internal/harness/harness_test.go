package harness

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, doc string) *Scenario {
	t.Helper()
	s, err := ParseScenario("inline.yaml", []byte(doc))
	require.NoError(t, err)
	return s
}

func TestLoadScenario_Fixtures(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "two_rounds.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "two_rounds", s.Name)
	require.Len(t, s.Steps, 5)
	assert.Equal(t, OpRegister, s.Steps[0].Op())
	assert.Equal(t, OpPair, s.Steps[1].Op())
	assert.Equal(t, &ReportStep{Winner: "Twilight Sparkle", Loser: "Fluttershy"}, s.Steps[2].Report)
	require.Len(t, s.Assertions, 6)
	assert.Equal(t, [2]string{"Twilight Sparkle", "Applejack"}, s.Assertions[3].Pairings[0])
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "unknown top-level key",
			doc:  "name: x\nsteps:\n  - pair: {}\nassertion: []\n",
		},
		{
			name: "unknown step key",
			doc:  "name: x\nsteps:\n  - shuffle: true\n",
		},
		{
			name: "no steps",
			doc:  "name: x\nsteps: []\n",
		},
		{
			name: "bad error code",
			doc:  "name: x\nsteps:\n  - pair: {}\n    expect_error: ODD\n",
		},
		{
			name: "report without loser",
			doc:  "name: x\nsteps:\n  - report: {winner: Alice}\n",
		},
		{
			name: "name with spaces",
			doc:  "name: two rounds\nsteps:\n  - pair: {}\n",
		},
		{
			name: "two actions in one step",
			doc:  "name: x\nsteps:\n  - pair: {}\n    reset_matches: true\n",
		},
		{
			name: "unknown assertion type",
			doc:  "name: x\nsteps:\n  - pair: {}\nassertions:\n  - type: champion\n",
		},
		{
			name: "standings assertion without rows",
			doc:  "name: x\nsteps:\n  - pair: {}\nassertions:\n  - type: standings\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario("inline.yaml", []byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
		})
	}
}

func TestRun_TwoRounds(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "two_rounds.yaml"))
	require.NoError(t, err)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Trace, 5)
	for _, event := range result.Trace {
		assert.Equal(t, OutcomeOK, event.Outcome)
	}
}

func TestRun_ExpectedErrorPasses(t *testing.T) {
	s := parse(t, `
name: odd
steps:
  - register: [A, B, C]
  - pair: {}
    expect_error: INVALID_STATE
assertions:
  - type: pairings
    pairings: []
`)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "INVALID_STATE", result.Trace[1].Outcome)
	assert.Nil(t, result.Trace[1].Result)
}

func TestRun_UnexpectedErrorFails(t *testing.T) {
	s := parse(t, `
name: odd
steps:
  - register: [A, B, C]
  - pair: {}
`)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "step 2 (pair): unexpected error")
}

func TestRun_MissingExpectedErrorFails(t *testing.T) {
	s := parse(t, `
name: even
steps:
  - register: [A, B]
  - pair: {}
    expect_error: INVALID_STATE
`)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected error INVALID_STATE, got ok")
}

func TestRun_EmptyNameIsInvalidArgument(t *testing.T) {
	s := parse(t, `
name: blank
steps:
  - register: [A, "  "]
    expect_error: INVALID_ARGUMENT
assertions:
  - type: player_count
    count: 1
`)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_NameResolution(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown",
			doc:  "name: x\nsteps:\n  - register: [A, B]\n  - report: {winner: A, loser: Zed}\n",
			want: `unknown player "Zed"`,
		},
		{
			name: "ambiguous",
			doc:  "name: x\nsteps:\n  - register: [A, A, B]\n  - report: {winner: A, loser: B}\n",
			want: `ambiguous player "A"`,
		},
		{
			name: "forgotten after reset",
			doc:  "name: x\nsteps:\n  - register: [A, B]\n  - reset_players: true\n  - report: {winner: A, loser: B}\n",
			want: `unknown player "A"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Run(context.Background(), parse(t, tt.doc))
			require.NoError(t, err)

			assert.False(t, result.Pass)
			require.NotEmpty(t, result.Errors)
			assert.Contains(t, result.Errors[0], tt.want)
			assert.Equal(t, OutcomeUnresolved, result.Trace[len(result.Trace)-1].Outcome)
		})
	}
}

func TestRun_RawIDReachesNotFound(t *testing.T) {
	s := parse(t, `
name: unknown_id
steps:
  - register: [A, B]
  - report: {winner: A, loser: "#404"}
    expect_error: NOT_FOUND
  - report: {winner: "#2", loser: "#1"}
assertions:
  - type: wins_total
    count: 1
  - type: standings
    standings:
      - {name: B, wins: 1, matches: 1}
      - {name: A, wins: 0, matches: 1}
  - type: integrity
`)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "NOT_FOUND", result.Trace[1].Outcome)
	assert.Equal(t, OutcomeOK, result.Trace[2].Outcome)
}

func TestRun_NamesShadowRawIDs(t *testing.T) {
	s := parse(t, `
name: shadow
steps:
  - register: [A, "#1"]
  - report: {winner: A, loser: "#1"}
assertions:
  - type: standings
    standings:
      - {name: A, wins: 1, matches: 1}
      - {name: "#1", wins: 0, matches: 1}
`)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_AssertionFailures(t *testing.T) {
	s := parse(t, `
name: wrong
steps:
  - register: [A, B]
  - report: {winner: A, loser: B}
assertions:
  - type: player_count
    count: 3
  - type: standings
    standings:
      - {name: B, wins: 1, matches: 1}
      - {name: A, wins: 0, matches: 1}
  - type: wins_total
    count: 2
  - type: pairings
    pairings:
      - [A, B]
  - type: integrity
`)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "Assertion failed: player_count")
	assert.Contains(t, result.Errors[0], "Actual: 2 players")
	assert.Contains(t, result.Errors[1], "Actual: [A 1/1, B 0/1]")
	assert.Contains(t, result.Errors[2], "Actual: 1 wins over 1 matches")
	assert.Contains(t, result.Errors[3], "Actual: []")
	assert.Contains(t, result.Errors[3], "[2] report")
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertPlayerCount,
		Expected: "4 players",
		Actual:   "3 players",
		Trace: []TraceEvent{
			{Step: 1, Op: OpRegister, Args: []string{"A", "B", "C"}, Outcome: OutcomeOK},
			{Step: 2, Op: OpPair, Outcome: "INVALID_STATE"},
		},
	}

	lines := strings.Split(err.Error(), "\n")
	assert.Equal(t, "Assertion failed: player_count", lines[0])
	assert.Equal(t, "  Expected: 4 players", lines[1])
	assert.Equal(t, "  Actual: 3 players", lines[2])
	assert.Contains(t, err.Error(), "  [1] register [A B C] -> ok")
	assert.Contains(t, err.Error(), "  [2] pair -> INVALID_STATE")
}
