package harness

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Scenario is a scripted tournament run with assertions on the final state.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Steps run in order against a fresh store.
	Steps []Step `yaml:"steps"`

	// Assertions are evaluated after the last step.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one engine operation. Exactly one action field is set.
// Players are referred to by name.
type Step struct {
	Register     []string    `yaml:"register,omitempty"`
	Report       *ReportStep `yaml:"report,omitempty"`
	Pair         *PairStep   `yaml:"pair,omitempty"`
	ResetMatches bool        `yaml:"reset_matches,omitempty"`
	ResetPlayers bool        `yaml:"reset_players,omitempty"`

	// ExpectError is the error code the step must fail with.
	// Empty means the step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// ReportStep reports a finished match.
type ReportStep struct {
	Winner string `yaml:"winner" json:"winner"`
	Loser  string `yaml:"loser" json:"loser"`
}

// PairStep generates the next round. It has no options.
type PairStep struct{}

// Op returns the step's action name.
func (s Step) Op() string {
	switch {
	case s.Register != nil:
		return OpRegister
	case s.Report != nil:
		return OpReport
	case s.Pair != nil:
		return OpPair
	case s.ResetMatches:
		return OpResetMatches
	case s.ResetPlayers:
		return OpResetPlayers
	}
	return ""
}

// Step action names.
const (
	OpRegister     = "register"
	OpReport       = "report"
	OpPair         = "pair"
	OpResetMatches = "reset_matches"
	OpResetPlayers = "reset_players"
)

// Assertion checks the tournament state after all steps ran.
type Assertion struct {
	// Type selects the check:
	// - "player_count": Count players are registered
	// - "standings": standings equal Standings, in rank order
	// - "pairings": Round (0 = latest) pairs exactly the names in Pairings
	// - "wins_total": wins sum to Count and to the number of matches
	// - "integrity": CheckIntegrity passes
	Type string `yaml:"type"`

	Count     int              `yaml:"count,omitempty"`
	Round     int              `yaml:"round,omitempty"`
	Standings []StandingExpect `yaml:"standings,omitempty"`
	Pairings  [][2]string      `yaml:"pairings,omitempty"`
}

// StandingExpect is one expected standings row.
type StandingExpect struct {
	Name    string `yaml:"name"`
	Wins    int    `yaml:"wins"`
	Matches int    `yaml:"matches"`
}

// Assertion type constants.
const (
	AssertPlayerCount = "player_count"
	AssertStandings   = "standings"
	AssertPairings    = "pairings"
	AssertWinsTotal   = "wins_total"
	AssertIntegrity   = "integrity"
)

// LoadScenario reads, validates and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(path, data)
}

// ParseScenario validates data against the scenario schema and decodes it.
// filename is only used in error messages.
func ParseScenario(filename string, data []byte) (*Scenario, error) {
	if err := validateSchema(filename, data); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	// KnownFields catches anything the schema let through by accident
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateSchema unifies the document with #Scenario from schema.cue.
func validateSchema(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Scenario"))

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("reading YAML: %w", err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("building document: %w", err)
	}

	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return err
	}
	return nil
}

// validateScenario checks the rules the schema cannot express.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		actions := 0
		if step.Register != nil {
			actions++
		}
		if step.Report != nil {
			actions++
		}
		if step.Pair != nil {
			actions++
		}
		if step.ResetMatches {
			actions++
		}
		if step.ResetPlayers {
			actions++
		}
		if actions != 1 {
			return fmt.Errorf("steps[%d]: exactly one action is required, got %d", i, actions)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertPlayerCount, AssertWinsTotal, AssertIntegrity:
	case AssertStandings:
		if a.Standings == nil {
			return fmt.Errorf("assertions[%d]: standings list is required for standings", index)
		}
	case AssertPairings:
		if a.Pairings == nil {
			return fmt.Errorf("assertions[%d]: pairings list is required for pairings", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
