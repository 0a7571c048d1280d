package harness

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/swiss/internal/engine"
	"github.com/roach88/swiss/internal/model"
	"github.com/roach88/swiss/internal/store"
)

// Harness executes scenario steps against one engine.
type Harness struct {
	engine *engine.Engine

	// players maps canonical names to the ids registered under them.
	players map[string][]int64
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database, so player ids start at 1
// and traces are reproducible.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Execute steps, checking each against its expect_error
// 3. Evaluate assertions on the final state
//
// The returned error is reserved for infrastructure failures. Step and
// assertion failures are reported through Result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		engine:  engine.New(st),
		players: make(map[string][]int64),
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		h.executeStep(ctx, i+1, step, result)
	}

	for _, err := range h.evaluateAssertions(ctx, scenario.Assertions, result.Trace) {
		result.AddError(err.Error())
	}

	return result, nil
}

// executeStep runs one step, records it in the trace and checks its
// expected outcome.
func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) {
	event := TraceEvent{Step: index, Op: step.Op()}

	var err error
	switch event.Op {
	case OpRegister:
		event.Args = step.Register
		var registered []registeredPlayer
		for _, name := range step.Register {
			var p model.Player
			p, err = h.engine.RegisterPlayer(ctx, name)
			if err != nil {
				break
			}
			h.players[p.Name] = append(h.players[p.Name], p.ID)
			registered = append(registered, registeredPlayer{ID: p.ID, Name: p.Name})
		}
		if len(registered) > 0 {
			event.Result = registered
		}

	case OpReport:
		event.Args = step.Report
		winner, werr := h.resolve(step.Report.Winner)
		loser, lerr := h.resolve(step.Report.Loser)
		if werr != nil || lerr != nil {
			event.Outcome = OutcomeUnresolved
			result.AddTrace(event)
			for _, e := range []error{werr, lerr} {
				if e != nil {
					result.AddError(fmt.Sprintf("step %d (%s): %v", index, event.Op, e))
				}
			}
			return
		}
		if _, err = h.engine.ReportMatch(ctx, winner, loser); err == nil {
			event.Result, err = h.engine.Standings(ctx)
		}

	case OpPair:
		var pairs []model.Pairing
		if pairs, err = h.engine.GeneratePairings(ctx); err == nil {
			event.Result = pairs
		}

	case OpResetMatches:
		err = h.engine.ResetMatches(ctx)

	case OpResetPlayers:
		if err = h.engine.ResetPlayers(ctx); err == nil {
			h.players = make(map[string][]int64)
		}
	}

	event.Outcome = OutcomeOK
	if err != nil {
		event.Outcome = string(engine.CodeOf(err))
		if event.Outcome == "" {
			event.Outcome = "ERROR"
		}
	}
	result.AddTrace(event)

	switch {
	case step.ExpectError == "" && err != nil:
		result.AddError(fmt.Sprintf("step %d (%s): unexpected error: %v", index, event.Op, err))
	case step.ExpectError != "" && event.Outcome != step.ExpectError:
		result.AddError(fmt.Sprintf("step %d (%s): expected error %s, got %s", index, event.Op, step.ExpectError, event.Outcome))
	}
}

// resolve maps a player reference to its id. A name must have been
// registered exactly once since the last reset_players. A reference of the
// form "#<id>" that matches no name is taken as a raw id, so scenarios can
// report against ids the store has never issued.
func (h *Harness) resolve(ref string) (int64, error) {
	ids := h.players[model.CanonicalName(ref)]
	switch len(ids) {
	case 0:
		if id, ok := rawID(ref); ok {
			return id, nil
		}
		return 0, fmt.Errorf("unknown player %q", ref)
	case 1:
		return ids[0], nil
	default:
		return 0, fmt.Errorf("ambiguous player %q: registered %d times", ref, len(ids))
	}
}

func rawID(ref string) (int64, bool) {
	digits, ok := strings.CutPrefix(strings.TrimSpace(ref), "#")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
