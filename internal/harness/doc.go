// Package harness runs scripted tournament scenarios against a fresh engine
// and checks the outcome.
//
// # Scenario Format
//
// Scenarios are YAML files validated against schema.cue before decoding:
//
//	name: two_rounds
//	description: "What this scenario checks"
//	steps:
//	  - register: [Alice, Bob, Carol, Dave]
//	  - pair: {}
//	  - report: {winner: Alice, loser: Bob}
//	  - reset_matches: true
//	  - reset_players: true
//	  - pair: {}
//	    expect_error: INVALID_STATE
//	assertions:
//	  - type: standings
//	    standings:
//	      - {name: Alice, wins: 1, matches: 1}
//	  - type: pairings
//	    round: 1
//	    pairings:
//	      - [Alice, Bob]
//	  - type: integrity
//
// Steps refer to players by name. A name must be registered exactly once
// since the last reset_players to be usable in a report.
//
// # Assertion Types
//
//   - player_count: the number of registered players equals count
//   - standings: the ranked standings equal the listed rows, in order
//   - pairings: the pairings of round (0 = latest) equal the listed names
//   - wins_total: total wins and the number of matches both equal count
//   - integrity: CheckIntegrity passes
//
// # Deterministic Testing
//
// Every run uses a new in-memory SQLite store, so ids start at 1 and the
// trace contains no timestamps. Traces are compared against golden files in
// testdata/golden with goldie.
package harness
