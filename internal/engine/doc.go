// Package engine implements the Swiss tournament state engine.
//
// The engine owns the tournament rules and delegates persistence to a Store.
// It never holds ambient connection state: the store handle is passed to New
// and every operation borrows it for the duration of one call.
//
// ARCHITECTURE:
//
// Single-Writer Model:
// Operations are expected to be called sequentially by one caller. Every
// compound mutation is a single store transaction, so a failed call leaves no
// partial effects:
// - RegisterPlayer: player row + zero standing row
// - ReportMatch: ledger row + winner and loser counter updates
// - GeneratePairings: every table of the new round
//
// Pairing Rule:
// Standings are ranked by wins descending, ties broken by player id
// ascending (registration order). Positions (1,2), (3,4), ... are paired and
// the higher-ranked player sits first at each table. The rule is implemented
// by SwissPairs and does not depend on the order the store returns rows in.
//
// Rounds:
// Each GeneratePairings call writes round N+1, where N is the latest stored
// round. Earlier rounds remain readable through Pairings until ResetMatches.
package engine
