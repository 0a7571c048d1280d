// Package model provides the record types shared by the tournament engine
// and its stores.
//
// This package contains type definitions and small value helpers only. The
// engine and every store implementation import model; model imports nothing
// internal.
//
// Key design constraints:
//   - Player names live only on Player; Standing and Pairing names are
//     filled in by a join at read time
//   - All ids are store-assigned int64 values
//   - All JSON tags use snake_case
package model
