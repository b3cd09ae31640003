// Package database provides SQLite-based persistence for automation run
// history.
//
// Each completed run is stored as a row in the runs table with its full
// report JSON, letting the history command list past runs and reprint
// stored reports without regenerating them. The database lives in the XDG
// data directory and is created on first use.
package database
