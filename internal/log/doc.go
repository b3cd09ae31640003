// Package log provides the slog handler used for automation logging.
//
// The handler renders records as single lines of the form
//
//	<timestamp> - <name> - <LEVEL> - <message> [key=value ...]
//
// which is the log surface expected by the automation tooling that parses
// run output.
//
// Design decision: We implement a custom slog.Handler rather than using
// slog.TextHandler because the line format is fixed by the consumers of the
// log stream, and a handler integrates with any slog-based code without a
// custom logger type.
package log
