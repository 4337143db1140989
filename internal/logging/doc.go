// Package logging configures the process logger for contentgraph.
//
// Without --debug, logs are text lines on stderr at info level. With
// --debug, JSON logs are also written to ~/.contentgraph/logs/ with
// size-based rotation.
package logging
