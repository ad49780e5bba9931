// Package logger provides the logging interface used across the tool.
// Different implementations fit different contexts: verbose console output,
// quiet mode, or fully silent while the TUI owns the terminal.
package logger

import (
	"fmt"
	"os"
)

// Logger is implemented by all log sinks.
type Logger interface {
	Info(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// ConsoleLogger writes human-readable logs to stdout/stderr.
type ConsoleLogger struct{}

func NewConsoleLogger() *ConsoleLogger {
	return &ConsoleLogger{}
}

func (c *ConsoleLogger) Info(msg string, args ...interface{}) {
	fmt.Printf(msg+"\n", args...)
}

func (c *ConsoleLogger) Debug(msg string, args ...interface{}) {
	fmt.Printf("DEBUG: "+msg+"\n", args...)
}

func (c *ConsoleLogger) Error(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ERROR: "+msg+"\n", args...)
}

// QuietLogger suppresses everything but errors.
type QuietLogger struct{}

func NewQuietLogger() *QuietLogger {
	return &QuietLogger{}
}

func (q *QuietLogger) Info(msg string, args ...interface{})  {}
func (q *QuietLogger) Debug(msg string, args ...interface{}) {}

func (q *QuietLogger) Error(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ERROR: "+msg+"\n", args...)
}

// NullLogger discards all messages. Used when the TUI is active.
type NullLogger struct{}

func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (n *NullLogger) Info(msg string, args ...interface{})  {}
func (n *NullLogger) Debug(msg string, args ...interface{}) {}
func (n *NullLogger) Error(msg string, args ...interface{}) {}
