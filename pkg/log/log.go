package log

import (
	"fmt"
	"io"
	"os"
)

type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Fatal(str string)
}

type logger struct {
	out   io.Writer
	debug bool
}

// New returns a Logger that writes to stdout. Debug
// output is only written when debug is true.
func New(debug bool) Logger {
	return &logger{out: os.Stdout, debug: debug}
}

// NewWithWriter returns a Logger that writes to w, with
// debug output enabled.
func NewWithWriter(w io.Writer) Logger {
	return &logger{out: w, debug: true}
}

func (l *logger) Infof(format string, args ...interface{}) {
	fmt.Fprintf(l.out, "[INFO]\t"+format+"\n", args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(l.out, "[ERROR]\t"+format+"\n", args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	fmt.Fprintf(l.out, "[DEBUG]\t"+format+"\n", args...)
}

// Fatal logs the message and exits the process.
func (l *logger) Fatal(str string) {
	fmt.Fprintf(l.out, "[FATAL]\t%s\n", str)
	os.Exit(1)
}

// Fatal logs to stdout and exits. Used by the commands when setup
// fails before a Logger has been constructed.
func Fatal(str string) {
	fmt.Printf("[FATAL]\t%s\n", str)
	os.Exit(1)
}
