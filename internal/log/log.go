// Package log prints colored progress lines for the command line tool.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
)

var (
	debug           = false
	out   io.Writer = os.Stdout
)

// SetDebug turns Debugf output on or off.
func SetDebug(enabled bool) {
	debug = enabled
}

// SetOutput redirects all output, color is dropped for non terminals.
func SetOutput(w io.Writer) {
	out = w
}

func line(format string) string {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	return format
}

func Debugf(format string, args ...interface{}) {
	if !debug {
		return
	}
	fmt.Fprintf(out, line(format), args...)
}

func Logf(format string, args ...interface{}) {
	fmt.Fprintf(out, line(format), args...)
}

func Infof(format string, args ...interface{}) {
	color.Fprint(out, color.Green.Sprintf(line(format), args...))
}

func Warnf(format string, args ...interface{}) {
	color.Fprint(out, color.Yellow.Sprintf(line(format), args...))
}

func Errorf(format string, args ...interface{}) {
	color.Fprint(out, color.Red.Sprintf(line(format), args...))
}

func Fatalf(format string, args ...interface{}) {
	Errorf(format, args...)
	os.Exit(1)
}
