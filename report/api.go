package report

import (
	"fmt"
	"os"
)

// ReportCompileError reports a compilation error: ie. an erroneous input
// script.  The path is the path to the erroneous script used both for display
// and to read back the offending source text for underlining.
func ReportCompileError(path string, ce *CompileError) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		rep.isErr = true

		displayCompileError(path, ce)
	}
}

// ReportFatal reports a fatal error and exits.  These are expected errors that
// generally result from invalid invocation of the compiler: a missing script
// file, a malformed project file, bad command-line arguments, etc.
func ReportFatal(msg string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		displayFatal(fmt.Sprintf(msg, args...))
		rep.m.Unlock()
	}

	os.Exit(1)
}

// ReportICE reports an internal compiler error.  These errors result from a
// bug in the compiler itself: they are not intended to ever happen.  They are
// always displayed regardless of log level.
func ReportICE(msg string, args ...interface{}) {
	rep.m.Lock()
	displayICE(fmt.Sprintf(msg, args...))
	rep.m.Unlock()

	os.Exit(-1)
}

// DisplayInfoMessage displays a tagged informational message to the user.
func DisplayInfoMessage(tag, msg string) {
	if rep.logLevel >= LogLevelVerbose {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayInfo(tag, msg)
	}
}
