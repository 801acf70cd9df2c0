package report

import (
	"fmt"
	"os"
)

// -----------------------------------------------------------------------------
// NOTE: All report functions will only display if the appropriate log level is
// set.  Most report functions will simply fail silently if below their
// appropriate log level.

// ReportCompileError reports an error in a record source file.
func ReportCompileError(cerr *CompileError) {
	r := reporter()

	r.m.Lock()
	defer r.m.Unlock()

	r.isErr = true

	if r.logLevel > LogLevelSilent {
		displayCompileError(cerr)
	}
}

// ReportStdError reports a standard Go error under a short tag describing what
// was being done when it occurred.
func ReportStdError(tag string, err error) {
	r := reporter()

	r.m.Lock()
	defer r.m.Unlock()

	r.isErr = true

	if r.logLevel > LogLevelSilent {
		displayStdError(tag, err)
	}
}

// ReportError reports any error returned by a compilation stage: compile errors
// are displayed with their source text, everything else under the given tag.
func ReportError(tag string, err error) {
	if cerr, ok := err.(*CompileError); ok {
		ReportCompileError(cerr)
	} else {
		ReportStdError(tag, err)
	}
}

// ReportFatal reports a fatal error and exits the program.  These are errors
// that result from invalid invocation or configuration: unreadable input,
// malformed command-line arguments, etc.
func ReportFatal(message string, args ...interface{}) {
	r := reporter()

	if r.logLevel > LogLevelSilent {
		r.m.Lock()
		defer r.m.Unlock()

		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportInfo reports an informational message.  It is only displayed at the
// verbose log level.
func ReportInfo(tag, msg string) {
	r := reporter()

	if r.logLevel == LogLevelVerbose {
		r.m.Lock()
		defer r.m.Unlock()

		displayInfo(tag, msg)
	}
}

// DisplayInfoMessage displays an informational message regardless of the log
// level.  This is used for output the user explicitly asked for.
func DisplayInfoMessage(tag, msg string) {
	r := reporter()

	r.m.Lock()
	defer r.m.Unlock()

	displayInfo(tag, msg)
}

// -----------------------------------------------------------------------------

// ReportCompileHeader reports the header displayed before a run starts.
func ReportCompileHeader(backendName string) {
	if reporter().logLevel == LogLevelVerbose {
		displayCompileHeader(backendName)
	}
}

// ReportFinished reports the concluding message of a run.
func ReportFinished(outputPath string) {
	r := reporter()

	if r.logLevel == LogLevelVerbose {
		displayFinished(!r.isErr, outputPath)
	}
}

// AnyErrors returns whether or not any errors were reported.
func AnyErrors() bool {
	return reporter().isErr
}
