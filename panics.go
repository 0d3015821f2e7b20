package procedure

import (
	"fmt"
	"runtime"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// recoverStage converts a panic in a pipeline stage into an error stored in
// *errp, so a panicking collaborator cannot break the never-throws contract.
// Must be called via defer.
func recoverStage(stage string, errp *error) {
	r := recover()
	if r == nil {
		return
	}

	stack := make([]byte, 8096)
	n := runtime.Stack(stack, false)
	stack = cleanStackTrace(stack[:n])

	meta := map[string]any{
		"stage": stage,
		"stack": string(stack),
	}

	if err, ok := r.(error); ok {
		*errp = goerrors.Wrap(err, goerrors.CategoryHandler, fmt.Sprintf("panic in %s", stage)).
			WithTextCode("PROC_PANIC").
			WithMetadata(meta)
		return
	}
	*errp = goerrors.New(fmt.Sprintf("panic in %s: %v", stage, r), goerrors.CategoryHandler).
		WithTextCode("PROC_PANIC").
		WithMetadata(meta)
}

func cleanStackTrace(stack []byte) []byte {
	lines := strings.Split(string(stack), "\n")

	// we find the index after the panic line
	panicLineIndex := -1
	for i, line := range lines {
		if strings.Contains(line, "panic(") {
			panicLineIndex = i
			break
		}
	}

	// then remove everything before it
	if panicLineIndex >= 0 && panicLineIndex+2 < len(lines) {
		// remove the panic() call line & file reference line
		lines = lines[panicLineIndex+2:]
	}

	return []byte(strings.Join(lines, "\n"))
}
