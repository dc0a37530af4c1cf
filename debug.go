package rtlexpr

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
)

// Dump renders e's full internal structure (every field of every node)
// for debugging, with go-spew configured for no method calls and no
// pointer addresses in the output, so two structurally-equal trees dump
// identically regardless of where their nodes live.
func Dump(e Exp) string {
	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisableMethods:          true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	return cfg.Sdump(e)
}

// debugBuf is the static scratch buffer documented in §5: a fixed-size,
// non-reentrant staging area for a single expression's printed form,
// intended for use from a debugger where allocating is undesirable.
// Concurrent callers race on it; callers that need a stable, reentrant
// string should use Format directly instead.
var debugBuf [200]byte

// DebugString renders e into the shared 200-byte static buffer and
// returns the result as a string, truncating if the printed form
// overflows the buffer. Not safe for concurrent use: a second caller
// overwrites the first's result before it is read.
func DebugString(e Exp) string {
	s := formatToString(e)
	n := copy(debugBuf[:], s)
	return string(debugBuf[:n])
}

// DebugPrint writes e's printed form to standard error, prefixed with
// its Op tag, for ad-hoc tracing during development.
func DebugPrint(e Exp) {
	fmt.Fprintf(os.Stderr, "[%d] %s\n", e.Op(), formatToString(e))
}
