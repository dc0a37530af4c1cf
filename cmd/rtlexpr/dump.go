package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/arvo-decomp/rtlexpr"
)

// DumpCommand represents the "dump" subcommand.
type DumpCommand struct{}

// NewDumpCommand returns a new instance of DumpCommand.
func NewDumpCommand() *DumpCommand {
	return &DumpCommand{}
}

// Run executes the "dump" subcommand: parse the expression and print its
// tag-dispatched binary serialization as hex. Typed/Assign/FlagDef nodes
// are unreachable from this driver's grammar, so Serialize never needs a
// Type or RTL payload here.
func (cmd *DumpCommand) Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rtlexpr-dump", flag.ContinueOnError)
	fs.Usage = cmd.usage
	if err := fs.Parse(args); err != nil {
		return err
	}

	src := strings.Join(fs.Args(), " ")
	if src == "" {
		data, err := readAllStdin()
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		src = data
	}
	if src == "" {
		return fmt.Errorf("expression required")
	}

	e, err := parseExp(src)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	var buf bytes.Buffer
	if err := rtlexpr.Serialize(&buf, e); err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	fmt.Println(hex.EncodeToString(buf.Bytes()))
	return nil
}

func (cmd *DumpCommand) usage() {
	fmt.Fprintln(os.Stderr, `
usage: rtlexpr dump [expression]

If no expression is given as arguments, it is read from stdin. Prints
the expression's binary serialization as a hex string.
`[1:])
}
