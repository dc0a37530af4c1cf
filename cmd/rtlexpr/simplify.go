package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/arvo-decomp/rtlexpr"
)

// SimplifyCommand represents the "simplify" subcommand.
type SimplifyCommand struct{}

// NewSimplifyCommand returns a new instance of SimplifyCommand.
func NewSimplifyCommand() *SimplifyCommand {
	return &SimplifyCommand{}
}

// Run executes the "simplify" subcommand: parse the expression named on
// the command line (or read from stdin), run arithmetic normalization
// followed by the peephole simplifier to a fixpoint, and print the
// result.
func (cmd *SimplifyCommand) Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rtlexpr-simplify", flag.ContinueOnError)
	addr := fs.Bool("addr", false, "also run the address-simplification pass")
	fs.Usage = cmd.usage
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, err := cmd.readSource(fs.Args())
	if err != nil {
		return err
	}

	e, err := parseExp(src)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	e = rtlexpr.Simplify(rtlexpr.SimplifyArith(e))
	if *addr {
		e = rtlexpr.SimplifyAddr(e)
	}

	var buf bytes.Buffer
	rtlexpr.Format(&buf, e)
	fmt.Println(buf.String())
	return nil
}

func (cmd *SimplifyCommand) readSource(fsArgs []string) (string, error) {
	if len(fsArgs) > 0 {
		return strings.Join(fsArgs, " "), nil
	}
	data, err := readAllStdin()
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("expression required")
	}
	return data, nil
}

func (cmd *SimplifyCommand) usage() {
	fmt.Fprintln(os.Stderr, `
usage: rtlexpr simplify [arguments] [expression]

If no expression is given as arguments, it is read from stdin.

Arguments:

	-addr
	    Also run the address-simplification pass after the peephole
	    simplifier reaches a fixpoint.
`[1:])
}
