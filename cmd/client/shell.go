package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively in one session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.shell = true
			defer func() { c.shell = false }()

			out := cmd.OutOrStdout()
			sc := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "edupath> ")
				if !sc.Scan() {
					fmt.Fprintln(out)
					return sc.Err()
				}
				args, err := splitArgs(sc.Text())
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					continue
				}
				if len(args) == 0 {
					continue
				}
				if args[0] == "exit" || args[0] == "quit" {
					return nil
				}
				if args[0] == "shell" {
					continue
				}
				line := c.root()
				line.SetArgs(args)
				line.SetIn(&lineReader{sc: sc})
				line.SetOut(out)
				line.SetErr(cmd.ErrOrStderr())
				// errors are already printed by the command
				_ = line.ExecuteContext(cmd.Context())
			}
		},
	}
}

// lineReader hands the rest of the shell input to prompts, one line per read.
type lineReader struct {
	sc  *bufio.Scanner
	buf []byte
}

func (l *lineReader) Read(p []byte) (int, error) {
	if len(l.buf) == 0 {
		if !l.sc.Scan() {
			return 0, io.EOF
		}
		l.buf = append(append([]byte(nil), l.sc.Bytes()...), '\n')
	}
	n := copy(p, l.buf)
	l.buf = l.buf[n:]
	return n, nil
}

var errUnclosedQuote = errors.New("unclosed quote")

// splitArgs splits a shell line on spaces, keeping single or double quoted
// parts together.
func splitArgs(line string) ([]string, error) {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		inArg bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote, inArg = r, true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, errUnclosedQuote
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
