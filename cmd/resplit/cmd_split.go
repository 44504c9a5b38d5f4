package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/streamkit/resplit/pattern"
	"github.com/streamkit/resplit/splitter"
)

type SplitCommand struct {
	File *os.File `arg:"" optional:"" help:"Input file (defaults to stdin)."`

	Pattern  string `short:"p" default:"\\s+" help:"Delimiter regular expression."`
	Fixed    string `short:"f" help:"Literal delimiter (bypasses the regexp engine)."`
	Capacity int    `default:"65536" help:"Initial buffer capacity in bytes."`
	Print0   bool   `short:"0" help:"Terminate chunks with NUL instead of newline."`
	Stats    bool   `help:"Print totals to stderr."`
	Verbose  bool   `help:"Verbose output."`
}

func (c *SplitCommand) Run() (err error) {
	in := c.File
	if in == nil {
		in = os.Stdin
	}

	log := zap.NewNop()
	if c.Verbose {
		log = zap.Must(zap.NewDevelopment())
	}

	pat, err := c.pattern()
	if err != nil {
		return err
	}

	s := splitter.New(in, pat,
		splitter.WithCapacity(c.Capacity),
		splitter.WithLogger(log),
	)

	terminator := byte('\n')
	if c.Print0 {
		terminator = 0
	}

	out := bufio.NewWriter(os.Stdout)
	defer func() {
		err = multierr.Append(err, out.Flush())
	}()

	var chunks, bytesTotal uint64
	for {
		chunk, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("split: %w", err)
		}
		chunks++
		bytesTotal += uint64(len(chunk))

		if _, err := out.Write(chunk); err != nil {
			return fmt.Errorf("write chunk: %w", err)
		}
		if err := out.WriteByte(terminator); err != nil {
			return fmt.Errorf("write chunk: %w", err)
		}
	}

	if c.Stats {
		fmt.Fprintf(os.Stderr, "%d chunks, %s\n",
			chunks, humanize.Bytes(bytesTotal))
	}
	return nil
}

func (c *SplitCommand) pattern() (splitter.Pattern, error) {
	if c.Fixed != "" {
		return pattern.Fixed(c.Fixed), nil
	}
	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}
	return re, nil
}
