package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/mailru/easyjson/jwriter"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/streamkit/resplit/splitter"
)

type CountCommand struct {
	Files []*os.File `arg:"" help:"Input files."`

	Pattern string `short:"p" default:"[\\s.,!?:;/\"]+" help:"Delimiter regular expression."`
	Lower   bool   `help:"Fold chunks to lower case before counting."`
	Verbose bool   `help:"Verbose output."`
}

func (c *CountCommand) Run(ctx context.Context) error {
	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		return fmt.Errorf("compile pattern: %w", err)
	}

	log := zap.NewNop()
	if c.Verbose {
		log = zap.Must(zap.NewDevelopment())
	}

	var (
		mu     sync.Mutex
		counts = make(map[string]uint64)
	)

	g, _ := errgroup.WithContext(ctx)
	for _, f := range c.Files {
		f := f
		g.Go(func() error {
			local, err := countFile(f, re, c.Lower)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Name(), err)
			}
			log.Debug("counted file",
				zap.String("file", f.Name()),
				zap.Int("distinct", len(local)))

			mu.Lock()
			for k, n := range local {
				counts[k] += n
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return writeCounts(os.Stdout, counts)
}

// countFile tallies the chunks of one file. Each file gets its own
// splitter: instances are single-threaded by contract.
func countFile(f *os.File, pat splitter.Pattern, lower bool) (map[string]uint64, error) {
	counts := make(map[string]uint64)
	s := splitter.New(f, pat)
	for {
		chunk, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return counts, nil
			}
			return nil, err
		}
		if len(chunk) == 0 {
			continue
		}
		word := string(chunk)
		if lower {
			word = strings.ToLower(word)
		}
		counts[word]++
	}
}

// writeCounts emits the tallies as one JSON object with keys sorted,
// so output is stable across runs.
func writeCounts(out io.Writer, counts map[string]uint64) error {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var w jwriter.Writer
	w.RawByte('{')
	for i, k := range keys {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(k)
		w.RawByte(':')
		w.Uint64(counts[k])
	}
	w.RawString("}\n")

	if _, err := w.DumpTo(out); err != nil {
		return fmt.Errorf("write counts: %w", err)
	}
	return nil
}
