package main

import (
	"context"

	"github.com/alecthomas/kong"
	mangokong "github.com/alecthomas/mango-kong"
)

var CLI struct {
	Split SplitCommand      `cmd:"" help:"Split a byte stream into delimited chunks."`
	Count CountCommand      `cmd:"" help:"Count frequencies of delimited chunks."`
	Man   mangokong.ManFlag `help:"Write man page." hidden:""`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kongCtx := kong.Parse(
		&CLI,
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.ConfigureHelp(kong.HelpOptions{
			Tree:    true,
			Compact: true,
		}),
		kong.Description(`streaming splitter for regex-delimited data

resplit reads a byte stream and emits the runs of bytes lying between
occurrences of a delimiter pattern, without loading the stream into
memory.
		`),
	)
	err := kongCtx.Run()
	kongCtx.FatalIfErrorf(err)
}
