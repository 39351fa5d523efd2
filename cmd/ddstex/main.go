package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/spf13/pflag"
	"go.coder.com/cli"
	"golang.org/x/sync/errgroup"
)

type rootCmd struct{}

func (r *rootCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "ddstex",
		Usage: "[subcommand] [flags] files...",
		Desc:  "Inspect, decompress and compress DDS textures.",
	}
}

func (r *rootCmd) Run(fl *pflag.FlagSet) {
	fl.Usage()
	os.Exit(1)
}

func (r *rootCmd) Subcommands() []cli.Command {
	return []cli.Command{
		&infoCmd{},
		&decompressCmd{},
		&compressCmd{},
	}
}

// runBatch calls fn for every file, at most threads at a time. A failing
// file is reported and the rest still run.
func runBatch(ctx context.Context, files []string, threads int, fn func(ctx context.Context, file string) error) error {
	if len(files) == 0 {
		return fmt.Errorf("no input files")
	}

	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for _, file := range files {
		g.Go(func() error {
			if err := fn(gctx, file); err != nil {
				fmt.Printf("FAILED: %s: %v\n", file, err)
				failed.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(files))
	}
	return nil
}

// exit reports a fatal error the way every subcommand does.
func exit(err error) {
	if err != nil {
		fmt.Printf("FAILED: %v\n", err)
		os.Exit(33)
	}
}

func main() {
	cli.RunRoot(&rootCmd{})
}
