package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.coder.com/cli"

	"github.com/erinpentecost/ddstex/internal/dds"
	"github.com/erinpentecost/ddstex/internal/texerr"
	"github.com/erinpentecost/ddstex/internal/texfile"
)

type decompressCmd struct {
	options
}

func (c *decompressCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:    "decompress",
		Aliases: []string{"d"},
		Usage:   "[flags] files...",
		Desc:    "Write the top mip of DDS files as TGA, BMP or PNG images.",
	}
}

func (c *decompressCmd) RegisterFlags(fl *pflag.FlagSet) { c.registerFlags(fl) }

func (c *decompressCmd) Run(fl *pflag.FlagSet) {
	exit(c.resolve(fl))
	exit(c.run(context.Background(), fl.Args()))
}

func (c *decompressCmd) run(ctx context.Context, files []string) error {
	kind, err := texfile.ParseKind(c.cfg.Image)
	if err != nil {
		return err
	}
	return runBatch(ctx, files, c.cfg.Threads, func(ctx context.Context, file string) error {
		return c.decompress(ctx, file, kind)
	})
}

func (c *decompressCmd) decompress(ctx context.Context, file string, kind texfile.Kind) error {
	c.logf("Decompressing %q...\n", file)
	data, err := texfile.ReadFile(file)
	if err != nil {
		return err
	}
	tex, err := dds.Load(data, c.cfg.ddsFlags(), c.cfg.MaxSize)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mip := -1
	for _, s := range tex.Subresources {
		if s.Item == c.cfg.Item {
			mip = s.Mip
			break
		}
	}
	if mip < 0 {
		return fmt.Errorf("%w: no array item %d in %d", texerr.ErrInvalidArgument, c.cfg.Item, tex.ArraySize)
	}
	img, err := texfile.FromTexture(tex, c.cfg.Item, mip)
	if err != nil {
		return fmt.Errorf("decode %s: %w", tex.Format, err)
	}

	path := outputPath(c.cfg.Output, file, "."+kind.String())
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := texfile.EncodeImage(out, path, img); err != nil {
		return fmt.Errorf("encode %q: %w", path, err)
	}
	c.logf("Done %q.\n", path)
	return out.Close()
}

// outputPath names the file written for input: its stem plus ext, inside
// dir or next to input when dir is empty.
func outputPath(dir, input, ext string) string {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, texfile.Stem(input)+ext)
}
