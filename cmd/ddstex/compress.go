package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/pflag"
	"go.coder.com/cli"

	"github.com/erinpentecost/ddstex/internal/dds"
	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/texfile"
)

type compressCmd struct {
	options
}

func (c *compressCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:    "compress",
		Aliases: []string{"c"},
		Usage:   "[flags] files...",
		Desc:    "Convert TGA, BMP or PNG images into DDS textures with a mip chain.",
	}
}

func (c *compressCmd) RegisterFlags(fl *pflag.FlagSet) { c.registerFlags(fl) }

func (c *compressCmd) Run(fl *pflag.FlagSet) {
	exit(c.resolve(fl))
	exit(c.run(context.Background(), fl.Args()))
}

func (c *compressCmd) run(ctx context.Context, files []string) error {
	format, err := texfile.ParseFormat(c.cfg.Format)
	if err != nil {
		return err
	}
	return runBatch(ctx, files, c.cfg.Threads, func(ctx context.Context, file string) error {
		return c.compress(ctx, file, format)
	})
}

func (c *compressCmd) processors() []texfile.Processor {
	var out []texfile.Processor
	if c.cfg.PowerOfTwo {
		out = append(out, &texfile.PowerOfTwoProcessor{})
	}
	if c.cfg.MinEdgeAlpha > 0 {
		out = append(out, &texfile.MinimumEdgeAlphaProcessor{Minimum: c.cfg.MinEdgeAlpha})
	}
	return out
}

func (c *compressCmd) compress(ctx context.Context, file string, format dxgi.Format) error {
	c.logf("Compressing %q to %s...\n", file, format)
	data, err := texfile.ReadFile(file)
	if err != nil {
		return err
	}
	img, err := texfile.DecodeImage(bytes.NewReader(data), file)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tex, err := texfile.ToTexture(img, texfile.Options{
		Format:     format,
		Mips:       c.cfg.Mips,
		Flags:      c.cfg.bcFlags(),
		Threshold:  c.cfg.Threshold,
		Processors: c.processors(),
	})
	if err != nil {
		return err
	}
	tex.SetAlphaMode(dds.ScanAlphaMode(tex))

	var buf bytes.Buffer
	if err := dds.Save(&buf, tex.Metadata, tex.Pixels, c.cfg.ddsFlags()); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	ext := ".dds"
	if c.cfg.Zstd {
		ext += ".zst"
	}
	path := outputPath(c.cfg.Output, file, ext)
	if err := texfile.WriteFile(path, buf.Bytes()); err != nil {
		return err
	}
	c.logf("Done %q.\n", path)
	return nil
}
