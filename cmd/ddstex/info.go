package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.coder.com/cli"
	"gopkg.in/yaml.v3"

	"github.com/erinpentecost/ddstex/internal/dds"
	"github.com/erinpentecost/ddstex/internal/texfile"
)

type infoCmd struct {
	options
}

func (c *infoCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "info",
		Usage: "[flags] files...",
		Desc:  "Print the metadata of DDS files as YAML.",
	}
}

func (c *infoCmd) RegisterFlags(fl *pflag.FlagSet) { c.registerFlags(fl) }

func (c *infoCmd) Run(fl *pflag.FlagSet) {
	exit(c.resolve(fl))
	exit(c.run(context.Background(), fl.Args()))
}

func (c *infoCmd) run(ctx context.Context, files []string) error {
	return runBatch(ctx, files, c.cfg.Threads, func(ctx context.Context, file string) error {
		info, err := c.describe(file)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(info)
		if err != nil {
			return fmt.Errorf("marshal info: %w", err)
		}
		// one write per document keeps concurrent output whole
		_, err = os.Stdout.Write(append([]byte("---\n"), out...))
		return err
	})
}

type textureInfo struct {
	File         string `yaml:"file"`
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Depth        int    `yaml:"depth"`
	ArraySize    int    `yaml:"array_size"`
	MipLevels    int    `yaml:"mip_levels"`
	Format       string `yaml:"format"`
	Dimension    string `yaml:"dimension"`
	Cubemap      bool   `yaml:"cubemap,omitempty"`
	AlphaMode    string `yaml:"alpha_mode"`
	Bytes        int    `yaml:"bytes"`
	Subresources int    `yaml:"subresources"`
	Skipped      int    `yaml:"skipped_mips,omitempty"`
}

func (c *infoCmd) describe(file string) (*textureInfo, error) {
	data, err := texfile.ReadFile(file)
	if err != nil {
		return nil, err
	}
	tex, err := dds.Load(data, c.cfg.ddsFlags(), c.cfg.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return &textureInfo{
		File:         file,
		Width:        tex.Width,
		Height:       tex.Height,
		Depth:        tex.Depth,
		ArraySize:    tex.ArraySize,
		MipLevels:    tex.MipLevels,
		Format:       tex.Format.String(),
		Dimension:    tex.Dimension.String(),
		Cubemap:      tex.IsCubemap(),
		AlphaMode:    dds.ScanAlphaMode(tex).String(),
		Bytes:        len(tex.Pixels),
		Subresources: len(tex.Subresources),
		Skipped:      tex.Skipped,
	}, nil
}
