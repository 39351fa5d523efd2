package main

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/erinpentecost/ddstex/internal/dds"
	"github.com/erinpentecost/ddstex/internal/dxgi"
	"github.com/erinpentecost/ddstex/internal/texfile"
)

func parse(t *testing.T, o *options, args ...string) *pflag.FlagSet {
	t.Helper()
	fl := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.registerFlags(fl)
	require.NoError(t, fl.Parse(args))
	require.NoError(t, o.resolve(fl))
	return fl
}

func TestResolveConfig(t *testing.T) {
	var o options
	parse(t, &o)
	require.Equal(t, defaultConfig(), o.cfg)

	path := filepath.Join(t.TempDir(), "ddstex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: bc1\nthreads: 3\nmips: 2\ndds:\n  force_dx10: true\nbc:\n  quick: true\n"), 0666))

	fl := parse(t, &o, "--config", path, "-j", "5", "--threshold=0.25", "a.png", "b.png")
	require.Equal(t, []string{"a.png", "b.png"}, fl.Args())
	require.Equal(t, "bc1", o.cfg.Format)
	require.Equal(t, 5, o.cfg.Threads)
	require.Equal(t, 2, o.cfg.Mips)
	require.Equal(t, float32(0.25), o.cfg.Threshold)
	require.Equal(t, dds.FlagForceDX10Ext, o.cfg.ddsFlags())
	require.NotZero(t, o.cfg.bcFlags())

	require.NoError(t, os.WriteFile(path, []byte("threads: [1"), 0666))
	o = options{}
	fl = pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.registerFlags(fl)
	require.NoError(t, fl.Parse([]string{"--config", path}))
	require.Error(t, o.resolve(fl))
}

func TestOutputPath(t *testing.T) {
	require.Equal(t, filepath.Join("in", "a.tga"), outputPath("", filepath.Join("in", "a.dds.zst"), ".tga"))
	require.Equal(t, filepath.Join("out", "a.dds"), outputPath("out", filepath.Join("in", "a.png"), ".dds"))
}

func TestRunBatchReportsFailures(t *testing.T) {
	var calls atomic.Int32
	err := runBatch(context.Background(), []string{"a", "b", "c"}, 2, func(ctx context.Context, file string) error {
		calls.Add(1)
		if file == "b" {
			return errors.New("broken")
		}
		return nil
	})
	require.EqualError(t, err, "1 of 3 files failed")
	require.Equal(t, int32(3), calls.Load())

	require.Error(t, runBatch(context.Background(), nil, 1, nil))
}

func TestCompressInfoDecompress(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 12, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 12; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 20), G: 0x80, B: uint8(y * 30), A: 0xff})
		}
	}
	input := filepath.Join(dir, "stone.png")
	f, err := os.Create(input)
	require.NoError(t, err)
	require.NoError(t, texfile.EncodeImage(f, input, src))
	require.NoError(t, f.Close())

	var comp compressCmd
	parse(t, &comp.options, "-q", "--format", "bc3", "--zstd", "--pot")
	require.NoError(t, comp.run(context.Background(), []string{input}))

	packed := filepath.Join(dir, "stone.dds.zst")
	var info infoCmd
	parse(t, &info.options)
	desc, err := info.describe(packed)
	require.NoError(t, err)
	require.Equal(t, 16, desc.Width)
	require.Equal(t, 8, desc.Height)
	require.Equal(t, 5, desc.MipLevels)
	require.Equal(t, dxgi.BC3_UNORM.String(), desc.Format)
	require.Equal(t, "2D", desc.Dimension)

	var dec decompressCmd
	parse(t, &dec.options, "-q", "--image", "bmp", "-o", dir)
	require.NoError(t, dec.run(context.Background(), []string{packed}))

	out, err := os.Open(filepath.Join(dir, "stone.bmp"))
	require.NoError(t, err)
	defer out.Close()
	img, err := texfile.DecodeImage(out, "stone.bmp")
	require.NoError(t, err)
	require.Equal(t, image.Pt(16, 8), img.Bounds().Size())

	require.Error(t, dec.run(context.Background(), []string{filepath.Join(dir, "missing.dds")}))
}
