package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/erinpentecost/ddstex/internal/bc"
	"github.com/erinpentecost/ddstex/internal/dds"
)

// config holds every setting a subcommand can take. A YAML file supplies
// defaults and command line flags override it.
type config struct {
	Format    string  `yaml:"format"`
	Image     string  `yaml:"image"`
	Output    string  `yaml:"output"`
	Threads   int     `yaml:"threads"`
	MaxSize   int     `yaml:"maxsize"`
	Mips      int     `yaml:"mips"`
	Item      int     `yaml:"item"`
	Threshold float32 `yaml:"threshold"`
	Zstd      bool    `yaml:"zstd"`
	Quiet     bool    `yaml:"quiet"`

	PowerOfTwo   bool  `yaml:"power_of_two"`
	MinEdgeAlpha uint8 `yaml:"min_edge_alpha"`

	DDS ddsConfig `yaml:"dds"`
	BC  bcConfig  `yaml:"bc"`
}

type ddsConfig struct {
	LegacyDWORD     bool `yaml:"legacy_dword"`
	NoExpansion     bool `yaml:"no_legacy_expansion"`
	NoR10Fixup      bool `yaml:"no_r10_fixup"`
	ForceRGB        bool `yaml:"force_rgb"`
	No16BPP         bool `yaml:"no_16bpp"`
	ExpandLuminance bool `yaml:"expand_luminance"`
	ForceDX10       bool `yaml:"force_dx10"`
	ForceDX9        bool `yaml:"force_dx9"`
	AllowLarge      bool `yaml:"allow_large"`
}

type bcConfig struct {
	Dither  bool `yaml:"dither"`
	Uniform bool `yaml:"uniform"`
	Quick   bool `yaml:"quick"`
}

func defaultConfig() config {
	return config{
		Format:    "bc7",
		Image:     "tga",
		Threads:   runtime.GOMAXPROCS(0),
		Threshold: bc.DefaultThreshold,
	}
}

// register binds c's fields to flags, using their current values as
// defaults.
func (c *config) register(fl *pflag.FlagSet) {
	fl.StringVarP(&c.Format, "format", "f", c.Format, "output format: a codec such as bc1, dxt5 or bc7, or a DXGI format name")
	fl.StringVar(&c.Image, "image", c.Image, "decompressed image type: tga, bmp or png")
	fl.StringVarP(&c.Output, "output", "o", c.Output, "output directory (default: next to each input)")
	fl.IntVarP(&c.Threads, "threads", "j", c.Threads, "files processed at once")
	fl.IntVar(&c.MaxSize, "maxsize", c.MaxSize, "skip mips larger than this on load (0 keeps all)")
	fl.IntVar(&c.Mips, "mips", c.Mips, "mip levels to build when compressing (0 builds the full chain)")
	fl.IntVar(&c.Item, "item", c.Item, "array item to decompress")
	fl.Float32Var(&c.Threshold, "threshold", c.Threshold, "BC1 alpha cutoff")
	fl.BoolVar(&c.Zstd, "zstd", c.Zstd, "wrap written DDS files in zstd")
	fl.BoolVarP(&c.Quiet, "quiet", "q", c.Quiet, "only print failures")
	fl.BoolVar(&c.PowerOfTwo, "pot", c.PowerOfTwo, "resize to power of two sides before compressing")
	fl.Uint8Var(&c.MinEdgeAlpha, "min-edge-alpha", c.MinEdgeAlpha, "raise border alpha to at least this before compressing")

	fl.BoolVar(&c.DDS.LegacyDWORD, "legacy-dword", c.DDS.LegacyDWORD, "read legacy rows as DWORD aligned")
	fl.BoolVar(&c.DDS.NoExpansion, "no-legacy-expansion", c.DDS.NoExpansion, "reject legacy formats that need expanding")
	fl.BoolVar(&c.DDS.NoR10Fixup, "no-r10-fixup", c.DDS.NoR10Fixup, "keep the legacy 10:10:10:2 channel order")
	fl.BoolVar(&c.DDS.ForceRGB, "force-rgb", c.DDS.ForceRGB, "load BGR formats as RGB")
	fl.BoolVar(&c.DDS.No16BPP, "no-16bpp", c.DDS.No16BPP, "widen 16bpp formats to 32bpp")
	fl.BoolVar(&c.DDS.ExpandLuminance, "expand-luminance", c.DDS.ExpandLuminance, "expand luminance formats to RGBA")
	fl.BoolVar(&c.DDS.ForceDX10, "dx10", c.DDS.ForceDX10, "always write the DX10 header extension")
	fl.BoolVar(&c.DDS.ForceDX9, "dx9", c.DDS.ForceDX9, "never write the DX10 header extension")
	fl.BoolVar(&c.DDS.AllowLarge, "allow-large", c.DDS.AllowLarge, "accept sizes past the Direct3D limits")

	fl.BoolVar(&c.BC.Dither, "dither", c.BC.Dither, "dither colour and alpha while compressing")
	fl.BoolVar(&c.BC.Uniform, "uniform", c.BC.Uniform, "weight colour channels evenly")
	fl.BoolVar(&c.BC.Quick, "quick", c.BC.Quick, "faster, lower quality BC7")
}

func (c config) ddsFlags() dds.Flags {
	var f dds.Flags
	for _, b := range []struct {
		on   bool
		flag dds.Flags
	}{
		{c.DDS.LegacyDWORD, dds.FlagLegacyDWORD},
		{c.DDS.NoExpansion, dds.FlagNoLegacyExpansion},
		{c.DDS.NoR10Fixup, dds.FlagNoR10B10G10A2Fixup},
		{c.DDS.ForceRGB, dds.FlagForceRGB},
		{c.DDS.No16BPP, dds.FlagNo16BPP},
		{c.DDS.ExpandLuminance, dds.FlagExpandLuminance},
		{c.DDS.ForceDX10, dds.FlagForceDX10Ext},
		{c.DDS.ForceDX9, dds.FlagForceDX9Legacy},
		{c.DDS.AllowLarge, dds.FlagAllowLargeFiles},
	} {
		if b.on {
			f |= b.flag
		}
	}
	return f
}

func (c config) bcFlags() bc.Flags {
	f := bc.FlagNone
	if c.BC.Dither {
		f |= bc.FlagDitherRGB | bc.FlagDitherA
	}
	if c.BC.Uniform {
		f |= bc.FlagUniform
	}
	if c.BC.Quick {
		f |= bc.FlagBC7Quick
	}
	return f
}

// options is embedded by every subcommand.
type options struct {
	configPath string
	flags      config
	cfg        config
}

func (o *options) registerFlags(fl *pflag.FlagSet) {
	o.flags = defaultConfig()
	fl.StringVarP(&o.configPath, "config", "c", "", "YAML file with default settings")
	o.flags.register(fl)
}

// resolve loads the config file, if any, and applies every flag that was
// set on the command line on top of it.
func (o *options) resolve(fl *pflag.FlagSet) error {
	cfg := defaultConfig()
	if o.configPath != "" {
		raw, err := os.ReadFile(o.configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return fmt.Errorf("parse config %q: %w", o.configPath, err)
		}
	}

	merged := pflag.NewFlagSet("merged", pflag.ContinueOnError)
	cfg.register(merged)
	var err error
	fl.Visit(func(f *pflag.Flag) {
		if merged.Lookup(f.Name) == nil || err != nil {
			return
		}
		err = merged.Set(f.Name, f.Value.String())
	})
	if err != nil {
		return fmt.Errorf("apply flags: %w", err)
	}
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	o.cfg = cfg
	return nil
}

func (o *options) logf(format string, args ...any) {
	if !o.cfg.Quiet {
		fmt.Printf(format, args...)
	}
}
