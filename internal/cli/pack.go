package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spritepack/pkg/pipeline"
	"github.com/matzehuels/spritepack/pkg/sprite"
)

// packOpts holds the command-line flags for the pack command.
type packOpts struct {
	output  string // output directory
	noCache bool   // disable the layout/sheet cache
	pick    bool   // choose images interactively before packing
	timeout time.Duration
	opts    pipeline.Options
}

// packCommand creates the pack command that builds a full sprite sheet.
func (c *CLI) packCommand() *cobra.Command {
	var po packOpts

	cmd := &cobra.Command{
		Use:   "pack [spritepack.toml | images...]",
		Short: "Pack images into a sprite sheet with CSS",
		Long: `Pack images into a sprite sheet.

Writes <name>.png, <name>.css and <name>.json (the layout) to the output
directory. Arguments are image files or directories of images; a single
.toml argument, or none at all, reads a spritepack.toml manifest instead.

Flags given on the command line override the manifest.`,
		Example: `  # Pack every image in a directory
  spritepack pack icons/ --name icons -o dist

  # Build from ./spritepack.toml
  spritepack pack`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPack(cmd, args, po)
		},
	}

	cmd.Flags().StringVarP(&po.output, "output", "o", "", "output directory (default: manifest output or .)")
	cmd.Flags().BoolVar(&po.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&po.pick, "pick", false, "choose images interactively")
	cmd.Flags().DurationVar(&po.timeout, "timeout", pipeline.DefaultTimeout, "give up packing after this long")
	addSheetFlags(cmd, &po.opts)

	return cmd
}

// addSheetFlags registers the flags shared by commands that produce CSS.
func addSheetFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&opts.Name, "name", "", "sheet name, used for file names (default: "+pipeline.DefaultName+")")
	cmd.Flags().StringVar(&opts.ClassPrefix, "class-prefix", "", "prefix for generated CSS class names")
	cmd.Flags().StringVar(&opts.URL, "url", "", "sheet URL written into CSS (default: <name>.png)")
	cmd.Flags().IntVar(&opts.Padding, "padding", 0, "transparent pixels kept right of and below every image")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
}

func (c *CLI) runPack(cmd *cobra.Command, args []string, po packOpts) error {
	ctx := cmd.Context()
	in, err := resolveInputs(args)
	if err != nil {
		return err
	}

	opts := po.opts
	outDir := po.output
	if m := in.Manifest; m != nil {
		mergeManifest(cmd, &opts, m.Name, m.ClassPrefix, m.URL, m.Padding)
		if outDir == "" {
			outDir = filepath.Join(m.Dir(), m.Output)
		}
	}
	if outDir == "" {
		outDir = "."
	}
	opts.Timeout = po.timeout
	opts.Logger = c.Logger

	images := in.Images
	if po.pick {
		images, err = pickImages(images)
		if err != nil {
			return err
		}
		if len(images) == 0 {
			printInfo("Nothing selected")
			return nil
		}
	}

	prog := newProgress(c.Logger)
	sources, err := sprite.LoadAll(images)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d images", len(sources)))

	runner, err := c.newRunner(po.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := buildWithSpinner(ctx, runner, sources, opts)
	if err != nil {
		return err
	}

	// opts was validated by value inside the runner; apply the same defaults
	// here to name the files.
	opts.SetSheetDefaults()
	base := filepath.Join(outDir, opts.Name)
	files := map[string][]byte{
		base + ".png":  result.PNG,
		base + ".css":  []byte(result.CSS),
		base + ".json": result.LayoutJSON,
	}
	for _, path := range []string{base + ".png", base + ".css", base + ".json"} {
		if err := writeFile(files[path], path); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	printSuccess("Sprite sheet complete")
	for _, path := range []string{base + ".png", base + ".css", base + ".json"} {
		printFile(path)
	}
	printStats(result.Stats, result.CacheInfo.LayoutHit)
	return nil
}

// mergeManifest copies manifest values into opts unless the matching flag
// was given explicitly.
func mergeManifest(cmd *cobra.Command, opts *pipeline.Options, name, prefix, url string, padding int) {
	flags := cmd.Flags()
	if !flags.Changed("name") {
		opts.Name = name
	}
	if !flags.Changed("class-prefix") {
		opts.ClassPrefix = prefix
	}
	if !flags.Changed("url") {
		opts.URL = url
	}
	if !flags.Changed("padding") {
		opts.Padding = padding
	}
}

func buildWithSpinner(ctx context.Context, runner *pipeline.Runner, sources []sprite.Source, opts pipeline.Options) (*pipeline.Result, error) {
	spinner := newSpinner(ctx, fmt.Sprintf("Packing %d images...", len(sources)))
	spinner.Start()

	result, err := runner.Build(ctx, sources, opts)
	if err != nil {
		spinner.StopWithError("Packing failed")
		return nil, err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return result, nil
}
