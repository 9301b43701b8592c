package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spritepack/pkg/errors"
	"github.com/matzehuels/spritepack/pkg/layout"
	"github.com/matzehuels/spritepack/pkg/pack"
	"github.com/matzehuels/spritepack/pkg/pipeline"
	"github.com/matzehuels/spritepack/pkg/sprite"
)

// layoutCommand creates the layout command, which packs without drawing.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		timeout time.Duration
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [sizes.json | images...]",
		Short: "Compute a sprite layout without drawing it",
		Long: `Compute a sprite layout without drawing it.

Input is either a JSON file of sizes (use - for stdin):

  [{"id": "logo", "width": 100, "height": 50}, ...]
  {"modules": [...], "padding": 2}

or image files and directories, whose sizes are read from the files. The
layout JSON can later be drawn with 'spritepack draw'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, padding, err := loadModules(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("padding") {
				opts.Padding = padding
			}
			opts.Timeout = timeout
			opts.Logger = c.Logger

			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			ctx := cmd.Context()
			spinner := newSpinner(ctx, fmt.Sprintf("Packing %d images...", len(mods)))
			spinner.Start()
			p, cached, err := runner.LayoutWithCacheInfo(ctx, mods, opts)
			if err != nil {
				spinner.StopWithError("Layout failed")
				return err
			}
			spinner.Stop()

			var buf bytes.Buffer
			if err := layout.WriteJSON(p, &buf); err != nil {
				return err
			}
			if err := writeFile(buf.Bytes(), output); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if output != "" {
				printSuccess("Layout complete")
				printFile(output)
				printStats(pipeline.Stats{
					Modules:     len(p.Modules),
					Width:       p.Width,
					Height:      p.Height,
					Utilization: p.Utilization(),
				}, cached)
				printNewline()
				printNextStep("Draw", appName+" draw "+output+" "+strings.Join(args, " "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&timeout, "timeout", pipeline.DefaultTimeout, "give up packing after this long")
	cmd.Flags().IntVar(&opts.Padding, "padding", 0, "transparent pixels kept right of and below every image")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")

	return cmd
}

// loadModules reads packer input from a sizes file or from images. The
// returned padding is the one requested in a sizes file, if any.
func loadModules(stdin io.Reader, args []string) ([]pack.Module, int, error) {
	if len(args) == 1 && (args[0] == "-" || strings.EqualFold(filepath.Ext(args[0]), ".json")) {
		r := stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if os.IsNotExist(err) {
				return nil, 0, errors.New(errors.ErrCodeFileNotFound, "no such file: %s", args[0])
			}
			if err != nil {
				return nil, 0, err
			}
			defer f.Close()
			r = f
		}
		req, err := layout.ReadRequest(r)
		if err != nil {
			return nil, 0, err
		}
		return req.PackModules(), req.Padding, nil
	}

	in, err := resolveInputs(args)
	if err != nil {
		return nil, 0, err
	}
	sources, err := sprite.LoadAll(in.Images)
	if err != nil {
		return nil, 0, err
	}
	padding := 0
	if in.Manifest != nil {
		padding = in.Manifest.Padding
	}
	return sprite.Modules(sources), padding, nil
}
