package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spritepack/pkg/layout"
	"github.com/matzehuels/spritepack/pkg/pipeline"
	"github.com/matzehuels/spritepack/pkg/sprite"
)

// drawCommand creates the draw command, which renders an existing layout.
func (c *CLI) drawCommand() *cobra.Command {
	var (
		output string
		opts   pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "draw layout.json images...",
		Short: "Draw a sprite sheet from a layout file",
		Long: `Draw a sprite sheet from a layout file produced by 'spritepack layout'.

Every layout entry needs an image whose file name (without extension)
matches its id and whose size matches the layout exactly.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := layout.ImportJSON(args[0])
			if err != nil {
				return err
			}
			in, err := resolveInputs(args[1:])
			if err != nil {
				return err
			}
			sources, err := sprite.LoadAll(in.Images)
			if err != nil {
				return err
			}
			base := strings.TrimSuffix(output, ".png")
			if base != "" && opts.Name == "" && opts.URL == "" {
				// The CSS must point at the file actually written.
				opts.Name = filepath.Base(base)
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			if base == "" {
				base = opts.Name
			}

			prog := newProgress(c.Logger)
			sheet, err := sprite.Render(p, sources, opts.CSSOptions())
			if err != nil {
				return err
			}
			png, err := sheet.PNG()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Drew %dx%d sheet", p.Width, p.Height))

			if err := writeFile(png, base+".png"); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if err := writeFile([]byte(sheet.CSS), base+".css"); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			printSuccess("Sprite sheet drawn")
			printFile(base + ".png")
			printFile(base + ".css")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path; its base name also names the sheet unless --name or --url is set (default: <name>)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "sheet name (default: "+pipeline.DefaultName+")")
	cmd.Flags().StringVar(&opts.ClassPrefix, "class-prefix", "", "prefix for generated CSS class names")
	cmd.Flags().StringVar(&opts.URL, "url", "", "sheet URL written into CSS (default: <name>.png)")

	return cmd
}
