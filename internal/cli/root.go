package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/spritepack/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Spritepack packs images into CSS sprite sheets",
		Long: `Spritepack packs a set of images into one compact sprite sheet and writes
the CSS that addresses each image by its offset in the sheet.

Layouts are computed with an O-tree packer and cached locally, so
rebuilding an unchanged sheet is cheap.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.packCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.drawCommand())
	root.AddCommand(c.otreeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
