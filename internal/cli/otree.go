package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spritepack/pkg/errors"
	"github.com/matzehuels/spritepack/pkg/pack"
)

// otreeCommand creates the otree debug command.
func (c *CLI) otreeCommand() *cobra.Command {
	var (
		output string
		axis   string
		dot    bool
	)

	cmd := &cobra.Command{
		Use:   "otree [sizes.json | images...]",
		Short: "Show the packing tree and constraint graph (debug tool)",
		Long: `Pack the input and show how the packer sees it.

Prints the final O-tree (module order and its parenthesis string) and
renders the constraint graph the compactor derives from it along the
chosen axis: h builds the vertical constraints from a horizontal pass,
v the other way around.`,
		Example: `  # Print the tree for a sizes file
  spritepack otree sizes.json

  # Render the horizontal-pass constraint graph
  spritepack otree icons/ --axis h -o constraints.svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseAxis(axis)
			if err != nil {
				return err
			}
			mods, _, err := loadModules(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if err := pack.Validate(mods); err != nil {
				return err
			}

			// The packer only sees modules with area; do the same here.
			var work []pack.Module
			for _, m := range mods {
				if m.Area() > 0 {
					work = append(work, pack.Module{ID: m.ID, Width: m.Width, Height: m.Height})
				}
			}
			work = pack.SortByArea(work)

			res, err := pack.Greedy(work, pack.WithLogger(c.Logger))
			if err != nil {
				return err
			}
			g, err := pack.Decode(res.Tree, work, a)
			if err != nil {
				return err
			}

			var data []byte
			if dot {
				data = []byte(g.ToDOT(work))
			} else {
				data, err = g.RenderSVG(work)
				if err != nil {
					return fmt.Errorf("render: %w", err)
				}
			}
			if output != "" {
				if err := writeFile(data, output); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}

			printSuccess("O-tree computed")
			printKeyValue("Order", treeOrder(res.Tree, work))
			printKeyValue("Tree", res.Tree.String())
			printKeyValue("Passes", fmt.Sprintf("%d", res.Passes))
			printKeyValue("Canvas", fmt.Sprintf("%dx%d", res.Placement.Width, res.Placement.Height))
			printKeyValue("Edges", fmt.Sprintf("%d", len(g.Edges())))
			if output != "" {
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the constraint graph to this file")
	cmd.Flags().StringVar(&axis, "axis", "h", "decode axis: h (horizontal) or v (vertical)")
	cmd.Flags().BoolVar(&dot, "dot", false, "write DOT source instead of SVG")

	return cmd
}

func parseAxis(s string) (pack.Axis, error) {
	switch strings.ToLower(s) {
	case "h", "horizontal":
		return pack.Horizontal, nil
	case "v", "vertical":
		return pack.Vertical, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid axis %q: want h or v", s)
}

// treeOrder lists module ids in tree order.
func treeOrder(t pack.Tree, mods []pack.Module) string {
	ids := make([]string, len(t.Order))
	for i, m := range t.Order {
		ids[i] = mods[m].ID
	}
	return strings.Join(ids, " ")
}
