package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/animation"
)

// animationsCommand lists the entrance animation presets.
func (c *CLI) animationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "animations",
		Short: "List entrance animations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range animation.Names() {
				p, _ := animation.Lookup(name)
				printKeyValue(name, fmt.Sprintf("%s → %s", describe(p.Start), describe(p.End)))
			}
			return nil
		},
	}
}

func describe(s animation.State) string {
	t := s.Transform
	if t == "" {
		t = "none"
	}
	return fmt.Sprintf("opacity %.1f, %s", s.Opacity, t)
}
