package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/cache"
)

// cacheCommand creates the cache management command. It works on the file
// cache only; a redis backend is managed with redis tooling.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the image-dimension and layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cacheStatsCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// openFileCache opens the file cache in dir, or in the default directory.
func openFileCache(dir string) (*cache.FileCache, error) {
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var dir, kind string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached entries",
		Long: `Remove cached entries. With --kind, only image dimensions ("image") or
computed layouts ("layout") are removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch kind {
			case "", cache.KindImage, cache.KindLayout:
			default:
				return fmt.Errorf("unknown kind %q (want %s or %s)", kind, cache.KindImage, cache.KindLayout)
			}
			fc, err := openFileCache(dir)
			if err != nil {
				return err
			}
			n, err := fc.Clear(kind)
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "cache directory (default: XDG cache dir)")
	cmd.Flags().StringVar(&kind, "kind", "", "only clear entries of this kind (image, layout)")
	return cmd
}

func (c *CLI) cachePruneCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove expired and unreadable entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openFileCache(dir)
			if err != nil {
				return err
			}
			n, err := fc.Prune()
			if err != nil {
				return err
			}
			printSuccess("Pruned %d entries", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "cache directory (default: XDG cache dir)")
	return cmd
}

func (c *CLI) cacheStatsCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count cached entries by kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openFileCache(dir)
			if err != nil {
				return err
			}
			counts, err := fc.Count()
			if err != nil {
				return err
			}
			if len(counts) == 0 {
				printInfo("Cache is empty")
				return nil
			}
			kinds := make([]string, 0, len(counts))
			for k := range counts {
				kinds = append(kinds, k)
			}
			slices.Sort(kinds)
			for _, k := range kinds {
				printKeyValue(k, fmt.Sprint(counts[k]))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "cache directory (default: XDG cache dir)")
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
