package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feedwise/feedwise/internal/feed"
	"github.com/feedwise/feedwise/internal/profile"
)

var force bool

// feedsCmd represents the feeds command
var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "Manage the feeds file",
}

var feedsInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the built-in feed list to a feeds file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "feeds.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		data, err := feed.DefaultSources().Marshal()
		if err != nil {
			return fmt.Errorf("marshal feeds: %w", err)
		}
		if err := writeNew(path, data); err != nil {
			return err
		}
		fmt.Printf("✓ Created feeds file: %s\n", path)
		return nil
	},
}

var feedsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured feeds by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sources, err := loadSources(cfg.Feeds.File, os.Stderr)
		if err != nil {
			return err
		}
		for _, category := range sources.Categories() {
			fmt.Printf("%s:\n", category)
			for _, u := range sources[category] {
				fmt.Printf("  %s\n", u)
			}
		}
		return nil
	},
}

// profilesCmd represents the profiles command
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage user profiles",
}

var profilesInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the built-in personas to a profiles file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "profiles.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		data, err := profile.Marshal(profile.Defaults())
		if err != nil {
			return fmt.Errorf("marshal profiles: %w", err)
		}
		if err := writeNew(path, data); err != nil {
			return err
		}
		fmt.Printf("✓ Created profiles file: %s\n", path)
		return nil
	},
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Validate and list user profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		profiles, defaults, err := profile.LoadOrDefault(cfg.Profiles.File)
		if err != nil {
			return err
		}
		if defaults {
			fmt.Fprintf(os.Stderr, "Profiles file %s not found (built-in personas)\n\n", cfg.Profiles.File)
		}
		for _, p := range profiles {
			fmt.Printf("✓ %-16s %s\n", p.ID, p.DisplayName)
			fmt.Printf("    interests: %s\n", strings.Join(p.Interests, ", "))
			if len(p.PreferredSources) > 0 {
				fmt.Printf("    sources:   %s\n", strings.Join(p.PreferredSources, ", "))
			}
		}
		return nil
	},
}

// writeNew writes data to path unless it exists and --force is not set.
func writeNew(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("file already exists: %s (use --force to overwrite)", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(feedsCmd)
	feedsCmd.AddCommand(feedsInitCmd)
	feedsCmd.AddCommand(feedsListCmd)

	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesInitCmd)
	profilesCmd.AddCommand(profilesListCmd)

	feedsInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	profilesInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
}
