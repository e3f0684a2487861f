package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"memoir-backend/application/commands"
	commands_handlers "memoir-backend/application/commands/handlers"
	"memoir-backend/application/queries"
	"memoir-backend/infrastructure/config"
	"memoir-backend/infrastructure/di"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	userID        string
	chapterID     string
	patternType   string
	force         bool
	clearExisting bool
	cfg           *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "narrative",
	Short:   "Photo life-narrative pipeline",
	Long:    "Narrative organizes a photo collection into chapters, story arcs, and recurring patterns.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "User ID")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(arcsCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(regenerateCmd)

	chaptersCmd.AddCommand(chaptersGenerateCmd)
	chaptersCmd.AddCommand(chaptersListCmd)
	chaptersCmd.AddCommand(chaptersShowCmd)
	chaptersGenerateCmd.Flags().BoolVar(&force, "force", false, "Regenerate even when chapters already exist")
	chaptersShowCmd.Flags().StringVar(&chapterID, "chapter", "", "Chapter ID")

	arcsCmd.AddCommand(arcsDetectCmd)
	arcsDetectCmd.Flags().StringVar(&chapterID, "chapter", "", "Chapter ID")

	patternsCmd.AddCommand(patternsDetectCmd)
	patternsCmd.AddCommand(patternsListCmd)
	patternsDetectCmd.Flags().BoolVar(&clearExisting, "clear", false, "Clear existing patterns before detecting")
	patternsListCmd.Flags().StringVarP(&patternType, "type", "t", "", "Filter by pattern type (temporal, spatial, visual)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("narrative", version)
	},
}

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "Manage life chapters",
}

var chaptersGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate chapters from a user's photo collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Logger.Sync()

		chapters, err := c.GenerateChapters.Handle(ctx, commands.GenerateChaptersCommand{
			UserID: userID,
			Force:  force,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Generated %d chapters\n", len(chapters))
		for _, ch := range chapters {
			fmt.Printf("  %s  %s (%s)\n", ch.ID().String(), ch.Title(), ch.Subtitle())
		}
		return nil
	},
}

var chaptersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's chapters",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Logger.Sync()

		result, err := c.ListChapters.Handle(ctx, queries.ListChaptersQuery{UserID: userID})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var chaptersShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a chapter with its story arcs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Logger.Sync()

		result, err := c.GetChapter.Handle(ctx, queries.GetChapterQuery{
			UserID:    userID,
			ChapterID: chapterID,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var arcsCmd = &cobra.Command{
	Use:   "arcs",
	Short: "Manage story arcs",
}

var arcsDetectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect story arcs within a chapter",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Logger.Sync()

		arcs, err := c.DetectStoryArcs.Handle(ctx, commands.DetectStoryArcsCommand{
			ChapterID: chapterID,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Detected %d story arcs\n", len(arcs))
		for _, arc := range arcs {
			fmt.Printf("  %s  %s [%s]\n", arc.ID().String(), arc.Title(), arc.Source())
		}
		return nil
	},
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Manage recurring patterns",
}

var patternsDetectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect recurring patterns across a user's collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Logger.Sync()

		patterns, err := c.DetectPatterns.Handle(ctx, commands.DetectPatternsCommand{
			UserID: userID,
			Clear:  clearExisting,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Detected %d patterns\n", len(patterns))
		for _, p := range patterns {
			fmt.Printf("  %-8s  %.2f  %s\n", p.Type(), p.Confidence(), p.Description())
		}
		return nil
	},
}

var patternsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Logger.Sync()

		result, err := c.ListPatterns.Handle(ctx, queries.ListPatternsQuery{
			UserID: userID,
			Type:   patternType,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Run the full narrative pipeline for a user",
	Long:  "Regenerates chapters, re-detects story arcs per chapter, and re-detects patterns as a single compensable pipeline.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Logger.Sync()

		result, err := c.Regenerate.Handle(ctx, commands_handlers.RegenerateNarrativeCommand{
			UserID: userID,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func newContainer(ctx context.Context) (*di.Container, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return di.InitializeContainer(ctx, cfg)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
