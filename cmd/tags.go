package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiz/internal/backend"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage tags",
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDeck(cmd, func(ctx context.Context, deck backend.DeckEditor) error {
			tags, err := deck.StudyTags(ctx)
			if err != nil {
				return fmt.Errorf("list tags: %w", err)
			}
			if len(tags) == 0 {
				fmt.Println("No tags yet.")
				return nil
			}
			for _, t := range tags {
				mark := ""
				if t.IsPredefined {
					mark = "  (built in)"
				}
				fmt.Printf("%-8s  %s%s\n", shortID(t.ID), t.Name, mark)
			}
			return nil
		})
	},
}

var tagsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDeck(cmd, func(ctx context.Context, deck backend.DeckEditor) error {
			t, err := deck.CreateTag(ctx, args[0])
			if err != nil {
				return fmt.Errorf("create tag: %w", err)
			}
			fmt.Printf("Created %s (%s)\n", t.Name, shortID(t.ID))
			return nil
		})
	},
}

var tagsDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a tag and detach it from every card",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDeck(cmd, func(ctx context.Context, deck backend.DeckEditor) error {
			tags, err := deck.StudyTags(ctx)
			if err != nil {
				return fmt.Errorf("list tags: %w", err)
			}
			for _, t := range tags {
				if !strings.EqualFold(t.Name, args[0]) && t.ID != args[0] {
					continue
				}
				if t.IsPredefined {
					return fmt.Errorf("%s is built in and cannot be deleted", t.Name)
				}
				if err := deck.DeleteTag(ctx, t.ID); err != nil {
					return fmt.Errorf("delete tag: %w", err)
				}
				fmt.Printf("Deleted %s\n", t.Name)
				return nil
			}
			return fmt.Errorf("no tag named %q", args[0])
		})
	},
}

func init() {
	tagsCmd.AddCommand(tagsListCmd)
	tagsCmd.AddCommand(tagsAddCmd)
	tagsCmd.AddCommand(tagsDeleteCmd)
}
