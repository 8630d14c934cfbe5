package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiz/internal/backend"
	"github.com/abhisek/lexiz/internal/importer"
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Manage vocabulary cards",
}

var cardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cards",
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, _ := cmd.Flags().GetString("tag")
		learnedOnly, _ := cmd.Flags().GetBool("learned")
		newOnly, _ := cmd.Flags().GetBool("new")
		if learnedOnly && newOnly {
			return fmt.Errorf("use --learned or --new, not both")
		}

		return withDeck(cmd, func(ctx context.Context, deck backend.DeckEditor) error {
			cards, err := deck.Cards(ctx)
			if err != nil {
				return fmt.Errorf("list cards: %w", err)
			}

			var shown []backend.CardInfo
			for _, c := range cards {
				if tag != "" && !hasTagName(c, tag) {
					continue
				}
				if (learnedOnly && !c.IsLearned) || (newOnly && c.IsLearned) {
					continue
				}
				shown = append(shown, c)
			}
			if len(shown) == 0 {
				fmt.Println("No cards found.")
				return nil
			}

			fmt.Printf("%-8s  %-24s  %-24s  %-5s  %-3s  %s\n", "ID", "Word", "Translation", "Level", "", "Tags")
			fmt.Println(strings.Repeat("─", 90))
			for _, c := range shown {
				learned := ""
				if c.IsLearned {
					learned = "✓"
				}
				fmt.Printf("%-8s  %-24s  %-24s  %-5s  %-3s  %s\n",
					shortID(c.ID),
					truncate(c.EnglishWord, 24),
					truncate(c.RussianTranslation, 24),
					c.Level,
					learned,
					strings.Join(c.TagNames, ", "),
				)
			}
			fmt.Printf("\n%d cards\n", len(shown))
			return nil
		})
	},
}

var cardsAddCmd = &cobra.Command{
	Use:   "add <word> [translation]",
	Short: "Add a card; the translation is looked up when omitted",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, _ := cmd.Flags().GetString("notes")
		level, _ := cmd.Flags().GetString("level")
		tags, _ := cmd.Flags().GetStringSlice("tag")

		word := strings.TrimSpace(args[0])
		translation := ""
		if len(args) == 2 {
			translation = strings.TrimSpace(args[1])
		}

		return withDeck(cmd, func(ctx context.Context, deck backend.DeckEditor) error {
			if translation == "" {
				if tr := translator(); tr != nil {
					translation = tr.EnglishToRussian(ctx, word)
				}
				if translation == "" {
					return fmt.Errorf("no translation for %q; pass it as the second argument", word)
				}
				fmt.Printf("Translated %q as %q\n", word, translation)
			}

			id, err := deck.AddCard(ctx, backend.CardEdit{
				EnglishWord:        word,
				RussianTranslation: translation,
				Notes:              notes,
				Level:              level,
			})
			if err != nil {
				return fmt.Errorf("add card: %w", err)
			}
			for _, name := range tags {
				if err := tagCard(ctx, deck, id, name); err != nil {
					warn("could not tag %q with %q: %v", word, name, err)
				}
			}
			fmt.Printf("Added %s (%s)\n", word, shortID(id))
			return nil
		})
	},
}

var cardsEditCmd = &cobra.Command{
	Use:   "edit <card>",
	Short: "Change a card's word, translation, notes or level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var e backend.CardEdit
		e.EnglishWord, _ = cmd.Flags().GetString("word")
		e.RussianTranslation, _ = cmd.Flags().GetString("translation")
		e.Notes, _ = cmd.Flags().GetString("notes")
		e.Level, _ = cmd.Flags().GetString("level")
		if e == (backend.CardEdit{}) {
			return fmt.Errorf("nothing to change; pass --word, --translation, --notes or --level")
		}

		return withCard(cmd, args[0], func(ctx context.Context, deck backend.DeckEditor, c backend.CardInfo) error {
			if err := deck.UpdateCard(ctx, c.ID, e); err != nil {
				return fmt.Errorf("update card: %w", err)
			}
			fmt.Printf("Updated %s\n", c.EnglishWord)
			return nil
		})
	},
}

var cardsDeleteCmd = &cobra.Command{
	Use:     "delete <card>",
	Aliases: []string{"rm"},
	Short:   "Delete a card",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCard(cmd, args[0], func(ctx context.Context, deck backend.DeckEditor, c backend.CardInfo) error {
			if err := deck.DeleteCard(ctx, c.ID); err != nil {
				return fmt.Errorf("delete card: %w", err)
			}
			fmt.Printf("Deleted %s\n", c.EnglishWord)
			return nil
		})
	},
}

var cardsLearnCmd = &cobra.Command{
	Use:   "learn <card>",
	Short: "Mark a card learned (or not, with --undo)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		undo, _ := cmd.Flags().GetBool("undo")
		return withCard(cmd, args[0], func(ctx context.Context, deck backend.DeckEditor, c backend.CardInfo) error {
			if err := deck.SetLearned(ctx, c.ID, !undo); err != nil {
				return fmt.Errorf("mark learned: %w", err)
			}
			if undo {
				fmt.Printf("%s is back in study\n", c.EnglishWord)
			} else {
				fmt.Printf("%s marked learned\n", c.EnglishWord)
			}
			return nil
		})
	},
}

var cardsTagCmd = &cobra.Command{
	Use:   "tag <card> <tag>",
	Short: "Attach a tag to a card, creating the tag if needed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCard(cmd, args[0], func(ctx context.Context, deck backend.DeckEditor, c backend.CardInfo) error {
			if err := tagCard(ctx, deck, c.ID, args[1]); err != nil {
				return err
			}
			fmt.Printf("Tagged %s with %s\n", c.EnglishWord, args[1])
			return nil
		})
	},
}

var cardsUntagCmd = &cobra.Command{
	Use:   "untag <card> <tag>",
	Short: "Detach a tag from a card",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCard(cmd, args[0], func(ctx context.Context, deck backend.DeckEditor, c backend.CardInfo) error {
			tags, err := deck.StudyTags(ctx)
			if err != nil {
				return fmt.Errorf("list tags: %w", err)
			}
			for _, t := range tags {
				if strings.EqualFold(t.Name, args[1]) {
					if err := deck.UntagCard(ctx, c.ID, t.ID); err != nil {
						return fmt.Errorf("untag card: %w", err)
					}
					fmt.Printf("Removed %s from %s\n", t.Name, c.EnglishWord)
					return nil
				}
			}
			return fmt.Errorf("no tag named %q", args[1])
		})
	},
}

var cardsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import cards from an .xlsx or .csv file",
	Long: `Import cards from a spreadsheet or CSV file.

By default column A holds the word, B the translation, C notes, D tags
(comma separated) and E the level, and the first row is a header. Words
already in the deck are skipped. Missing translations are looked up when
translation is configured.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		icfg := importer.DefaultConfig()
		icfg.Path = args[0]
		f := cmd.Flags()
		icfg.SheetName, _ = f.GetString("sheet")
		icfg.StartRow, _ = f.GetInt("start-row")
		icfg.WordColumn, _ = f.GetString("word-col")
		icfg.TranslationColumn, _ = f.GetString("translation-col")
		icfg.NotesColumn, _ = f.GetString("notes-col")
		icfg.TagsColumn, _ = f.GetString("tags-col")
		icfg.LevelColumn, _ = f.GetString("level-col")

		ctx := cmd.Context()
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		var sink importer.Sink
		if e.client == nil {
			sink = importer.NewDeckSink(e.store.Deck())
		} else {
			if !e.client.Auth().Current().SignedIn() {
				return errSignedOut
			}
			sink = importer.NewAPISink(e.client)
		}
		var fill importer.TranslateFunc
		if tr := translator(); tr != nil {
			fill = tr.EnglishToRussian
		}

		res, err := importer.New(sink, fill).Import(ctx, icfg)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}

		fmt.Printf("Processed %d rows: %d added, %d translated, %d skipped\n",
			res.TotalProcessed, res.Created, res.Translated, res.Skipped)
		for _, msg := range res.Errors {
			warn("%s", msg)
		}
		return nil
	},
}

func init() {
	cardsListCmd.Flags().String("tag", "", "Only cards with this tag")
	cardsListCmd.Flags().Bool("learned", false, "Only learned cards")
	cardsListCmd.Flags().Bool("new", false, "Only cards still in study")

	cardsAddCmd.Flags().String("notes", "", "Notes shown with the card")
	cardsAddCmd.Flags().String("level", "", "CEFR level (A1-C2)")
	cardsAddCmd.Flags().StringSlice("tag", nil, "Tag to attach (repeatable)")

	cardsEditCmd.Flags().String("word", "", "New English word")
	cardsEditCmd.Flags().String("translation", "", "New translation")
	cardsEditCmd.Flags().String("notes", "", "New notes")
	cardsEditCmd.Flags().String("level", "", "New CEFR level (A1-C2)")

	cardsLearnCmd.Flags().Bool("undo", false, "Put the card back into study")

	d := importer.DefaultConfig()
	cardsImportCmd.Flags().String("sheet", "", "Sheet name (first sheet when empty)")
	cardsImportCmd.Flags().Int("start-row", d.StartRow, "First data row (1-based)")
	cardsImportCmd.Flags().String("word-col", d.WordColumn, "Column holding the English word")
	cardsImportCmd.Flags().String("translation-col", d.TranslationColumn, "Column holding the translation")
	cardsImportCmd.Flags().String("notes-col", d.NotesColumn, "Column holding notes (empty to skip)")
	cardsImportCmd.Flags().String("tags-col", d.TagsColumn, "Column holding tags (empty to skip)")
	cardsImportCmd.Flags().String("level-col", d.LevelColumn, "Column holding the level (empty to skip)")

	cardsCmd.AddCommand(cardsListCmd)
	cardsCmd.AddCommand(cardsAddCmd)
	cardsCmd.AddCommand(cardsEditCmd)
	cardsCmd.AddCommand(cardsDeleteCmd)
	cardsCmd.AddCommand(cardsLearnCmd)
	cardsCmd.AddCommand(cardsTagCmd)
	cardsCmd.AddCommand(cardsUntagCmd)
	cardsCmd.AddCommand(cardsImportCmd)
}

// withDeck opens the environment and runs fn against the card backend.
func withDeck(cmd *cobra.Command, fn func(ctx context.Context, deck backend.DeckEditor) error) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	deck, err := e.deck()
	if err != nil {
		return err
	}
	return fn(ctx, deck)
}

// withCard resolves ref to a single card and runs fn with it.
func withCard(cmd *cobra.Command, ref string, fn func(ctx context.Context, deck backend.DeckEditor, c backend.CardInfo) error) error {
	return withDeck(cmd, func(ctx context.Context, deck backend.DeckEditor) error {
		cards, err := deck.Cards(ctx)
		if err != nil {
			return fmt.Errorf("list cards: %w", err)
		}
		c, err := resolveCard(cards, ref)
		if err != nil {
			return err
		}
		return fn(ctx, deck, c)
	})
}

// resolveCard finds the card whose ID, ID prefix or English word matches
// ref. Words match case-insensitively; an ambiguous prefix is an error.
func resolveCard(cards []backend.CardInfo, ref string) (backend.CardInfo, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return backend.CardInfo{}, fmt.Errorf("no card given")
	}

	var byPrefix []backend.CardInfo
	for _, c := range cards {
		if c.ID == ref {
			return c, nil
		}
		if strings.HasPrefix(c.ID, ref) {
			byPrefix = append(byPrefix, c)
		}
	}
	for _, c := range cards {
		if strings.EqualFold(c.EnglishWord, ref) {
			return c, nil
		}
	}

	switch len(byPrefix) {
	case 0:
		return backend.CardInfo{}, fmt.Errorf("no card matches %q", ref)
	case 1:
		return byPrefix[0], nil
	default:
		return backend.CardInfo{}, fmt.Errorf("%q matches %d cards; use a longer ID", ref, len(byPrefix))
	}
}

// tagCard attaches the tag named name, creating it first if it is new.
func tagCard(ctx context.Context, deck backend.DeckEditor, cardID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("tag name is empty")
	}
	tags, err := deck.StudyTags(ctx)
	if err != nil {
		return fmt.Errorf("list tags: %w", err)
	}
	tagID := ""
	for _, t := range tags {
		if strings.EqualFold(t.Name, name) {
			tagID = t.ID
			break
		}
	}
	if tagID == "" {
		t, err := deck.CreateTag(ctx, name)
		if err != nil {
			return fmt.Errorf("create tag: %w", err)
		}
		tagID = t.ID
	}
	if err := deck.TagCard(ctx, cardID, tagID); err != nil {
		return fmt.Errorf("tag card: %w", err)
	}
	return nil
}

func hasTagName(c backend.CardInfo, name string) bool {
	for _, n := range c.TagNames {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

func shortID(id string) string {
	return truncate(id, 8)
}

var cardsDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List cards due for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withDeck(cmd, func(ctx context.Context, deck backend.DeckEditor) error {
			r, ok := deck.(backend.Reviewer)
			if !ok {
				return fmt.Errorf("review scheduling is not available")
			}
			cards, err := r.DueCards(ctx, limit)
			if err != nil {
				return fmt.Errorf("cards to review: %w", err)
			}
			if len(cards) == 0 {
				fmt.Println("Nothing to review. Nice work.")
				return nil
			}
			for _, c := range cards {
				fmt.Printf("%-8s  %-24s  %s\n", shortID(c.ID), truncate(c.EnglishWord, 24), c.RussianTranslation)
			}
			return nil
		})
	},
}

func init() {
	cardsDueCmd.Flags().IntP("limit", "n", 20, "Maximum number of cards (0 for all)")
	cardsCmd.AddCommand(cardsDueCmd)
}
