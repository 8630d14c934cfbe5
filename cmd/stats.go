package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiz/internal/backend"
	"github.com/abhisek/lexiz/internal/study"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics, missions and achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		recent, _ := cmd.Flags().GetInt("recent")

		ctx := cmd.Context()
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		var profile backend.Profile = backend.NewLocal(e.store)
		if e.client != nil {
			if !e.client.Auth().Current().SignedIn() {
				return errSignedOut
			}
			profile = backend.NewRemote(e.client)
		}

		ov, err := profile.Overview(ctx)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		printOverview(ov)

		if recent > 0 {
			sessions, err := e.store.Results().Recent(ctx, recent)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}
			if len(sessions) > 0 {
				fmt.Println()
				fmt.Println("Recent sessions")
				fmt.Println(strings.Repeat("─", 56))
				for _, s := range sessions {
					fmt.Printf("%s  %-10s  %3d/%-3d correct  %4ds\n",
						s.Timestamp.Local().Format("2006-01-02 15:04"),
						study.Mode(s.Mode).Label(),
						s.CardsCorrect, s.CardsTotal, s.TotalTimeSec)
				}
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("recent", 5, "Number of recent sessions to list (0 to hide)")
}

func printOverview(ov *backend.Overview) {
	if ov.Username != "" {
		fmt.Printf("%s  ·  Level %d  ·  %d XP\n", ov.Username, ov.Level, ov.XP)
	}
	if ov.LanguageLevel != "" {
		fmt.Printf("Language level: %s\n", ov.LanguageLevel)
	}
	fmt.Printf("Words:   %d (%d learned)\n", ov.TotalWords, ov.LearnedWords)
	fmt.Printf("Today:   %d min, %d cards seen\n", int(ov.TimeToday.Minutes()), ov.ViewedToday)

	if len(ov.Missions) > 0 {
		fmt.Println()
		fmt.Println("Daily missions")
		fmt.Println(strings.Repeat("─", 56))
		for _, m := range ov.Missions {
			mark := " "
			if m.Done() {
				mark = "✓"
			}
			fmt.Printf("%s %-34s %3d/%-3d  +%d XP\n", mark, truncate(m.Name, 34), min(m.Progress, m.Target), m.Target, m.RewardXP)
		}
	}

	if len(ov.Achievements) > 0 {
		fmt.Println()
		fmt.Println("Achievements")
		fmt.Println(strings.Repeat("─", 56))
		for _, a := range ov.Achievements {
			mark := " "
			if a.Unlocked {
				mark = "★"
			}
			fmt.Printf("%s %-34s %3d/%d\n", mark, truncate(a.Name, 34), min(a.Progress, a.Threshold), a.Threshold)
		}
	}
}
