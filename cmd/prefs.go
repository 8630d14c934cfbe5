package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiz/internal/backend"
)

const (
	minDelay = time.Second
	maxDelay = 60 * time.Second
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change Lightning pacing",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := backend.StorePrefs{Repo: e.store.Preferences()}.Pacing(cmd.Context())
		if err != nil {
			return fmt.Errorf("load preferences: %w", err)
		}
		fmt.Printf("Lightning flip delay: %s\n", p.TimeToFlip)
		fmt.Printf("Lightning next delay: %s\n", p.TimeToNext)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change Lightning pacing",
	RunE: func(cmd *cobra.Command, args []string) error {
		flipSet := cmd.Flags().Changed("flip")
		nextSet := cmd.Flags().Changed("next")
		if !flipSet && !nextSet {
			return fmt.Errorf("nothing to change; pass --flip or --next")
		}

		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		prefs := backend.StorePrefs{Repo: e.store.Preferences()}
		p, err := prefs.Pacing(cmd.Context())
		if err != nil {
			return fmt.Errorf("load preferences: %w", err)
		}
		if flipSet {
			p.TimeToFlip, _ = cmd.Flags().GetDuration("flip")
		}
		if nextSet {
			p.TimeToNext, _ = cmd.Flags().GetDuration("next")
		}
		if err := checkDelay("flip", p.TimeToFlip); err != nil {
			return err
		}
		if err := checkDelay("next", p.TimeToNext); err != nil {
			return err
		}

		if err := prefs.SetPacing(cmd.Context(), p); err != nil {
			return fmt.Errorf("save preferences: %w", err)
		}
		fmt.Printf("Lightning pacing: flip after %s, next after %s\n", p.TimeToFlip, p.TimeToNext)
		return nil
	},
}

func init() {
	prefsSetCmd.Flags().Duration("flip", 0, "Delay before the card flips, e.g. 3s")
	prefsSetCmd.Flags().Duration("next", 0, "Delay before the next card, e.g. 5s")
	prefsCmd.AddCommand(prefsSetCmd)
}

func checkDelay(name string, d time.Duration) error {
	if d < minDelay || d > maxDelay {
		return fmt.Errorf("--%s must be between %s and %s", name, minDelay, maxDelay)
	}
	return nil
}
