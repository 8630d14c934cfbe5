package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiz/internal/config"
	"github.com/abhisek/lexiz/internal/logging"
)

var (
	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "lexiz",
	Short:         "Vocabulary trainer for the terminal",
	Long:          "lexiz helps Russian speakers learn English words with flashcards, quizzes, matching, listening drills and chat practice.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		c, err := config.Load(path, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = c

		closer, err := logging.Setup(c.Log.Path, c.Log.Level)
		if err != nil {
			return err
		}
		logCloser = closer
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file")
	pf.String("db", "", "Path to SQLite database file (overrides LEXIZ_DB)")
	pf.Bool("offline", false, "Use the local deck instead of the server")
	pf.String("api-url", "", "Base URL of the vocabulary service")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(cardsCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// warn prints a message the user should see without failing the command.
func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Open the study setup for a mode",
	Long:  "Open the study setup for one of: speed, quiz, matching, listening, lightning.",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		return runApp(cmd, mode)
	},
}

func init() {
	studyCmd.Flags().StringP("mode", "m", "speed", "Study mode")
}
