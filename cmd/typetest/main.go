// Package main provides the CLI entrypoint for typetest.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/corpus"
	"github.com/verte-zerg/typetest/internal/history"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/session"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/tui"
)

const (
	defaultDifficulty = "Easy"
	defaultSentences  = 0
)

var (
	historyPath string
	verbose     bool
	logger      = slog.New(slog.NewTextHandler(io.Discard, nil))

	practiceUser       string
	practiceDifficulty string
	practiceLanguage   string
	practiceSentences  int
	practiceShuffle    bool
	practicePlain      bool
	practiceCorpusDir  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typetest",
		Short:         "Typing speed test with persisted history",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
		RunE: runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&historyPath, "history", "", "history log path (env "+config.HistoryEnv+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.Flags().StringVar(&practiceUser, "user", "", "user name (prompted when empty)")
	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", defaultDifficulty, "difficulty: Easy, Medium or Hard")
	rootCmd.Flags().StringVar(&practiceLanguage, "language", model.DefaultLanguage, "language recorded with the test")
	rootCmd.Flags().IntVar(&practiceSentences, "sentences", defaultSentences, "number of sentences (0 for the whole set)")
	rootCmd.Flags().BoolVar(&practiceShuffle, "shuffle", false, "pick sentences in random order")
	rootCmd.Flags().BoolVar(&practicePlain, "plain", false, "line-based prompts instead of the full-screen UI")
	rootCmd.Flags().StringVar(&practiceCorpusDir, "corpus-dir", "", "directory with easy.txt, medium.txt, hard.txt")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSentencesCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "user", &practiceUser, fileCfg.Practice.User)
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyStringConfig(cmd, "language", &practiceLanguage, fileCfg.Practice.Language)
	applyIntConfig(cmd, "sentences", &practiceSentences, fileCfg.Practice.Sentences)
	applyBoolConfig(cmd, "shuffle", &practiceShuffle, fileCfg.Practice.Shuffle)
	applyStringConfig(cmd, "corpus-dir", &practiceCorpusDir, fileCfg.Practice.CorpusDir)

	difficulty, err := model.ParseDifficulty(practiceDifficulty)
	if err != nil {
		return err
	}
	cfg := model.Config{
		UserName:   practiceUser,
		Difficulty: difficulty,
		Language:   practiceLanguage,
		Sentences:  practiceSentences,
		Shuffle:    practiceShuffle,
		CorpusDir:  resolveCorpusDir(practiceCorpusDir),
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	all, err := corpus.Load(cfg.CorpusDir, cfg.Difficulty)
	if err != nil {
		return err
	}
	sentences := corpus.NewPicker().Pick(all, cfg.Sentences, cfg.Shuffle)

	st, err := openHistory(fileCfg, true)
	if err != nil {
		return err
	}

	interactive := !practicePlain && isTerminal(os.Stdin) && isTerminal(os.Stdout)
	if interactive {
		return runInteractive(cmd.OutOrStdout(), cfg, sentences, st)
	}
	return runPlain(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cfg, sentences, st)
}

func runInteractive(out io.Writer, cfg model.Config, sentences []string, st *history.Store) error {
	if cfg.UserName == "" {
		prompt := tui.NewNamePrompt()
		if _, err := tea.NewProgram(prompt).Run(); err != nil {
			return fmt.Errorf("failed to run name prompt: %w", err)
		}
		name, ok := prompt.Name()
		if !ok {
			return nil
		}
		cfg.UserName = name
	}

	b := newBuilder(cfg)
	m := tui.NewModel(b, sentences, st, session.SystemClock{})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	rec, ok, err := m.Result()
	if !ok || (err != nil && rec.Timestamp == "") {
		return err
	}
	return presentResult(out, rec, err)
}

func runPlain(ctx context.Context, in io.Reader, out io.Writer, cfg model.Config, sentences []string, st *history.Store) error {
	input := session.NewConsoleInput(in, out)
	if cfg.UserName == "" {
		name, err := input.Ask(ctx, "Please enter your name: ")
		if err != nil {
			return fmt.Errorf("failed to read name: %w", err)
		}
		if name == "" {
			return fmt.Errorf("user name must not be empty")
		}
		cfg.UserName = name
	}
	if _, err := fmt.Fprintf(out, "\nHello %s! Type the following %d sentence(s).\n", cfg.UserName, len(sentences)); err != nil {
		return err
	}
	if err := input.WaitReady(ctx); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	runner := session.NewRunner(session.SystemClock{}, input, st)
	rec, err := runner.Run(ctx, newBuilder(cfg), sentences)
	if err != nil && rec.UserName == "" && rec.Timestamp == "" {
		return err
	}
	return presentResult(out, rec, err)
}

// presentResult prints the record and then reports a save failure, if any.
func presentResult(out io.Writer, rec model.Record, saveErr error) error {
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	if err := stats.RenderResult(out, rec); err != nil {
		return err
	}
	if saveErr != nil {
		return saveErr
	}
	_, err := fmt.Fprintln(out, "\nTest results saved to history.")
	return err
}

func newBuilder(cfg model.Config) *model.Builder {
	return model.NewBuilder().
		UserName(cfg.UserName).
		Difficulty(cfg.Difficulty).
		Language(cfg.Language)
}

// openHistory opens the history log. When forWrite is set the log directory
// is created so the first save can succeed.
func openHistory(fileCfg config.FileConfig, forWrite bool) (*history.Store, error) {
	path := config.ResolveHistoryPath(historyPath, fileCfg)
	if forWrite {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	opts := []history.Option{history.WithLogger(logger)}
	if fileCfg.History.Strict != nil && *fileCfg.History.Strict {
		opts = append(opts, history.WithStrict())
	}
	st, err := history.Open(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	if skipped := st.Skipped(); len(skipped) > 0 {
		logger.Warn("history contains malformed lines", "path", path, "skipped", len(skipped))
	}
	return st, nil
}

func resolveCorpusDir(dir string) string {
	if dir != "" {
		return dir
	}
	return config.DefaultCorpusDir()
}

func validateConfig(cfg model.Config) error {
	if cfg.Sentences < 0 {
		return fmt.Errorf("--sentences must be >= 0")
	}
	if cfg.Language == "" {
		return fmt.Errorf("--language must not be empty")
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
