package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/corpus"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/store"
)

const defaultTrendWindow = 3

var (
	historyUser string
	historyAll  bool
	historyJSON bool

	statsUser       string
	statsDifficulty string
	statsSince      string
	statsLast       int
	statsWindow     int
	statsJSON       bool

	sentencesDifficulty string
	sentencesCorpusDir  string
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		logger.Debug("wrote default config", "path", path)
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typetest configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# user = "alice"          # Skip the name prompt
# difficulty = %q       # Easy, Medium or Hard
# language = %q      # Language recorded with each test
# sentences = %d           # Sentences per test (0 for the whole set)
# shuffle = false         # Pick sentences in random order
# corpus-dir = %q

[history]
# path = %q
# strict = false          # Refuse to start when the log has malformed lines

[stats]
# db = %q
`,
		defaultDifficulty,
		model.DefaultLanguage,
		defaultSentences,
		config.DefaultCorpusDir(),
		config.DefaultHistoryPath(),
		config.DefaultDBPath(),
	)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past test results",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyUser, "user", "", "show tests of one user (default: configured user)")
	cmd.Flags().BoolVar(&historyAll, "all", false, "show tests of every user")
	cmd.Flags().BoolVar(&historyJSON, "json", false, "print records as JSON")
	cmd.MarkFlagsMutuallyExclusive("user", "all")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	st, err := openHistory(fileCfg, false)
	if err != nil {
		return err
	}

	user := historyFilter(historyUser, historyAll, fileCfg.Practice.User)
	title := "All Test History"
	records := st.ListAll()
	showUser := true
	if user != "" {
		title = fmt.Sprintf("Test History for %s", user)
		records = st.ListForUser(user)
		showUser = false
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		return writeJSON(out, records)
	}
	return stats.RenderHistory(out, title, records, showUser)
}

// historyFilter picks whose history to show: --user, then the configured
// user unless --all is set. An empty result means every user.
func historyFilter(flagUser string, all bool, cfgUser *string) string {
	if flagUser != "" {
		return flagUser
	}
	if all || cfgUser == nil {
		return ""
	}
	return strings.TrimSpace(*cfgUser)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregated stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsUser, "user", "", "user filter")
	cmd.Flags().StringVar(&statsDifficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N tests")
	cmd.Flags().IntVar(&statsWindow, "trend-window", defaultTrendWindow, "moving average window for the WPM trend")
	cmd.Flags().BoolVar(&statsJSON, "json", false, "print the report as JSON")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig()
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	hist, err := openHistory(fileCfg, false)
	if err != nil {
		return err
	}

	dbPath := config.DefaultDBPath()
	if fileCfg.Stats.DB != nil && *fileCfg.Stats.DB != "" {
		dbPath = *fileCfg.Stats.DB
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close db", "path", dbPath, "err", cerr)
		}
	}()

	report, err := stats.BuildReport(cmd.Context(), st, hist.ListAll(), cfg)
	if err != nil {
		return err
	}
	logger.Debug("built stats report", "records", len(report.Records), "groups", len(report.Summaries))

	out := cmd.OutOrStdout()
	if statsJSON {
		return writeJSON(out, report)
	}
	if err := stats.RenderSummary(out, report.Records, statsWindow, time.Now()); err != nil {
		return err
	}
	return stats.RenderUserSummaries(out, report.Summaries)
}

func statsConfig() (model.StatsConfig, error) {
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--trend-window must be >= 1")
	}
	cfg := model.StatsConfig{UserName: statsUser, Last: statsLast}
	if statsDifficulty != "" {
		d, err := model.ParseDifficulty(statsDifficulty)
		if err != nil {
			return model.StatsConfig{}, err
		}
		cfg.Difficulty = d
	}
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
}

func newSentencesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sentences",
		Short: "Print the sentences used for a difficulty",
		Args:  cobra.NoArgs,
		RunE:  runSentencesCmd,
	}
	cmd.Flags().StringVar(&sentencesDifficulty, "difficulty", defaultDifficulty, "difficulty: Easy, Medium or Hard")
	cmd.Flags().StringVar(&sentencesCorpusDir, "corpus-dir", "", "directory with easy.txt, medium.txt, hard.txt")
	return cmd
}

func runSentencesCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "corpus-dir", &sentencesCorpusDir, fileCfg.Practice.CorpusDir)
	d, err := model.ParseDifficulty(sentencesDifficulty)
	if err != nil {
		return err
	}
	sentences, err := corpus.Load(resolveCorpusDir(sentencesCorpusDir), d)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i, s := range sentences {
		if _, err := fmt.Fprintf(out, "%2d. %s\n", i+1, s); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
