package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage and input configuration
	DataDir     string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Directory for the database and generated artifacts"`
	SourcesFile string `long:"sources-file" env:"SOURCES_FILE" default:"./config/sources.yml" description:"YAML file listing feed sources and paper categories"`

	// Fetching configuration
	WorkerCount int    `long:"worker-count" env:"WORKER_COUNT" default:"8" description:"Number of concurrent feed fetchers"`
	HTTPTimeout int    `long:"http-timeout" env:"HTTP_TIMEOUT" default:"30" description:"HTTP request timeout in seconds"`
	UserAgent   string `long:"user-agent" env:"USER_AGENT" default:"newsbrief/1.0" description:"User agent string for HTTP requests"`

	// Deduplication configuration
	DedupWindowDays     int     `long:"dedup-window" env:"DEDUP_WINDOW_DAYS" default:"7" description:"Retention window in days for seen articles"`
	PaperWindowDays     int     `long:"paper-window" env:"PAPER_WINDOW_DAYS" default:"90" description:"Retention window in days for seen papers"`
	SimilarityThreshold float64 `long:"similarity-threshold" env:"SIMILARITY_THRESHOLD" default:"0.9" description:"Title similarity score above which items are duplicates"`

	// Summarization configuration
	AnthropicAPIKey string `long:"anthropic-api-key" env:"ANTHROPIC_API_KEY" description:"Anthropic API key (passthrough summarizer is used when empty)"`
	Model           string `long:"model" env:"MODEL" default:"claude-3-5-haiku-20241022" description:"Model used for summarization and briefing synthesis"`
	BatchSize       int    `long:"batch-size" env:"BATCH_SIZE" default:"5" description:"Number of items summarized per API call"`
	SelectionCount  int    `long:"selection-count" env:"SELECTION_COUNT" default:"5" description:"Number of items selected for the deep briefing"`

	// Publishing configuration
	RepoDir     string `long:"repo-dir" env:"REPO_DIR" default:"." description:"Git repository the digest is committed to"`
	BaseBranch  string `long:"base-branch" env:"BASE_BRANCH" default:"main" description:"Base branch for digest pull requests"`
	SkipPublish bool   `long:"skip-publish" env:"SKIP_PUBLISH" description:"Write the digest to the data directory instead of opening a pull request"`

	// Serve mode configuration
	Port string `long:"port" env:"PORT" default:"8080" description:"HTTP server port for the serve phase"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Args struct {
		Phase string `positional-arg-name:"phase" description:"Pipeline phase to run: collect, digest, paper or serve"`
	} `positional-args:"yes" required:"yes"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Phase:               raw.Args.Phase,
		DataDir:             raw.DataDir,
		SourcesFile:         raw.SourcesFile,
		WorkerCount:         raw.WorkerCount,
		HTTPTimeout:         raw.HTTPTimeout,
		UserAgent:           raw.UserAgent,
		DedupWindowDays:     raw.DedupWindowDays,
		PaperWindowDays:     raw.PaperWindowDays,
		SimilarityThreshold: raw.SimilarityThreshold,
		AnthropicAPIKey:     raw.AnthropicAPIKey,
		Model:               raw.Model,
		BatchSize:           raw.BatchSize,
		SelectionCount:      raw.SelectionCount,
		RepoDir:             raw.RepoDir,
		BaseBranch:          raw.BaseBranch,
		SkipPublish:         raw.SkipPublish,
		Port:                raw.Port,
		Debug:               raw.Debug,
		Version:             GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration. Intended for tests.
func Set(cfg *Cfg) {
	globalCfg = cfg
}

func validate(cfg *Cfg) error {
	switch cfg.Phase {
	case "collect", "digest", "paper", "serve":
	default:
		return fmt.Errorf("unknown phase %q, expected collect, digest, paper or serve", cfg.Phase)
	}

	if cfg.BatchSize < 1 {
		return fmt.Errorf("batch size must be >= 1")
	}
	if cfg.SelectionCount < 1 {
		return fmt.Errorf("selection count must be >= 1")
	}
	if cfg.DedupWindowDays < 1 || cfg.PaperWindowDays < 1 {
		return fmt.Errorf("dedup windows must be >= 1 day")
	}
	if cfg.SimilarityThreshold <= 0 || cfg.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in (0, 1]")
	}

	return nil
}
