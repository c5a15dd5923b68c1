package cfg

type Cfg struct {
	// Pipeline phase selected on the command line
	Phase string

	// Storage and input configuration
	DataDir     string
	SourcesFile string

	// Fetching configuration
	WorkerCount int
	HTTPTimeout int
	UserAgent   string

	// Deduplication configuration
	DedupWindowDays     int
	PaperWindowDays     int
	SimilarityThreshold float64

	// Summarization configuration
	AnthropicAPIKey string
	Model           string
	BatchSize       int
	SelectionCount  int

	// Publishing configuration
	RepoDir     string
	BaseBranch  string
	SkipPublish bool

	// Serve mode configuration
	Port string

	// Application metadata
	Debug   bool
	Version string
}
