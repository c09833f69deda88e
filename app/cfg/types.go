package cfg

type Cfg struct {
	// Application configuration
	Port           string
	FetchProfile   string
	DownloadDir    string
	APIAccessKey   string
	ExportDelayMs  int
	GroupByProduct bool

	// Fetch cache
	CacheEnabled bool
	CachePath    string
	CacheTTL     int // seconds

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
