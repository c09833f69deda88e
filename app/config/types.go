package config

// FetchProfile is the immutable configuration for the resilient fetcher:
// the ordered proxy relay chain and the retry/backoff policy. It is loaded
// once at startup and injected, never mutated.
type FetchProfile struct {
	// Proxies are CORS relay base URLs tried in order after direct attempts
	// are exhausted; the target URL is percent-encoded and appended.
	Proxies []string `yaml:"proxies"`

	MaxRetries int `yaml:"max_retries"`

	DirectTimeout int `yaml:"direct_timeout"` // seconds
	ProxyTimeout  int `yaml:"proxy_timeout"`  // seconds

	// BackoffBase is the first retry delay in seconds; each subsequent
	// retry doubles it.
	BackoffBase int `yaml:"backoff_base"`
}
