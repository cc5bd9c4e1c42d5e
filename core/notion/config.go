package notion

import "time"

// Config holds configuration for the Notion API client.
type Config struct {
	// Token is the integration token used for authentication.
	Token string `mapstructure:"token" default:""`
	// BaseURL is the API root.
	BaseURL string `mapstructure:"base_url" default:"https://api.notion.com/v1"`
	// Version is the Notion-Version header value.
	Version string `mapstructure:"version" default:"2022-06-28"`
	// MinInterval is the minimum time between any two outbound requests.
	// The public rate limit is ~3 requests/second.
	MinInterval time.Duration `mapstructure:"min_interval" default:"350ms"`
	// MaxRetries is the maximum number of attempts per request, including the
	// first one.
	MaxRetries int `mapstructure:"max_retries" default:"5"`
	// TimeoutSeconds is the per-request HTTP timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
