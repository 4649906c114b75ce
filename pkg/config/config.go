// Package config provides configuration management for occdl.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
// - A *Config is passed explicitly to every component, there is no
// process-wide state
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - API: biocache_url, logger_url, layers_url, download_url, user_agent,
//     timeout, requests_per_second
//   - Cache: mode, vocabulary_ttl
//   - Download: email, reason, source_type_id, poll_interval, poll_timeout,
//     max_poll_attempts, show_progress
//   - Taxon: normalize, code
//   - Log: level, format, destination
//
// Runtime-only fields (CLI flags only):
//   - Verbose
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use OCCDL_ prefix with underscores for nesting:
//
//	OCCDL_API_BIOCACHE_URL=https://records.biodiversitydata.se/ws
//	OCCDL_CACHE_MODE=refresh
//	OCCDL_DOWNLOAD_EMAIL=me@example.org
//	OCCDL_LOG_LEVEL=debug
package config

import "time"

// Config represents the complete occdl configuration.
type Config struct {
	// API contains the addresses of the remote services and HTTP settings.
	API APIConfig `mapstructure:"api" yaml:"api"`

	// Cache contains settings for reuse of downloaded archives and
	// server vocabularies.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	// Download contains settings of offline download jobs.
	Download DownloadConfig `mapstructure:"download" yaml:"download"`

	// Taxon contains settings for the handling of taxon search terms.
	Taxon TaxonConfig `mapstructure:"taxon" yaml:"taxon"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Verbose adds debug-level logs and user-facing progress messages.
	Verbose bool `mapstructure:"-" yaml:"-"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// APIConfig contains web service locations and HTTP client settings.
type APIConfig struct {
	// BiocacheURL is the base of occurrence web services
	// (offline download, index fields, assertion codes).
	BiocacheURL string `mapstructure:"biocache_url" yaml:"biocache_url"`

	// LoggerURL is the base of the logger service that provides
	// download reasons.
	LoggerURL string `mapstructure:"logger_url" yaml:"logger_url"`

	// LayersURL is the base of the spatial service that provides
	// environmental and contextual layers.
	LayersURL string `mapstructure:"layers_url" yaml:"layers_url"`

	// DownloadURL is the base of direct archive links. It is used to
	// recover jobs that the server reports as 'invalidId'.
	DownloadURL string `mapstructure:"download_url" yaml:"download_url"`

	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`

	// Timeout of a single HTTP request. Archive downloads use
	// ten times this value.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// RequestsPerSecond limits the request rate, we do not want to
	// overload the server.
	RequestsPerSecond int `mapstructure:"requests_per_second" yaml:"requests_per_second"`
}

// CacheConfig contains settings of the local cache.
type CacheConfig struct {
	// Mode is one of "on", "off", "refresh".
	// "on" reuses existing archives, "off" never reuses nor keeps them,
	// "refresh" always downloads and overwrites cached copies.
	Mode string `mapstructure:"mode" yaml:"mode"`

	// VocabularyTTL is how long fetched fields, assertions, layers and
	// reasons are considered fresh.
	VocabularyTTL time.Duration `mapstructure:"vocabulary_ttl" yaml:"vocabulary_ttl"`
}

// DownloadConfig contains settings of offline download jobs.
type DownloadConfig struct {
	// Email of the requester, required by the server.
	Email string `mapstructure:"email" yaml:"email"`

	// Reason is the download justification, either a numeric id or
	// a name from the server's list of reasons.
	Reason string `mapstructure:"reason" yaml:"reason"`

	// SourceTypeID identifies the client software to the server logger.
	SourceTypeID int `mapstructure:"source_type_id" yaml:"source_type_id"`

	// PollInterval is the delay between job status checks.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`

	// PollTimeout is the maximum time to wait for a job to finish.
	PollTimeout time.Duration `mapstructure:"poll_timeout" yaml:"poll_timeout"`

	// MaxPollAttempts is the maximum number of status checks per job.
	MaxPollAttempts int `mapstructure:"max_poll_attempts" yaml:"max_poll_attempts"`

	// ShowProgress shows a progress bar while the archive is downloaded.
	ShowProgress bool `mapstructure:"show_progress" yaml:"show_progress"`
}

// TaxonConfig contains settings for taxon search terms.
type TaxonConfig struct {
	// Normalize replaces a bare scientific name with its canonical
	// form (no authorship) before it is sent to the server.
	Normalize *bool `mapstructure:"normalize" yaml:"normalize"`

	// Code is the nomenclatural code used for parsing names:
	// 'any', 'botanical' or 'zoological'.
	Code string `mapstructure:"code" yaml:"code"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	normalize := true
	res := &Config{
		API: APIConfig{
			BiocacheURL:       "https://records.biodiversitydata.se/ws",
			LoggerURL:         "https://logger.biodiversitydata.se/service/logger",
			LayersURL:         "https://spatial.biodiversitydata.se/ws",
			DownloadURL:       "https://records.biodiversitydata.se/biocache-download",
			UserAgent:         AppName + "/" + "dev",
			Timeout:           60 * time.Second,
			RequestsPerSecond: 5,
		},
		Cache: CacheConfig{
			Mode:          CacheOn,
			VocabularyTTL: 24 * time.Hour,
		},
		Download: DownloadConfig{
			SourceTypeID:    2001,
			PollInterval:    2 * time.Second,
			PollTimeout:     time.Hour,
			MaxPollAttempts: 1800,
		},
		Taxon: TaxonConfig{
			Normalize: &normalize,
			Code:      "any",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
	}

	return res
}

// NormalizeTaxon reports if taxon names should be canonicalized.
func (c *Config) NormalizeTaxon() bool {
	return c.Taxon.Normalize == nil || *c.Taxon.Normalize
}
