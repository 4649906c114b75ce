package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/gnames/gn"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptAPIBiocacheURL sets the base URL of occurrence web services.
func OptAPIBiocacheURL(s string) Option {
	s = trimURL(s)
	return func(c *Config) {
		if isValidURL("API Biocache URL", s) {
			c.API.BiocacheURL = s
		}
	}
}

// OptAPILoggerURL sets the base URL of the logger service.
func OptAPILoggerURL(s string) Option {
	s = trimURL(s)
	return func(c *Config) {
		if isValidURL("API Logger URL", s) {
			c.API.LoggerURL = s
		}
	}
}

// OptAPILayersURL sets the base URL of the spatial layers service.
func OptAPILayersURL(s string) Option {
	s = trimURL(s)
	return func(c *Config) {
		if isValidURL("API Layers URL", s) {
			c.API.LayersURL = s
		}
	}
}

// OptAPIDownloadURL sets the base URL of direct archive links.
func OptAPIDownloadURL(s string) Option {
	s = trimURL(s)
	return func(c *Config) {
		if isValidURL("API Download URL", s) {
			c.API.DownloadURL = s
		}
	}
}

// OptAPIUserAgent sets the User-Agent header of requests.
func OptAPIUserAgent(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("API User Agent", s) {
			c.API.UserAgent = s
		}
	}
}

// OptAPITimeout sets the timeout of a single HTTP request.
func OptAPITimeout(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("API Timeout", d) {
			c.API.Timeout = d
		}
	}
}

// OptAPIRequestsPerSecond sets the request rate limit.
func OptAPIRequestsPerSecond(i int) Option {
	return func(c *Config) {
		if isValidInt("API Requests Per Second", i) {
			c.API.RequestsPerSecond = i
		}
	}
}

// OptCacheMode sets the cache mode.
// Valid values: "on", "off", "refresh".
func OptCacheMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Cache.Mode", s) {
			c.Cache.Mode = s
		}
	}
}

// OptCacheVocabularyTTL sets how long vocabularies stay fresh.
func OptCacheVocabularyTTL(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Cache Vocabulary TTL", d) {
			c.Cache.VocabularyTTL = d
		}
	}
}

// OptDownloadEmail sets the email of the requester.
func OptDownloadEmail(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidEmail("Download Email", s) {
			c.Download.Email = s
		}
	}
}

// OptDownloadReason sets the download justification (id or name).
func OptDownloadReason(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Download Reason", s) {
			c.Download.Reason = s
		}
	}
}

// OptDownloadSourceTypeID sets the client identifier for the server logger.
func OptDownloadSourceTypeID(i int) Option {
	return func(c *Config) {
		if isValidInt("Download Source Type ID", i) {
			c.Download.SourceTypeID = i
		}
	}
}

// OptDownloadPollInterval sets the delay between job status checks.
func OptDownloadPollInterval(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Download Poll Interval", d) {
			c.Download.PollInterval = d
		}
	}
}

// OptDownloadPollTimeout sets the maximum time to wait for a job.
func OptDownloadPollTimeout(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Download Poll Timeout", d) {
			c.Download.PollTimeout = d
		}
	}
}

// OptDownloadMaxPollAttempts sets the maximum number of status checks.
func OptDownloadMaxPollAttempts(i int) Option {
	return func(c *Config) {
		if isValidInt("Download Max Poll Attempts", i) {
			c.Download.MaxPollAttempts = i
		}
	}
}

// OptDownloadShowProgress toggles the download progress bar.
func OptDownloadShowProgress(b bool) Option {
	return func(c *Config) {
		c.Download.ShowProgress = b
	}
}

// OptTaxonNormalize sets whether scientific names are canonicalized.
// Uses pointer to distinguish between unset (nil) and false.
func OptTaxonNormalize(b *bool) Option {
	return func(c *Config) {
		if b != nil {
			c.Taxon.Normalize = b
		}
	}
}

// OptTaxonCode sets the nomenclatural code for name parsing.
// Valid values: "any", "botanical", "zoological".
func OptTaxonCode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Taxon.Code", s) {
			c.Taxon.Code = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptVerbose turns on debug logs and progress messages.
// Runtime-only field - not in ToOptions().
func OptVerbose(b bool) Option {
	return func(c *Config) {
		c.Verbose = b
		if b {
			c.Log.Level = "debug"
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}

func trimURL(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimRight(s, "/")
}

func isValidURL(name, s string) bool {
	if !isValidString(name, s) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		gn.Warn("<em>%s</em> is not a valid URL: '%s', ignoring", name, s)
		return false
	}
	return true
}
