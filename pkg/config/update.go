package config

import (
	"fmt"
	"maps"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Verbose).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	var d time.Duration

	s = c.API.BiocacheURL
	if s != "" {
		res = append(res, OptAPIBiocacheURL(s))
	}
	s = c.API.LoggerURL
	if s != "" {
		res = append(res, OptAPILoggerURL(s))
	}
	s = c.API.LayersURL
	if s != "" {
		res = append(res, OptAPILayersURL(s))
	}
	s = c.API.DownloadURL
	if s != "" {
		res = append(res, OptAPIDownloadURL(s))
	}
	s = c.API.UserAgent
	if s != "" {
		res = append(res, OptAPIUserAgent(s))
	}
	d = c.API.Timeout
	if d > 0 {
		res = append(res, OptAPITimeout(d))
	}
	i = c.API.RequestsPerSecond
	if i > 0 {
		res = append(res, OptAPIRequestsPerSecond(i))
	}

	s = c.Cache.Mode
	if s != "" {
		res = append(res, OptCacheMode(s))
	}
	d = c.Cache.VocabularyTTL
	if d > 0 {
		res = append(res, OptCacheVocabularyTTL(d))
	}

	s = c.Download.Email
	if s != "" {
		res = append(res, OptDownloadEmail(s))
	}
	s = c.Download.Reason
	if s != "" {
		res = append(res, OptDownloadReason(s))
	}
	i = c.Download.SourceTypeID
	if i > 0 {
		res = append(res, OptDownloadSourceTypeID(i))
	}
	d = c.Download.PollInterval
	if d > 0 {
		res = append(res, OptDownloadPollInterval(d))
	}
	d = c.Download.PollTimeout
	if d > 0 {
		res = append(res, OptDownloadPollTimeout(d))
	}
	i = c.Download.MaxPollAttempts
	if i > 0 {
		res = append(res, OptDownloadMaxPollAttempts(i))
	}
	if c.Download.ShowProgress {
		res = append(res, OptDownloadShowProgress(true))
	}

	if c.Taxon.Normalize != nil {
		res = append(res, OptTaxonNormalize(c.Taxon.Normalize))
	}
	s = c.Taxon.Code
	if s != "" {
		res = append(res, OptTaxonCode(s))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidDuration(name string, d time.Duration) bool {
	res := d > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive duration, ignoring %s", name, d)
	}
	return res
}

func isValidEmail(name, s string) bool {
	if !isValidString(name, s) {
		return false
	}
	if _, err := mail.ParseAddress(s); err != nil {
		gn.Warn("<em>%s</em> is not a valid email: '%s', ignoring", name, s)
		return false
	}
	return true
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Cache.Mode":      {CacheOn: s, CacheOff: s, CacheRefresh: s},
		"Taxon.Code":      {"any": s, "botanical": s, "zoological": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
