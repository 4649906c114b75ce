package iovocab

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/occdl/pkg/errcode"
)

// FetchError is returned when a vocabulary cannot be downloaded.
func FetchError(name, url string, err error) error {
	msg := `Cannot get list of <em>%s</em> from the server

<em>URL:</em> %s

<em>How to fix:</em>
  1. Check network connection
  2. Check API URLs in config.yaml`
	vars := []any{name, url}

	return &gn.Error{
		Code: errcode.VocabFetchError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot fetch %s from %s: %w", name, url, err),
	}
}

// EmptyError is returned when the server sends an empty vocabulary that
// is required for validation.
func EmptyError(name, url string) error {
	msg := "Server returned an empty list of <em>%s</em>"
	vars := []any{name}

	return &gn.Error{
		Code: errcode.VocabFetchError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("empty %s from %s", name, url),
	}
}

// CacheError creates an error for cache-related failures.
func CacheError(operation string, err error) error {
	msg := `Vocabulary cache operation failed: <em>%s</em>`
	vars := []any{operation}

	return &gn.Error{
		Code: errcode.VocabCacheError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cache operation %s failed: %w", operation, err),
	}
}

// CacheNotOpenError is returned when the cache is used before Open.
func CacheNotOpenError() error {
	return CacheError("access", errors.New("cache database is not open"))
}
