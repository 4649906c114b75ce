package ioarchive

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/occdl/pkg/errcode"
)

// OpenError is returned when a downloaded archive cannot be read as zip.
func OpenError(path string, err error) error {
	msg := `Cannot open occurrence archive <em>%s</em>

<em>How to fix:</em>
  1. Download again with <em>--cache refresh</em>
  2. Remove cached archives with <em>occdl cache clear --archives</em>`
	vars := []any{path}

	return &gn.Error{
		Code: errcode.ArchiveOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot open archive %s: %w", path, err),
	}
}

// ParseError is returned when a file inside of an archive is not a
// valid tab-delimited file.
func ParseError(path, file string, err error) error {
	msg := "Cannot parse <em>%s</em> in archive <em>%s</em>"
	vars := []any{file, path}

	return &gn.Error{
		Code: errcode.ArchiveParseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot parse %s in %s: %w", file, path, err),
	}
}
