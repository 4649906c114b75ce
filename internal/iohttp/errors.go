package iohttp

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/occdl/pkg/errcode"
)

// RequestError is returned when a request could not be completed.
func RequestError(url string, err error) error {
	msg := "Cannot reach <em>%s</em>"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.HTTPRequestError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: request to %s failed: %w",
			fn.Name(), url, err),
	}
}

// StatusError is returned for responses with non-2xx status codes.
// The body snippet keeps the raw server message.
func StatusError(url string, status int, body string) error {
	msg := `Server returned status <em>%d</em> for <em>%s</em>
%s`
	vars := []any{status, url, body}
	return &gn.Error{
		Code: errcode.HTTPStatusError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("unexpected status %d from %s: %s",
			status, url, body),
	}
}

// DecodeError is returned when a response body is not valid JSON of
// the expected shape.
func DecodeError(url string, err error) error {
	msg := "Cannot decode response from <em>%s</em>"
	vars := []any{url}
	return &gn.Error{
		Code: errcode.HTTPDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot decode response from %s: %w", url, err),
	}
}
