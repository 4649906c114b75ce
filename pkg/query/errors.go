package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/occdl/pkg/errcode"
)

// NoCriteriaError is returned when a query has neither taxon, nor WKT,
// nor filter queries.
func NoCriteriaError() error {
	msg := `Query needs search criteria

<em>How to fix:</em>
  Provide at least one of taxon, wkt, or filter query (fq)`

	return &gn.Error{
		Code: errcode.QueryNoCriteriaError,
		Msg:  msg,
		Err:  errors.New("no search criteria: need taxon, wkt, or fq"),
	}
}

// UnknownFieldsError is returned when requested fields are not in the
// server's list of occurrence fields.
func UnknownFieldsError(names []string) error {
	msg := `Unknown occurrence fields: <em>%s</em>

<em>How to fix:</em>
  Run 'occdl fields' to see valid field names`
	list := strings.Join(names, ", ")

	return &gn.Error{
		Code: errcode.QueryUnknownFieldsError,
		Msg:  msg,
		Vars: []any{list},
		Err:  fmt.Errorf("unknown fields: %s", list),
	}
}

// UnknownAssertionsError is returned when requested quality assertions
// are not in the server's list of assertions.
func UnknownAssertionsError(names []string) error {
	msg := `Unknown quality assertions: <em>%s</em>

<em>How to fix:</em>
  Run 'occdl fields --assertions' to see valid assertion names,
  or use 'all' or 'none'`
	list := strings.Join(names, ", ")

	return &gn.Error{
		Code: errcode.QueryUnknownAssertionsError,
		Msg:  msg,
		Vars: []any{list},
		Err:  fmt.Errorf("unknown assertions: %s", list),
	}
}

// InvalidReasonError is returned when the download reason does not
// resolve to a valid reason id.
func InvalidReasonError(reason string) error {
	msg := `Download reason <em>'%s'</em> is not valid

<em>How to fix:</em>
  Run 'occdl reasons' to see valid reason ids and names`

	return &gn.Error{
		Code: errcode.QueryInvalidReasonError,
		Msg:  msg,
		Vars: []any{reason},
		Err:  fmt.Errorf("invalid download reason '%s'", reason),
	}
}

// NoEmailError is returned when the requester email is missing.
func NoEmailError() error {
	msg := `Email is required for occurrence downloads

<em>How to fix:</em>
  Use --email flag, OCCDL_DOWNLOAD_EMAIL variable,
  or 'download.email' in config.yaml`

	return &gn.Error{
		Code: errcode.QueryNoEmailError,
		Msg:  msg,
		Err:  errors.New("email is required"),
	}
}

// InvalidEmailError is returned when the requester email cannot be
// parsed as an address.
func InvalidEmailError(email string, err error) error {
	msg := "Email <em>%s</em> is not a valid address"
	return &gn.Error{
		Code: errcode.QueryInvalidEmailError,
		Msg:  msg,
		Vars: []any{email},
		Err:  fmt.Errorf("invalid email %q: %w", email, err),
	}
}
