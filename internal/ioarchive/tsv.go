package ioarchive

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// errFieldCount is returned when a row has more fields than the header.
var errFieldCount = errors.New("wrong number of fields")

// tsvReader reads tab-delimited files as the occurrence service writes
// them. The standard csv package cannot be used, because values are not
// quoted and tabs, new lines and backslashes inside of values are escaped
// with a backslash.
//
// The reader converts \r\n to \n, skips blank lines, and removes double
// quotes around values.
type tsvReader struct {
	r     *bufio.Reader
	line  int
	field bytes.Buffer
}

func newTSVReader(r io.Reader) *tsvReader {
	return &tsvReader{r: bufio.NewReader(r)}
}

// read returns the next record, or io.EOF when there is no more data.
func (r *tsvReader) read() ([]string, error) {
	for {
		rec, err := r.parseRecord()
		if err != nil {
			return nil, err
		}
		if len(rec) > 0 {
			return rec, nil
		}
	}
}

func (r *tsvReader) parseRecord() ([]string, error) {
	if _, err := r.r.Peek(1); err != nil {
		return nil, err
	}
	r.line++

	var res []string
	for {
		delim, err := r.parseField()
		if err != nil {
			return nil, err
		}
		res = append(res, unquote(r.field.String()))
		if delim == '\n' {
			break
		}
	}
	if len(res) == 1 && res[0] == "" {
		return nil, nil
	}
	return res, nil
}

func (r *tsvReader) parseField() (rune, error) {
	r.field.Reset()
	for {
		c, _, err := r.r.ReadRune()
		if errors.Is(err, io.EOF) {
			return '\n', nil
		}
		if err != nil {
			return 0, err
		}

		switch c {
		case '\t', '\n':
			return c, nil
		case '\r':
			if next, _ := r.r.Peek(1); len(next) == 1 && next[0] == '\n' {
				_, _ = r.r.ReadByte()
				return '\n', nil
			}
			r.field.WriteRune(c)
		case '\\':
			if err = r.parseEscape(); err != nil {
				return 0, err
			}
		default:
			r.field.WriteRune(c)
		}
	}
}

// parseEscape reads the rune after a backslash. Unknown escapes keep
// the backslash.
func (r *tsvReader) parseEscape() error {
	c, _, err := r.r.ReadRune()
	if errors.Is(err, io.EOF) {
		r.field.WriteRune('\\')
		return nil
	}
	if err != nil {
		return err
	}

	switch c {
	case 't':
		r.field.WriteRune('\t')
	case 'n':
		r.field.WriteRune('\n')
	case 'r':
		r.field.WriteRune('\r')
	case '\\', '"':
		r.field.WriteRune(c)
	default:
		r.field.WriteRune('\\')
		_ = r.r.UnreadRune()
	}
	return nil
}

func unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
}

// readTSV reads a header and all rows. Rows shorter than the header are
// kept as is, rows that are longer than the header are an error.
func readTSV(rd io.Reader) ([]string, [][]string, error) {
	r := newTSVReader(rd)
	header, err := r.read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("line %d: %w", r.line, err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for {
		rec, err := r.read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		if len(rec) > len(header) {
			return nil, nil, fmt.Errorf(
				"line %d: %w: got %d, header has %d",
				r.line, errFieldCount, len(rec), len(header),
			)
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}
