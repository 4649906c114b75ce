package ioarchive

import (
	"archive/zip"
	"bytes"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// citation returns citation text from citation.csv or, if it is absent,
// from README.html. Problems with citations are logged and ignored.
func citation(zr *zip.ReadCloser) string {
	header, rows, err := readFile(zr, CitationFile)
	if err != nil {
		slog.Warn("Cannot read citation file", "file", CitationFile, "error", err)
	}
	if res := citationTSV(header, rows); res != "" {
		return res
	}

	bs, err := readAll(zr, ReadmeFile)
	if err != nil {
		slog.Warn("Cannot read citation file", "file", ReadmeFile, "error", err)
		return ""
	}
	if len(bs) == 0 {
		return ""
	}
	res, err := htmlText(bs)
	if err != nil {
		slog.Warn("Cannot parse citation file", "file", ReadmeFile, "error", err)
	}
	return res
}

// citationTSV uses the 'citation' column if there is one. Otherwise all
// non-empty values of a row make one line.
func citationTSV(header []string, rows [][]string) string {
	if len(header) == 0 {
		return ""
	}
	col := -1
	for i, h := range header {
		if strings.EqualFold(h, "citation") {
			col = i
			break
		}
	}

	var lines []string
	for _, row := range rows {
		if col >= 0 {
			if col < len(row) && strings.TrimSpace(row[col]) != "" {
				lines = append(lines, strings.TrimSpace(row[col]))
			}
			continue
		}
		var vals []string
		for _, v := range row {
			if v = strings.TrimSpace(v); v != "" {
				vals = append(vals, v)
			}
		}
		if len(vals) > 0 {
			lines = append(lines, strings.Join(vals, ", "))
		}
	}
	return strings.Join(lines, "\n")
}

// htmlText extracts readable text from an HTML document. Every block
// element starts a new line.
func htmlText(bs []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(bs))
	if err != nil {
		return "", err
	}

	var lines []string
	var cur strings.Builder
	flush := func() {
		if s := strings.Join(strings.Fields(cur.String()), " "); s != "" {
			lines = append(lines, s)
		}
		cur.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			cur.WriteString(n.Data)
			cur.WriteByte(' ')
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Head:
				return
			}
		}
		block := isBlock(n)
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}
	walk(doc)
	flush()
	return strings.Join(lines, "\n"), nil
}

func isBlock(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.P, atom.Div, atom.Br, atom.Li, atom.Ul, atom.Ol, atom.Tr,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Table, atom.Section, atom.Body:
		return true
	}
	return false
}
