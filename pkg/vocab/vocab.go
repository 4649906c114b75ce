// Package vocab describes controlled vocabularies published by the
// occurrence web services: index fields, quality assertions,
// environmental and contextual layers, and download reasons.
//
// This is a pure package, fetching and caching of vocabularies happens
// in internal/iovocab.
package vocab

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Source provides vocabularies, usually from a remote server with a
// local cache in front of it.
type Source interface {
	// Load returns vocabularies, from cache when they are fresh.
	Load(ctx context.Context) (*Vocabulary, error)

	// Clear invalidates cached vocabularies.
	Clear() error
}

// Field is an occurrence index field.
type Field struct {
	// Name is the field id used in queries, e.g. 'data_resource_uid'.
	Name string `json:"name"`
	// Description is a human readable explanation of the field.
	Description string `json:"description"`
	// DwcTerm is the Darwin Core term that corresponds to the field.
	DwcTerm string `json:"dwcTerm"`
	// DownloadName is the column name used in download archives.
	DownloadName string `json:"downloadName"`
	// Indexed is true if the field can be used in filter queries.
	Indexed bool `json:"indexed"`
	// Stored is true if the field can be downloaded.
	Stored bool `json:"stored"`
	// Default is true if the field is part of default downloads.
	Default bool `json:"default,omitempty"`
}

// Assertion is a data-quality flag set on occurrence records.
type Assertion struct {
	Name        string `json:"name"`
	Code        int    `json:"code"`
	Description string `json:"description"`
	// Fatal assertions mark records that are unusable for most analyses.
	Fatal bool `json:"isFatal"`
}

// Layer is an environmental ('el' prefix) or contextual ('cl' prefix)
// spatial layer. Occurrence archives use layer ids as column names.
type Layer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Reason is a download justification accepted by the logger service.
type Reason struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Key        string `json:"rkey"`
	Deprecated bool   `json:"deprecated"`
}

// Vocabulary groups all vocabularies needed for downloads.
type Vocabulary struct {
	Fields     []Field
	Assertions []Assertion
	Layers     []Layer
	Reasons    []Reason
}

// HasField checks if name is a known occurrence field. Download names
// and Darwin Core terms are accepted as well.
func (v *Vocabulary) HasField(name string) bool {
	_, ok := v.Field(name)
	return ok
}

// Field finds a field by its name, download name, or Darwin Core term.
func (v *Vocabulary) Field(name string) (Field, bool) {
	for _, f := range v.Fields {
		if f.Name == name || f.DownloadName == name ||
			(f.DwcTerm != "" && f.DwcTerm == name) {
			return f, true
		}
	}
	return Field{}, false
}

// HasAssertion checks if name is a known assertion.
func (v *Vocabulary) HasAssertion(name string) bool {
	for _, a := range v.Assertions {
		if a.Name == name {
			return true
		}
	}
	return false
}

// FieldNames returns names of all downloadable fields.
func (v *Vocabulary) FieldNames() []string {
	res := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		if f.Stored {
			res = append(res, f.Name)
		}
	}
	return res
}

// DefaultFieldNames returns names of fields that form a default download.
// If the server does not mark any fields as default, DefaultFields is used.
func (v *Vocabulary) DefaultFieldNames() []string {
	var res []string
	for _, f := range v.Fields {
		if f.Default {
			res = append(res, f.Name)
		}
	}
	if len(res) == 0 {
		res = slices.Clone(DefaultFields)
	}
	return res
}

// AssertionNames returns names of all assertions.
func (v *Vocabulary) AssertionNames() []string {
	res := make([]string, len(v.Assertions))
	for i, a := range v.Assertions {
		res[i] = a.Name
	}
	return res
}

// FatalAssertions returns names of assertions that are fatal.
func (v *Vocabulary) FatalAssertions() []string {
	var res []string
	for _, a := range v.Assertions {
		if a.Fatal {
			res = append(res, a.Name)
		}
	}
	return res
}

// ActiveReasons returns reasons that are not deprecated, sorted by id.
func (v *Vocabulary) ActiveReasons() []Reason {
	var res []Reason
	for _, r := range v.Reasons {
		if !r.Deprecated {
			res = append(res, r)
		}
	}
	slices.SortFunc(res, func(a, b Reason) int { return a.ID - b.ID })
	return res
}

// ResolveReason converts a reason given as a numeric id or as a name to
// a valid reason id. Deprecated reasons are not accepted.
func (v *Vocabulary) ResolveReason(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	id, err := strconv.Atoi(s)
	for _, r := range v.ActiveReasons() {
		if err == nil && r.ID == id {
			return r.ID, true
		}
		if err != nil && strings.EqualFold(r.Name, s) {
			return r.ID, true
		}
	}
	return 0, false
}

// RenameLayers returns a dictionary that converts layer ids to
// human-readable column names.
func (v *Vocabulary) RenameLayers() map[string]string {
	res := make(map[string]string, len(v.Layers))
	for _, l := range v.Layers {
		if l.ID == "" || l.Name == "" {
			continue
		}
		res[l.ID] = CamelCase(l.Name)
	}
	return res
}

// RenameFields returns a dictionary that converts field and assertion
// ids to human-readable column names.
func (v *Vocabulary) RenameFields() map[string]string {
	res := make(map[string]string, len(v.Fields)+len(v.Assertions))
	for _, f := range v.Fields {
		switch {
		case f.DwcTerm != "":
			res[f.Name] = f.DwcTerm
		default:
			res[f.Name] = CamelCase(f.Name)
		}
		if f.DownloadName != "" && f.DownloadName != f.Name {
			res[f.DownloadName] = res[f.Name]
		}
	}
	for _, a := range v.Assertions {
		res[a.Name] = CamelCase(a.Name)
	}
	return res
}

// CamelCase converts ids like 'data_resource_uid', 'Data resource UID',
// or 'data.resource.uid' to 'dataResourceUid'. Strings that are
// already in camel case are returned unchanged.
func CamelCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == ' ' || r == '.' || r == '-' ||
			r == '(' || r == ')' || r == '/'
	})
	if len(words) == 0 {
		return ""
	}
	if len(words) == 1 {
		w := words[0]
		if strings.ToUpper(w) == w {
			return strings.ToLower(w)
		}
		return firstRune(w, unicode.ToLower)
	}
	var sb strings.Builder
	for i, w := range words {
		w = strings.ToLower(w)
		if i > 0 {
			w = firstRune(w, unicode.ToUpper)
		}
		sb.WriteString(w)
	}
	return sb.String()
}

// firstRune applies fn to the first rune of s.
func firstRune(s string, fn func(rune) rune) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(fn(r)) + s[size:]
}
