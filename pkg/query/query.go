// Package query builds requests for offline occurrence downloads.
//
// Building is pure: it validates the input against vocabularies that
// were fetched beforehand and produces ordered request parameters.
// No network calls happen here.
package query

import (
	"net/mail"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/gnames/occdl/pkg/config"
	"github.com/gnames/occdl/pkg/vocab"
)

// Special values for Fields, Extra and QA.
const (
	All  = "all"
	None = "none"
)

// Input contains user-provided search criteria and download options.
type Input struct {
	// Taxon is a scientific name, free text, or a field:value expression.
	Taxon string `json:"taxon,omitempty"`

	// WKT is a Well-Known Text polygon that limits the search area.
	WKT string `json:"wkt,omitempty"`

	// Filters are filter queries (field:value). They are ANDed,
	// an OR is allowed inside one clause.
	Filters []string `json:"fq,omitempty"`

	// Fields to download, or "all". Empty means default fields.
	Fields []string `json:"fields,omitempty"`

	// Extra fields to download in addition to Fields, or "all".
	Extra []string `json:"extra,omitempty"`

	// QA are quality assertions to include, "all", or "none".
	// Empty leaves the choice to the server.
	QA []string `json:"qa,omitempty"`

	// Email of the requester. Empty means the configured email.
	Email string `json:"-"`

	// Reason is the download justification as an id or a name.
	// Empty means the configured reason.
	Reason string `json:"-"`

	// Remark is an optional free-text explanation of the download.
	Remark string `json:"remark,omitempty"`
}

// CheckCriteria makes sure that at least one of taxon, WKT or filter
// queries is given. It must be called before any network activity.
func (in Input) CheckCriteria() error {
	if strings.TrimSpace(in.Taxon) != "" ||
		strings.TrimSpace(in.WKT) != "" ||
		len(cleanList(in.Filters)) > 0 {
		return nil
	}
	return NoCriteriaError()
}

// Param is one request parameter.
type Param struct {
	Key   string
	Value string
}

// Query is a validated download request.
type Query struct {
	// Params are request parameters in the order they were added.
	Params []Param

	// ReasonID is the resolved download reason.
	ReasonID int

	// Taxon is the taxon term after normalization.
	Taxon string

	// Warnings are non-fatal remarks collected while building.
	Warnings []string
}

// cacheKeys are parameters that define the content of a download.
// Requester identity and justification do not change the data.
var cacheKeys = []string{"q", "wkt", "fq", "fields", "extra", "qa"}

// Build validates input against vocabularies and creates a Query.
// Email and reason fall back to configuration values.
func Build(
	cfg *config.Config,
	in Input,
	voc *vocab.Vocabulary,
) (*Query, error) {
	if err := in.CheckCriteria(); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		email = cfg.Download.Email
	}
	if email == "" {
		return nil, NoEmailError()
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return nil, InvalidEmailError(email, err)
	}
	email = addr.Address

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = cfg.Download.Reason
	}
	reasonID, ok := voc.ResolveReason(reason)
	if !ok {
		return nil, InvalidReasonError(reason)
	}

	fields, err := fieldList(in.Fields, voc, voc.DefaultFieldNames())
	if err != nil {
		return nil, err
	}
	extra, err := fieldList(in.Extra, voc, nil)
	if err != nil {
		return nil, err
	}
	if slices.Contains(in.Extra, All) {
		extra = slices.DeleteFunc(extra, func(s string) bool {
			return slices.Contains(fields, s)
		})
	}
	qa, err := assertionList(in.QA, voc)
	if err != nil {
		return nil, err
	}

	res := &Query{ReasonID: reasonID}
	if taxon := strings.TrimSpace(in.Taxon); taxon != "" {
		res.Taxon = taxon
		if cfg.NormalizeTaxon() {
			var warn string
			res.Taxon, warn = NormalizeTaxon(taxon, cfg.Taxon.Code)
			if warn != "" {
				res.Warnings = append(res.Warnings, warn)
			}
		}
		res.add("q", res.Taxon)
	}
	if wkt := strings.TrimSpace(in.WKT); wkt != "" {
		res.add("wkt", wkt)
	}
	for _, fq := range cleanList(in.Filters) {
		res.add("fq", fq)
	}
	if len(fields) > 0 {
		res.add("fields", strings.Join(fields, ","))
	}
	if len(extra) > 0 {
		res.add("extra", strings.Join(extra, ","))
	}
	if qa != "" {
		res.add("qa", qa)
	}
	res.add("email", email)
	res.add("reasonTypeId", strconv.Itoa(reasonID))
	res.add("sourceTypeId", strconv.Itoa(cfg.Download.SourceTypeID))
	if remark := strings.TrimSpace(in.Remark); remark != "" {
		res.add("reason", remark)
	}
	res.add("file", "data")
	res.add("dwcHeaders", "true")
	res.add("sep", "\t")
	res.add("esc", `\`)
	res.add("emailNotify", "false")

	return res, nil
}

func (q *Query) add(k, v string) {
	q.Params = append(q.Params, Param{Key: k, Value: v})
}

// Get returns all values of a parameter.
func (q *Query) Get(key string) []string {
	var res []string
	for _, p := range q.Params {
		if p.Key == key {
			res = append(res, p.Value)
		}
	}
	return res
}

// Values converts the query to url.Values.
func (q *Query) Values() url.Values {
	res := make(url.Values)
	for _, p := range q.Params {
		res.Add(p.Key, p.Value)
	}
	return res
}

// Encode returns the URL-encoded query, sorted by key.
func (q *Query) Encode() string {
	return q.Values().Encode()
}

// NormalizedURL returns a URL that identifies the content of the
// download. Only parameters that change the data are included, sorted
// by key, filter queries sorted by value. It is used as the cache key
// for downloaded archives.
func (q *Query) NormalizedURL(base string) string {
	vals := make(url.Values)
	for _, p := range q.Params {
		if slices.Contains(cacheKeys, p.Key) {
			vals.Add(p.Key, p.Value)
		}
	}
	if fqs, ok := vals["fq"]; ok {
		slices.Sort(fqs)
	}
	return strings.TrimRight(base, "/") + DownloadPath + "?" + vals.Encode()
}

// DownloadPath is the path of the offline download service relative to
// the biocache web service base.
const DownloadPath = "/occurrences/offline/download"

func fieldList(
	names []string,
	voc *vocab.Vocabulary,
	dflt []string,
) ([]string, error) {
	names = cleanList(names)
	if len(names) == 0 {
		return dflt, nil
	}
	if slices.Contains(names, All) {
		return voc.FieldNames(), nil
	}

	var unknown []string
	for _, n := range names {
		if !voc.HasField(n) {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		return nil, UnknownFieldsError(unknown)
	}
	return names, nil
}

func assertionList(names []string, voc *vocab.Vocabulary) (string, error) {
	names = cleanList(names)
	switch {
	case len(names) == 0:
		return "", nil
	case slices.Contains(names, None):
		return None, nil
	case slices.Contains(names, All):
		return strings.Join(voc.AssertionNames(), ","), nil
	}

	var unknown []string
	for _, n := range names {
		if !voc.HasAssertion(n) {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		return "", UnknownAssertionsError(unknown)
	}
	return strings.Join(names, ","), nil
}

// cleanList trims items and removes empty and repeated ones.
func cleanList(ss []string) []string {
	var res []string
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if s != "" && !slices.Contains(res, s) {
			res = append(res, s)
		}
	}
	return res
}
