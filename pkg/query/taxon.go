package query

import (
	"fmt"
	"strings"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
)

// NormalizeTaxon converts a bare scientific name to its canonical form,
// removing authorship and normalizing whitespace, so that
// 'Callitriche cophocarpa Sendtn.' becomes 'Callitriche cophocarpa'.
// Expressions with a field prefix (field:value), quoted phrases, and
// strings that are not scientific names are returned unchanged.
// The second return value is a warning for names that could not be
// parsed.
func NormalizeTaxon(taxon, code string) (string, string) {
	taxon = strings.TrimSpace(taxon)
	if taxon == "" || strings.ContainsAny(taxon, `:"*`) {
		return taxon, ""
	}

	opts := []gnparser.Option{gnparser.OptWithDetails(false)}
	switch code {
	case "botanical":
		opts = append(opts, gnparser.OptCode(nomcode.Botanical))
	case "zoological":
		opts = append(opts, gnparser.OptCode(nomcode.Zoological))
	}
	gnp := gnparser.New(gnparser.NewConfig(opts...))

	p := gnp.ParseName(taxon)
	if !p.Parsed || p.Canonical == nil {
		warn := fmt.Sprintf(
			"taxon '%s' is not a scientific name, sent as is", taxon,
		)
		return taxon, warn
	}
	return p.Canonical.Full, ""
}
