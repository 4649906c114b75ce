package query_test

import (
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/occdl/pkg/config"
	"github.com/gnames/occdl/pkg/errcode"
	"github.com/gnames/occdl/pkg/query"
	"github.com/gnames/occdl/pkg/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVocabulary() *vocab.Vocabulary {
	return &vocab.Vocabulary{
		Fields: []vocab.Field{
			{Name: "id", Stored: true, Default: true},
			{Name: "data_resource_uid", Stored: true, Default: true},
			{Name: "taxon_name", DwcTerm: "scientificName", Stored: true, Default: true},
			{Name: "latitude", DwcTerm: "decimalLatitude", Stored: true},
			{Name: "longitude", DwcTerm: "decimalLongitude", Stored: true},
		},
		Assertions: []vocab.Assertion{
			{Name: "zeroCoordinates", Fatal: true},
			{Name: "unknownCountry"},
		},
		Reasons: []vocab.Reason{
			{ID: 10, Name: "testing"},
			{ID: 4, Name: "scientific research"},
			{ID: 1, Name: "old reason", Deprecated: true},
		},
	}
}

func testConfig() *config.Config {
	cfg := config.New()
	no := false
	cfg.Update([]config.Option{config.OptTaxonNormalize(&no)})
	return cfg
}

func codeOf(t *testing.T, err error) gn.ErrorCode {
	t.Helper()
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	return gnErr.Code
}

func TestCheckCriteria(t *testing.T) {
	tests := []struct {
		msg string
		in  query.Input
		ok  bool
	}{
		{"empty input", query.Input{}, false},
		{"only whitespace", query.Input{Taxon: "  ", WKT: " "}, false},
		{"empty filters", query.Input{Filters: []string{"", " "}}, false},
		{"fields without criteria", query.Input{Fields: []string{"id"},
			Email: "a@b.org", Reason: "10"}, false},
		{"taxon", query.Input{Taxon: "Callitriche"}, true},
		{"wkt", query.Input{WKT: "POLYGON((1 1,2 2,2 1,1 1))"}, true},
		{"filter", query.Input{Filters: []string{"data_resource_uid:dr5"}}, true},
	}

	for _, tt := range tests {
		err := tt.in.CheckCriteria()
		if tt.ok {
			assert.NoError(t, err, tt.msg)
			continue
		}
		require.Error(t, err, tt.msg)
		assert.Equal(t, errcode.QueryNoCriteriaError, codeOf(t, err), tt.msg)
	}
}

func TestBuildExample(t *testing.T) {
	in := query.Input{
		Taxon:   "Callitriche cophocarpa",
		Filters: []string{"data_resource_uid:dr5"},
		Email:   "someone@example.org",
		Reason:  "10",
	}
	q, err := query.Build(testConfig(), in, testVocabulary())
	require.NoError(t, err)

	assert.Equal(t, 10, q.ReasonID)
	assert.Equal(t, []string{"Callitriche cophocarpa"}, q.Get("q"))
	assert.Equal(t, []string{"data_resource_uid:dr5"}, q.Get("fq"))
	assert.Equal(t, []string{"id,data_resource_uid,taxon_name"}, q.Get("fields"))
	assert.Empty(t, q.Get("qa"))
	assert.Equal(t, []string{"someone@example.org"}, q.Get("email"))
	assert.Equal(t, []string{"10"}, q.Get("reasonTypeId"))
	assert.Equal(t, []string{"2001"}, q.Get("sourceTypeId"))
	assert.Equal(t, []string{"\t"}, q.Get("sep"))

	vals := q.Values()
	assert.Equal(t, "data", vals.Get("file"))
	assert.Contains(t, q.Encode(), "fq=data_resource_uid%3Adr5")
}

func TestBuildReason(t *testing.T) {
	tests := []struct {
		msg    string
		reason string
		id     int
		ok     bool
	}{
		{"numeric id", "4", 4, true},
		{"name", "testing", 10, true},
		{"unknown id", "99", 0, false},
		{"deprecated id", "1", 0, false},
		{"unknown name", "fun", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		in := query.Input{Taxon: "Aves", Email: "a@b.org", Reason: tt.reason}
		q, err := query.Build(testConfig(), in, testVocabulary())
		if !tt.ok {
			require.Error(t, err, tt.msg)
			assert.Equal(t, errcode.QueryInvalidReasonError, codeOf(t, err), tt.msg)
			continue
		}
		require.NoError(t, err, tt.msg)
		assert.Equal(t, tt.id, q.ReasonID, tt.msg)
	}
}

func TestBuildDefaultsFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Update([]config.Option{
		config.OptDownloadEmail("cfg@example.org"),
		config.OptDownloadReason("testing"),
	})
	q, err := query.Build(cfg, query.Input{Taxon: "Aves"}, testVocabulary())
	require.NoError(t, err)
	assert.Equal(t, []string{"cfg@example.org"}, q.Get("email"))
	assert.Equal(t, 10, q.ReasonID)
}

func TestBuildNoEmail(t *testing.T) {
	in := query.Input{Taxon: "Aves", Reason: "10"}
	_, err := query.Build(testConfig(), in, testVocabulary())
	require.Error(t, err)
	assert.Equal(t, errcode.QueryNoEmailError, codeOf(t, err))
}

func TestBuildEmail(t *testing.T) {
	tests := []struct {
		msg, email, want string
		code             gn.ErrorCode
	}{
		{"plain", "me@example.org", "me@example.org", errcode.UnknownError},
		{"with name", "Me <me@example.org>", "me@example.org", errcode.UnknownError},
		{"no at", "me.example.org", "", errcode.QueryInvalidEmailError},
		{"spaces", "me @example", "", errcode.QueryInvalidEmailError},
	}

	for _, tt := range tests {
		in := query.Input{Taxon: "Aves", Reason: "10", Email: tt.email}
		q, err := query.Build(testConfig(), in, testVocabulary())
		if tt.code != errcode.UnknownError {
			require.Error(t, err, tt.msg)
			assert.Equal(t, tt.code, codeOf(t, err), tt.msg)
			continue
		}
		require.NoError(t, err, tt.msg)
		assert.Equal(t, []string{tt.want}, q.Get("email"), tt.msg)
	}
}

func TestBuildFields(t *testing.T) {
	base := query.Input{Taxon: "Aves", Email: "a@b.org", Reason: "10"}

	t.Run("unknown fields are listed", func(t *testing.T) {
		in := base
		in.Fields = []string{"id", "nope", "nada"}
		_, err := query.Build(testConfig(), in, testVocabulary())
		require.Error(t, err)
		assert.Equal(t, errcode.QueryUnknownFieldsError, codeOf(t, err))
		gnErr := err.(*gn.Error)
		assert.Contains(t, gnErr.Err.Error(), "nope, nada")
	})

	t.Run("all fields", func(t *testing.T) {
		in := base
		in.Fields = []string{"all"}
		q, err := query.Build(testConfig(), in, testVocabulary())
		require.NoError(t, err)
		assert.Equal(t,
			[]string{"id,data_resource_uid,taxon_name,latitude,longitude"},
			q.Get("fields"))
	})

	t.Run("extra all excludes requested fields", func(t *testing.T) {
		in := base
		in.Fields = []string{"id", "latitude"}
		in.Extra = []string{"all"}
		q, err := query.Build(testConfig(), in, testVocabulary())
		require.NoError(t, err)
		assert.Equal(t, []string{"id,latitude"}, q.Get("fields"))
		assert.Equal(t,
			[]string{"data_resource_uid,taxon_name,longitude"},
			q.Get("extra"))
	})

	t.Run("dwc terms are accepted", func(t *testing.T) {
		in := base
		in.Fields = []string{"decimalLatitude", " decimalLatitude "}
		q, err := query.Build(testConfig(), in, testVocabulary())
		require.NoError(t, err)
		assert.Equal(t, []string{"decimalLatitude"}, q.Get("fields"))
	})
}

func TestBuildQA(t *testing.T) {
	base := query.Input{Taxon: "Aves", Email: "a@b.org", Reason: "10"}
	tests := []struct {
		msg string
		qa  []string
		res []string
		ok  bool
	}{
		{"server default", nil, nil, true},
		{"none", []string{"none"}, []string{"none"}, true},
		{"all", []string{"all"}, []string{"zeroCoordinates,unknownCountry"}, true},
		{"subset", []string{"unknownCountry"}, []string{"unknownCountry"}, true},
		{"unknown", []string{"badData"}, nil, false},
	}

	for _, tt := range tests {
		in := base
		in.QA = tt.qa
		q, err := query.Build(testConfig(), in, testVocabulary())
		if !tt.ok {
			require.Error(t, err, tt.msg)
			assert.Equal(t, errcode.QueryUnknownAssertionsError, codeOf(t, err), tt.msg)
			continue
		}
		require.NoError(t, err, tt.msg)
		assert.Equal(t, tt.res, q.Get("qa"), tt.msg)
	}
}

func TestNormalizedURL(t *testing.T) {
	voc := testVocabulary()
	in1 := query.Input{
		Taxon:   "Aves",
		Filters: []string{"year:2020", "data_resource_uid:dr5"},
		Email:   "one@example.org",
		Reason:  "10",
	}
	in2 := in1
	in2.Filters = []string{"data_resource_uid:dr5", "year:2020"}
	in2.Email = "two@example.org"
	in2.Reason = "testing"
	in2.Remark = "class project"

	q1, err := query.Build(testConfig(), in1, voc)
	require.NoError(t, err)
	q2, err := query.Build(testConfig(), in2, voc)
	require.NoError(t, err)

	base := "https://biocache.example.org/ws/"
	u1 := q1.NormalizedURL(base)
	assert.Equal(t, u1, q2.NormalizedURL(base),
		"requester and order of filters do not change the key")
	assert.Contains(t, u1, "https://biocache.example.org/ws/occurrences/offline/download?")
	assert.NotContains(t, u1, "email")

	in3 := in1
	in3.Taxon = "Mammalia"
	q3, err := query.Build(testConfig(), in3, voc)
	require.NoError(t, err)
	assert.NotEqual(t, u1, q3.NormalizedURL(base))
}

func TestNormalizeTaxon(t *testing.T) {
	tests := []struct {
		msg, input, res string
		warn            bool
	}{
		{"strips authorship", "Callitriche cophocarpa Sendtn.", "Callitriche cophocarpa", false},
		{"normalizes spaces", "Callitriche   cophocarpa", "Callitriche cophocarpa", false},
		{"field expression untouched", "genus:Callitriche", "genus:Callitriche", false},
		{"quoted phrase untouched", `"Callitriche cophocarpa"`, `"Callitriche cophocarpa"`, false},
		{"not a name", "123 456", "123 456", true},
	}

	for _, tt := range tests {
		res, warn := query.NormalizeTaxon(tt.input, "any")
		assert.Equal(t, tt.res, res, tt.msg)
		assert.Equal(t, tt.warn, warn != "", tt.msg)
	}
}

func TestBuildNormalizesTaxon(t *testing.T) {
	cfg := config.New()
	in := query.Input{
		Taxon: "Callitriche cophocarpa Sendtn.", Email: "a@b.org", Reason: "10",
	}
	q, err := query.Build(cfg, in, testVocabulary())
	require.NoError(t, err)
	assert.Equal(t, "Callitriche cophocarpa", q.Taxon)
	assert.Equal(t, []string{"Callitriche cophocarpa"}, q.Get("q"))
}
