package consistency

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hurou927/vocabpack/internal/diag"
	"github.com/hurou927/vocabpack/internal/schema"
)

type fakeFetcher map[string]string

func (f fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	data, ok := f[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(data), nil
}

const dwcTerms = `term_localName,label,definition,comments,examples,status
eventID,Event ID,An identifier for the set of information associated with a dwc:Event.,,` + "`abc`" + `,recommended
eventID,Event ID,An old definition.,,,superseded
eventDate,Event Date,The date-time during which a dwc:Event occurred.,"Recommended best practice is to use ISO 8601.",,recommended
retired,Retired,Removed.,,,deprecated
`

const ecoTerms = `term_localName,definition,comments,examples,status
eventDate,A different definition.,,,recommended
isVegetationCoverReported,Whether vegetation cover was reported.,,,recommended
`

func testPackage() *schema.Package {
	pk := schema.Single("eventID")
	return &schema.Package{Tables: []schema.TableSchema{
		{
			Name: "event",
			Fields: []schema.Field{
				{Name: "eventID", Description: "An identifier for the set of information associated with a dwc:Event.", Examples: "`abc`"},
				{Name: "eventDate", Description: "The date-time during which a dwc:Event occurred.", Comments: "Recommended best practice is to use ISO 8601."},
				{Name: "localOnly", Description: "Not canonical."},
			},
			PrimaryKey: &pk,
		},
		{
			Name: "occurrence",
			Fields: []schema.Field{
				{Name: "eventID", Description: "An identifier of the event.", Examples: "`abc`"},
			},
		},
	}}
}

var testSources = []Source{
	{Name: "Darwin Core", Namespace: "dwc:", URL: "https://example.org/dwc.csv"},
	{Name: "Humboldt Extension", Namespace: "eco:", URL: "https://example.org/eco.csv"},
}

func TestParseTermVersions(t *testing.T) {
	terms, err := ParseTermVersions([]byte("\ufeff" + dwcTerms))
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "An identifier for the set of information associated with a dwc:Event.", terms["eventID"].Definition)
	assert.Equal(t, "`abc`", terms["eventID"].Examples)
	assert.Equal(t, "Recommended best practice is to use ISO 8601.", terms["eventDate"].Comments)

	_, err = ParseTermVersions([]byte("name,status\nx,recommended\n"))
	assert.ErrorContains(t, err, "term_localName")

	_, err = ParseTermVersions(nil)
	assert.Error(t, err)
}

func TestCheckCanonical(t *testing.T) {
	f := fakeFetcher{testSources[0].URL: dwcTerms, testSources[1].URL: ecoTerms}
	diags := New(f, testSources, zaptest.NewLogger(t)).Check(context.Background(), testPackage())

	assert.False(t, diags.HasErrors())
	assert.Empty(t, diags.WithCode(diag.CodeCanonicalFetch))

	ambiguous := diags.WithCode(diag.CodeCanonicalAmbiguous)
	require.Len(t, ambiguous, 1)
	assert.Equal(t, "event.eventDate", ambiguous[0].Path)
	assert.Contains(t, ambiguous[0].Message, "Humboldt Extension")

	mismatches := diags.WithCode(diag.CodeCanonicalMismatch)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "occurrence.eventID", mismatches[0].Path)
	assert.Contains(t, mismatches[0].Message, "description differs from dwc: canonical")
}

func TestCheckFetchFailureIsolated(t *testing.T) {
	pkg := testPackage()
	pkg.Tables[0].Fields[1].Description = "Edited."
	f := fakeFetcher{testSources[1].URL: ecoTerms}

	diags := New(f, testSources, nil).Check(context.Background(), pkg)
	fetch := diags.WithCode(diag.CodeCanonicalFetch)
	require.Len(t, fetch, 1)
	assert.Equal(t, diag.Warning, fetch[0].Severity)
	assert.Equal(t, testSources[0].URL, fetch[0].Path)

	mismatches := diags.WithCode(diag.CodeCanonicalMismatch)
	require.Len(t, mismatches, 2)
	assert.Equal(t, "event.eventDate", mismatches[0].Path)
	assert.Contains(t, mismatches[0].Message, "description differs from eco: canonical")
	assert.Contains(t, mismatches[1].Message, "comments differs")

	assert.NotEmpty(t, diags.WithCode(diag.CodeSharedFieldMismatch))
	assert.False(t, diags.HasErrors())
}

func TestCheckSharedFields(t *testing.T) {
	diags := New(nil, nil, nil).Check(context.Background(), testPackage())
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeSharedFieldMismatch, diags[0].Code)
	assert.Equal(t, "occurrence.eventID", diags[0].Path)
	assert.Contains(t, diags[0].Message, "the primary key in event")
}

func TestCheckOrderIsStable(t *testing.T) {
	f := fakeFetcher{testSources[0].URL: dwcTerms, testSources[1].URL: ecoTerms}
	c := New(f, testSources, nil)
	first := c.Check(context.Background(), testPackage())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Check(context.Background(), testPackage()))
	}
}

func TestHTTPFetcher(t *testing.T) {
	f := NewHTTPFetcher(zaptest.NewLogger(t))
	f.http.SetRetryWaitTime(time.Millisecond)
	f.http.SetRetryMaxWaitTime(time.Millisecond)
	httpmock.ActivateNonDefault(f.http.GetClient())
	defer httpmock.DeactivateAndReset()

	var calls atomic.Int32
	httpmock.RegisterResponder(http.MethodGet, "https://example.org/flaky.csv", func(*http.Request) (*http.Response, error) {
		if calls.Add(1) == 1 {
			return httpmock.NewStringResponse(http.StatusServiceUnavailable, "busy"), nil
		}
		return httpmock.NewStringResponse(http.StatusOK, dwcTerms), nil
	})
	httpmock.RegisterResponder(http.MethodGet, "https://example.org/gone.csv", httpmock.NewStringResponder(http.StatusNotFound, "missing"))

	data, err := f.Fetch(context.Background(), "https://example.org/flaky.csv")
	require.NoError(t, err)
	assert.Equal(t, dwcTerms, string(data))
	assert.Equal(t, int32(2), calls.Load())

	_, err = f.Fetch(context.Background(), "https://example.org/gone.csv")
	assert.ErrorContains(t, err, "unexpected status 404")
	assert.Equal(t, 1, httpmock.GetCallCountInfo()["GET https://example.org/gone.csv"])
}
