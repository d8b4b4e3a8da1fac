package validate

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hurou927/vocabpack/internal/catalog"
	"github.com/hurou927/vocabpack/internal/compile"
	"github.com/hurou927/vocabpack/internal/diag"
	"github.com/hurou927/vocabpack/internal/output"
	"github.com/hurou927/vocabpack/internal/schema"
)

const rec = catalog.StatusRecommended

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Tables: []catalog.TableDefinition{
			{Name: "event", Title: "Event", Description: "An action", Status: rec},
			{Name: "occurrence", Title: "Occurrence", Description: "An organism", Status: rec},
		},
		Fields: []catalog.FieldDefinition{
			{Table: "event", Name: "eventID", KeyRole: catalog.KeyPrimary, Status: rec},
			{Table: "event", Name: "parentEventID", KeyRole: catalog.KeyForeign, Status: rec},
			{Table: "occurrence", Name: "occurrenceID", KeyRole: catalog.KeyPrimary, Status: rec},
			{Table: "occurrence", Name: "eventID", KeyRole: catalog.KeyForeign, Status: rec},
		},
		Predicates: []catalog.PredicateDefinition{
			{SubjectTable: "event", SubjectField: "parentEventID", Predicate: "part of", RelatedTable: "event", RelatedField: "eventID", Status: rec},
			{SubjectTable: "occurrence", SubjectField: "eventID", Predicate: "occurs in", RelatedTable: "event", RelatedField: "eventID", Status: rec},
		},
	}
}

func compiledFs(t *testing.T) afero.Fs {
	t.Helper()
	pkg, _ := compile.New(compile.Metadata{IdentifierBase: "id", URLBase: "https://example.org", Name: "p", Version: "1"}, nil).Compile(testCatalog())
	afs := afero.NewMemMapFs()
	require.NoError(t, output.NewWriter(afs, "/pkg").WritePackage(pkg))
	return afs
}

// edit rewrites one table document in place.
func edit(t *testing.T, afs afero.Fs, table string, fn func(*schema.TableSchema)) {
	t.Helper()
	path := "/pkg/" + output.TablePath(table)
	data, err := afero.ReadFile(afs, path)
	require.NoError(t, err)
	var tbl schema.TableSchema
	require.NoError(t, json.Unmarshal(data, &tbl))
	fn(&tbl)
	require.NoError(t, output.NewWriter(afs, "/pkg").WriteTable(&tbl))
}

func editIndex(t *testing.T, afs afero.Fs, fn func(*schema.PackageIndex)) {
	t.Helper()
	data, err := afero.ReadFile(afs, "/pkg/index.json")
	require.NoError(t, err)
	var idx schema.PackageIndex
	require.NoError(t, json.Unmarshal(data, &idx))
	fn(&idx)
	require.NoError(t, output.NewWriter(afs, "/pkg").WriteIndex(&idx))
}

func validateFs(t *testing.T, afs afero.Fs) Report {
	t.Helper()
	rep, err := Root(afs, "/pkg")
	require.NoError(t, err)
	return rep
}

func TestFreshPackageIsValid(t *testing.T) {
	rep := validateFs(t, compiledFs(t))
	assert.False(t, rep.Failed())
	assert.Empty(t, rep.Diagnostics)
}

func TestHandEditedDescription(t *testing.T) {
	afs := compiledFs(t)
	edit(t, afs, "event", func(tbl *schema.TableSchema) { tbl.Description = "Something else" })

	rep := validateFs(t, afs)
	assert.True(t, rep.Failed())
	mismatches := rep.Diagnostics.WithCode(diag.CodeIndexDocumentMismatch)
	require.Len(t, mismatches, 1)
	assert.Equal(t, diag.Error, mismatches[0].Severity)
	assert.Equal(t, "/pkg/table-schemas/event.json", mismatches[0].Path)
	assert.Contains(t, mismatches[0].Message, "description")
	assert.Contains(t, mismatches[0].Message, `"Something else"`)
}

func TestCompleteness(t *testing.T) {
	afs := compiledFs(t)
	require.NoError(t, afs.Remove("/pkg/table-schemas/occurrence.json"))
	require.NoError(t, afero.WriteFile(afs, "/pkg/table-schemas/stray.json", []byte(`{"name":"stray","fields":[]}`), 0o644))

	rep := validateFs(t, afs)
	missing := rep.Diagnostics.WithCode(diag.CodeMissingDocument)
	require.Len(t, missing, 1)
	assert.Equal(t, "/pkg/table-schemas/occurrence.json", missing[0].Path)

	extra := rep.Diagnostics.WithCode(diag.CodeExtraDocument)
	require.Len(t, extra, 1)
	assert.Equal(t, diag.Warning, extra[0].Severity)
}

func TestExtraDocumentAloneIsNotFailure(t *testing.T) {
	afs := compiledFs(t)
	require.NoError(t, afero.WriteFile(afs, "/pkg/table-schemas/stray.json", []byte(`{"name":"stray","fields":[]}`), 0o644))

	rep := validateFs(t, afs)
	assert.False(t, rep.Failed())
	assert.Equal(t, 1, rep.Diagnostics.Count(diag.Warning))
}

func TestMalformedDocumentDoesNotAbort(t *testing.T) {
	afs := compiledFs(t)
	require.NoError(t, afero.WriteFile(afs, "/pkg/table-schemas/occurrence.json", []byte(`{not json`), 0o644))
	edit(t, afs, "event", func(tbl *schema.TableSchema) { tbl.Comments = "edited" })

	rep := validateFs(t, afs)
	assert.True(t, rep.Failed())
	require.Len(t, rep.Diagnostics.WithCode(diag.CodeMalformedDocument), 1)
	assert.Empty(t, rep.Diagnostics.WithCode(diag.CodeMissingDocument))
	assert.Len(t, rep.Diagnostics.WithCode(diag.CodeIndexDocumentMismatch), 1)
	assert.Equal(t, diag.CodeMalformedDocument, rep.Diagnostics[0].Code)
}

func TestUniqueness(t *testing.T) {
	afs := compiledFs(t)
	editIndex(t, afs, func(idx *schema.PackageIndex) {
		idx.TableSchemas[1].Title = idx.TableSchemas[0].Title
		idx.TableSchemas[1].Identifier = idx.TableSchemas[0].Identifier
		idx.TableSchemas = append(idx.TableSchemas, schema.TableSummary{Name: "event"})
	})

	rep := validateFs(t, afs)
	dups := rep.Diagnostics.WithCode(diag.CodeDuplicateKey)
	require.Len(t, dups, 3)
	assert.Contains(t, dups[0].Message, "identifier")
	assert.Contains(t, dups[1].Message, `name "event"`)
	assert.Contains(t, dups[2].Message, "title")

	missing := rep.Diagnostics.WithCode(diag.CodeMissingKey)
	require.Len(t, missing, 3)
	assert.Equal(t, "tableSchemas[2] has no identifier", missing[0].Message)
	assert.Equal(t, "tableSchemas[2] has no title", missing[1].Message)
	assert.Equal(t, "tableSchemas[2] has no url", missing[2].Message)
}

func TestPrimaryKeyMembership(t *testing.T) {
	afs := compiledFs(t)
	edit(t, afs, "event", func(tbl *schema.TableSchema) {
		pk := schema.Multiple("eventID", "missingID")
		tbl.PrimaryKey = &pk
	})

	rep := validateFs(t, afs)
	fields := rep.Diagnostics.WithCode(diag.CodeMissingField)
	require.Len(t, fields, 1)
	assert.Contains(t, fields[0].Message, `"missingID"`)
}

func TestForeignKeyResolution(t *testing.T) {
	tests := []struct {
		name  string
		fk    schema.ForeignKey
		code  diag.Code
		match string
	}{
		{
			name:  "missing source field",
			fk:    schema.ForeignKey{Fields: schema.Single("nope"), Reference: schema.Reference{Resource: "event", Fields: schema.Single("eventID")}},
			code:  diag.CodeMissingField,
			match: `source field "nope"`,
		},
		{
			name:  "missing target table",
			fk:    schema.ForeignKey{Fields: schema.Single("eventID"), Reference: schema.Reference{Resource: "agent", Fields: schema.Single("agentID")}},
			code:  diag.CodeUnresolvableForeignKey,
			match: `missing table "agent"`,
		},
		{
			name:  "missing target field",
			fk:    schema.ForeignKey{Fields: schema.Single("eventID"), Reference: schema.Reference{Resource: "event", Fields: schema.Single("eventDate")}},
			code:  diag.CodeUnresolvableForeignKey,
			match: `target field "eventDate"`,
		},
		{
			name:  "self reference to missing field",
			fk:    schema.ForeignKey{Fields: schema.Single("eventID"), Reference: schema.Reference{Resource: " ", Fields: schema.Single("parentEventID")}},
			code:  diag.CodeUnresolvableForeignKey,
			match: "not a field of occurrence",
		},
		{
			name:  "field count mismatch",
			fk:    schema.ForeignKey{Fields: schema.Multiple("eventID", "occurrenceID"), Reference: schema.Reference{Resource: "event", Fields: schema.Single("eventID")}},
			code:  diag.CodeUnresolvableForeignKey,
			match: "maps 2 fields to 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			afs := compiledFs(t)
			edit(t, afs, "occurrence", func(tbl *schema.TableSchema) { tbl.ForeignKeys = []schema.ForeignKey{tt.fk} })

			rep := validateFs(t, afs)
			assert.True(t, rep.Failed())
			got := rep.Diagnostics.WithCode(tt.code)
			require.Len(t, got, 1, rep.Diagnostics)
			assert.Contains(t, got[0].Message, tt.match)
		})
	}
}

func TestSelfReferenceResolves(t *testing.T) {
	afs := compiledFs(t)
	edit(t, afs, "event", func(tbl *schema.TableSchema) {
		require.Len(t, tbl.ForeignKeys, 1)
		assert.Equal(t, "", tbl.ForeignKeys[0].Reference.Resource)
	})
	assert.False(t, validateFs(t, afs).Failed())
}

func TestSelfReferenceUsesDocumentStem(t *testing.T) {
	afs := compiledFs(t)
	path := "/pkg/" + output.TablePath("event")
	data, err := afero.ReadFile(afs, path)
	require.NoError(t, err)
	var tbl schema.TableSchema
	require.NoError(t, json.Unmarshal(data, &tbl))
	tbl.Name = "events"
	data, err = output.Encode(&tbl)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(afs, path, data, 0o644))

	rep := validateFs(t, afs)
	assert.Empty(t, rep.Diagnostics.WithCode(diag.CodeUnresolvableForeignKey), rep.Diagnostics)
}

func TestMissingIndexAndDirectory(t *testing.T) {
	afs := afero.NewMemMapFs()
	require.NoError(t, afs.MkdirAll("/pkg", 0o755))
	rep := validateFs(t, afs)
	assert.True(t, rep.Failed())
	assert.Len(t, rep.Diagnostics.WithCode(diag.CodeMissingDocument), 2)
}

func TestRoots(t *testing.T) {
	afs := compiledFs(t)
	require.NoError(t, output.NewWriter(afs, "/other/nested").WriteIndex(&schema.PackageIndex{Name: "x"}))

	reports, err := Roots(afs, []string{"/pkg", "/other"})
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "/pkg", reports[0].Root)
	assert.False(t, reports[0].Failed())
	assert.Equal(t, "/other/nested", reports[1].Root)
	assert.True(t, reports[1].Failed())
}
