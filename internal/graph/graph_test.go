package graph

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hurou927/vocabpack/internal/schema"
)

func fk(field, predicate, resource, target string) schema.ForeignKey {
	return schema.ForeignKey{
		Fields:    schema.Single(field),
		Predicate: predicate,
		Reference: schema.Reference{Resource: resource, Fields: schema.Single(target)},
	}
}

func fields(names ...string) []schema.Field {
	out := make([]schema.Field, len(names))
	for i, n := range names {
		out[i] = schema.Field{Name: n}
	}
	return out
}

func testPackage() *schema.Package {
	eventPK := schema.Single("eventID")
	occPK := schema.Single("occurrenceID")
	return &schema.Package{Tables: []schema.TableSchema{
		{
			Name:        "event",
			Fields:      fields("eventID", "parentEventID"),
			PrimaryKey:  &eventPK,
			ForeignKeys: []schema.ForeignKey{fk("parentEventID", "part of", "", "eventID")},
		},
		{
			Name:       "occurrence",
			Fields:     fields("occurrenceID", "agentID", "eventID"),
			PrimaryKey: &occPK,
			ForeignKeys: []schema.ForeignKey{
				fk("eventID", "occurs in", "event", "eventID"),
				fk("agentID", "recorded by", "agent", "agentID"),
			},
		},
		{Name: "media", Fields: fields("mediaID")},
	}}
}

func TestBuild(t *testing.T) {
	g := Build(testPackage())

	assert.Equal(t, []string{"event", "occurrence", "media"}, g.Order)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "occurrence", g.Edges[0].ChildTable)
	assert.Equal(t, "event", g.Edges[0].ParentTable)
	assert.Len(t, g.SelfRefs["event"], 1)
	require.Len(t, g.Dangling, 1)
	assert.Equal(t, "agent", g.Dangling[0].ParentTable)
	assert.Equal(t, []string{"occurrence"}, g.Children["event"])
	assert.Equal(t, []string{"event", "media"}, g.Roots())
}

func TestComponentsAndTopo(t *testing.T) {
	g := Build(testPackage())

	comps := FindComponents(g)
	require.Len(t, comps, 2)
	assert.Equal(t, []string{"event", "occurrence"}, comps[0].Tables)
	assert.Equal(t, 2, comps[0].ForeignKeys)
	assert.Equal(t, []string{"media"}, comps[1].Tables)
	assert.Zero(t, comps[1].ForeignKeys)

	topo := TopoSortAll(g)
	assert.False(t, topo.HasCycle)
	assert.Equal(t, []string{"event", "media", "occurrence"}, topo.Order)
}

func TestTopoCycle(t *testing.T) {
	pkg := &schema.Package{Tables: []schema.TableSchema{
		{Name: "a", Fields: fields("bID"), ForeignKeys: []schema.ForeignKey{fk("bID", "", "b", "bID")}},
		{Name: "b", Fields: fields("bID", "aID"), ForeignKeys: []schema.ForeignKey{fk("aID", "", "a", "bID")}},
		{Name: "c", Fields: fields("aID"), ForeignKeys: []schema.ForeignKey{fk("aID", "", "a", "bID")}},
	}}
	topo := TopoSortAll(Build(pkg))
	assert.True(t, topo.HasCycle)
	assert.Empty(t, topo.Order)
	assert.Equal(t, []string{"a", "b", "c"}, topo.CycleTables)
}

func TestWriteMermaid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMermaid(&buf, Build(testPackage())))
	assert.Equal(t, `graph TD
    subgraph component_1
        occurrence -->|occurs in: eventID| event
        event -->|part of: parentEventID| event
    end

    subgraph component_2
        media
    end
`, buf.String())
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Build(testPackage())))
	out := buf.String()
	assert.Contains(t, out, "Tables: 3\n")
	assert.Contains(t, out, "Foreign Keys: 3\n")
	assert.Contains(t, out, "WARNING: Tables without primary key: [media]")
	assert.Contains(t, out, "occurrence.agentID -> agent")
	assert.Contains(t, out, "Self-referencing tables: [event]")
	assert.Contains(t, out, "=== Component 1 (2 tables, 2 foreign keys) ===\n")
	assert.Contains(t, out, "    2. occurrence (3 fields, PK: occurrenceID, 1 parents)\n")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Build(testPackage())))
	assert.Equal(t, `subject_table,subject_field,predicate,related_table,related_field
event,parentEventID,part of,event,eventID
occurrence,agentID,recorded by,agent,agentID
occurrence,eventID,occurs in,event,eventID
`, buf.String())
}
