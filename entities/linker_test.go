package entities

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/iterdxf/core"
)

// feed 模拟迭代器：返回未被吸收的实体
func feed(l *Linker, ents ...Entity) []Entity {
	var out []Entity
	for _, e := range ents {
		if !l.Link(e) {
			out = append(out, e)
		}
	}
	l.Close()
	return out
}

func vertex(t *testing.T, x string) Entity {
	return build(t, "VERTEX", core.Tag{Code: 10, Value: x}, core.Tag{Code: 20, Value: "0"})
}

func TestLinker_Polyline(t *testing.T) {
	for k := 0; k < 4; k++ {
		var (
			l    Linker
			pl   = build(t, "POLYLINE", core.Tag{Code: 70, Value: "0"})
			ents = []Entity{pl}
		)
		for i := 0; i < k; i++ {
			ents = append(ents, vertex(t, "1"))
		}
		ents = append(ents, build(t, "SEQEND"))

		out := feed(&l, ents...)
		require.Len(t, out, 1, "k=%d", k)
		poly := out[0].(*Polyline)
		assert.Len(t, poly.Vertices, k)
		assert.Len(t, poly.Dependents(), k)
		assert.NotNil(t, poly.Seqend())
		assert.False(t, l.Pending())
	}
}

func TestLinker_InsertWithAttribs(t *testing.T) {
	var l Linker
	out := feed(&l,
		build(t, "INSERT", core.Tag{Code: 66, Value: "1"}),
		build(t, "ATTRIB", core.Tag{Code: 2, Value: "序号"}, core.Tag{Code: 1, Value: "12"}),
		build(t, "ATTRIB", core.Tag{Code: 2, Value: "楼号"}, core.Tag{Code: 1, Value: "3"}),
		build(t, "SEQEND"),
		build(t, "LINE"),
	)
	require.Len(t, out, 2)
	ins := out[0].(*Insert)
	require.Len(t, ins.Attributes, 2)
	assert.Equal(t, "序号", ins.Attributes[0].Tag)
	assert.Equal(t, "LINE", out[1].Type())
}

func TestLinker_InsertWithoutAttribsFollow(t *testing.T) {
	var l Linker
	out := feed(&l, build(t, "INSERT"), build(t, "LINE"))
	assert.Len(t, out, 2)
	assert.False(t, l.Pending())
}

func TestLinker_PaperspacePrimaryConsumesDependents(t *testing.T) {
	var l Linker
	out := feed(&l,
		build(t, "POLYLINE", core.Tag{Code: 67, Value: "1"}),
		vertex(t, "1"),
		vertex(t, "2"),
		build(t, "SEQEND"),
		build(t, "LINE"),
	)
	// 过滤图纸空间在链接之后
	require.Len(t, out, 2)
	assert.True(t, out[0].Paperspace())
	assert.Len(t, out[0].(*Polyline).Vertices, 2)
}

func TestLinker_MissingSeqend(t *testing.T) {
	var buf bytes.Buffer
	l := Linker{Logger: log.New(&buf, "", 0)}

	out := feed(&l,
		build(t, "POLYLINE", core.Tag{Code: 5, Value: "A1"}),
		vertex(t, "1"),
		build(t, "LINE", core.Tag{Code: 5, Value: "A2"}),
	)
	require.Len(t, out, 2)
	poly := out[0].(*Polyline)
	assert.Len(t, poly.Vertices, 1)
	assert.Nil(t, poly.Seqend())
	assert.Equal(t, "SEQEND", Terminator(poly).Type())
	assert.Contains(t, buf.String(), "POLYLINE(#A1) not terminated by SEQEND before LINE(#A2)")
}

func TestLinker_StrayDependentsDropped(t *testing.T) {
	var buf bytes.Buffer
	l := Linker{Logger: log.New(&buf, "", 0)}

	out := feed(&l, vertex(t, "1"), build(t, "SEQEND"), build(t, "ATTRIB"), build(t, "CIRCLE"))
	require.Len(t, out, 1)
	assert.Equal(t, "CIRCLE", out[0].Type())
	assert.Contains(t, buf.String(), "stray VERTEX")
}

func TestLinker_CloseWhilePending(t *testing.T) {
	var buf bytes.Buffer
	l := Linker{Logger: log.New(&buf, "", 0)}
	assert.False(t, l.Link(build(t, "POLYLINE")))
	assert.True(t, l.Pending())
	l.Close()
	assert.False(t, l.Pending())
	assert.Contains(t, buf.String(), "end of section")
}
