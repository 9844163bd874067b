package iterdxf

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/iterdxf/core"
	"github.com/zooyer/iterdxf/entities"
)

func dxfText(lines ...string) string {
	return strings.Join(lines, "\r\n") + "\r\n"
}

func join(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var (
	headerSections = []string{
		"0", "SECTION", "2", "HEADER",
		"9", "$ACADVERSION", "1", "AC1015",
		"9", "$DWGCODEPAGE", "3", "ANSI_936",
		"0", "ENDSEC",
		"0", "SECTION", "2", "TABLES",
		"0", "TABLE", "2", "LAYER",
		"0", "LAYER", "2", "WALL", "70", "0",
		"0", "ENDTAB",
		"0", "ENDSEC",
		"0", "SECTION", "2", "BLOCKS",
		"0", "BLOCK", "2", "WIN",
		"0", "ENDBLK",
		"0", "ENDSEC",
		"0", "SECTION", "2", "ENTITIES",
	}
	lineRecord = []string{
		"0", "LINE", "5", "2A", "330", "1F", "100", "AcDbEntity", "8", "WALL",
		"102", "{ACAD_REACTORS", "330", "3B", "102", "}",
		"100", "AcDbLine",
		"10", "0", "20", "0", "30", "0",
		"11", "10", "21", "5", "31", "0",
		"1001", "ACAD", "1000", "note",
	}
	dimensionRecord = []string{
		"0", "DIMENSION", "5", "2B", "8", "DIM", "2", "*D1", "10", "0", "20", "0",
	}
	polylineRecords = []string{
		"0", "POLYLINE", "5", "2C", "8", "WALL", "66", "1", "10", "0", "20", "0", "30", "0", "70", "1",
		"0", "VERTEX", "5", "2D", "8", "WALL", "10", "1", "20", "2", "30", "0",
		"0", "VERTEX", "5", "2E", "8", "WALL", "10", "3", "20", "4", "30", "0",
		"0", "SEQEND", "5", "2F", "8", "WALL",
	}
	paperRecord = []string{
		"0", "CIRCLE", "5", "30", "8", "WALL", "67", "1", "10", "0", "20", "0", "40", "2",
	}
	insertRecords = []string{
		"0", "INSERT", "5", "31", "8", "WIN", "66", "1", "2", "WIN", "10", "5", "20", "5", "30", "0",
		"0", "ATTRIB", "5", "32", "8", "WIN", "10", "5", "20", "5", "1", "C1", "2", "编号",
		"0", "SEQEND", "5", "33", "8", "WIN",
	}
	textRecord = []string{
		"0", "TEXT", "5", "34", "8", "WALL", "10", "1", "20", "1", "40", "2.5", "1", "门窗",
	}
	objectsSections = []string{
		"0", "ENDSEC",
		"0", "SECTION", "2", "OBJECTS",
		"0", "DICTIONARY", "5", "C",
		"0", "ENDSEC",
		"0", "EOF",
	}

	drawing = dxfText(join(
		headerSections,
		lineRecord, dimensionRecord, polylineRecords, paperRecord, insertRecords, textRecord,
		objectsSections,
	)...)
)

func open(t *testing.T, src string, opts ...Option) *Reader {
	t.Helper()
	r, err := New(strings.NewReader(src), opts...)
	require.NoError(t, err)
	return r
}

// flatten 实体及其从属记录的全部标签，用于比较两个实体序列
func flatten(e entities.Entity, strip bool) [][]core.Tag {
	record := func(rec *core.Record) []core.Tag {
		if strip {
			rec = rec.Stripped()
		}
		return rec.AllTags()
	}

	out := [][]core.Tag{record(e.Record())}
	if c, ok := e.(entities.Composite); ok && c.LinksDependents() {
		for _, dep := range c.Dependents() {
			out = append(out, record(dep.Record()))
		}
		out = append(out, record(entities.Terminator(c).Record()))
	}
	return out
}

func flattenAll(list []entities.Entity, strip bool) [][][]core.Tag {
	out := make([][][]core.Tag, 0, len(list))
	for _, e := range list {
		out = append(out, flatten(e, strip))
	}
	return out
}

func types(list []entities.Entity) []string {
	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.Type())
	}
	return names
}

func TestReader_Modelspace(t *testing.T) {
	r := open(t, drawing)
	assert.Equal(t, "AC1015", r.Version())
	assert.Equal(t, "gbk", r.Encoding().Name)

	list, err := Collect(r.Modelspace())
	require.NoError(t, err)
	require.Equal(t, []string{"LINE", "POLYLINE", "INSERT", "TEXT"}, types(list))

	line := list[0].(*entities.Line)
	assert.Equal(t, "2A", line.Handle())
	assert.Equal(t, "WALL", line.Layer())
	assert.Equal(t, core.Point{X: 10, Y: 5}, line.End)
	assert.Len(t, line.Record().XData, 1)
	assert.True(t, line.Record().HasAppData(core.AppReactors))
	assert.Same(t, r.Structure(), line.Base().Origin)

	poly := list[1].(*entities.Polyline)
	require.Len(t, poly.Vertices, 2)
	assert.Equal(t, core.Point{X: 3, Y: 4}, poly.Vertices[1].Location)
	assert.Equal(t, "2F", poly.Seqend().Handle())
	assert.True(t, poly.Closed())

	insert := list[2].(*entities.Insert)
	require.Len(t, insert.Attributes, 1)
	assert.Equal(t, "编号", insert.Attributes[0].Tag)
	assert.Equal(t, "C1", insert.Attributes[0].Text)

	// 新版本实体文本按 UTF-8 读取，与头部代码页无关
	assert.Equal(t, "门窗", list[3].(*entities.Text).Text)
}

// 夹在顶点之间的不支持记录
var polylineWithSkipped = []string{
	"0", "POLYLINE", "5", "2C", "8", "WALL", "66", "1", "10", "0", "20", "0", "30", "0", "70", "1",
	"0", "VERTEX", "5", "2D", "8", "WALL", "10", "1", "20", "2", "30", "0",
	"0", "DIMENSION", "5", "50", "8", "DIM", "2", "*D1", "10", "0", "20", "0", "70", "1",
	"0", "VERTEX", "5", "2E", "8", "WALL", "10", "3", "20", "4", "30", "0",
	"0", "SEQEND", "5", "2F", "8", "WALL",
}

func TestReader_SkipSafety(t *testing.T) {
	without := dxfText(join(headerSections, lineRecord, polylineRecords, objectsSections)...)
	tests := map[string]string{
		"between entities": dxfText(join(headerSections, lineRecord, dimensionRecord, polylineRecords, dimensionRecord, objectsSections)...),
		"between vertices": dxfText(join(headerSections, lineRecord, polylineWithSkipped, objectsSections)...),
	}

	a, err := Collect(open(t, without).Modelspace())
	require.NoError(t, err)
	for name, with := range tests {
		t.Run(name, func(t *testing.T) {
			b, err := Collect(open(t, with).Modelspace())
			require.NoError(t, err)
			assert.Equal(t, flattenAll(a, false), flattenAll(b, false))
			require.Len(t, b, 2)
			assert.Len(t, b[1].(*entities.Polyline).Vertices, 2)
		})
	}
}

func TestReader_LogsSkippedRecords(t *testing.T) {
	var buf bytes.Buffer
	r := open(t, drawing, WithLogger(log.New(&buf, "", 0)))

	_, err := Collect(r.Modelspace())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "index built")
	assert.Contains(t, buf.String(), "skipped unsupported records: DIMENSION=1")
}

func TestReader_MissingSection(t *testing.T) {
	src := dxfText(
		"0", "SECTION", "2", "HEADER", "0", "ENDSEC",
		"0", "SECTION", "2", "BLOCKS", "0", "ENDSEC",
		"0", "EOF",
	)
	_, err := New(strings.NewReader(src))
	assert.True(t, errors.Is(err, core.ErrMissingSection))

	// 新版本文件还必须有 OBJECTS
	modern := dxfText(join(headerSections, lineRecord, []string{"0", "ENDSEC", "0", "EOF"})...)
	_, err = New(strings.NewReader(modern))
	assert.True(t, errors.Is(err, core.ErrMissingSection))
}

func TestReader_MissingTerminator(t *testing.T) {
	// ENTITIES 段没有 ENDSEC 就开始了下一个段
	src := dxfText(join(
		headerSections, lineRecord, polylineRecords,
		[]string{"0", "SECTION", "2", "OBJECTS", "0", "ENDSEC", "0", "EOF"},
	)...)
	r, err := New(strings.NewReader(src))
	require.NoError(t, err)

	list, err := Collect(r.Modelspace())
	assert.True(t, errors.Is(err, core.ErrMissingTerminator))
	// 最后排队的 POLYLINE 无法确认完整，不返回
	assert.Equal(t, []string{"LINE"}, types(list))
}

func TestReader_MalformedTag(t *testing.T) {
	src := dxfText(join(headerSections, []string{"0", "LINE", "ten", "0"}, objectsSections)...)
	_, err := New(strings.NewReader(src))
	assert.True(t, errors.Is(err, core.ErrMalformedTag))
}

func TestReader_ConstructionError(t *testing.T) {
	src := dxfText(join(headerSections, []string{"0", "LINE", "5", "99", "10", "abc"}, objectsSections)...)
	r := open(t, src)

	it := r.Modelspace()
	assert.False(t, it.Next())
	assert.True(t, errors.Is(it.Err(), core.ErrConstruction))
	assert.Contains(t, it.Err().Error(), "LINE(#99)")
}

func TestReader_LegacyEncoding(t *testing.T) {
	gbk := core.ToEncoding("ANSI_936")
	text, err := gbk.Encode("门窗")
	require.NoError(t, err)

	src := dxfText(
		"0", "SECTION", "2", "HEADER",
		"9", "$DWGCODEPAGE", "3", "ANSI_936",
		"0", "ENDSEC",
		"0", "SECTION", "2", "ENTITIES",
		"0", "TEXT", "8", "0", "10", "0", "20", "0", "1", string(text),
		"0", "ENDSEC",
		"0", "EOF",
	)
	r := open(t, src)
	assert.Equal(t, core.LegacyVersion, r.Version())

	list, err := Collect(r.Modelspace())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "门窗", list[0].(*entities.Text).Text)
}

func TestOpen(t *testing.T) {
	name := filepath.Join(t.TempDir(), "drawing.dxf")
	require.NoError(t, os.WriteFile(name, []byte(drawing), 0644))

	r, err := Open(name)
	require.NoError(t, err)
	defer func() { assert.NoError(t, r.Close()) }()

	list, err := Collect(r.Modelspace())
	require.NoError(t, err)
	assert.Len(t, list, 4)

	_, err = Open(filepath.Join(t.TempDir(), "missing.dxf"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReader_IndependentIterators(t *testing.T) {
	r := open(t, drawing)
	a, b := r.Modelspace(), r.Modelspace()

	// 交替推进两个迭代器，各自的位置互不影响
	var got []string
	for a.Next() {
		require.True(t, b.Next())
		assert.Equal(t, a.Entity().Handle(), b.Entity().Handle())
		got = append(got, a.Entity().Type())
	}
	assert.False(t, b.Next())
	assert.NoError(t, a.Err())
	assert.NoError(t, b.Err())
	assert.Len(t, got, 4)
}
