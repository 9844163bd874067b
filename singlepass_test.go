package iterdxf

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/iterdxf/core"
	"github.com/zooyer/iterdxf/entities"
)

// forwardOnly 隐藏 Seek，模拟管道或网络流
type forwardOnly struct {
	io.Reader
}

func stream(src string) io.Reader {
	return forwardOnly{strings.NewReader(src)}
}

func TestSinglePass(t *testing.T) {
	it, err := SinglePass(stream(drawing))
	require.NoError(t, err)
	assert.Equal(t, "AC1015", it.Version())
	assert.Equal(t, "gbk", it.Encoding().Name)

	list, err := Collect(it)
	require.NoError(t, err)
	assert.Equal(t, []string{"LINE", "POLYLINE", "INSERT", "TEXT"}, types(list))
	for _, e := range list {
		assert.Nil(t, e.Base().Origin)
	}
}

func TestSinglePass_MatchesIndexed(t *testing.T) {
	sources := map[string]string{
		"drawing": drawing,
		"no dependents": dxfText(join(headerSections, lineRecord, textRecord, objectsSections)...),
		"missing seqend": dxfText(join(headerSections,
			[]string{"0", "POLYLINE", "8", "0", "66", "1", "0", "VERTEX", "8", "0", "10", "1", "20", "1"},
			lineRecord, objectsSections)...),
		"stray vertex": dxfText(join(headerSections,
			[]string{"0", "VERTEX", "8", "0", "10", "1", "20", "1"},
			polylineRecords, objectsSections)...),
		"insert without attribs": dxfText(join(headerSections,
			[]string{"0", "INSERT", "8", "0", "2", "WIN", "10", "1", "20", "1"},
			lineRecord, objectsSections)...),
		"skipped inside polyline": dxfText(join(headerSections, lineRecord, polylineWithSkipped, objectsSections)...),
		"ctrl-z after eof":        drawing + "\x1a",
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			indexed, err := Collect(open(t, src).Modelspace())
			require.NoError(t, err)

			it, err := SinglePass(stream(src))
			require.NoError(t, err)
			streamed, err := Collect(it)
			require.NoError(t, err)

			assert.Equal(t, flattenAll(indexed, false), flattenAll(streamed, false))
		})
	}
}

func TestSinglePass_MissingSection(t *testing.T) {
	src := dxfText(
		"0", "SECTION", "2", "HEADER", "0", "ENDSEC",
		"0", "SECTION", "2", "TABLES", "0", "ENDSEC",
		"0", "EOF",
	)
	it, err := SinglePass(stream(src))
	assert.Nil(t, it)
	assert.True(t, errors.Is(err, core.ErrMissingSection))
}

func TestSinglePass_Truncated(t *testing.T) {
	src := dxfText(join(headerSections, lineRecord, polylineRecords)...)
	it, err := SinglePass(stream(src))
	require.NoError(t, err)

	list, err := Collect(it)
	assert.True(t, errors.Is(err, core.ErrMissingTerminator))
	assert.Equal(t, []string{"LINE"}, types(list))
}

func TestSinglePass_MalformedTag(t *testing.T) {
	src := dxfText(join(headerSections, lineRecord, []string{"0", "LINE", "x1", "0"}, objectsSections)...)
	it, err := SinglePass(stream(src))
	require.NoError(t, err)

	assert.False(t, it.Next())
	assert.True(t, errors.Is(it.Err(), core.ErrMalformedTag))
	// 出错后不再继续
	assert.False(t, it.Next())
}

func TestSinglePass_StrayGroupCode(t *testing.T) {
	src := dxfText(join(headerSections, []string{"8", "0"}, lineRecord, objectsSections)...)
	it, err := SinglePass(stream(src))
	require.NoError(t, err)

	assert.False(t, it.Next())
	assert.True(t, errors.Is(it.Err(), core.ErrConstruction))
}

func TestSinglePass_Defaults(t *testing.T) {
	cp1251 := core.ToEncoding("ANSI_1251")
	text, err := cp1251.Encode("окно")
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   []string
		version  string
		encoding string
		text     []byte
		want     string
	}{
		{
			name:     "no header section",
			version:  core.LegacyVersion,
			encoding: "cp1252",
			text:     []byte("fen\xeatre"),
			want:     "fenêtre",
		},
		{
			name:     "codepage only",
			header:   []string{"9", "$DWGCODEPAGE", "3", "ANSI_1251"},
			version:  core.LegacyVersion,
			encoding: "cp1251",
			text:     text,
			want:     "окно",
		},
		{
			name:     "version only",
			header:   []string{"9", "$ACADVERSION", "1", "AC1018"},
			version:  "AC1018",
			encoding: "cp1252",
			text:     []byte("окно"),
			want:     "окно",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lines []string
			if tt.header != nil {
				lines = join([]string{"0", "SECTION", "2", "HEADER"}, tt.header, []string{"0", "ENDSEC"})
			}
			lines = join(lines,
				[]string{"0", "SECTION", "2", "ENTITIES"},
				[]string{"0", "TEXT", "8", "0", "10", "0", "20", "0", "1", string(tt.text)},
				[]string{"0", "ENDSEC", "0", "EOF"},
			)

			it, err := SinglePass(stream(dxfText(lines...)))
			require.NoError(t, err)
			assert.Equal(t, tt.version, it.Version())
			assert.Equal(t, tt.encoding, it.Encoding().Name)

			list, err := Collect(it)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, tt.want, list[0].(*entities.Text).Text)
		})
	}
}

func TestUndefinedCodepageByte(t *testing.T) {
	// 没有头部：R12 + cp1252，0x81 在 cp1252 中没有定义
	src := dxfText(
		"0", "SECTION", "2", "ENTITIES",
		"0", "TEXT", "8", "0", "10", "0", "20", "0", "1", "a\x81b\xe9",
		"0", "ENDSEC",
		"0", "EOF",
	)

	_, err := Collect(open(t, src).Modelspace())
	assert.True(t, errors.Is(err, core.ErrMalformedTag))
	assert.Contains(t, err.Error(), core.ErrUndefinedByte.Error())

	it, err := SinglePass(stream(src))
	require.NoError(t, err)
	_, err = Collect(it)
	assert.True(t, errors.Is(err, core.ErrMalformedTag))
	assert.Contains(t, err.Error(), core.ErrUndefinedByte.Error())
}
