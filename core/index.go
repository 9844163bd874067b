package core

import (
	"io"
	"strings"
)

// 段名与结构关键字
const (
	SectionKeyword = "SECTION"
	EndSecKeyword  = "ENDSEC"
	EOFKeyword     = "EOF"

	HeaderSection   = "HEADER"
	EntitiesSection = "ENTITIES"
	ObjectsSection  = "OBJECTS"

	varVersion  = "$ACADVERSION"
	varCodepage = "$DWGCODEPAGE"
)

// Entry 记录边界：组码 0 的值及其组码行的字节偏移
type Entry struct {
	Code   int
	Value  string
	Offset int64
}

// FileStructure 一次顺序扫描得到的文件骨架，建成后只读
type FileStructure struct {
	Version  string
	Codepage string
	Encoding Encoding       // 头部代码页对应的编码
	Index    []Entry        // 只含组码 0
	Sections map[string]int // 段名 -> 该段 SECTION 条目在 Index 中的位置
	Size     int64          // 扫描过的总字节数，到 EOF 记录为止
}

// LoadIndex 顺序扫描一次源，建立骨架索引
//
// 只保留组码 0；紧跟 SECTION 的组码 2 记入 Sections；其他组码（包括句柄）全部丢弃。
// 出错时不返回部分索引。
func LoadIndex(r io.Reader, opts ...ScanOption) (*FileStructure, error) {
	var (
		scanner = NewScanner(r, opts...)
		header  = NewHeaderVars()
		fs      = &FileStructure{
			Index:    make([]Entry, 0, 1024),
			Sections: make(map[string]int),
		}
		enc     = CP1252 // 代码页确定之前的临时编码
		prev    Tag
		section string
	)

	decode := func(raw string) string {
		if v, err := enc.Decode([]byte(raw)); err == nil {
			raw = v
		}
		return strings.TrimSpace(raw)
	}

scan:
	for scanner.Next() {
		tag := scanner.LastTag
		switch {
		case tag.Code == 0:
			value := decode(tag.Value)
			fs.Index = append(fs.Index, Entry{Code: 0, Value: value, Offset: scanner.Offset()})
			switch value {
			case EndSecKeyword:
				section = ""
			case EOFKeyword:
				// EOF 之后的字节（如 DOS 的 Ctrl-Z）不属于文件内容
				break scan
			}
		case tag.Code == 2 && prev.Code == 0 && strings.TrimSpace(prev.Value) == SectionKeyword:
			section = decode(tag.Value)
			if _, ok := fs.Sections[section]; !ok {
				fs.Sections[section] = len(fs.Index) - 1
			}
		case section == HeaderSection:
			header.Feed(tag.Code, decode(tag.Value))
			enc = header.Encoding()
		}
		prev = tag
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	fs.Size = scanner.Pos()
	fs.Version = header.Version
	fs.Codepage = header.Codepage
	fs.Encoding = header.Encoding()

	if _, ok := fs.Sections[EntitiesSection]; !ok {
		return nil, MissingSection(EntitiesSection)
	}
	if fs.IsModern() {
		if _, ok := fs.Sections[ObjectsSection]; !ok {
			return nil, MissingSection(ObjectsSection)
		}
	}
	return fs, nil
}

// IsModern 新于 R12
func (fs *FileStructure) IsModern() bool {
	return IsModern(fs.Version)
}

// EntityEncoding 实体记录的文本编码
func (fs *FileStructure) EntityEncoding() Encoding {
	return EntityEncoding(fs.Version, fs.Encoding)
}

// Get 从 start 开始查找第一个匹配的条目
func (fs *FileStructure) Get(code int, value string, start int) (int, bool) {
	for i := max(start, 0); i < len(fs.Index); i++ {
		if e := fs.Index[i]; e.Code == code && e.Value == value {
			return i, true
		}
	}
	return -1, false
}

// EntitiesStart 返回 ENTITIES 段第一条记录（或 ENDSEC）在 Index 中的位置
func (fs *FileStructure) EntitiesStart() (int, error) {
	pos, ok := fs.Sections[EntitiesSection]
	if !ok {
		return -1, MissingSection(EntitiesSection)
	}
	if pos+1 >= len(fs.Index) {
		return -1, MissingTerminator(fs.Index[pos].Offset, "ENDSEC of %s section not found", EntitiesSection)
	}
	return pos + 1, nil
}

// SectionSpan 返回整段（SECTION 到 ENDSEC 含）的字节范围 [start, end)
func (fs *FileStructure) SectionSpan(name string) (start, end int64, err error) {
	pos, ok := fs.Sections[name]
	if !ok {
		return 0, 0, MissingSection(name)
	}
	last, ok := fs.Get(0, EndSecKeyword, pos+1)
	if !ok {
		return 0, 0, MissingTerminator(fs.Index[pos].Offset, "ENDSEC of %s section not found", name)
	}
	start = fs.Index[pos].Offset
	end = fs.Size
	if last+1 < len(fs.Index) {
		end = fs.Index[last+1].Offset
	}
	return start, end, nil
}
