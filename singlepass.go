package iterdxf

import (
	"io"
	"strconv"
	"strings"

	"github.com/zooyer/iterdxf/core"
	"github.com/zooyer/iterdxf/entities"
)

// SinglePassIterator 顺序读取不可 seek 的源，不建立索引
type SinglePassIterator struct {
	scanner *core.Scanner
	opts    options
	version string
	enc     core.Encoding
	queue   *queue
	skipped map[string]int

	// 下一条记录的组码 0 标签，读上一条记录时预读到的
	head    core.Tag
	headAt  int64
	hasHead bool
	tags    []core.Tag

	current entities.Entity
	done    bool
	err     error
}

// SinglePass 读取头部变量并前进到 ENTITIES 段
//
// 源中没有 ENTITIES 段时返回 core.ErrMissingSection。
func SinglePass(r io.Reader, opts ...Option) (*SinglePassIterator, error) {
	o := newOptions(opts)
	it := &SinglePassIterator{
		scanner: core.NewScanner(r, core.WithBufferSize(o.bufferSize)),
		opts:    o,
		queue:   newQueue(o.logger),
		skipped: make(map[string]int),
		tags:    make([]core.Tag, 0, 32),
	}
	if err := it.seekEntities(); err != nil {
		return nil, err
	}
	return it, nil
}

// seekEntities 按原始字节扫描到 ENTITIES 段，途中从头部确定版本和代码页
func (it *SinglePassIterator) seekEntities() error {
	var (
		s        = it.scanner
		header   = core.NewHeaderVars()
		resolved bool
		prev     core.Tag
		section  string
	)

	// ENTITIES 之前保持原始字节，解码失败时保留原值，与建立索引时一致
	decode := func(raw string) string {
		enc := it.enc
		if !resolved {
			enc = header.Encoding()
		}
		if v, err := enc.Decode([]byte(raw)); err == nil {
			raw = v
		}
		return strings.TrimSpace(raw)
	}
	resolve := func() {
		if resolved {
			return
		}
		resolved = true
		it.version, it.enc = header.Version, header.Encoding()
		it.opts.logger.Printf("stream header: version %s, codepage %s (%s)", header.Version, header.Codepage, it.enc)
	}

	for s.Next() {
		tag := s.LastTag
		switch {
		case tag.Code == 0:
			if decode(tag.Value) == core.EndSecKeyword {
				if section == core.HeaderSection {
					resolve()
				}
				section = ""
			}
		case tag.Code == 2 && prev.Code == 0 && strings.TrimSpace(prev.Value) == core.SectionKeyword:
			// 没有 HEADER 段时，遇到第一个其他段即按缺省值确定
			if section = decode(tag.Value); section != core.HeaderSection {
				resolve()
			}
			if section == core.EntitiesSection {
				s.SetEncoding(core.EntityEncoding(it.version, it.enc))
				return nil
			}
		case section == core.HeaderSection:
			header.Feed(tag.Code, decode(tag.Value))
		}
		prev = tag
	}
	if err := s.Err(); err != nil {
		return err
	}
	return core.MissingSection(core.EntitiesSection)
}

// Version 头部 $ACADVERSION，缺省为 AC1009
func (it *SinglePassIterator) Version() string {
	return it.version
}

// Encoding 头部 $DWGCODEPAGE 对应的编码
func (it *SinglePassIterator) Encoding() core.Encoding {
	return it.enc
}

func (it *SinglePassIterator) Next() bool {
	it.current = nil
	for !it.done && it.err == nil {
		if !it.hasHead && !it.readHead() {
			return false
		}

		typ := strings.TrimSpace(it.head.Value)
		switch {
		case it.head.Code != 0:
			it.err = &core.StructureError{
				Err:    core.ErrConstruction,
				Offset: it.headAt,
				Msg:    "group code " + strconv.Itoa(it.head.Code) + " outside of a record",
			}
			return false
		case typ == core.EndSecKeyword:
			it.done = true
			logSkipped(it.opts.logger, it.skipped)
			it.current = it.queue.flush()
			return it.current != nil
		case typ == core.SectionKeyword || typ == core.EOFKeyword:
			it.err = core.MissingTerminator(it.headAt, "ENDSEC of %s section not found", core.EntitiesSection)
			return false
		}

		keep := entities.Supported(typ)
		if !keep {
			it.skipped[typ]++
		}
		offset, tags, err := it.readRecord(keep)
		if err != nil {
			it.err = err
			return false
		}
		if !keep {
			continue
		}

		ent, err := it.build(offset, tags)
		if err != nil {
			it.err = err
			return false
		}
		if it.current = it.queue.push(ent); it.current != nil {
			return true
		}
	}
	return false
}

// readHead 读取段内第一条记录的组码 0；流结束说明缺少 ENDSEC
func (it *SinglePassIterator) readHead() bool {
	if !it.scanner.Next() {
		if it.err = it.scanner.Err(); it.err == nil {
			it.err = core.MissingTerminator(it.scanner.Pos(), "ENDSEC of %s section not found", core.EntitiesSection)
		}
		return false
	}
	it.head, it.headAt, it.hasHead = it.scanner.LastTag, it.scanner.Offset(), true
	return true
}

// readRecord 读到下一个组码 0 为止；keep 为 false 时只消费不保存
func (it *SinglePassIterator) readRecord(keep bool) (int64, []core.Tag, error) {
	offset := it.headAt
	tags := it.tags[:0]
	if keep {
		tags = append(tags, it.head)
	}

	it.hasHead = false
	for it.scanner.Next() {
		tag := it.scanner.LastTag
		if tag.Code == 0 {
			it.head, it.headAt, it.hasHead = tag, it.scanner.Offset(), true
			break
		}
		if keep {
			tags = append(tags, tag)
		}
	}
	it.tags = tags
	return offset, tags, it.scanner.Err()
}

func (it *SinglePassIterator) build(offset int64, tags []core.Tag) (entities.Entity, error) {
	rec, err := core.Compile(tags)
	if err != nil {
		if se, ok := err.(*core.StructureError); ok && se.Offset < 0 {
			se.Offset = offset
		}
		return nil, err
	}
	return entities.Build(rec)
}

func (it *SinglePassIterator) Entity() entities.Entity {
	return it.current
}

func (it *SinglePassIterator) Err() error {
	return it.err
}
