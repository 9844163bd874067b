package iterdxf

import (
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/zooyer/iterdxf/core"
	"github.com/zooyer/iterdxf/entities"
)

// EntityIterator 逐个拉取模型空间实体，只能遍历一次
//
//	for it.Next() {
//		e := it.Entity()
//	}
//	if err := it.Err(); err != nil {
//	}
type EntityIterator interface {
	Next() bool
	Entity() entities.Entity
	Err() error
}

// Collect 读完迭代器，返回全部实体；出错时返回出错前已读到的实体
func Collect(it EntityIterator) ([]entities.Entity, error) {
	var list []entities.Entity
	for it.Next() {
		list = append(list, it.Entity())
	}
	return list, it.Err()
}

// Iterator 按索引遍历 ENTITIES 段
//
// 每条记录只读取它自己的字节范围；不支持的类型直接跳过，不读不解析。
type Iterator struct {
	reader  *Reader
	fs      *core.FileStructure
	enc     core.Encoding
	pos     int
	buf     []byte
	queue   *queue
	skipped map[string]int
	current entities.Entity
	done    bool
	err     error
}

func newIterator(r *Reader) *Iterator {
	it := &Iterator{
		reader:  r,
		fs:      r.structure,
		enc:     r.structure.EntityEncoding(),
		queue:   newQueue(r.opts.logger),
		skipped: make(map[string]int),
	}
	it.pos, it.err = r.structure.EntitiesStart()
	return it
}

func (it *Iterator) Next() bool {
	it.current = nil
	for !it.done && it.err == nil {
		if it.pos >= len(it.fs.Index) {
			it.err = core.MissingTerminator(it.fs.Size, "ENDSEC of %s section not found", core.EntitiesSection)
			return false
		}

		entry := it.fs.Index[it.pos]
		switch entry.Value {
		case core.EndSecKeyword:
			it.done = true
			logSkipped(it.reader.opts.logger, it.skipped)
			it.current = it.queue.flush()
			return it.current != nil
		case core.SectionKeyword, core.EOFKeyword:
			it.err = core.MissingTerminator(entry.Offset, "ENDSEC of %s section not found", core.EntitiesSection)
			return false
		}

		it.pos++
		if !entities.Supported(entry.Value) {
			it.skipped[entry.Value]++
			continue
		}

		ent, err := it.build(entry)
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

// build 读取 entry 到下一个条目之间的字节并构造实体
func (it *Iterator) build(entry core.Entry) (entities.Entity, error) {
	end := it.fs.Size
	if it.pos < len(it.fs.Index) {
		end = it.fs.Index[it.pos].Offset
	}

	size := int(end - entry.Offset)
	if cap(it.buf) < size {
		it.buf = make([]byte, size)
	}
	buf := it.buf[:size]
	if err := it.reader.readAt(buf, entry.Offset); err != nil {
		return nil, err
	}

	rec, err := core.ParseRecord(buf, it.enc, entry.Offset)
	if err != nil {
		return nil, err
	}
	ent, err := entities.Build(rec)
	if err != nil {
		return nil, err
	}
	ent.Base().Origin = it.fs
	return ent, nil
}

// Entity 当前实体，Next 返回 true 后有效
func (it *Iterator) Entity() entities.Entity {
	return it.current
}

func (it *Iterator) Err() error {
	return it.err
}

func logSkipped(logger *log.Logger, skipped map[string]int) {
	if len(skipped) == 0 {
		return
	}
	names := make([]string, 0, len(skipped))
	for name := range skipped {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(skipped[name]))
	}
	logger.Printf("skipped unsupported records: %s", b.String())
}
