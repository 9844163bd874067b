// Package iterdxf 流式读取大型 DXF 文件 ENTITIES 段中的实体，并把选中的实体导出到新文件。
//
// 可随机访问的源用 Open/New 建立骨架索引后按索引读取；不可 seek 的源用 SinglePass 一次读完。
// 导出文件复制源文件的 HEADER、CLASSES、TABLES、BLOCKS 和 OBJECTS 段，保证被导出实体引用的资源都在。
package iterdxf

import (
	"fmt"
	"io"
	"os"

	"github.com/zooyer/iterdxf/core"
)

// Reader 持有一个可 seek 的源和它的骨架索引
//
// 同一个 Reader 不能被多个 goroutine 同时使用；并发读取同一文件请各自 Open。
type Reader struct {
	src       io.ReadSeeker
	closer    io.Closer
	pos       int64 // src 当前位置，-1 表示未知
	structure *core.FileStructure
	opts      options
}

// Open 打开 DXF 文件并建立索引，用完必须 Close
func Open(filename string, opts ...Option) (reader *Reader, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return
	}

	defer func() {
		if err != nil {
			_ = file.Close()
		}
	}()

	if reader, err = New(file, opts...); err != nil {
		return nil, err
	}
	reader.closer = file
	return reader, nil
}

// New 在可 seek 的源上建立索引；源的关闭由调用方负责
func New(src io.ReadSeeker, opts ...Option) (*Reader, error) {
	o := newOptions(opts)
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek source: %w", err)
	}

	structure, err := core.LoadIndex(src, core.WithBufferSize(o.bufferSize))
	if err != nil {
		return nil, err
	}
	o.logger.Printf("index built: %d records, %d sections, version %s, codepage %s (%s)",
		len(structure.Index), len(structure.Sections), structure.Version, structure.Codepage, structure.Encoding)

	return &Reader{src: src, pos: -1, structure: structure, opts: o}, nil
}

// Version 头部 $ACADVERSION，缺省为 AC1009
func (r *Reader) Version() string {
	return r.structure.Version
}

// Encoding 头部 $DWGCODEPAGE 对应的编码
func (r *Reader) Encoding() core.Encoding {
	return r.structure.Encoding
}

// Structure 返回只读的骨架索引
func (r *Reader) Structure() *core.FileStructure {
	return r.structure
}

// Modelspace 返回模型空间实体的迭代器
func (r *Reader) Modelspace() *Iterator {
	return newIterator(r)
}

// Close 释放源文件
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

func (r *Reader) seek(offset int64) error {
	if r.pos == offset {
		return nil
	}
	if _, err := r.src.Seek(offset, io.SeekStart); err != nil {
		r.pos = -1
		return fmt.Errorf("seek to %d: %w", offset, err)
	}
	r.pos = offset
	return nil
}

// readAt 读取 [offset, offset+len(buf))
func (r *Reader) readAt(buf []byte, offset int64) error {
	if err := r.seek(offset); err != nil {
		return err
	}
	n, err := io.ReadFull(r.src, buf)
	r.pos += int64(n)
	if err != nil {
		return fmt.Errorf("read %d bytes at %d: %w", len(buf), offset, err)
	}
	return nil
}

// copyRange 原样复制源文件 [start, end) 的字节
func (r *Reader) copyRange(dst io.Writer, start, end int64) error {
	if err := r.seek(start); err != nil {
		return err
	}
	n, err := io.CopyN(dst, r.src, end-start)
	r.pos += n
	if err != nil {
		return fmt.Errorf("copy bytes %d-%d: %w", start, end, err)
	}
	return nil
}
