package iterdxf

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/zooyer/iterdxf/core"
	"github.com/zooyer/iterdxf/entities"
)

// Writer 把选中的实体导出到新文件
//
// 创建时复制源文件从开头到 ENTITIES 段第一条记录之前的全部字节；
// 必须调用 Close 才会写出 ENDSEC、OBJECTS 段和 EOF，没有 Close 的输出文件不可用。
type Writer struct {
	reader  *Reader
	w       *bufio.Writer
	closer  io.Closer
	tags    *core.TagWriter
	written int
	closed  bool
}

// Export 创建目标文件并写入源文件的头部各段
func (r *Reader) Export(filename string) (writer *Writer, err error) {
	file, err := os.Create(filename)
	if err != nil {
		return
	}

	defer func() {
		if err != nil {
			_ = file.Close()
		}
	}()

	if writer, err = r.NewWriter(file); err != nil {
		return nil, err
	}
	writer.closer = file
	return writer, nil
}

// NewWriter 在任意 io.Writer 上导出；dst 的关闭由调用方负责
func (r *Reader) NewWriter(dst io.Writer) (*Writer, error) {
	start, err := r.structure.EntitiesStart()
	if err != nil {
		return nil, err
	}

	w := bufio.NewWriterSize(dst, r.opts.bufferSize)
	if err = r.copyRange(w, 0, r.structure.Index[start].Offset); err != nil {
		return nil, err
	}

	return &Writer{
		reader: r,
		w:      w,
		tags:   core.NewTagWriter(w, r.structure.EntityEncoding()),
	}, nil
}

// Write 写出一个实体及其从属记录
//
// 实体必须由同一个 Reader 读出。写出前去掉应用数据、反应器、扩展字典和扩展数据。
func (w *Writer) Write(e entities.Entity) error {
	if w.closed {
		return ErrClosed
	}
	if e == nil || e.Base().Origin != w.reader.structure {
		return ErrForeignEntity
	}

	if err := w.tags.WriteRecord(e.Record().Stripped()); err != nil {
		return fmt.Errorf("write %s(#%s): %w", e.Type(), e.Handle(), err)
	}

	if c, ok := e.(entities.Composite); ok && c.LinksDependents() {
		for _, dep := range c.Dependents() {
			if err := w.tags.WriteRecord(dep.Record().Stripped()); err != nil {
				return fmt.Errorf("write %s(#%s): %w", dep.Type(), dep.Handle(), err)
			}
		}
		if err := w.tags.WriteRecord(entities.Terminator(c).Record().Stripped()); err != nil {
			return fmt.Errorf("write SEQEND of %s(#%s): %w", e.Type(), e.Handle(), err)
		}
	}

	w.written++
	return nil
}

// Written 已写出的实体数
func (w *Writer) Written() int {
	return w.written
}

// Abort 放弃导出：只释放目标文件，不写结束标记，输出保持不可用
func (w *Writer) Abort() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// Close 结束 ENTITIES 段，新版本文件再复制 OBJECTS 段，最后写 EOF
func (w *Writer) Close() (err error) {
	if w.closed {
		return ErrClosed
	}
	w.closed = true

	if w.closer != nil {
		defer func() {
			if e := w.closer.Close(); err == nil {
				err = e
			}
		}()
	}

	if _, err = w.w.Write(core.EndSection); err != nil {
		return
	}
	if w.reader.structure.IsModern() {
		var start, end int64
		if start, end, err = w.reader.structure.SectionSpan(core.ObjectsSection); err != nil {
			return
		}
		if err = w.reader.copyRange(w.w, start, end); err != nil {
			return
		}
	}
	if _, err = w.w.Write(core.EndOfFile); err != nil {
		return
	}
	return w.w.Flush()
}
