package core

import (
	"io"
	"strconv"

	"golang.org/x/text/encoding"
)

// 结束标记，组码按 3 位右对齐
var (
	EndSection = []byte("  0\r\nENDSEC\r\n")
	EndOfFile  = []byte("  0\r\nEOF\r\n")
)

// TagWriter 将标签序列化为 DXF 文本
type TagWriter struct {
	w   io.Writer
	enc *encoding.Encoder
	buf []byte
}

func NewTagWriter(w io.Writer, enc Encoding) *TagWriter {
	return &TagWriter{w: w, enc: enc.NewEncoder(), buf: make([]byte, 0, 256)}
}

// WriteTag 写出一个标签：组码行 + 值行，CRLF 结尾
func (tw *TagWriter) WriteTag(t Tag) error {
	value, err := tw.enc.String(t.Value)
	if err != nil {
		return err
	}

	b := tw.buf[:0]
	if t.Code < 100 {
		b = append(b, ' ')
	}
	if t.Code < 10 {
		b = append(b, ' ')
	}
	b = strconv.AppendInt(b, int64(t.Code), 10)
	b = append(b, '\r', '\n')
	b = append(b, value...)
	b = append(b, '\r', '\n')
	tw.buf = b

	_, err = tw.w.Write(b)
	return err
}

// WriteTags 依次写出多个标签
func (tw *TagWriter) WriteTags(tags []Tag) error {
	for _, t := range tags {
		if err := tw.WriteTag(t); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecord 按原始顺序写出整条记录
func (tw *TagWriter) WriteRecord(r *Record) error {
	return tw.WriteTags(r.AllTags())
}
