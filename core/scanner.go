package core

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

// Scanner 逐个读取标签：一行组码，一行值
//
// 没有指定编码时值保持原始字节，用于读取头部之前的预扫描。
// 出错后不可继续使用：后续记录的字节偏移已无法确定。
type Scanner struct {
	reader  *bufio.Reader
	dec     *Decoder
	offset  int64 // 已消费的字节数
	start   int64 // LastTag 组码行的起始偏移
	LastTag Tag
	err     error
}

// ScanOption 配置 Scanner
type ScanOption func(*Scanner)

// WithEncoding 指定值的解码方式
func WithEncoding(enc Encoding) ScanOption {
	return func(s *Scanner) {
		s.dec = enc.NewDecoder()
	}
}

// WithBaseOffset 从文件中间开始扫描时，偏移从 base 开始计
func WithBaseOffset(base int64) ScanOption {
	return func(s *Scanner) {
		s.offset = base
	}
}

// WithBufferSize 设置读缓冲大小
func WithBufferSize(size int) ScanOption {
	return func(s *Scanner) {
		if size > 0 {
			s.reader = bufio.NewReaderSize(s.reader, size)
		}
	}
}

func NewScanner(r io.Reader, opts ...ScanOption) *Scanner {
	s := &Scanner{
		reader: bufio.NewReader(r),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEncoding 流内切换编码（单遍读取时，头部之后才知道代码页）
func (s *Scanner) SetEncoding(enc Encoding) {
	s.dec = enc.NewDecoder()
}

func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}

	// 1. 读取 Code 行
	start := s.offset
	codeLine, err := s.readLine()
	if err != nil && err != io.EOF {
		s.err = err
		return false
	}

	codeStr := bytes.TrimSpace(codeLine)
	if len(codeStr) == 0 {
		// 文件末尾的空行可以容忍，中间的空行说明已经错位
		if err == io.EOF || s.blankUntilEOF() {
			return false
		}
		s.err = structureError(ErrMalformedTag, start, "empty group code line")
		return false
	}

	code, perr := strconv.Atoi(string(codeStr))
	if perr != nil {
		s.err = structureError(ErrMalformedTag, start, "invalid group code %q", codeStr)
		return false
	}
	if code < 0 || code > MaxGroupCode {
		s.err = structureError(ErrMalformedTag, start, "group code %d out of range", code)
		return false
	}

	// 2. 读取 Value 行
	valueLine, err := s.readLine()
	if err != nil && (err != io.EOF || len(valueLine) == 0) {
		if err == io.EOF {
			// Value 行如果 EOF 也是不完整的
			s.err = structureError(ErrMalformedTag, start, "missing value for group code %d", code)
		} else {
			s.err = err
		}
		return false
	}

	// 去掉行尾的换行符，但保留 Value 开头的空格（DXF 规范要求）
	raw := bytes.TrimRight(valueLine, "\r\n")
	value := string(raw)
	if s.dec != nil {
		decoded, derr := s.dec.Bytes(raw)
		if derr != nil {
			s.err = structureError(ErrMalformedTag, start, "cannot decode value of group code %d: %v", code, derr)
			return false
		}
		value = string(decoded)
	}

	s.start = start
	s.LastTag = Tag{Code: code, Value: value}
	return true
}

// Offset 返回 LastTag 组码行在源中的字节偏移
func (s *Scanner) Offset() int64 {
	return s.start
}

// Pos 返回已经消费的字节数（含基准偏移）
func (s *Scanner) Pos() int64 {
	return s.offset
}

func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) readLine() ([]byte, error) {
	line, err := s.reader.ReadBytes('\n')
	s.offset += int64(len(line))
	return line, err
}

// blankUntilEOF 消费剩余的空行，只剩空行时返回 true
func (s *Scanner) blankUntilEOF() bool {
	for {
		line, err := s.readLine()
		if len(bytes.TrimSpace(line)) != 0 {
			return false
		}
		if err != nil {
			return err == io.EOF
		}
	}
}
