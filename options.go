package iterdxf

import (
	"io"
	"log"
)

type options struct {
	logger     *log.Logger
	bufferSize int
}

// Option 配置 Reader 和 SinglePass
type Option func(*options)

// WithLogger 输出索引统计、被跳过的记录和链接异常；默认不输出
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBufferSize 设置顺序扫描时的读缓冲大小
func WithBufferSize(size int) Option {
	return func(o *options) {
		o.bufferSize = size
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:     log.New(io.Discard, "", 0),
		bufferSize: 64 * 1024,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
