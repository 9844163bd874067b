package iterdxf

import "errors"

var (
	// ErrForeignEntity 实体不是从导出器绑定的源文件读出的，引用的资源会悬空
	ErrForeignEntity = errors.New("entity does not originate from the export source")
	// ErrClosed 导出器已经关闭
	ErrClosed = errors.New("writer already closed")
)
