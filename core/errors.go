package core

import (
	"errors"
	"fmt"
)

// 结构性错误分类，调用方使用 errors.Is 判断
var (
	// ErrMalformedTag 组码行不是整数或超出 [0, 1071]，之后的字节偏移已不可信
	ErrMalformedTag = errors.New("malformed tag")
	// ErrMissingSection 缺少必需的段（ENTITIES，新版本还需要 OBJECTS）
	ErrMissingSection = errors.New("missing section")
	// ErrMissingTerminator 段或复合实体在输入结束前没有找到结束标记
	ErrMissingTerminator = errors.New("missing terminator")
	// ErrConstruction 实体属性标签无法构造实体
	ErrConstruction = errors.New("entity construction failed")
)

// StructureError 携带出错位置的结构错误
type StructureError struct {
	Err    error // 上面的分类之一
	Offset int64 // 出错记录在源文件中的字节偏移，未知时为 -1
	Msg    string
}

func (e *StructureError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("dxf: %v at offset %d: %s", e.Err, e.Offset, e.Msg)
	}
	return fmt.Sprintf("dxf: %v: %s", e.Err, e.Msg)
}

func (e *StructureError) Unwrap() error {
	return e.Err
}

func structureError(err error, offset int64, format string, args ...any) error {
	return &StructureError{Err: err, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// MissingSection 构造缺段错误
func MissingSection(name string) error {
	return structureError(ErrMissingSection, -1, "%s section not found", name)
}

// MissingTerminator 构造缺少结束标记错误
func MissingTerminator(offset int64, format string, args ...any) error {
	return structureError(ErrMissingTerminator, offset, format, args...)
}
