package core

import (
	"math"
	"strconv"
	"strings"
)

// MaxGroupCode 是 DXF 组码的上限（含）
const MaxGroupCode = 1071

// Tag 代表 DXF 中的一组标签对
//
// 未指定编码时 Value 保存原始字节（Go 字符串不做任何转换）。
type Tag struct {
	Code  int
	Value string
}

// AsFloat 将值转换为 float64
func (t Tag) AsFloat() float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(t.Value), 64)
	return f
}

// AsInt 将值转换为 int
func (t Tag) AsInt() int {
	i, _ := strconv.Atoi(strings.TrimSpace(t.Value))
	return i
}

// AsString 清洗字符串（去除多余空格）
func (t Tag) AsString() string {
	return strings.TrimSpace(t.Value)
}

// Float 严格解析浮点值，失败时返回错误
func (t Tag) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(t.Value), 64)
}

// Int 严格解析整数值，失败时返回错误
func (t Tag) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(t.Value))
}

// Is 判断组码与值（忽略大小写和首尾空格）
func (t Tag) Is(code int, value string) bool {
	return t.Code == code && strings.EqualFold(strings.TrimSpace(t.Value), value)
}

// IsStructure 判断是否为记录边界（组码 0）
func (t Tag) IsStructure() bool {
	return t.Code == 0
}

// Point 代表三维空间中的一个点
type Point struct {
	X, Y, Z float64
}

// BBox 代表包围盒
type BBox struct {
	Min, Max Point
}

// EmptyBBox 返回一个可以被 Extend 的空包围盒
func EmptyBBox() BBox {
	return BBox{
		Min: Point{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: Point{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// IsEmpty 包围盒内没有任何点
func (b BBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Extend 将点并入包围盒
func (b BBox) Extend(points ...Point) BBox {
	for _, p := range points {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Min.Z = math.Min(b.Min.Z, p.Z)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
		b.Max.Z = math.Max(b.Max.Z, p.Z)
	}
	return b
}
