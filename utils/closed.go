package utils

import (
	"github.com/zooyer/golib/xmath"

	"github.com/zooyer/iterdxf/core"
	"github.com/zooyer/iterdxf/entities"
)

// SamePoint 两点在 eps 内重合（只比较 X/Y）
func SamePoint(a, b core.Point, eps float64) bool {
	return xmath.Equal(a.X, b.X, eps) && xmath.Equal(a.Y, b.Y, eps)
}

// IsClosed 多段线是否闭合：闭合标志位，或首尾顶点重合
func IsClosed(e entities.Entity, eps float64) bool {
	var (
		closed bool
		points []core.Point
	)
	switch pl := e.(type) {
	case *entities.Polyline:
		closed, points = pl.Closed(), pl.Points()
	case *entities.LWPolyline:
		closed, points = pl.Closed(), pl.Vertices
	default:
		return false
	}
	if closed {
		return true
	}
	return len(points) > 2 && SamePoint(points[0], points[len(points)-1], eps)
}
