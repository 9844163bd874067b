package entities

import (
	"github.com/zooyer/iterdxf/core"
)

type LWPolyline struct {
	BaseEntity
	Vertices  []core.Point
	Bulges    []float64 // 与 Vertices 一一对应
	Elevation float64
	Flags     int
}

func init() {
	Register("LWPOLYLINE", func() Entity { return &LWPolyline{BaseEntity: BaseEntity{TypeName: "LWPOLYLINE"}} })
}

func (l *LWPolyline) Parse(rec *core.Record) error {
	var x float64
	return l.parse(rec, func(p *parser, t core.Tag) {
		switch t.Code {
		case 10:
			x = p.float(t)
		case 20:
			l.Vertices = append(l.Vertices, core.Point{X: x, Y: p.float(t), Z: l.Elevation})
			l.Bulges = append(l.Bulges, 0)
		case 38:
			l.Elevation = p.float(t)
		case 42:
			if n := len(l.Bulges); n > 0 {
				l.Bulges[n-1] = p.float(t)
			}
		case 70:
			l.Flags = p.int(t)
		}
	})
}

// Closed 组码 70 第 1 位
func (l *LWPolyline) Closed() bool {
	return l.Flags&1 != 0
}

func (l *LWPolyline) BBox() core.BBox {
	if len(l.Vertices) == 0 {
		return core.EmptyBBox()
	}
	return core.EmptyBBox().Extend(l.Vertices...)
}
