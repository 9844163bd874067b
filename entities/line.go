package entities

import (
	"math"

	"github.com/zooyer/iterdxf/core"
)

type Line struct {
	BaseEntity
	Start, End core.Point
}

func init() {
	Register("LINE", func() Entity { return &Line{BaseEntity: BaseEntity{TypeName: "LINE"}} })
}

func (l *Line) Parse(rec *core.Record) error {
	return l.parse(rec, func(p *parser, t core.Tag) {
		if !p.coord(&l.Start, 10, t) {
			p.coord(&l.End, 11, t)
		}
	})
}

func (l *Line) BBox() core.BBox {
	return core.BBox{
		Min: core.Point{X: math.Min(l.Start.X, l.End.X), Y: math.Min(l.Start.Y, l.End.Y), Z: math.Min(l.Start.Z, l.End.Z)},
		Max: core.Point{X: math.Max(l.Start.X, l.End.X), Y: math.Max(l.Start.Y, l.End.Y), Z: math.Max(l.Start.Z, l.End.Z)},
	}
}
