package entities

import "github.com/zooyer/iterdxf/core"

type Point struct {
	BaseEntity
	Location core.Point
}

func init() {
	Register("POINT", func() Entity { return &Point{BaseEntity: BaseEntity{TypeName: "POINT"}} })
}

func (pt *Point) Parse(rec *core.Record) error {
	return pt.parse(rec, func(p *parser, t core.Tag) {
		p.coord(&pt.Location, 10, t)
	})
}

func (pt *Point) BBox() core.BBox {
	return core.BBox{Min: pt.Location, Max: pt.Location}
}
