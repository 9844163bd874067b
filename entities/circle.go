package entities

import (
	"math"

	"github.com/zooyer/iterdxf/core"
)

type Circle struct {
	BaseEntity
	Center core.Point
	Radius float64
}

// Arc 角度单位为度，逆时针
type Arc struct {
	Circle
	StartAngle float64
	EndAngle   float64
}

// Ellipse 参数单位为弧度，MajorAxis 相对圆心
type Ellipse struct {
	BaseEntity
	Center     core.Point
	MajorAxis  core.Point
	Ratio      float64
	StartParam float64
	EndParam   float64
}

func init() {
	Register("CIRCLE", func() Entity { return &Circle{BaseEntity: BaseEntity{TypeName: "CIRCLE"}} })
	Register("ARC", func() Entity { return &Arc{Circle: Circle{BaseEntity: BaseEntity{TypeName: "ARC"}}} })
	Register("ELLIPSE", func() Entity {
		return &Ellipse{BaseEntity: BaseEntity{TypeName: "ELLIPSE"}, Ratio: 1, EndParam: 2 * math.Pi}
	})
}

func (c *Circle) parseTag(p *parser, t core.Tag) bool {
	if p.coord(&c.Center, 10, t) {
		return true
	}
	if t.Code == 40 {
		c.Radius = p.float(t)
		return true
	}
	return false
}

func (c *Circle) Parse(rec *core.Record) error {
	return c.parse(rec, func(p *parser, t core.Tag) {
		c.parseTag(p, t)
	})
}

func (c *Circle) BBox() core.BBox {
	r := math.Abs(c.Radius)
	return core.BBox{
		Min: core.Point{X: c.Center.X - r, Y: c.Center.Y - r, Z: c.Center.Z},
		Max: core.Point{X: c.Center.X + r, Y: c.Center.Y + r, Z: c.Center.Z},
	}
}

func (a *Arc) Parse(rec *core.Record) error {
	return a.parse(rec, func(p *parser, t core.Tag) {
		if a.parseTag(p, t) {
			return
		}
		switch t.Code {
		case 50:
			a.StartAngle = p.float(t)
		case 51:
			a.EndAngle = p.float(t)
		}
	})
}

func (e *Ellipse) Parse(rec *core.Record) error {
	return e.parse(rec, func(p *parser, t core.Tag) {
		if p.coord(&e.Center, 10, t) || p.coord(&e.MajorAxis, 11, t) {
			return
		}
		switch t.Code {
		case 40:
			e.Ratio = p.float(t)
		case 41:
			e.StartParam = p.float(t)
		case 42:
			e.EndParam = p.float(t)
		}
	})
}

// BBox 以长轴长度为半径的保守包围盒
func (e *Ellipse) BBox() core.BBox {
	r := math.Sqrt(e.MajorAxis.X*e.MajorAxis.X + e.MajorAxis.Y*e.MajorAxis.Y + e.MajorAxis.Z*e.MajorAxis.Z)
	return core.BBox{
		Min: core.Point{X: e.Center.X - r, Y: e.Center.Y - r, Z: e.Center.Z},
		Max: core.Point{X: e.Center.X + r, Y: e.Center.Y + r, Z: e.Center.Z},
	}
}
