package entities

import "github.com/zooyer/iterdxf/core"

// Graphic 几何结构不在这里解释的实体（MESH、HATCH），只收集出现过的坐标点
type Graphic struct {
	BaseEntity
	Elevation float64 // HATCH 的第一个点是高程点 (0, 0, z)
	Points    []core.Point
}

func init() {
	Register("MESH", func() Entity { return &Graphic{BaseEntity: BaseEntity{TypeName: "MESH"}} })
	Register("HATCH", func() Entity { return &Graphic{BaseEntity: BaseEntity{TypeName: "HATCH"}} })
}

func (g *Graphic) Parse(rec *core.Record) error {
	err := g.parse(rec, func(p *parser, t core.Tag) {
		g.Points, _ = p.coords(g.Points, 10, t)
	})
	if g.TypeName == "HATCH" && len(g.Points) > 0 {
		g.Elevation = g.Points[0].Z
		g.Points = g.Points[1:]
	}
	return err
}

func (g *Graphic) BBox() core.BBox {
	if len(g.Points) == 0 {
		return core.EmptyBBox()
	}
	return core.EmptyBBox().Extend(g.Points...)
}
