package entities

import "github.com/zooyer/iterdxf/core"

// Face 覆盖 3DFACE、SOLID、TRACE：四个角点，三角形时第 4 点与第 3 点重合
type Face struct {
	BaseEntity
	Corners [4]core.Point
}

func init() {
	for _, name := range []string{"3DFACE", "SOLID", "TRACE"} {
		Register(name, func() Entity { return &Face{BaseEntity: BaseEntity{TypeName: name}} })
	}
}

func (f *Face) Parse(rec *core.Record) error {
	return f.parse(rec, func(p *parser, t core.Tag) {
		for i := range f.Corners {
			if p.coord(&f.Corners[i], 10+i, t) {
				return
			}
		}
	})
}

func (f *Face) BBox() core.BBox {
	return core.EmptyBBox().Extend(f.Corners[:]...)
}
