package entities

import "github.com/zooyer/iterdxf/core"

// Polyline 旧式多段线（2D/3D 多段线、多边形网格、多面网格），顶点在后续 VERTEX 记录中
type Polyline struct {
	BaseEntity
	Elevation core.Point // 组码 10/20/30，X/Y 恒为 0
	Flags     int
	Vertices  []*Vertex
	End       *Seqend
}

type Vertex struct {
	BaseEntity
	Location   core.Point
	StartWidth float64
	EndWidth   float64
	Bulge      float64
	Flags      int
}

// Seqend 结束 POLYLINE 的顶点序列或 INSERT 的属性序列
type Seqend struct {
	BaseEntity
}

func init() {
	Register("POLYLINE", func() Entity { return &Polyline{BaseEntity: BaseEntity{TypeName: "POLYLINE"}} })
	Register("VERTEX", func() Entity { return &Vertex{BaseEntity: BaseEntity{TypeName: "VERTEX"}} })
	Register("SEQEND", func() Entity { return &Seqend{BaseEntity: BaseEntity{TypeName: "SEQEND"}} })
}

func (pl *Polyline) Parse(rec *core.Record) error {
	return pl.parse(rec, func(p *parser, t core.Tag) {
		if p.coord(&pl.Elevation, 10, t) {
			return
		}
		if t.Code == 70 {
			pl.Flags = p.int(t)
		}
	})
}

// Closed 组码 70 第 1 位
func (pl *Polyline) Closed() bool {
	return pl.Flags&1 != 0
}

func (pl *Polyline) Points() []core.Point {
	points := make([]core.Point, 0, len(pl.Vertices))
	for _, v := range pl.Vertices {
		points = append(points, v.Location)
	}
	return points
}

func (pl *Polyline) BBox() core.BBox {
	if len(pl.Vertices) == 0 {
		return core.EmptyBBox()
	}
	return core.EmptyBBox().Extend(pl.Points()...)
}

func (pl *Polyline) LinksDependents() bool { return true }

func (pl *Polyline) DependentType() string { return "VERTEX" }

func (pl *Polyline) LinkDependent(e Entity) bool {
	v, ok := e.(*Vertex)
	if ok {
		pl.Vertices = append(pl.Vertices, v)
	}
	return ok
}

func (pl *Polyline) LinkSeqend(s *Seqend) { pl.End = s }

func (pl *Polyline) Dependents() []Entity {
	deps := make([]Entity, 0, len(pl.Vertices))
	for _, v := range pl.Vertices {
		deps = append(deps, v)
	}
	return deps
}

func (pl *Polyline) Seqend() *Seqend { return pl.End }

func (v *Vertex) Parse(rec *core.Record) error {
	return v.parse(rec, func(p *parser, t core.Tag) {
		if p.coord(&v.Location, 10, t) {
			return
		}
		switch t.Code {
		case 40:
			v.StartWidth = p.float(t)
		case 41:
			v.EndWidth = p.float(t)
		case 42:
			v.Bulge = p.float(t)
		case 70:
			v.Flags = p.int(t)
		}
	})
}

func (v *Vertex) BBox() core.BBox {
	return core.BBox{Min: v.Location, Max: v.Location}
}

func (s *Seqend) Parse(rec *core.Record) error {
	return s.parse(rec, nil)
}

func (s *Seqend) BBox() core.BBox {
	return core.EmptyBBox()
}

// NewSeqend 为缺少结束标记的复合实体补一个 SEQEND
func NewSeqend(owner Entity) *Seqend {
	rec := &core.Record{Type: "SEQEND", Tags: []core.Tag{{Code: 8, Value: owner.Layer()}}}
	if owner.Paperspace() {
		rec.Tags = append(rec.Tags, core.Tag{Code: 67, Value: "1"})
	}
	s := &Seqend{}
	_ = s.Parse(rec)
	return s
}
