package entities

import "github.com/zooyer/iterdxf/core"

type Spline struct {
	BaseEntity
	Degree        int
	Flags         int
	Knots         []float64
	Weights       []float64
	ControlPoints []core.Point
	FitPoints     []core.Point
}

func init() {
	Register("SPLINE", func() Entity { return &Spline{BaseEntity: BaseEntity{TypeName: "SPLINE"}, Degree: 3} })
}

func (s *Spline) Parse(rec *core.Record) error {
	return s.parse(rec, func(p *parser, t core.Tag) {
		var ok bool
		if s.ControlPoints, ok = p.coords(s.ControlPoints, 10, t); ok {
			return
		}
		if s.FitPoints, ok = p.coords(s.FitPoints, 11, t); ok {
			return
		}
		switch t.Code {
		case 40:
			s.Knots = append(s.Knots, p.float(t))
		case 41:
			s.Weights = append(s.Weights, p.float(t))
		case 70:
			s.Flags = p.int(t)
		case 71:
			s.Degree = p.int(t)
		}
	})
}

// BBox 控制点的凸包包含曲线本身
func (s *Spline) BBox() core.BBox {
	points := s.ControlPoints
	if len(points) == 0 {
		points = s.FitPoints
	}
	if len(points) == 0 {
		return core.EmptyBBox()
	}
	return core.EmptyBBox().Extend(points...)
}
