package entities

import "github.com/zooyer/iterdxf/core"

type Insert struct {
	BaseEntity
	BlockName      string
	InsertionPoint core.Point
	Scale          core.Point
	Rotation       float64
	AttribsFollow  bool // 组码 66
	Attributes     []*Attrib
	End            *Seqend
}

func init() {
	Register("INSERT", func() Entity {
		return &Insert{
			BaseEntity: BaseEntity{TypeName: "INSERT"},
			Scale:      core.Point{X: 1, Y: 1, Z: 1}, // 默认缩放为 1
			Attributes: []*Attrib{},
		}
	})
}

func (i *Insert) Parse(rec *core.Record) error {
	return i.parse(rec, func(p *parser, t core.Tag) {
		if p.coord(&i.InsertionPoint, 10, t) {
			return
		}
		switch t.Code {
		case 2:
			i.BlockName = t.AsString()
		case 41:
			i.Scale.X = p.float(t)
		case 42:
			i.Scale.Y = p.float(t)
		case 43:
			i.Scale.Z = p.float(t)
		case 50:
			i.Rotation = p.float(t)
		case 66:
			i.AttribsFollow = p.int(t) == 1
		}
	})
}

func (i *Insert) BBox() core.BBox {
	// Insert 的包围盒比较特殊，通常需要结合 Block 定义计算
	// 这里先返回插入点
	return core.BBox{Min: i.InsertionPoint, Max: i.InsertionPoint}
}

// 只有标记了属性跟随时，后面才会有 ATTRIB ... SEQEND
func (i *Insert) LinksDependents() bool { return i.AttribsFollow }

func (i *Insert) DependentType() string { return "ATTRIB" }

func (i *Insert) LinkDependent(e Entity) bool {
	attr, ok := e.(*Attrib)
	if ok {
		i.Attributes = append(i.Attributes, attr)
	}
	return ok
}

func (i *Insert) LinkSeqend(s *Seqend) { i.End = s }

func (i *Insert) Dependents() []Entity {
	deps := make([]Entity, 0, len(i.Attributes))
	for _, a := range i.Attributes {
		deps = append(deps, a)
	}
	return deps
}

func (i *Insert) Seqend() *Seqend { return i.End }
