package entities

import "github.com/zooyer/iterdxf/core"

// Attrib 覆盖 ATTRIB 和 ATTDEF
type Attrib struct {
	BaseEntity
	Location core.Point
	Tag      string // 属性标签，如 "序号"
	Text     string // 属性值
	Prompt   string // 仅 ATTDEF
	Height   float64
}

func init() {
	Register("ATTRIB", func() Entity {
		return &Attrib{BaseEntity: BaseEntity{TypeName: "ATTRIB"}}
	})
	Register("ATTDEF", func() Entity {
		return &Attrib{BaseEntity: BaseEntity{TypeName: "ATTDEF"}}
	})
}

func (a *Attrib) Parse(rec *core.Record) error {
	return a.parse(rec, func(p *parser, t core.Tag) {
		if p.coord(&a.Location, 10, t) {
			return
		}
		switch t.Code {
		case 40:
			a.Height = p.float(t)
		case 1:
			a.Text = t.AsString()
		case 2:
			a.Tag = t.AsString()
		case 3:
			a.Prompt = t.AsString()
		}
	})
}

func (a *Attrib) BBox() core.BBox {
	// 简化处理：属性文字暂时以位置点作为包围盒
	return core.BBox{Min: a.Location, Max: a.Location}
}
