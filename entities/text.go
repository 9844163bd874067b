package entities

import (
	"strings"

	"github.com/zooyer/iterdxf/core"
)

// Text 覆盖 TEXT 和 MTEXT
type Text struct {
	BaseEntity
	Insertion core.Point
	Height    float64
	Rotation  float64
	Style     string
	Text      string
}

func init() {
	Register("TEXT", func() Entity { return &Text{BaseEntity: BaseEntity{TypeName: "TEXT"}} })
	Register("MTEXT", func() Entity { return &Text{BaseEntity: BaseEntity{TypeName: "MTEXT"}} })
}

func (x *Text) Parse(rec *core.Record) error {
	var chunks strings.Builder
	err := x.parse(rec, func(p *parser, t core.Tag) {
		if p.coord(&x.Insertion, 10, t) {
			return
		}
		switch t.Code {
		case 1:
			x.Text = t.Value
		case 3:
			// MTEXT 超过 250 字符时按块拆到组码 3，最后一块在组码 1
			chunks.WriteString(t.Value)
		case 7:
			x.Style = t.AsString()
		case 40:
			x.Height = p.float(t)
		case 50:
			x.Rotation = p.float(t)
		}
	})
	if chunks.Len() > 0 {
		x.Text = chunks.String() + x.Text
	}
	return err
}

func (x *Text) BBox() core.BBox {
	return core.BBox{Min: x.Insertion, Max: x.Insertion}
}
