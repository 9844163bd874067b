package entities

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zooyer/iterdxf/core"
)

// Entity 是一切几何实体的接口
//
// 实体是值对象，没有所属文档；Record 保存解析时的原始标签，导出时按它序列化。
type Entity interface {
	Parse(rec *core.Record) error
	Type() string
	Layer() string
	Handle() string
	Paperspace() bool
	Record() *core.Record
	BBox() core.BBox
	Base() *BaseEntity
}

// BaseEntity 存放所有实体通用的属性（如 Layer, Handle）
type BaseEntity struct {
	TypeName     string
	LayerName    string
	HandleID     string
	Owner        string // 组码 330
	InPaperspace bool   // 组码 67
	Rec          *core.Record
	Origin       *core.FileStructure // 来源文件的索引，单遍读取时为 nil
}

func (b *BaseEntity) Type() string { return b.TypeName }

func (b *BaseEntity) Layer() string { return b.LayerName }

func (b *BaseEntity) Handle() string { return b.HandleID }

func (b *BaseEntity) Paperspace() bool { return b.InPaperspace }

func (b *BaseEntity) Record() *core.Record { return b.Rec }

func (b *BaseEntity) Base() *BaseEntity { return b }

// parseCommon 处理通用组码，已处理返回 true
func (b *BaseEntity) parseCommon(p *parser, t core.Tag) bool {
	switch t.Code {
	case 5:
		b.HandleID = t.AsString()
	case 8:
		b.LayerName = t.AsString()
	case 67:
		b.InPaperspace = p.int(t) == 1
	case 330:
		if b.Owner == "" {
			b.Owner = t.AsString()
		}
	default:
		return false
	}
	return true
}

// parse 遍历记录标签，通用组码之外的交给 fn
func (b *BaseEntity) parse(rec *core.Record, fn func(p *parser, t core.Tag)) error {
	b.Rec = rec
	b.TypeName = rec.Type
	p := &parser{typ: rec.Type, handle: rec.Handle()}
	for _, t := range rec.Tags {
		if b.parseCommon(p, t) {
			continue
		}
		if fn != nil {
			fn(p, t)
		}
	}
	return p.err
}

// parser 严格解析数值，只记录第一个错误
type parser struct {
	typ    string
	handle string
	err    error
}

func (p *parser) fail(t core.Tag) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s(#%s) group code %d: invalid value %q",
			core.ErrConstruction, p.typ, p.handle, t.Code, t.Value)
	}
}

func (p *parser) float(t core.Tag) float64 {
	f, err := t.Float()
	if err != nil {
		p.fail(t)
	}
	return f
}

func (p *parser) int(t core.Tag) int {
	i, err := t.Int()
	if err != nil {
		p.fail(t)
	}
	return i
}

// coord 把 base/base+10/base+20 组码写入点的 X/Y/Z，匹配返回 true
func (p *parser) coord(pt *core.Point, base int, t core.Tag) bool {
	switch t.Code {
	case base:
		pt.X = p.float(t)
	case base + 10:
		pt.Y = p.float(t)
	case base + 20:
		pt.Z = p.float(t)
	default:
		return false
	}
	return true
}

// coords 处理重复出现的点：X 开始一个新点，Y/Z 写入最后一个点
func (p *parser) coords(points []core.Point, base int, t core.Tag) ([]core.Point, bool) {
	switch t.Code {
	case base:
		return append(points, core.Point{X: p.float(t)}), true
	case base + 10, base + 20:
		if len(points) == 0 {
			p.fail(t)
			return points, true
		}
		return points, p.coord(&points[len(points)-1], base, t)
	}
	return points, false
}

// EntityFactory 定义了如何从标签流中创建一个实体
type EntityFactory func() Entity

var registry = map[string]EntityFactory{}

// Register 允许以后动态扩展新的实体类型
func Register(typeName string, factory EntityFactory) {
	registry[typeName] = factory
}

// CreateEntity 根据实体名称生产对应的结构体
func CreateEntity(typeName string) Entity {
	if factory, ok := registry[typeName]; ok {
		return factory()
	}
	return nil
}

// Supported 是否为支持的实体类型，不支持的记录直接跳过
func Supported(typeName string) bool {
	_, ok := registry[strings.TrimSpace(typeName)]
	return ok
}

// SupportedTypes 返回已注册的类型名（排序）
func SupportedTypes() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build 从已编译的记录构造实体；不支持的类型返回 nil, nil
func Build(rec *core.Record) (Entity, error) {
	ent := CreateEntity(rec.Type)
	if ent == nil {
		return nil, nil
	}
	if err := ent.Parse(rec); err != nil {
		return nil, err
	}
	return ent, nil
}
