package core

import (
	"bytes"
	"fmt"
	"strings"
)

// 常用的应用数据分组名
const (
	AppReactors      = "ACAD_REACTORS"
	AppXDictionary   = "ACAD_XDICTIONARY"
	xdataFirstCode   = 1000
	xdataAppIDCode   = 1001
	appDataGroupCode = 102
)

// Record 一条记录：从组码 0 开始，到下一个组码 0 之前的全部标签
//
// 应用数据（102 分组）和扩展数据（1001 之后）单独存放，
// 坐标、句柄等值不在这一层解释。
type Record struct {
	Type    string
	Tags    []Tag
	AppData []AppData
	XData   []XData
}

// AppData 组码 102 {NAME ... 102 } 包围的一组标签
type AppData struct {
	Name string // 不含 "{"
	At   int    // 出现在 Tags[At] 之前
	Tags []Tag
}

// XData 以 1001 应用名开头的扩展数据
type XData struct {
	AppID string
	Tags  []Tag
}

// Compile 将一条记录的标签分组，tags[0] 必须是组码 0
func Compile(tags []Tag) (*Record, error) {
	if len(tags) == 0 || tags[0].Code != 0 {
		return nil, &StructureError{Err: ErrConstruction, Offset: -1, Msg: "record does not start with group code 0"}
	}

	rec := &Record{Type: strings.TrimSpace(tags[0].Value)}
	var app *AppData
	for _, t := range tags[1:] {
		switch {
		case len(rec.XData) > 0:
			// 扩展数据只能在记录末尾
			if t.Code < xdataFirstCode {
				return nil, rec.errorf("group code %d after extended data", t.Code)
			}
			if t.Code == xdataAppIDCode {
				rec.XData = append(rec.XData, XData{AppID: t.Value})
				continue
			}
			x := &rec.XData[len(rec.XData)-1]
			x.Tags = append(x.Tags, t)
		case app != nil:
			if t.Code == appDataGroupCode {
				if strings.TrimSpace(t.Value) != "}" {
					return nil, rec.errorf("nested application data group %q", t.Value)
				}
				rec.AppData = append(rec.AppData, *app)
				app = nil
				continue
			}
			app.Tags = append(app.Tags, t)
		case t.Code == appDataGroupCode && strings.HasPrefix(t.Value, "{"):
			app = &AppData{Name: strings.TrimPrefix(t.Value, "{"), At: len(rec.Tags)}
		case t.Code == xdataAppIDCode:
			rec.XData = append(rec.XData, XData{AppID: t.Value})
		default:
			rec.Tags = append(rec.Tags, t)
		}
	}
	if app != nil {
		return nil, rec.errorf("application data group {%s not closed", app.Name)
	}
	return rec, nil
}

// ParseRecord 解析一段正好包含一条记录的字节
func ParseRecord(data []byte, enc Encoding, base int64) (*Record, error) {
	s := NewScanner(bytes.NewReader(data), WithEncoding(enc), WithBaseOffset(base))
	tags := make([]Tag, 0, 16)
	for s.Next() {
		tags = append(tags, s.LastTag)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	rec, err := Compile(tags)
	if err != nil {
		if se, ok := err.(*StructureError); ok && se.Offset < 0 {
			se.Offset = base
		}
		return nil, err
	}
	return rec, nil
}

func (r *Record) errorf(format string, args ...any) error {
	return &StructureError{Err: ErrConstruction, Offset: -1, Msg: r.Type + ": " + fmt.Sprintf(format, args...)}
}

// Get 返回第一个指定组码的标签
func (r *Record) Get(code int) (Tag, bool) {
	for _, t := range r.Tags {
		if t.Code == code {
			return t, true
		}
	}
	return Tag{}, false
}

// Handle 实体句柄（组码 5）
func (r *Record) Handle() string {
	if t, ok := r.Get(5); ok {
		return t.AsString()
	}
	return ""
}

// HasAppData 是否存在指定名称的应用数据分组
func (r *Record) HasAppData(name string) bool {
	for _, a := range r.AppData {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Stripped 返回去掉应用数据、反应器、扩展字典和扩展数据的副本
//
// 这些标签引用的句柄在导出目标中可能不存在；原记录不被修改。
func (r *Record) Stripped() *Record {
	tags := make([]Tag, len(r.Tags))
	copy(tags, r.Tags)
	return &Record{Type: r.Type, Tags: tags}
}

// AllTags 按原始顺序还原全部标签（含组码 0）
func (r *Record) AllTags() []Tag {
	out := make([]Tag, 0, len(r.Tags)+2)
	out = append(out, Tag{Code: 0, Value: r.Type})
	next := 0
	for i, t := range r.Tags {
		for next < len(r.AppData) && r.AppData[next].At == i {
			out = appendAppData(out, r.AppData[next])
			next++
		}
		out = append(out, t)
	}
	for ; next < len(r.AppData); next++ {
		out = appendAppData(out, r.AppData[next])
	}
	for _, x := range r.XData {
		out = append(out, Tag{Code: xdataAppIDCode, Value: x.AppID})
		out = append(out, x.Tags...)
	}
	return out
}

func appendAppData(out []Tag, a AppData) []Tag {
	out = append(out, Tag{Code: appDataGroupCode, Value: "{" + a.Name})
	out = append(out, a.Tags...)
	return append(out, Tag{Code: appDataGroupCode, Value: "}"})
}
