package utils

import (
	"strings"

	"github.com/zooyer/iterdxf/entities"
)

func GetAttrs(ins *entities.Insert) map[string]string {
	var attrs = make(map[string]string)
	for _, a := range ins.Attributes {
		attrs[strings.ToUpper(a.Tag)] = a.Text
	}

	return attrs
}

// GetAttr 属性标签不区分大小写
func GetAttr(ins *entities.Insert, key string) string {
	return GetAttrs(ins)[strings.ToUpper(key)]
}

// HasAttr 块参照带有指定标签的属性，value 为空时只看标签
func HasAttr(e entities.Entity, key, value string) bool {
	ins, ok := e.(*entities.Insert)
	if !ok {
		return false
	}
	v, ok := GetAttrs(ins)[strings.ToUpper(key)]
	return ok && (value == "" || v == value)
}
