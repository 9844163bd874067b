package utils

import (
	"math"

	"github.com/zooyer/iterdxf/core"
	"github.com/zooyer/iterdxf/entities"
)

// MergeBoxes 合并重叠的矩形
func MergeBoxes(boxes []core.BBox, gap float64) []core.BBox {
	if len(boxes) < 2 {
		return boxes
	}

	for {
		changed := false
		var merged []core.BBox
		visited := make([]bool, len(boxes))
		for i := 0; i < len(boxes); i++ {
			if visited[i] {
				continue
			}
			curr := boxes[i]
			visited[i] = true
			for j := i + 1; j < len(boxes); j++ {
				if !visited[j] && !IsSeparate(curr, boxes[j], gap) {
					curr.Min.X = math.Min(curr.Min.X, boxes[j].Min.X)
					curr.Min.Y = math.Min(curr.Min.Y, boxes[j].Min.Y)
					curr.Max.X = math.Max(curr.Max.X, boxes[j].Max.X)
					curr.Max.Y = math.Max(curr.Max.Y, boxes[j].Max.Y)
					visited[j], changed = true, true
				}
			}
			merged = append(merged, curr)
		}
		boxes = merged
		if !changed {
			break
		}
	}

	return boxes
}

// IsSeparate 判断两个 BBox 是否完全分离
func IsSeparate(a, b core.BBox, gap float64) bool {
	return a.Max.X+gap < b.Min.X || a.Min.X-gap > b.Max.X ||
		a.Max.Y+gap < b.Min.Y || a.Min.Y-gap > b.Max.Y
}

func InBox(box core.BBox, point core.Point) bool {
	if point.X >= box.Min.X && point.X <= box.Max.X && point.Y >= box.Min.Y && point.Y <= box.Max.Y {
		return true
	}

	return false
}

// EntityBBox 实体的包围盒；INSERT 没有块定义可用，只算插入点和属性
func EntityBBox(entity entities.Entity) core.BBox {
	switch e := entity.(type) {
	case *entities.Insert:
		box := core.EmptyBBox().Extend(e.InsertionPoint)
		for _, a := range e.Attributes {
			box = box.Extend(a.BBox().Min, a.BBox().Max)
		}
		return box
	default:
		return e.BBox()
	}
}

// Union 所有实体的总包围盒
func Union(list []entities.Entity) core.BBox {
	box := core.EmptyBBox()
	for _, e := range list {
		if b := EntityBBox(e); !b.IsEmpty() {
			box = box.Extend(b.Min, b.Max)
		}
	}
	return box
}

// InWindow 窗口选择：包围盒完全在窗口内；crossing 为 true 时只要相交即可
func InWindow(window core.BBox, entity entities.Entity, crossing bool) bool {
	box := EntityBBox(entity)
	if box.IsEmpty() {
		return false
	}
	if crossing {
		return !IsSeparate(window, box, 0)
	}
	return InBox(window, box.Min) && InBox(window, box.Max)
}
