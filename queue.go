package iterdxf

import (
	"log"

	"github.com/zooyer/iterdxf/entities"
)

// queue 两种迭代方式共用的链接状态和一条记录的前瞻
//
// 主实体先排队，直到下一条非从属记录出现（或段结束）才确认它已完整。
type queue struct {
	linker entities.Linker
	queued entities.Entity
}

func newQueue(logger *log.Logger) *queue {
	return &queue{linker: entities.Linker{Logger: logger}}
}

// push 送入一个实体，返回因此确认完整的模型空间实体
func (q *queue) push(e entities.Entity) (ready entities.Entity) {
	if q.linker.Link(e) {
		return nil
	}
	ready, q.queued = q.queued, e
	return modelspace(ready)
}

// flush 段结束时调用，返回最后排队的模型空间实体
func (q *queue) flush() entities.Entity {
	q.linker.Close()
	ready := q.queued
	q.queued = nil
	return modelspace(ready)
}

// modelspace 图纸空间实体已经吸收完从属记录，这里才过滤
func modelspace(e entities.Entity) entities.Entity {
	if e == nil || e.Paperspace() {
		return nil
	}
	return e
}
