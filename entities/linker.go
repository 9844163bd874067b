package entities

import (
	"log"
)

// Composite 后面跟着从属记录和 SEQEND 的实体（POLYLINE、INSERT）
type Composite interface {
	Entity
	LinksDependents() bool
	DependentType() string
	LinkDependent(e Entity) bool
	LinkSeqend(s *Seqend)
	Dependents() []Entity
	Seqend() *Seqend
}

// 只能作为从属记录出现的类型，从不单独交给调用方
var dependentTypes = map[string]bool{
	"VERTEX": true,
	"ATTRIB": true,
	"SEQEND": true,
}

// IsDependent 是否为从属记录类型
func IsDependent(typeName string) bool {
	return dependentTypes[typeName]
}

// Linker 把 VERTEX/ATTRIB/SEQEND 挂到前面的 POLYLINE/INSERT 上
//
// 两个状态：空闲（main == nil）和收集中（main != nil）。
// 只有能带从属记录的主实体才会进入收集状态。
type Linker struct {
	main   Composite
	Logger *log.Logger // 可为 nil
}

// Link 返回 e 是否被当作从属记录吸收；被吸收的记录不能再交给调用方
func (l *Linker) Link(e Entity) bool {
	typ := e.Type()
	if l.main != nil {
		if s, ok := e.(*Seqend); ok {
			l.main.LinkSeqend(s)
			l.main = nil
			return true
		}
		if typ == l.main.DependentType() && l.main.LinkDependent(e) {
			return true
		}
		// 没有 SEQEND 就开始了新记录：结束当前复合实体，导出时补写 SEQEND
		l.logf("%s(#%s) not terminated by SEQEND before %s(#%s)",
			l.main.Type(), l.main.Handle(), typ, e.Handle())
		l.main = nil
	}

	if IsDependent(typ) {
		l.logf("stray %s(#%s) without owner dropped", typ, e.Handle())
		return true
	}

	if c, ok := e.(Composite); ok && c.LinksDependents() {
		l.main = c
	}
	return false
}

// Pending 是否有尚未结束的复合实体
func (l *Linker) Pending() bool {
	return l.main != nil
}

// Close 段结束时调用，未结束的复合实体视为缺少 SEQEND
func (l *Linker) Close() {
	if l.main != nil {
		l.logf("%s(#%s) not terminated by SEQEND before end of section", l.main.Type(), l.main.Handle())
		l.main = nil
	}
}

func (l *Linker) logf(format string, args ...any) {
	if l.Logger != nil {
		l.Logger.Printf(format, args...)
	}
}

// Terminator 返回复合实体的 SEQEND，缺失时补一个
func Terminator(c Composite) *Seqend {
	if s := c.Seqend(); s != nil {
		return s
	}
	return NewSeqend(c)
}
