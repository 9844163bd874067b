package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"sort"

	ct "github.com/daviddengcn/go-colortext"
	"github.com/zooyer/golib/xos"

	"github.com/zooyer/iterdxf"
	"github.com/zooyer/iterdxf/core"
	"github.com/zooyer/iterdxf/entities"
	"github.com/zooyer/iterdxf/internal/config"
	"github.com/zooyer/iterdxf/utils"
)

const (
	epsilon      = 1e-6
	reportHeader = "文件,句柄,类型,图层,最小X,最小Y,最大X,最大Y\n"
)

// selector 按类型、图层、窗口选择实体
type selector struct {
	types    []string
	layers   []string
	window   *core.BBox
	crossing bool
}

func newSelector(cfg *config.Config) *selector {
	s := &selector{types: cfg.Types, layers: cfg.Layers, crossing: cfg.Crossing}
	if len(cfg.Window) == 4 {
		s.window = &core.BBox{
			Min: core.Point{X: cfg.Window[0], Y: cfg.Window[1]},
			Max: core.Point{X: cfg.Window[2], Y: cfg.Window[3]},
		}
	}
	return s
}

func (s *selector) match(e entities.Entity) bool {
	if len(s.types) > 0 && !slices.Contains(s.types, e.Type()) {
		return false
	}
	if len(s.layers) > 0 && !slices.Contains(s.layers, e.Layer()) {
		return false
	}
	if s.window != nil && !utils.InWindow(*s.window, e, s.crossing) {
		return false
	}
	return true
}

type app struct {
	cfg    *config.Config
	sel    *selector
	logger *log.Logger // 传给库，debug 时才输出
}

func (a *app) colored(color ct.Color, format string, args ...any) {
	if a.cfg.Color {
		ct.ChangeColor(color, true, ct.None, false)
		defer ct.ResetColor()
	}
	fmt.Printf(format, args...)
}

// report 追加一行 CSV；文件不存在时先写表头
func (a *app) report(e entities.Entity) error {
	if a.cfg.Report == "" {
		return nil
	}
	if _, err := os.Stat(a.cfg.Report); errors.Is(err, os.ErrNotExist) {
		if err = os.WriteFile(a.cfg.Report, []byte(reportHeader), 0644); err != nil {
			return err
		}
	}

	box := utils.EntityBBox(e)
	line := fmt.Sprintf("%s,%s,%s,%s,%.3f,%.3f,%.3f,%.3f\n",
		a.cfg.Input, e.Handle(), e.Type(), e.Layer(), box.Min.X, box.Min.Y, box.Max.X, box.Max.Y)
	if box.IsEmpty() {
		line = fmt.Sprintf("%s,%s,%s,%s,,,,\n", a.cfg.Input, e.Handle(), e.Type(), e.Layer())
	}
	return xos.AppendFile(a.cfg.Report, []byte(line), 0644)
}

func (a *app) iterator() (iterdxf.EntityIterator, io.Closer, *iterdxf.Reader, error) {
	opts := []iterdxf.Option{iterdxf.WithLogger(a.logger)}

	if a.cfg.Stream {
		file, err := os.Open(a.cfg.Input)
		if err != nil {
			return nil, nil, nil, err
		}
		it, err := iterdxf.SinglePass(file, opts...)
		if err != nil {
			_ = file.Close()
			return nil, nil, nil, err
		}
		log.Printf("单遍读取: 版本 %s, 编码 %s", it.Version(), it.Encoding())
		return it, file, nil, nil
	}

	reader, err := iterdxf.Open(a.cfg.Input, opts...)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Printf("索引完成: 版本 %s, 编码 %s, %d 条记录", reader.Version(), reader.Encoding(), len(reader.Structure().Index))
	return reader.Modelspace(), reader, reader, nil
}

func (a *app) list(it iterdxf.EntityIterator) (int, error) {
	var count int
	for it.Next() {
		e := it.Entity()
		if !a.sel.match(e) {
			continue
		}
		count++

		a.colored(ct.Green, "%-10s", e.Type())
		fmt.Printf(" #%-6s 图层:%s", e.Handle(), e.Layer())
		if box := utils.EntityBBox(e); !box.IsEmpty() {
			fmt.Printf(" | RECTANG %.2f,%.2f %.2f,%.2f", box.Min.X, box.Min.Y, box.Max.X, box.Max.Y)
		}
		fmt.Println()

		switch e := e.(type) {
		case *entities.Insert:
			for _, attr := range e.Attributes {
				fmt.Printf("    |-- [%s]: %s\n", attr.Tag, attr.Text)
			}
		case *entities.Polyline:
			fmt.Printf("    |-- 顶点:%d 闭合:%v\n", len(e.Vertices), utils.IsClosed(e, epsilon))
		case *entities.LWPolyline:
			fmt.Printf("    |-- 顶点:%d 闭合:%v\n", len(e.Vertices), utils.IsClosed(e, epsilon))
		}

		if err := a.report(e); err != nil {
			return count, err
		}
	}
	return count, it.Err()
}

func (a *app) scan(it iterdxf.EntityIterator) (int, error) {
	var (
		count  int
		closed int
		types  = make(map[string]int)
		boxes  []core.BBox
		bounds = core.EmptyBBox()
	)
	for it.Next() {
		e := it.Entity()
		if !a.sel.match(e) {
			continue
		}
		count++
		types[e.Type()]++
		if utils.IsClosed(e, epsilon) {
			closed++
			boxes = append(boxes, utils.EntityBBox(e))
		}
		if box := utils.EntityBBox(e); !box.IsEmpty() {
			bounds = bounds.Extend(box.Min, box.Max)
		}
		if err := a.report(e); err != nil {
			return count, err
		}
	}
	if err := it.Err(); err != nil {
		return count, err
	}

	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a.colored(ct.Green, "%-10s", name)
		fmt.Printf(" %d\n", types[name])
	}
	if !bounds.IsEmpty() {
		fmt.Printf("范围: RECTANG %.2f,%.2f %.2f,%.2f\n", bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	fmt.Printf("闭合多段线: %d 条，合并后 %d 个区域\n", closed, len(utils.MergeBoxes(boxes, epsilon)))
	return count, nil
}

func (a *app) export(reader *iterdxf.Reader, it iterdxf.EntityIterator) (int, error) {
	w, err := reader.Export(a.cfg.Output)
	if err != nil {
		return 0, err
	}

	fail := func(err error) (int, error) {
		_ = w.Abort()
		_ = os.Remove(a.cfg.Output)
		return w.Written(), err
	}

	for it.Next() {
		e := it.Entity()
		if !a.sel.match(e) {
			continue
		}
		if err = w.Write(e); err != nil {
			return fail(err)
		}
		if err = a.report(e); err != nil {
			return fail(err)
		}
	}
	if err = it.Err(); err != nil {
		return fail(err)
	}
	if err = w.Close(); err != nil {
		_ = os.Remove(a.cfg.Output)
		return w.Written(), err
	}
	return w.Written(), nil
}

func (a *app) run() error {
	it, closer, reader, err := a.iterator()
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	var count int
	switch a.cfg.Mode {
	case config.ModeScan:
		count, err = a.scan(it)
	case config.ModeExport:
		if count, err = a.export(reader, it); err == nil {
			fmt.Println("写入文件:", a.cfg.Output)
		}
	default:
		count, err = a.list(it)
	}
	fmt.Printf("共 %d 个实体\n", count)
	return err
}

func run() int {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Println(err)
		fmt.Println("用法: iterdxf [--mode list|export|scan] [-o out.dxf] file.dxf")
		return 2
	}
	if cfg.Pause {
		defer xos.PauseExit()
	}

	log.SetFlags(log.LstdFlags)
	if cfg.LogLevel == "warn" || cfg.LogLevel == "error" {
		log.SetOutput(io.Discard)
	}

	a := &app{cfg: cfg, sel: newSelector(cfg), logger: log.New(io.Discard, "", 0)}
	if cfg.IsDebug() {
		a.logger = log.New(os.Stderr, "[iterdxf] ", log.LstdFlags)
	}

	if err = a.run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "处理失败:", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
