package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// 运行模式
	ModeList   = "list"
	ModeExport = "export"
	ModeScan   = "scan"

	DefaultLogLevel = "info"
	EnvPrefix       = "ITERDXF"
)

// Config 命令行工具的全部配置
type Config struct {
	Mode   string
	Input  string
	Output string

	// 选择条件，空表示不过滤
	Types    []string
	Layers   []string
	Window   []float64 // minx,miny,maxx,maxy
	Crossing bool

	Stream   bool   // 强制单遍读取
	Report   string // CSV 报告，追加写入
	LogLevel string
	Pause    bool
	Color    bool
}

func DefaultConfig() *Config {
	return &Config{
		Mode:     ModeList,
		LogLevel: DefaultLogLevel,
		Color:    true,
	}
}

// Load 解析命令行参数，环境变量 ITERDXF_* 作为缺省值
//
// 第一个位置参数可以代替 --input，便于把文件拖到程序上运行。
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	fs := newFlagSet(cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	cfg.Mode = strings.ToLower(v.GetString("mode"))
	cfg.Input = v.GetString("input")
	cfg.Output = v.GetString("output")
	cfg.Types = upper(split(v.GetStringSlice("types")))
	cfg.Layers = split(v.GetStringSlice("layers"))
	cfg.Crossing = v.GetBool("crossing")
	cfg.Stream = v.GetBool("stream")
	cfg.Report = v.GetString("report")
	cfg.LogLevel = strings.ToLower(v.GetString("loglevel"))
	cfg.Pause = v.GetBool("pause")
	cfg.Color = v.GetBool("color")

	if cfg.Input == "" && fs.NArg() > 0 {
		cfg.Input = fs.Arg(0)
	}

	window, err := ParseWindow(v.GetString("window"))
	if err != nil {
		return nil, err
	}
	cfg.Window = window

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newFlagSet(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("iterdxf", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.String("mode", cfg.Mode, "list: 列出实体, export: 导出选中的实体, scan: 按类型统计")
	fs.StringP("input", "i", cfg.Input, "源 DXF 文件")
	fs.StringP("output", "o", cfg.Output, "导出的 DXF 文件（export 模式）")
	fs.StringSlice("types", nil, "只选择这些实体类型，如 LINE,POLYLINE")
	fs.StringSlice("layers", nil, "只选择这些图层")
	fs.String("window", "", "选择窗口 minx,miny,maxx,maxy")
	fs.Bool("crossing", false, "窗口选择时相交即选中")
	fs.Bool("stream", false, "单遍读取，不建立索引（不能导出）")
	fs.String("report", "", "追加写入 CSV 报告")
	fs.String("loglevel", cfg.LogLevel, "日志级别 (debug, info, warn, error)")
	fs.Bool("pause", false, "结束前等待按键")
	fs.Bool("color", cfg.Color, "彩色输出")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: iterdxf [options] [file.dxf]\n\nOptions:\n%s", fs.FlagUsages())
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n  %s_MODE, %s_INPUT, %s_OUTPUT, %s_LOGLEVEL ...\n",
			EnvPrefix, EnvPrefix, EnvPrefix, EnvPrefix)
	}
	return fs
}

// ParseWindow 解析 "minx,miny,maxx,maxy"，空串表示不限
func ParseWindow(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("window %q: want minx,miny,maxx,maxy", s)
	}
	window := make([]float64, 0, 4)
	for _, p := range parts {
		f, err := cast.ToFloat64E(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("window %q: %w", s, err)
		}
		window = append(window, f)
	}
	return window, nil
}

func (c *Config) Validate() error {
	switch c.Mode {
	case ModeList, ModeScan:
	case ModeExport:
		if c.Output == "" {
			return errors.New("export mode requires an output file")
		}
		if c.Stream {
			return errors.New("export needs a seekable source, --stream is not allowed")
		}
	default:
		return fmt.Errorf("invalid mode: %s (must be one of: list, export, scan)", c.Mode)
	}

	if c.Input == "" {
		return errors.New("input file cannot be empty")
	}
	if c.Output != "" && c.Output == c.Input {
		return errors.New("output file must differ from input file")
	}

	if len(c.Window) != 0 {
		if len(c.Window) != 4 {
			return errors.New("window must have 4 values")
		}
		if c.Window[0] > c.Window[2] || c.Window[1] > c.Window[3] {
			return fmt.Errorf("window min (%g,%g) exceeds max (%g,%g)", c.Window[0], c.Window[1], c.Window[2], c.Window[3])
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// split 环境变量里的列表按空白分隔，这里再按逗号拆开
func split(list []string) []string {
	var out []string
	for _, s := range list {
		for _, item := range strings.Split(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func upper(list []string) []string {
	for i, s := range list {
		list[i] = strings.ToUpper(s)
	}
	return list
}
