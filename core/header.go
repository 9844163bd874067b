package core

import "strings"

// HeaderVars 从 HEADER 段中提取 $ACADVERSION 和 $DWGCODEPAGE
//
// 两者各自独立回落到默认值：缺少代码页不影响版本，反之亦然。
type HeaderVars struct {
	Version  string
	Codepage string
	fetch    string
}

func NewHeaderVars() *HeaderVars {
	return &HeaderVars{Version: LegacyVersion, Codepage: DefaultCodepage}
}

// Feed 处理 HEADER 段内的一个标签，value 为已解码的值
func (h *HeaderVars) Feed(code int, value string) {
	if code == 9 {
		h.fetch = strings.TrimSpace(value)
		return
	}
	switch h.fetch {
	case varVersion:
		h.Version = strings.TrimSpace(value)
	case varCodepage:
		h.Codepage = strings.TrimSpace(value)
	}
	h.fetch = ""
}

// Encoding 代码页对应的编码
func (h *HeaderVars) Encoding() Encoding {
	return ToEncoding(h.Codepage)
}
