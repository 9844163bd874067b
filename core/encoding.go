package core

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

const (
	// LegacyVersion 最老的支持版本（R12），新于它的文件必须有 OBJECTS 段
	LegacyVersion = "AC1009"
	// DefaultCodepage 头部未声明 $DWGCODEPAGE 时使用
	DefaultCodepage = "ANSI_1252"
)

// IsModern 版本号按字典序比较，新于 R12 返回 true
func IsModern(version string) bool {
	return version > LegacyVersion
}

// Encoding 是一个可命名的文本编码
type Encoding struct {
	Name string
	enc  encoding.Encoding
}

var (
	// UTF8 直通编码：字节原样进出，非法序列也能原样写回
	UTF8 = Encoding{Name: "utf-8", enc: encoding.Nop}
	// CP1252 旧版默认编码
	CP1252 = Encoding{Name: "cp1252", enc: charmap.Windows1252}
)

// 按 $DWGCODEPAGE 的数字后缀匹配
var codepages = []struct {
	suffix string
	enc    Encoding
}{
	{"874", Encoding{"cp874", charmap.Windows874}},
	{"932", Encoding{"cp932", japanese.ShiftJIS}},
	{"936", Encoding{"gbk", simplifiedchinese.GBK}},
	{"949", Encoding{"cp949", korean.EUCKR}},
	{"950", Encoding{"cp950", traditionalchinese.Big5}},
	{"1250", Encoding{"cp1250", charmap.Windows1250}},
	{"1251", Encoding{"cp1251", charmap.Windows1251}},
	{"1252", CP1252},
	{"1253", Encoding{"cp1253", charmap.Windows1253}},
	{"1254", Encoding{"cp1254", charmap.Windows1254}},
	{"1255", Encoding{"cp1255", charmap.Windows1255}},
	{"1256", Encoding{"cp1256", charmap.Windows1256}},
	{"1257", Encoding{"cp1257", charmap.Windows1257}},
	{"1258", Encoding{"cp1258", charmap.Windows1258}},
}

// ToEncoding 将 $DWGCODEPAGE 的值解析成编码，未知代码页回落到 cp1252，从不失败
func ToEncoding(codepage string) Encoding {
	cp := strings.ToUpper(strings.TrimSpace(codepage))
	if cp == "UTF8" || cp == "UTF-8" {
		return UTF8
	}
	for _, c := range codepages {
		if strings.HasSuffix(cp, c.suffix) {
			return c.enc
		}
	}
	return CP1252
}

// EntityEncoding 实体段使用的编码：新版本统一为 UTF-8，R12 沿用头部代码页
func EntityEncoding(version string, header Encoding) Encoding {
	if IsModern(version) {
		return UTF8
	}
	return header
}

func (e Encoding) encoding() encoding.Encoding {
	if e.enc == nil {
		return encoding.Nop
	}
	return e.enc
}

// ErrUndefinedByte 代码页中没有定义的字节
var ErrUndefinedByte = errors.New("byte undefined in codepage")

// Decoder 严格解码：代码页未定义的字节报错，不静默替换成 U+FFFD
type Decoder struct {
	dec    *encoding.Decoder
	strict bool
}

func (d *Decoder) Bytes(raw []byte) ([]byte, error) {
	b, err := d.dec.Bytes(raw)
	if err != nil {
		return nil, err
	}
	// 旧代码页里合法的字节不会解出 U+FFFD
	if d.strict && bytes.ContainsRune(b, utf8.RuneError) {
		return nil, ErrUndefinedByte
	}
	return b, nil
}

// NewDecoder 每个扫描器持有自己的解码器；UTF-8 直通，不检查
func (e Encoding) NewDecoder() *Decoder {
	enc := e.encoding()
	return &Decoder{dec: enc.NewDecoder(), strict: enc != encoding.Nop}
}

// NewEncoder 每个写入器持有自己的编码器
func (e Encoding) NewEncoder() *encoding.Encoder {
	return e.encoding().NewEncoder()
}

// Decode 原始字节 -> 字符串
func (e Encoding) Decode(raw []byte) (string, error) {
	b, err := e.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Encode 字符串 -> 原始字节
func (e Encoding) Encode(s string) ([]byte, error) {
	return e.NewEncoder().Bytes([]byte(s))
}

func (e Encoding) String() string {
	return e.Name
}
