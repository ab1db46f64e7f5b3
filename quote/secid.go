package quote

import (
	"fmt"
	"strings"
)

// 东方财富 push2 接口的市场编号。
const (
	MktSZ = 0   // 深圳/北京
	MktSH = 1   // 上海
	MktUS = 105 // 美股（105 纳斯达克 / 106 纽交所 / 107 美交所）
	MktHK = 116 // 港股
	MktUK = 155 // 英股
)

// usMarkets 字母代码无法从代码本身推断市场，按顺序盲猜，首位为主猜测。
var usMarkets = []int{105, 106, 107, 155}

// prefixMarkets 用户显式写出的市场前缀（如 UK.RR.）到市场编号的固定映射。
var prefixMarkets = map[string]int{
	"SH": MktSH,
	"SZ": MktSZ,
	"HK": MktHK,
	"US": MktUS,
	"UK": MktUK,
	"LN": MktUK,
}

// Resolution 是代码解析结果。Confirmed 为 false 表示 Secid 只是首选猜测，
// 需要等行情响应中的市场编号回填确认（见 scheduler 的自纠正）。
type Resolution struct {
	Secid     string
	Confirmed bool
}

// SplitOverride 剥离全手动标记（前导 x/X）。标记存在时余下内容原样透传为 secid。
func SplitOverride(raw string) (rest string, override bool) {
	if len(raw) > 0 && (raw[0] == 'x' || raw[0] == 'X') {
		return raw[1:], true
	}
	return raw, false
}

// Normalize 把用户输入代码规约成匹配键：
// 剥离手动标记，丢掉纯数字的市场前缀（用户从别处粘贴的 "105.NVDA" 形式），
// 非数字前缀（显式市场写法）保留，最后统一大写。
// 对任意输入都有确定结果，空串也是合法（无用的）键。
func Normalize(raw string) string {
	rest, _ := SplitOverride(raw)
	if i := strings.Index(rest, "."); i > 0 && allDigits(rest[:i]) {
		rest = rest[i+1:]
	}
	return strings.ToUpper(rest)
}

// Resolve 把用户输入代码解析为 provider 的 secid（"市场.代码"）。
// 手动标记直接透传；纯数字代码按号段推断国内交易所；
// 字母代码只能盲猜主市场，交给响应自纠正。
func Resolve(raw string) Resolution {
	rest, override := SplitOverride(raw)
	if override {
		return Resolution{Secid: rest, Confirmed: true}
	}
	key := Normalize(rest)

	if i := strings.Index(key, "."); i > 0 && !allDigits(key[:i]) {
		if mkt, ok := prefixMarkets[key[:i]]; ok {
			return Resolution{Secid: fmt.Sprintf("%d.%s", mkt, key[i+1:]), Confirmed: true}
		}
		// 未知前缀按字母代码整体盲猜
	}

	if key != "" && allDigits(key) {
		return Resolution{Secid: fmt.Sprintf("%d.%s", numericMarket(key), key), Confirmed: true}
	}

	return Resolution{Secid: fmt.Sprintf("%d.%s", usMarkets[0], key), Confirmed: false}
}

// numericMarket 纯数字代码的号段推断：5 位是港股，6 位首位 5/6/9 是沪市，其余深北。
func numericMarket(code string) int {
	if len(code) == 5 {
		return MktHK
	}
	switch code[0] {
	case '5', '6', '9':
		return MktSH
	}
	return MktSZ
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
