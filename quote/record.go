package quote

import (
	"fmt"
	"strconv"
	"strings"
)

// Num 容忍脏值的数值字段。push2 在停牌等情况下会把数值字段返回成 "-"、
// 空串或 null，统一当作缺数据而不是解析错误。
type Num struct {
	Val float64
	OK  bool
}

// UnmarshalJSON 永不报错：解析不出来就保持缺数据状态。
func (n *Num) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n.Val = v
	n.OK = true
	return nil
}

// RawRecord 对应 push2 ulist 响应 data.diff 的单条记录，数值字段是整数放大值。
// 瞬态结构，解码后即丢弃。
type RawRecord struct {
	Code       string `json:"f12"` // 代码
	Market     Num    `json:"f13"` // 市场编号
	Name       string `json:"f14"` // 名称
	Price      Num    `json:"f2"`  // 当前价
	Percent    Num    `json:"f3"`  // 涨跌幅
	Change     Num    `json:"f4"`  // 涨跌额
	Volume     Num    `json:"f5"`  // 成交量(手)
	Amount     Num    `json:"f6"`  // 成交额
	Amplitude  Num    `json:"f7"`  // 振幅
	Turnover   Num    `json:"f8"`  // 换手率
	PE         Num    `json:"f9"`  // 市盈率
	Ratio      Num    `json:"f10"` // 量比
	Min5Pct    Num    `json:"f11"` // 5分钟涨跌幅
	High       Num    `json:"f15"` // 最高
	Low        Num    `json:"f16"` // 最低
	Open       Num    `json:"f17"` // 今开
	PrevClose  Num    `json:"f18"` // 昨收
	TotalValue Num    `json:"f20"` // 总市值
	CurValue   Num    `json:"f21"` // 流通市值
	Speed      Num    `json:"f22"` // 涨速
	PB         Num    `json:"f23"` // 市净率
	Pct60D     Num    `json:"f24"` // 60日涨跌幅
	PctYTD     Num    `json:"f25"` // 年初至今涨跌幅
}

// MarketID 市场编号；字段缺失或脏值时返回 -1，按未知市场处理。
func (r RawRecord) MarketID() int {
	if !r.Market.OK {
		return -1
	}
	return int(r.Market.Val)
}

// ConfirmedSecid 由响应回填的权威 secid。
func (r RawRecord) ConfirmedSecid() string {
	return fmt.Sprintf("%d.%s", r.MarketID(), r.Code)
}
