package quote

// Snapshot 是解码后的展示值：整数放大值按市场倍率还原。
// 每次成功对账整体替换，从不部分合并。
type Snapshot struct {
	Code   string
	Market int
	Name   string

	Price     float64
	Percent   float64
	Change    float64
	Amplitude float64
	Open      float64
	PrevClose float64
	High      float64
	Low       float64

	Volume     float64
	Amount     float64
	Turnover   float64
	PE         float64
	PB         float64
	Ratio      float64
	Min5Pct    float64
	TotalValue float64
	CurValue   float64
	Speed      float64
	Pct60D     float64
	PctYTD     float64

	// HasData 价格字段是否带数据；停牌等情况为 false，各字段取无数据哨兵 0。
	HasData bool
	// LowConfidence 市场编号未知，按国内倍率保守解码；对账侧决定是否覆盖旧值。
	LowConfidence bool
}

// priceDivisor 价格类字段倍率：港(116)、美(105-107)、英(155)为 1000，其余 100。
// 未知市场按国内 100 保守处理，known 返回 false。
func priceDivisor(mkt int) (div float64, known bool) {
	switch {
	case mkt == MktHK, mkt >= 105 && mkt <= 107, mkt == MktUK:
		return 1000, true
	case mkt == MktSH, mkt == MktSZ:
		return 100, true
	default:
		return 100, false
	}
}

// Decode 把原始记录解码成展示值。纯函数、永不失败：
// 价格类字段除以市场倍率，百分比类字段一律除以 100，量额市值不缩放，
// 缺失/脏值字段取 0。
func Decode(rec RawRecord) Snapshot {
	mkt := rec.MarketID()
	div, known := priceDivisor(mkt)

	return Snapshot{
		Code:   rec.Code,
		Market: mkt,
		Name:   rec.Name,

		Price:     rec.Price.Val / div,
		Change:    rec.Change.Val / div,
		Open:      rec.Open.Val / div,
		PrevClose: rec.PrevClose.Val / div,
		High:      rec.High.Val / div,
		Low:       rec.Low.Val / div,

		Percent:   rec.Percent.Val / 100,
		Amplitude: rec.Amplitude.Val / 100,
		Turnover:  rec.Turnover.Val / 100,
		PE:        rec.PE.Val / 100,
		PB:        rec.PB.Val / 100,
		Ratio:     rec.Ratio.Val / 100,
		Min5Pct:   rec.Min5Pct.Val / 100,
		Speed:     rec.Speed.Val / 100,
		Pct60D:    rec.Pct60D.Val / 100,
		PctYTD:    rec.PctYTD.Val / 100,

		Volume:     rec.Volume.Val,
		Amount:     rec.Amount.Val,
		TotalValue: rec.TotalValue.Val,
		CurValue:   rec.CurValue.Val,

		HasData:       rec.Price.OK,
		LowConfidence: !known,
	}
}
