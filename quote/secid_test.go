package quote

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"600519", "600519"},
		{"nvda", "NVDA"},
		{"105.NVDA", "NVDA"},   // 数字市场前缀丢弃
		{"x105.NVDA", "NVDA"},  // 手动标记剥离后同上
		{"HK.00700", "HK.00700"}, // 非数字前缀保留
		{"RR.", "RR."},         // 英股尾点代码保留
		{"", ""},
		{"x", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.raw); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, raw := range []string{"600519", "105.NVDA", "HK.00700", "RR.", "00700", ""} {
		once := Normalize(raw)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent: %q -> %q -> %q", raw, once, twice)
		}
	}
}

func TestResolveNumeric(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"600519", "1.600519"}, // 沪市号段
		{"000001", "0.000001"}, // 深市号段
		{"510300", "1.510300"}, // 沪市基金号段
		{"00700", "116.00700"}, // 5 位按港股
	}
	for _, c := range cases {
		r := Resolve(c.raw)
		if r.Secid != c.want {
			t.Fatalf("Resolve(%q) = %q, want %q", c.raw, r.Secid, c.want)
		}
		if !r.Confirmed {
			t.Fatalf("Resolve(%q) should be confirmed", c.raw)
		}
	}
}

func TestResolveOverride(t *testing.T) {
	r := Resolve("x105.NVDA")
	if r.Secid != "105.NVDA" || !r.Confirmed {
		t.Fatalf("override resolve got %+v", r)
	}
	// 标记之后的内容原样透传，包括任意市场编号
	r = Resolve("x999.WHATEVER")
	if r.Secid != "999.WHATEVER" || !r.Confirmed {
		t.Fatalf("override resolve got %+v", r)
	}
}

func TestResolveAlphaGuess(t *testing.T) {
	r := Resolve("nvda")
	if r.Secid != "105.NVDA" {
		t.Fatalf("Resolve(nvda) = %q, want 105.NVDA", r.Secid)
	}
	if r.Confirmed {
		t.Fatalf("alpha code must stay a guess until the response confirms it")
	}
}

func TestResolvePrefixTable(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"HK.00700", "116.00700"},
		{"UK.RR.", "155.RR."},
		{"LN.RR.", "155.RR."},
		{"SH.600519", "1.600519"},
	}
	for _, c := range cases {
		r := Resolve(c.raw)
		if r.Secid != c.want || !r.Confirmed {
			t.Fatalf("Resolve(%q) = %+v, want confirmed %q", c.raw, r, c.want)
		}
	}
}

func TestResolveUnknownPrefixFallsBackToGuess(t *testing.T) {
	r := Resolve("ZZ.FOO")
	if r.Confirmed {
		t.Fatalf("unknown prefix must not be confirmed: %+v", r)
	}
	if r.Secid != "105.ZZ.FOO" {
		t.Fatalf("Resolve(ZZ.FOO) = %q", r.Secid)
	}
}
