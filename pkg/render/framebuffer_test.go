package render

import (
	"math"
	"testing"
)

func TestSourceOverTransparentIsIdentity(t *testing.T) {
	dsts := []Color{ColorRed, NRGBA(0.3, 0.6, 0.9, 0.5), Transparent, {0.1, 0.2, 0.3, 0.4}}
	for _, dst := range dsts {
		if got := Transparent.Over(dst); got != dst {
			t.Errorf("transparent over %v = %v", dst, got)
		}
	}

	target := NewRenderTarget(2, 2)
	target.Paint(0, 0, NRGBA(0.2, 0.4, 0.6, 0.8), BlendSourceOver)
	before := target.Get(0, 0)
	target.Paint(0, 0, Transparent, BlendSourceOver)
	if after := target.Get(0, 0); after != before {
		t.Errorf("transparent paint changed %#08x to %#08x", before, after)
	}
}

func TestBlendModes(t *testing.T) {
	dst := Color{0.2, 0.2, 0.2, 0.4}
	src := Color{0.5, 0, 0, 0.5}
	tests := []struct {
		mode BlendMode
		want Color
	}{
		{BlendSourceOver, Color{0.6, 0.1, 0.1, 0.7}},
		{BlendSource, src},
		{BlendPlus, Color{0.7, 0.2, 0.2, 0.9}},
	}
	for _, tc := range tests {
		t.Run(tc.mode.String(), func(t *testing.T) {
			got := tc.mode.Blend(src, dst)
			if !approx(got.R, tc.want.R) || !approx(got.G, tc.want.G) || !approx(got.B, tc.want.B) || !approx(got.A, tc.want.A) {
				t.Errorf("Blend = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBlendPlusClampsOnPack(t *testing.T) {
	target := NewRenderTarget(1, 1)
	target.Paint(0, 0, ColorWhite, BlendPlus)
	target.Paint(0, 0, ColorWhite, BlendPlus)
	if got := target.Get(0, 0); got != 0xffffffff {
		t.Errorf("pixel = %#08x, want saturated white", got)
	}
}

func TestParseBlendMode(t *testing.T) {
	tests := []struct {
		in      string
		want    BlendMode
		wantErr bool
	}{
		{"", BlendSourceOver, false},
		{"source-over", BlendSourceOver, false},
		{"Source", BlendSource, false},
		{"plus", BlendPlus, false},
		{"multiply", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseBlendMode(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseBlendMode(%q) error = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseBlendMode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPackRoundTrip(t *testing.T) {
	colors := []Color{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{0.2, 0.4, 0.6, 0.8},
		{0.123, 0.456, 0.789, 0.999},
		{0.5, 0.25, 0.125, 1},
	}
	const tol = 1.0/255 + 1e-6
	for _, c := range colors {
		got := UnpackColor(c.Pack())
		for i, pair := range [][2]float32{{c.R, got.R}, {c.G, got.G}, {c.B, got.B}, {c.A, got.A}} {
			if math.Abs(float64(pair[0]-pair[1])) > tol {
				t.Errorf("channel %d of %v round-tripped to %v", i, c, pair[1])
			}
		}
	}

	for k := range 256 {
		p := uint32(k)<<24 | uint32(255-k)<<16 | uint32(k/2)<<8 | 0xff
		if got := UnpackColor(p).Pack(); got != p {
			t.Fatalf("Pack(Unpack(%#08x)) = %#08x", p, got)
		}
	}
}

func TestPackLayoutAndClamp(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want uint32
	}{
		{"red", ColorRed, 0xff0000ff},
		{"blue", ColorBlue, 0x0000ffff},
		{"over range", Color{2, -1, 0.5, 1.5}, 0xff007fff},
		{"nan", Color{float32(math.NaN()), 0, 0, 1}, 0x000000ff},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.Pack(); got != tc.want {
				t.Errorf("Pack = %#08x, want %#08x", got, tc.want)
			}
		})
	}
}

func TestCheckDepthMonotonic(t *testing.T) {
	target := NewRenderTarget(2, 2)
	if target.DepthAt(1, 1) != 1 {
		t.Fatalf("initial depth = %v, want 1", target.DepthAt(1, 1))
	}
	if target.CheckDepth(1, 1, 1) {
		t.Error("depth equal to the far plane should fail")
	}
	if !target.CheckDepth(1, 1, 0.5) {
		t.Fatal("0.5 should pass against 1.0")
	}
	for _, d := range []float32{0.5, 0.6, 1, 2} {
		if target.CheckDepth(1, 1, d) {
			t.Errorf("CheckDepth(%v) after 0.5 should fail", d)
		}
	}
	if !target.CheckDepth(1, 1, 0.25) || target.DepthAt(1, 1) != 0.25 {
		t.Error("nearer depth should pass and be stored")
	}
	if target.DepthAt(0, 0) != 1 {
		t.Error("other pixels should keep the far depth")
	}
}

func TestRenderTargetBounds(t *testing.T) {
	target := NewRenderTarget(4, 2)
	if target.Aspect() != 2 {
		t.Errorf("Aspect = %v, want 2", target.Aspect())
	}
	if target.Get(-1, 0) != 0 || target.Get(4, 0) != 0 || target.Get(0, 2) != 0 {
		t.Error("out-of-bounds Get should return 0")
	}

	defer func() {
		if recover() == nil {
			t.Error("out-of-bounds Paint should panic")
		}
	}()
	target.Paint(4, 0, ColorWhite, BlendSourceOver)
}

func TestColorAt(t *testing.T) {
	target := NewRenderTarget(2, 2)
	target.Paint(1, 0, ColorRed, BlendSource)
	if got := target.ColorAt(1, 0); got != ColorRed {
		t.Errorf("ColorAt(1,0) = %v, want %v", got, ColorRed)
	}
	if got := target.ColorAt(5, 5); got != Transparent {
		t.Errorf("out-of-bounds ColorAt = %v, want transparent", got)
	}
}

func TestClear(t *testing.T) {
	target := NewRenderTarget(5, 3)
	target.Clear(ColorBlue)
	target.CheckDepth(2, 2, 0.1)
	for _, p := range target.Pixels() {
		if p != ColorBlue.Pack() {
			t.Fatalf("pixel = %#08x after Clear", p)
		}
	}
	target.ClearDepth()
	if target.DepthAt(2, 2) != 1 {
		t.Error("ClearDepth should reset to 1")
	}
	if NewRenderTarget(0, 0).Aspect() != 1 {
		t.Error("empty target aspect should default to 1")
	}
}

func TestDrawLine(t *testing.T) {
	target := NewRenderTarget(5, 5)
	target.DrawLine(0, 0, 4, 4, ColorWhite)
	for i := range 5 {
		if target.Get(i, i) != ColorWhite.Pack() {
			t.Errorf("diagonal pixel %d not drawn", i)
		}
	}
	if target.Get(4, 0) != 0 {
		t.Error("off-diagonal pixel drawn")
	}
	// clipped silently
	target.DrawLine(-3, 2, 8, 2, ColorRed)
	if target.Get(0, 2) != ColorRed.Pack() || target.Get(4, 2) != ColorRed.Pack() {
		t.Error("clipped line should cover the visible row")
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff8000", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	want := Color{0.5, 0.25098039, 0, 0.5}
	if !approx(c.R, want.R) || !approx(c.G, want.G) || c.B != 0 || c.A != 0.5 {
		t.Errorf("ParseHex = %v, want %v", c, want)
	}
	if c.Hex() != "#ff8000" {
		t.Errorf("Hex = %s, want #ff8000", c.Hex())
	}
	if _, err := ParseHex("orange", 1); err == nil {
		t.Error("expected error for non-hex color")
	}
}
