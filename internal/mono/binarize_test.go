package mono

import (
	"errors"
	"testing"
)

func uniformBuffer(w, h int, v uint8) *PixelBuffer {
	buf := NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		row := buf.Row(y)
		for x := range row {
			row[x] = v
		}
	}
	return buf
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		expect  Algorithm
		wantErr bool
	}{
		{name: "mean threshold", input: "mean-threshold", expect: AlgorithmMeanThreshold},
		{name: "floyd steinberg", input: "floyd-steinberg", expect: AlgorithmFloydSteinberg},
		{name: "halftone", input: "halftone", expect: AlgorithmHalftone},
		{name: "none", input: "none", expect: AlgorithmNone},
		{name: "unknown selector", input: "invalid-algo", wantErr: true},
		{name: "empty selector", input: "", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAlgorithm(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidAlgorithm) {
					t.Fatalf("ParseAlgorithm(%q) error = %v, want ErrInvalidAlgorithm", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAlgorithm(%q) error = %v", tc.input, err)
			}
			if got != tc.expect {
				t.Fatalf("ParseAlgorithm(%q) = %q, want %q", tc.input, got, tc.expect)
			}
		})
	}
}

func TestMeanThresholdUniformImage(t *testing.T) {
	// 一様画像は平均＝輝度なので strict < の規約で全ドット非印字になる
	buf := uniformBuffer(16, 8, 100)
	bm, err := Binarize(buf, AlgorithmMeanThreshold, Options{})
	if err != nil {
		t.Fatalf("Binarize() error = %v", err)
	}
	for y := 0; y < bm.Height(); y++ {
		for x := 0; x < bm.Width(); x++ {
			if bm.At(x, y) {
				t.Fatalf("pixel (%d,%d) printed, want not printed (equality maps to white)", x, y)
			}
		}
	}
}

func TestMeanThresholdFlip(t *testing.T) {
	buf := uniformBuffer(16, 8, 100)

	above := uint8(101)
	bm, err := Binarize(buf, AlgorithmMeanThreshold, Options{Threshold: &above})
	if err != nil {
		t.Fatalf("Binarize() error = %v", err)
	}
	if !bm.At(0, 0) {
		t.Fatalf("threshold above intensity: pixel not printed, want printed")
	}

	below := uint8(100)
	bm, err = Binarize(buf, AlgorithmMeanThreshold, Options{Threshold: &below})
	if err != nil {
		t.Fatalf("Binarize() error = %v", err)
	}
	if bm.At(0, 0) {
		t.Fatalf("threshold equal to intensity: pixel printed, want not printed")
	}
}

func TestMeanThresholdBlackWhiteRows(t *testing.T) {
	buf := NewPixelBuffer(DeviceWidth, 2)
	for x := 0; x < DeviceWidth; x++ {
		buf.Set(x, 0, 0)
		buf.Set(x, 1, 255)
	}

	threshold := uint8(128)
	bm, err := Binarize(buf, AlgorithmMeanThreshold, Options{Threshold: &threshold})
	if err != nil {
		t.Fatalf("Binarize() error = %v", err)
	}
	for x := 0; x < DeviceWidth; x++ {
		if !bm.At(x, 0) {
			t.Fatalf("black row pixel %d not printed", x)
		}
		if bm.At(x, 1) {
			t.Fatalf("white row pixel %d printed", x)
		}
	}
}

func TestFloydSteinbergMidGray(t *testing.T) {
	// 中間グレー2x2は誤差拡散で市松模様になる（手計算による期待値）
	buf := uniformBuffer(2, 2, 128)
	bm, err := Binarize(buf, AlgorithmFloydSteinberg, Options{})
	if err != nil {
		t.Fatalf("Binarize() error = %v", err)
	}

	expect := [2][2]bool{
		{false, true},
		{true, false},
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if bm.At(x, y) != expect[y][x] {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, bm.At(x, y), expect[y][x])
			}
		}
	}
}

func TestFloydSteinbergExtremes(t *testing.T) {
	black, err := Binarize(uniformBuffer(8, 8, 0), AlgorithmFloydSteinberg, Options{})
	if err != nil {
		t.Fatalf("Binarize() error = %v", err)
	}
	white, err := Binarize(uniformBuffer(8, 8, 255), AlgorithmFloydSteinberg, Options{})
	if err != nil {
		t.Fatalf("Binarize() error = %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if !black.At(x, y) {
				t.Fatalf("all-black input: pixel (%d,%d) not printed", x, y)
			}
			if white.At(x, y) {
				t.Fatalf("all-white input: pixel (%d,%d) printed", x, y)
			}
		}
	}
}

func TestFloydSteinbergDeterminism(t *testing.T) {
	buf := NewPixelBuffer(64, 32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			buf.Set(x, y, uint8((x*7+y*13)%256))
		}
	}

	first, err := Binarize(buf, AlgorithmFloydSteinberg, Options{})
	if err != nil {
		t.Fatalf("Binarize() error = %v", err)
	}
	second, err := Binarize(buf, AlgorithmFloydSteinberg, Options{})
	if err != nil {
		t.Fatalf("Binarize() error = %v", err)
	}

	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			if first.At(x, y) != second.At(x, y) {
				t.Fatalf("non-deterministic output at (%d,%d)", x, y)
			}
		}
	}
}

func TestHalftonePeriodicity(t *testing.T) {
	// 輝度が (x%4, y%4) だけで決まる画像では、決定パターンも4周期で繰り返す
	buf := NewPixelBuffer(32, 32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			buf.Set(x, y, uint8(((x%4)*61+(y%4)*17)%256))
		}
	}

	bm, err := Binarize(buf, AlgorithmHalftone, Options{})
	if err != nil {
		t.Fatalf("Binarize() error = %v", err)
	}

	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if bm.At(x, y) != bm.At(x%4, y%4) {
				t.Fatalf("pixel (%d,%d) = %v differs from tile origin (%d,%d)",
					x, y, bm.At(x, y), x%4, y%4)
			}
		}
	}
}

func TestHalftoneMidGrayDensity(t *testing.T) {
	// 中間グレーではBayerタイルのちょうど半分が印字ドットになる
	buf := uniformBuffer(16, 16, 128)
	bm, err := Binarize(buf, AlgorithmHalftone, Options{})
	if err != nil {
		t.Fatalf("Binarize() error = %v", err)
	}

	printed := 0
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if bm.At(x, y) {
				printed++
			}
		}
	}
	if printed != 16*16/2 {
		t.Fatalf("printed dots = %d, want %d", printed, 16*16/2)
	}
}

func TestPassthroughWidthCheck(t *testing.T) {
	buf := uniformBuffer(100, 4, 0)
	_, err := Binarize(buf, AlgorithmNone, Options{})
	if !errors.Is(err, ErrUnsupportedWidth) {
		t.Fatalf("Binarize(none, width=100) error = %v, want ErrUnsupportedWidth", err)
	}
}

func TestPassthroughIdentity(t *testing.T) {
	buf := NewPixelBuffer(DeviceWidth, 2)
	for x := 0; x < DeviceWidth; x++ {
		if x%2 == 0 {
			buf.Set(x, 0, 0)
		} else {
			buf.Set(x, 0, 255)
		}
		buf.Set(x, 1, 255)
	}

	bm, err := Binarize(buf, AlgorithmNone, Options{})
	if err != nil {
		t.Fatalf("Binarize() error = %v", err)
	}
	for x := 0; x < DeviceWidth; x++ {
		if bm.At(x, 0) != (x%2 == 0) {
			t.Fatalf("row 0 pixel %d = %v, want %v", x, bm.At(x, 0), x%2 == 0)
		}
		if bm.At(x, 1) {
			t.Fatalf("row 1 pixel %d printed, want not printed", x)
		}
	}
}

func TestBinarizeShape(t *testing.T) {
	algos := []Algorithm{AlgorithmMeanThreshold, AlgorithmFloydSteinberg, AlgorithmHalftone}
	buf := uniformBuffer(40, 17, 90)

	for _, algo := range algos {
		bm, err := Binarize(buf, algo, Options{})
		if err != nil {
			t.Fatalf("Binarize(%s) error = %v", algo, err)
		}
		if bm.Width() != 40 || bm.Height() != 17 {
			t.Fatalf("Binarize(%s) shape = %dx%d, want 40x17", algo, bm.Width(), bm.Height())
		}
	}
}
