package imgprep

import (
	"image"
	"image/color"
	"testing"

	"github.com/nantokaworks/catprint/internal/mono"
)

func TestPrepareResizesToDeviceWidth(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 100, 50))
	buf := Prepare(img, Options{})
	if buf.Width() != mono.DeviceWidth {
		t.Fatalf("Prepare() width = %d, want %d", buf.Width(), mono.DeviceWidth)
	}
	if buf.Height() != 192 { // 50 * 384/100
		t.Fatalf("Prepare() height = %d, want 192", buf.Height())
	}
}

func TestPrepareKeepsDeviceWidth(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, mono.DeviceWidth, 10))
	buf := Prepare(img, Options{})
	if buf.Width() != mono.DeviceWidth || buf.Height() != 10 {
		t.Fatalf("Prepare() shape = %dx%d, want %dx10", buf.Width(), buf.Height(), mono.DeviceWidth)
	}
}

func TestPrepareAutoRotate(t *testing.T) {
	// 横長800x384はAutoRotateで縦長384x800になり、リサイズ不要になる
	img := image.NewGray(image.Rect(0, 0, 800, mono.DeviceWidth))
	buf := Prepare(img, Options{AutoRotate: true})
	if buf.Width() != mono.DeviceWidth || buf.Height() != 800 {
		t.Fatalf("Prepare() shape = %dx%d, want %dx800", buf.Width(), buf.Height(), mono.DeviceWidth)
	}
}

func TestPrepareBlackPoint(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, mono.DeviceWidth, 1))
	for x := 0; x < mono.DeviceWidth; x++ {
		img.SetGray(x, 0, color.Gray{Y: 40})
	}

	buf := Prepare(img, Options{BlackPoint: 40})
	if got := buf.At(0, 0); got != 0 {
		t.Fatalf("black point clamp: intensity = %d, want 0", got)
	}

	buf = Prepare(img, Options{BlackPoint: 39})
	if got := buf.At(0, 0); got != 40 {
		t.Fatalf("below black point: intensity = %d, want 40", got)
	}
}

func TestRotate180(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(0, 0, color.Gray{Y: 10})
	img.SetGray(1, 0, color.Gray{Y: 20})
	img.SetGray(0, 1, color.Gray{Y: 30})
	img.SetGray(1, 1, color.Gray{Y: 40})

	got := rotate180(img)
	check := func(x, y int, want uint8) {
		g := color.GrayModel.Convert(got.At(x, y)).(color.Gray)
		if g.Y != want {
			t.Fatalf("rotate180 pixel (%d,%d) = %d, want %d", x, y, g.Y, want)
		}
	}
	check(0, 0, 40)
	check(1, 0, 30)
	check(0, 1, 20)
	check(1, 1, 10)
}
