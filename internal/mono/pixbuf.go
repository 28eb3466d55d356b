package mono

import (
	"image"
	"image/color"
)

// DeviceWidth はプリンターの印字幅（ドット数）。
const DeviceWidth = 384

// PixelBuffer は固定幅のグレースケール画像を保持する。
// 幅は構築時に決まり変更できない。1つの印刷ジョブが排他的に所有する。
type PixelBuffer struct {
	width  int
	pixels []uint8 // row-major, 0-255
}

// NewPixelBuffer は指定サイズの空バッファを作る。
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		width:  width,
		pixels: make([]uint8, width*height),
	}
}

// FromImage は画像を輝度変換して PixelBuffer にする。
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	buf := NewPixelBuffer(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			buf.Set(x-bounds.Min.X, y-bounds.Min.Y, g.Y)
		}
	}
	return buf
}

// Width は行の長さを返す。
func (b *PixelBuffer) Width() int {
	return b.width
}

// Height は行数を返す。
func (b *PixelBuffer) Height() int {
	if b.width == 0 {
		return 0
	}
	return len(b.pixels) / b.width
}

// At は (x, y) の輝度を返す。
func (b *PixelBuffer) At(x, y int) uint8 {
	return b.pixels[y*b.width+x]
}

// Set は (x, y) の輝度を設定する。
func (b *PixelBuffer) Set(x, y int, v uint8) {
	b.pixels[y*b.width+x] = v
}

// Row は y 行目のスライスを返す（コピーではない）。
func (b *PixelBuffer) Row(y int) []uint8 {
	return b.pixels[y*b.width : (y+1)*b.width]
}

// Bitmap は二値化済みの1bit画像。true が印字ドット（黒）。
// Binarize の呼び出し1回で生成され、以後変更されない。
type Bitmap struct {
	width int
	bits  []bool // row-major
}

func newBitmap(width, height int) *Bitmap {
	return &Bitmap{
		width: width,
		bits:  make([]bool, width*height),
	}
}

// Width は行の長さを返す。
func (m *Bitmap) Width() int {
	return m.width
}

// Height は行数を返す。
func (m *Bitmap) Height() int {
	if m.width == 0 {
		return 0
	}
	return len(m.bits) / m.width
}

// At は (x, y) が印字ドットかどうかを返す。
func (m *Bitmap) At(x, y int) bool {
	return m.bits[y*m.width+x]
}

// Row は y 行目のスライスを返す（コピーではない）。
func (m *Bitmap) Row(y int) []bool {
	return m.bits[y*m.width : (y+1)*m.width]
}

func (m *Bitmap) set(x, y int, printed bool) {
	m.bits[y*m.width+x] = printed
}

// Image はデバッグ出力用に image.Gray へ変換する。
func (m *Bitmap) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.width, m.Height()))
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.width; x++ {
			v := uint8(255)
			if m.At(x, y) {
				v = 0
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}
