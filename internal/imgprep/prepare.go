package imgprep

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/nantokaworks/catprint/internal/mono"
	"github.com/nantokaworks/catprint/internal/shared/logger"
	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

// Options は印刷前の画像整形パラメータ。
type Options struct {
	AutoRotate bool  // 横長画像を90度回転して印字幅に収める
	Rotate180  bool  // 出力を180度回転（プリンターの向き対策）
	BlackPoint uint8 // この値以下の輝度を0に潰す（0で無効）
}

// Load はPNG/JPEG画像ファイルを読み込む。
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	logger.Debug("Image decoded",
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return img, nil
}

// Prepare は画像をデバイス幅のグレースケールバッファに整形する。
// 幅が384でない画像はLanczos3で等比リサイズする。
func Prepare(img image.Image, opts Options) *mono.PixelBuffer {
	if opts.AutoRotate && img.Bounds().Dx() > img.Bounds().Dy() {
		logger.Debug("Auto-rotating landscape image")
		img = rotate90(img)
	}

	if img.Bounds().Dx() != mono.DeviceWidth {
		logger.Debug("Resizing image to device width",
			zap.Int("from", img.Bounds().Dx()),
			zap.Int("to", mono.DeviceWidth))
		img = resize.Resize(mono.DeviceWidth, 0, img, resize.Lanczos3)
	}

	if opts.Rotate180 {
		img = rotate180(img)
	}

	buf := mono.FromImage(img)
	if opts.BlackPoint > 0 {
		applyBlackPoint(buf, opts.BlackPoint)
	}
	return buf
}

func applyBlackPoint(buf *mono.PixelBuffer, bp uint8) {
	for y := 0; y < buf.Height(); y++ {
		row := buf.Row(y)
		for x, v := range row {
			if v <= bp {
				row[x] = 0
			}
		}
	}
}

// rotate90 は時計回りに90度回転した画像を返す。
func rotate90(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(b.Max.Y-1-y, x-b.Min.X, src.At(x, y))
		}
	}
	return dst
}

// rotate180 は180度回転した画像を返す。
func rotate180(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(b.Max.X-1-x, b.Max.Y-1-y, src.At(x, y))
		}
	}
	return dst
}
