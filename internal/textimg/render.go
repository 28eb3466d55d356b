package textimg

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/nantokaworks/catprint/internal/mono"
	"github.com/nantokaworks/catprint/internal/shared/logger"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const textMargin = 8

// LoadFace はTTFフォントを読み込む。path が空なら組み込みの
// ビットマップフォントにフォールバックする。
func LoadFace(path string, size float64) (font.Face, error) {
	if path == "" {
		logger.Debug("No font path configured, using built-in basicfont")
		return basicfont.Face7x13, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	f, err := truetype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	logger.Debug("Font loaded", zap.String("path", path), zap.Float64("size", size))
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72}), nil
}

// Render はテキストをデバイス幅の白黒画像に描画する。
// 行は印字幅で折り返す。
func Render(text string, face font.Face) image.Image {
	maxWidth := mono.DeviceWidth - 2*textMargin
	lines := wrapText(text, face, maxWidth)

	metrics := face.Metrics()
	lineHeight := (metrics.Height + metrics.Height/4).Ceil()
	if lineHeight < 1 {
		lineHeight = 13
	}
	height := len(lines)*lineHeight + 2*textMargin

	img := image.NewGray(image.Rect(0, 0, mono.DeviceWidth, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
	}
	y := textMargin + metrics.Ascent.Ceil()
	for _, line := range lines {
		d.Dot = fixed.P(textMargin, y)
		d.DrawString(line)
		y += lineHeight
	}
	return img
}

// wrapText は改行で分割し、各行を最大幅に収まるよう貪欲に折り返す。
func wrapText(text string, face font.Face, maxWidth int) []string {
	d := &font.Drawer{Face: face}
	fits := func(s string) bool {
		return d.MeasureString(s).Ceil() <= maxWidth
	}

	var out []string
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if raw == "" {
			out = append(out, "")
			continue
		}

		line := ""
		for _, word := range strings.Fields(raw) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if fits(candidate) {
				line = candidate
				continue
			}
			if line != "" {
				out = append(out, line)
			}
			// 1語で幅を超える場合はルーン単位で切る
			for !fits(word) {
				runes := []rune(word)
				cut := len(runes)
				for cut > 1 && !fits(string(runes[:cut])) {
					cut--
				}
				out = append(out, string(runes[:cut]))
				word = string(runes[cut:])
			}
			line = word
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		out = append(out, "")
	}
	return out
}
