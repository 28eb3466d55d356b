package textimg

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/nantokaworks/catprint/internal/mono"
	qrcode "github.com/skip2/go-qrcode"
)

// RenderQR はQRコードをデバイス幅の画像として生成する。
// QR本体は中央に配置し、周囲は白で埋める。
func RenderQR(data string) (image.Image, error) {
	qr, err := qrcode.New(data, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	// 印字幅の8割程度。二値化でつぶれないようモジュールを大きめに取る
	qrSize := mono.DeviceWidth * 4 / 5
	qrImg := qr.Image(qrSize)

	img := image.NewGray(image.Rect(0, 0, mono.DeviceWidth, qrSize+2*textMargin))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	offset := image.Pt((mono.DeviceWidth-qrImg.Bounds().Dx())/2, textMargin)
	draw.Draw(img, qrImg.Bounds().Add(offset), qrImg, qrImg.Bounds().Min, draw.Src)
	return img, nil
}
