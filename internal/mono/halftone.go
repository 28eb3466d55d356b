package mono

// 4x4 Bayer行列による組織的ディザ。ドットの決定は
// (輝度, row%4, col%4) だけで決まり、ピクセル間の依存が無い。

// bayer4 は標準の4x4 Bayerパターン（0-15）。
var bayer4 = [4][4]int{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// bayerThreshold は行列値を 0-255 に展開したしきい値。
// しきい値 = 値*16 + 8 で、16階調の中点に合わせる。
var bayerThreshold [4][4]int

func init() {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			bayerThreshold[r][c] = bayer4[r][c]*16 + 8
		}
	}
}

// binarizeHalftone は固定しきい値行列で二値化する。
func binarizeHalftone(buf *PixelBuffer) *Bitmap {
	w, h := buf.Width(), buf.Height()
	bm := newBitmap(w, h)

	for y := 0; y < h; y++ {
		row := buf.Row(y)
		out := bm.Row(y)
		t := &bayerThreshold[y%4]
		for x, v := range row {
			out[x] = int(v) < t[x%4]
		}
	}
	return bm
}
