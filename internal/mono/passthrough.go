package mono

// binarizePassthrough は既に二値（0 または 255）のバッファをそのまま
// ビットマップにする。幅の検証は Binarize 側で済んでいる。
func binarizePassthrough(buf *PixelBuffer) *Bitmap {
	w, h := buf.Width(), buf.Height()
	bm := newBitmap(w, h)

	for y := 0; y < h; y++ {
		row := buf.Row(y)
		out := bm.Row(y)
		for x, v := range row {
			// 入力は 0/255 前提。中間値が来ても決定的に振り分ける。
			out[x] = v < 128
		}
	}
	return bm
}
