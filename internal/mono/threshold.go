package mono

// binarizeMeanThreshold は全体の平均輝度（または指定されたしきい値）で
// 単純に二値化する。しきい値より暗いピクセルだけが印字ドットになる。
// 等しい場合は印字しない（厳密な < 比較）。
func binarizeMeanThreshold(buf *PixelBuffer, threshold *uint8) *Bitmap {
	w, h := buf.Width(), buf.Height()
	bm := newBitmap(w, h)

	var t int
	if threshold != nil {
		t = int(*threshold)
	} else {
		t = meanIntensity(buf)
	}

	for y := 0; y < h; y++ {
		row := buf.Row(y)
		out := bm.Row(y)
		for x, v := range row {
			out[x] = int(v) < t
		}
	}
	return bm
}

func meanIntensity(buf *PixelBuffer) int {
	if len(buf.pixels) == 0 {
		return 0
	}
	sum := 0
	for _, v := range buf.pixels {
		sum += int(v)
	}
	return sum / len(buf.pixels)
}
