package mono

// Floyd-Steinberg 誤差拡散。誤差は1/16単位の固定小数点で持ち、
// 浮動小数点のドリフトを避ける。行内は左から右へ逐次処理する
// （各ドットの決定が左隣の誤差に依存するため並列化できない）。

const (
	// 輝度を16倍した固定小数点での値
	fsMidpoint = 2040 // 127.5 * 16
	fsWhite    = 4080 // 255 * 16
)

// binarizeFloydSteinberg は誤差拡散で二値化する。
// 重みは右 7/16・左下 3/16・下 5/16・右下 1/16。右下には
// 整数除算の端数も含めて渡すので、範囲内に収まる限り誤差は
// 生成も消失もしない。範囲外への寄与は単に捨てる。
func binarizeFloydSteinberg(buf *PixelBuffer) *Bitmap {
	w, h := buf.Width(), buf.Height()
	bm := newBitmap(w, h)

	// 誤差アキュムレータは現在行と次行の2本だけを使い回す
	cur := make([]int, w)
	next := make([]int, w)

	for y := 0; y < h; y++ {
		row := buf.Row(y)
		out := bm.Row(y)

		for x := 0; x < w; x++ {
			v := int(row[x])*16 + cur[x]

			printed := v < fsMidpoint
			out[x] = printed

			quantized := fsWhite
			if printed {
				quantized = 0
			}
			e := v - quantized

			e7 := e * 7 / 16
			e3 := e * 3 / 16
			e5 := e * 5 / 16
			e1 := e - e7 - e3 - e5 // 1/16 + 端数

			if x+1 < w {
				cur[x+1] += e7
			}
			if y+1 < h {
				if x > 0 {
					next[x-1] += e3
				}
				next[x] += e5
				if x+1 < w {
					next[x+1] += e1
				}
			}
		}

		cur, next = next, cur
		for i := range next {
			next[i] = 0
		}
	}
	return bm
}
