package protocol

import "github.com/nantokaworks/catprint/internal/mono"

// PackedLine は1行分のビット詰めスキャンライン。
// byte0 の bit7（MSB）が列0で、左から右へ詰める。
type PackedLine []byte

// LineBytes は幅 width の行をパックしたときのバイト数。
func LineBytes(width int) int {
	return (width + 7) / 8
}

// PackRow は1行をMSBファーストでバイト列に詰める。
// 幅が8で割り切れない場合、最終バイトの余りビットは0（非印字）で埋める。
func PackRow(row []bool) PackedLine {
	line := make(PackedLine, LineBytes(len(row)))
	for x, printed := range row {
		if printed {
			line[x/8] |= 0x80 >> (x % 8)
		}
	}
	return line
}

// PackBitmap はビットマップの各行をパックして返す。出力は1行につき1要素。
func PackBitmap(bm *mono.Bitmap) []PackedLine {
	lines := make([]PackedLine, bm.Height())
	for y := range lines {
		lines[y] = PackRow(bm.Row(y))
	}
	return lines
}
