package protocol

import (
	"io"

	"github.com/nantokaworks/catprint/internal/mono"
)

// JobOptions は印刷ジョブのパラメータ。
type JobOptions struct {
	Quality   int    // 品質レベル 1-5
	Energy    uint16 // 印字エネルギー
	FeedLines int    // 印刷後のフィード行数
}

// JobEncoder はビットマップ1枚分のコマンドストリームを
// フレーム単位で遅延生成する io.Reader。
//
// フレーム順序は 品質設定 → エネルギー設定 → 印刷開始 →
// 行データ×高さ → フィード → 印刷終了 で固定。この順序が
// 崩れると印字結果が壊れるため、呼び出し側で並び替えてはいけない。
//
// 大きな画像でもストリーム全体をメモリに持たない。途中で
// Reader を捨てればそれ以降のフレームは生成されない。
type JobEncoder struct {
	bitmap *mono.Bitmap
	opts   JobOptions

	step int // 次に生成するフレームの位置
	buf  []byte
	err  error
}

// NewJobEncoder はビットマップの印刷ジョブエンコーダを作る。
func NewJobEncoder(bm *mono.Bitmap, opts JobOptions) *JobEncoder {
	return &JobEncoder{bitmap: bm, opts: opts}
}

// TotalFrames はこのジョブが生成するフレーム数を返す。
func (e *JobEncoder) TotalFrames() int {
	// 制御フレーム5 + 行データ
	return 5 + e.bitmap.Height()
}

// NextFrame は次のフレームを返す。ストリームの終端では nil, io.EOF。
func (e *JobEncoder) NextFrame() (Frame, error) {
	height := e.bitmap.Height()

	var f Frame
	switch {
	case e.step == 0:
		f = SetQuality(e.opts.Quality)
	case e.step == 1:
		f = SetEnergy(e.opts.Energy)
	case e.step == 2:
		f = PrintStart()
	case e.step < 3+height:
		f = DrawRow(PackRow(e.bitmap.Row(e.step - 3)))
	case e.step == 3+height:
		f = FeedLines(e.opts.FeedLines)
	case e.step == 4+height:
		f = PrintEnd()
	default:
		return Frame{}, io.EOF
	}
	e.step++
	return f, nil
}

// Read は io.Reader としてフレームのバイト列を順に返す。
func (e *JobEncoder) Read(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}

	for len(e.buf) == 0 {
		f, err := e.NextFrame()
		if err != nil {
			e.err = err
			return 0, err
		}
		b, err := f.Marshal()
		if err != nil {
			e.err = err
			return 0, err
		}
		e.buf = b
	}

	n := copy(p, e.buf)
	e.buf = e.buf[n:]
	return n, nil
}
