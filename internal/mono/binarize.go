package mono

import (
	"errors"
	"fmt"
)

// Algorithm は二値化アルゴリズムの選択子。
type Algorithm string

const (
	AlgorithmMeanThreshold  Algorithm = "mean-threshold"
	AlgorithmFloydSteinberg Algorithm = "floyd-steinberg"
	AlgorithmHalftone       Algorithm = "halftone"
	AlgorithmNone           Algorithm = "none"
)

var (
	// ErrInvalidAlgorithm は未知のアルゴリズム名。
	ErrInvalidAlgorithm = errors.New("invalid binarization algorithm")

	// ErrUnsupportedWidth はデバイス幅と互換性のない画像幅。
	ErrUnsupportedWidth = errors.New("unsupported image width")
)

// ParseAlgorithm は文字列をアルゴリズム選択子に変換する。
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AlgorithmMeanThreshold, AlgorithmFloydSteinberg, AlgorithmHalftone, AlgorithmNone:
		return Algorithm(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAlgorithm, s)
	}
}

// Options は二値化のオプション。
type Options struct {
	// Threshold を指定すると mean-threshold が平均輝度の代わりにこの値を使う。
	Threshold *uint8
}

// Binarize は PixelBuffer を1bitビットマップに変換する。
// 同じ入力に対して常に同じ出力を返す（乱数は使わない）。
// アルゴリズム none はリサンプリングしないため、バッファ幅が
// デバイス幅と一致しない場合は ErrUnsupportedWidth を返す。
func Binarize(buf *PixelBuffer, algo Algorithm, opts Options) (*Bitmap, error) {
	switch algo {
	case AlgorithmMeanThreshold:
		return binarizeMeanThreshold(buf, opts.Threshold), nil
	case AlgorithmFloydSteinberg:
		return binarizeFloydSteinberg(buf), nil
	case AlgorithmHalftone:
		return binarizeHalftone(buf), nil
	case AlgorithmNone:
		if buf.Width() != DeviceWidth {
			return nil, fmt.Errorf("%w: pass-through requires width %d, got %d",
				ErrUnsupportedWidth, DeviceWidth, buf.Width())
		}
		return binarizePassthrough(buf), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, algo)
	}
}
