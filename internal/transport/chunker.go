package transport

import (
	"errors"
	"fmt"
	"io"
)

// ErrInvalidChunkSize は1未満のチャンクサイズ。
var ErrInvalidChunkSize = errors.New("chunk size must be at least 1")

// Chunker はバイトストリームを最大 size バイトのチャンクに切り分ける。
// チャンクはストリーム順で生成され、連結すると元のストリームに一致する。
// フレーム境界は関知しない（1フレームが複数チャンクにまたがることがある）。
//
// 途中から再開はできない。やり直す場合は元ストリームの先頭から
// 新しい Chunker を作る。
type Chunker struct {
	r    io.Reader
	size int
}

// NewChunker はストリームのチャンカーを作る。size < 1 はエラー。
func NewChunker(r io.Reader, size int) (*Chunker, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, size)
	}
	return &Chunker{r: r, size: size}, nil
}

// Next は次のチャンクを返す。ストリーム終端では nil, io.EOF を返し、
// 空のチャンクは生成しない。返すスライスは呼び出しごとに新規確保する。
func (c *Chunker) Next() ([]byte, error) {
	buf := make([]byte, c.size)
	n, err := io.ReadFull(c.r, buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

// ChunkAll はストリーム全体を一度に切り分ける。小さな入力やテスト向け。
func ChunkAll(data []byte, size int) ([][]byte, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, size)
	}
	var chunks [][]byte
	for len(data) > 0 {
		n := size
		if n > len(data) {
			n = len(data)
		}
		chunks = append(chunks, append([]byte(nil), data[:n]...))
		data = data[n:]
	}
	return chunks, nil
}
