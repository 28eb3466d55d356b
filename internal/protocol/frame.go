package protocol

import (
	"errors"
	"fmt"
)

// コマンドフレームのワイヤ形式:
//
//	[0x51, 0x78, command, flags, len_lo, len_hi, payload..., crc8, 0xFF]
//
// 長さはペイロードのバイト数（リトルエンディアン16bit）。
// チェックサムは command, flags, len_lo, len_hi, payload に対する
// CRC-8（多項式 0x07, 初期値 0）。
//
// 定数は実機（GB01/GB02/GB03/GT01系）のトラフィック観測に基づく値で、
// ここに一箇所へまとめてある。

const (
	syncByte1      = 0x51
	syncByte2      = 0x78
	terminatorByte = 0xFF

	frameOverhead = 8 // sync(2) + cmd + flags + len(2) + crc + terminator

	// MaxPayload は長さフィールドで表現できるペイロードの上限。
	MaxPayload = 0xFFFF
)

// Command はフレームのコマンド識別子。
type Command byte

const (
	CmdFeedPaper      Command = 0xA1 // ペイロード: フィード行数 LE16
	CmdDrawRow        Command = 0xA2 // ペイロード: パック済みスキャンライン
	CmdDeviceState    Command = 0xA3
	CmdSetQuality     Command = 0xA4 // ペイロード: 品質レベル1バイト
	CmdLatticeControl Command = 0xA6 // ペイロード: 開始/終了のマジック列
	CmdSetEnergy      Command = 0xAF // ペイロード: エネルギー LE16
)

// ErrPayloadTooLarge は16bit長フィールドを超えるペイロード。
var ErrPayloadTooLarge = errors.New("frame payload exceeds 16-bit length field")

// Frame は1つのコマンドフレーム。
type Frame struct {
	Command Command
	Flags   byte
	Payload []byte
}

// Checksum はフレームのチェックサムを計算する。
// キャッシュは持たず、呼ばれるたびに現在の内容から計算し直す。
func (f Frame) Checksum() byte {
	n := len(f.Payload)
	crc := crc8Update(0, byte(f.Command))
	crc = crc8Update(crc, f.Flags)
	crc = crc8Update(crc, byte(n&0xFF))
	crc = crc8Update(crc, byte(n>>8))
	for _, b := range f.Payload {
		crc = crc8Update(crc, b)
	}
	return crc
}

// Marshal はフレームをワイヤ形式にシリアライズする。
func (f Frame) Marshal() ([]byte, error) {
	n := len(f.Payload)
	if n > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, n)
	}

	out := make([]byte, 0, n+frameOverhead)
	out = append(out, syncByte1, syncByte2, byte(f.Command), f.Flags, byte(n&0xFF), byte(n>>8))
	out = append(out, f.Payload...)
	out = append(out, f.Checksum(), terminatorByte)
	return out, nil
}

// ParseFrame はワイヤ形式のバイト列を読み戻し、同期バイト・長さ・
// チェックサム・終端を検証する。受信側検証とテストで使う。
func ParseFrame(b []byte) (Frame, error) {
	if len(b) < frameOverhead {
		return Frame{}, fmt.Errorf("frame too short: %d bytes", len(b))
	}
	if b[0] != syncByte1 || b[1] != syncByte2 {
		return Frame{}, fmt.Errorf("bad sync bytes: %#02x %#02x", b[0], b[1])
	}
	n := int(b[4]) | int(b[5])<<8
	if len(b) != n+frameOverhead {
		return Frame{}, fmt.Errorf("frame length mismatch: header says %d payload bytes, frame has %d", n, len(b)-frameOverhead)
	}
	if b[len(b)-1] != terminatorByte {
		return Frame{}, fmt.Errorf("bad terminator byte: %#02x", b[len(b)-1])
	}

	f := Frame{
		Command: Command(b[2]),
		Flags:   b[3],
		Payload: append([]byte(nil), b[6:6+n]...),
	}
	if got, want := b[6+n], f.Checksum(); got != want {
		return Frame{}, fmt.Errorf("checksum mismatch: got %#02x, want %#02x", got, want)
	}
	return f, nil
}

func crc8Update(crc, b byte) byte {
	crc ^= b
	for i := 0; i < 8; i++ {
		if crc&0x80 != 0 {
			crc = crc<<1 ^ 0x07
		} else {
			crc <<= 1
		}
	}
	return crc
}
