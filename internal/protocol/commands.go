package protocol

// 制御ディレクティブのフレーム生成。どの関数も共有状態を持たず、
// 同じ入力から常に同じフレームを返す。

// 印刷開始/終了を示すラティス制御のマジックペイロード。
var (
	latticeStart = []byte{0xAA, 0x55, 0x17, 0x38, 0x44, 0x5F, 0x5F, 0x5F, 0x44, 0x38, 0x2C}
	latticeEnd   = []byte{0xAA, 0x55, 0x17, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x17}
)

// PrintStart は印刷ジョブの開始フレームを返す。
func PrintStart() Frame {
	return Frame{Command: CmdLatticeControl, Payload: append([]byte(nil), latticeStart...)}
}

// PrintEnd は印刷ジョブの終了フレームを返す。
func PrintEnd() Frame {
	return Frame{Command: CmdLatticeControl, Payload: append([]byte(nil), latticeEnd...)}
}

// FeedLines は n 行の紙送りフレームを返す。n は 0-65535 にクランプする。
func FeedLines(n int) Frame {
	if n < 0 {
		n = 0
	}
	if n > 0xFFFF {
		n = 0xFFFF
	}
	return Frame{Command: CmdFeedPaper, Payload: []byte{byte(n & 0xFF), byte(n >> 8)}}
}

// SetQuality は品質レベル（1-5）の設定フレームを返す。
func SetQuality(level int) Frame {
	if level < 1 {
		level = 1
	}
	if level > 5 {
		level = 5
	}
	// 実機は 0x31-0x35 を品質レベルとして受け取る
	return Frame{Command: CmdSetQuality, Payload: []byte{byte(0x30 + level)}}
}

// SetEnergy は印字エネルギーの設定フレームを返す。
func SetEnergy(energy uint16) Frame {
	return Frame{Command: CmdSetEnergy, Payload: []byte{byte(energy & 0xFF), byte(energy >> 8)}}
}

// DeviceState はデバイス状態要求フレームを返す。
func DeviceState() Frame {
	return Frame{Command: CmdDeviceState, Payload: []byte{0x00}}
}

// DrawRow はパック済みスキャンライン1行のデータフレームを返す。
func DrawRow(line PackedLine) Frame {
	return Frame{Command: CmdDrawRow, Payload: []byte(line)}
}
