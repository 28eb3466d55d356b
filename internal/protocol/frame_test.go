package protocol

import (
	"bytes"
	"errors"
	"testing"
)

// crc8Ref はテスト側の独立した参照実装（多項式 0x07, 初期値 0）。
func crc8Ref(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x07
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

func TestFrameMarshalLayout(t *testing.T) {
	f := Frame{Command: CmdFeedPaper, Payload: []byte{0x50, 0x00}}
	b, err := f.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := []byte{0x51, 0x78, 0xA1, 0x00, 0x02, 0x00, 0x50, 0x00, crc8Ref([]byte{0xA1, 0x00, 0x02, 0x00, 0x50, 0x00}), 0xFF}
	if !bytes.Equal(b, want) {
		t.Fatalf("Marshal() = %x, want %x", b, want)
	}
}

func TestFrameChecksumRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
	}{
		{name: "empty payload", frame: Frame{Command: CmdDeviceState}},
		{name: "feed", frame: FeedLines(80)},
		{name: "quality", frame: SetQuality(3)},
		{name: "energy", frame: SetEnergy(12000)},
		{name: "lattice start", frame: PrintStart()},
		{name: "lattice end", frame: PrintEnd()},
		{name: "scanline", frame: DrawRow(bytes.Repeat([]byte{0xA5}, 48))},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.frame.Marshal()
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}

			// 放出されたバイト列から独立に再計算したチェックサムが
			// 埋め込み値と一致すること
			embedded := b[len(b)-2]
			if got := crc8Ref(b[2 : len(b)-2]); got != embedded {
				t.Fatalf("independent checksum = %#02x, embedded = %#02x", got, embedded)
			}

			parsed, err := ParseFrame(b)
			if err != nil {
				t.Fatalf("ParseFrame() error = %v", err)
			}
			if parsed.Command != tc.frame.Command || parsed.Flags != tc.frame.Flags {
				t.Fatalf("ParseFrame() header = (%#02x,%#02x), want (%#02x,%#02x)",
					parsed.Command, parsed.Flags, tc.frame.Command, tc.frame.Flags)
			}
			if !bytes.Equal(parsed.Payload, tc.frame.Payload) {
				t.Fatalf("ParseFrame() payload = %x, want %x", parsed.Payload, tc.frame.Payload)
			}
		})
	}
}

func TestFramePayloadTooLarge(t *testing.T) {
	f := Frame{Command: CmdDrawRow, Payload: make([]byte, MaxPayload+1)}
	_, err := f.Marshal()
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("Marshal() error = %v, want ErrPayloadTooLarge", err)
	}
}

func TestParseFrameRejectsCorruption(t *testing.T) {
	valid, err := FeedLines(1).Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	corrupt := func(b []byte, i int) []byte {
		c := append([]byte(nil), b...)
		c[i] ^= 0x01
		return c
	}

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "bad sync", input: corrupt(valid, 0)},
		{name: "bad length", input: corrupt(valid, 4)},
		{name: "bad payload", input: corrupt(valid, 6)},
		{name: "bad checksum", input: corrupt(valid, len(valid)-2)},
		{name: "bad terminator", input: corrupt(valid, len(valid)-1)},
		{name: "truncated", input: valid[:4]},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseFrame(tc.input); err == nil {
				t.Fatalf("ParseFrame() accepted corrupted frame")
			}
		})
	}
}

func TestFeedLinesClamp(t *testing.T) {
	if got := FeedLines(-5).Payload; !bytes.Equal(got, []byte{0x00, 0x00}) {
		t.Fatalf("FeedLines(-5) payload = %x, want 0000", got)
	}
	if got := FeedLines(0x20000).Payload; !bytes.Equal(got, []byte{0xFF, 0xFF}) {
		t.Fatalf("FeedLines(0x20000) payload = %x, want ffff", got)
	}
}
