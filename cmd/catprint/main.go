package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nantokaworks/catprint/internal/env"
	"github.com/nantokaworks/catprint/internal/mono"
	"github.com/nantokaworks/catprint/internal/protocol"
	"github.com/nantokaworks/catprint/internal/shared/logger"
	"github.com/nantokaworks/catprint/internal/transport"
	"github.com/nantokaworks/catprint/internal/version"
	"go.uber.org/zap"
)

// 終了コード。エラー種別ごとに呼び出し元が区別できるようにする。
const (
	exitOK = iota
	exitGeneric
	exitInvalidAlgorithm
	exitUnsupportedWidth
	exitPayloadTooLarge
	exitInvalidChunkSize
)

type cliOptions struct {
	filename  string
	text      string
	imagePath string
	qrData    string
	device    string
	algorithm string
	fontSize  float64
	feedLines int
	dryRun    bool
}

func main() {
	var opts cliOptions
	var logLevel string
	var showVersion bool

	flag.StringVar(&opts.text, "t", "", "text string to print (use \\n for new lines)")
	flag.StringVar(&opts.imagePath, "i", "", "path to an image file (PNG/JPEG) to print")
	flag.StringVar(&opts.qrData, "qr", "", "print the given data as a QR code")
	flag.StringVar(&opts.device, "d", "", "printer BLE address (MAC on Linux, UUID on macOS) or advertised name (GT01, GB01, GB02, GB03); auto discovery when omitted")
	flag.StringVar(&opts.algorithm, "a", "", "binarization algorithm: mean-threshold, floyd-steinberg, halftone, none")
	flag.Float64Var(&opts.fontSize, "f", 0, "font size for text printing")
	flag.IntVar(&opts.feedLines, "feed", -1, "paper feed lines after printing")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "encode and chunk without sending to a printer")
	flag.StringVar(&logLevel, "l", "info", "log level: debug, info, warn, error")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: catprint [flags] [filename]\n\nPrints text, images or QR codes on a cat thermal printer.\nThe optional filename is a text file to print.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	opts.filename = flag.Arg(0)

	if showVersion {
		fmt.Println(version.String())
		return
	}

	logger.SetLevel(logLevel)
	defer logger.Sync()

	env.LoadEnv()
	if env.Value.DebugMode {
		logger.SetLevel("debug")
	}

	if err := run(opts); err != nil {
		logger.Error("Print failed", zap.Error(err))
		logger.Sync()
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, mono.ErrInvalidAlgorithm):
		return exitInvalidAlgorithm
	case errors.Is(err, mono.ErrUnsupportedWidth):
		return exitUnsupportedWidth
	case errors.Is(err, protocol.ErrPayloadTooLarge):
		return exitPayloadTooLarge
	case errors.Is(err, transport.ErrInvalidChunkSize):
		return exitInvalidChunkSize
	default:
		return exitGeneric
	}
}
