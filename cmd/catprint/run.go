package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/nantokaworks/catprint/internal/env"
	"github.com/nantokaworks/catprint/internal/imgprep"
	"github.com/nantokaworks/catprint/internal/localdb"
	"github.com/nantokaworks/catprint/internal/mono"
	"github.com/nantokaworks/catprint/internal/protocol"
	"github.com/nantokaworks/catprint/internal/shared/logger"
	"github.com/nantokaworks/catprint/internal/shared/paths"
	"github.com/nantokaworks/catprint/internal/textimg"
	"github.com/nantokaworks/catprint/internal/transport"
	"go.uber.org/zap"
)

// dryRunChunkSize はドライラン時に使う仮のリンクペイロードサイズ。
const dryRunChunkSize = 96

func run(opts cliOptions) error {
	if err := paths.EnsureDataDirs(); err != nil {
		logger.Warn("Failed to ensure data directories", zap.Error(err))
	}
	if _, err := localdb.SetupDB(paths.GetDBPath()); err != nil {
		// 履歴が書けなくても印刷は続行する
		logger.Warn("Failed to open print history database", zap.Error(err))
	}

	// アルゴリズムは重い処理を始める前に検証する
	selector := opts.algorithm
	if selector == "" {
		selector = env.Value.Algorithm
	}
	algo, err := mono.ParseAlgorithm(selector)
	if err != nil {
		return err
	}

	img, err := buildSourceImage(opts)
	if err != nil {
		return err
	}
	if img == nil {
		logger.Info("No input provided to print. Exiting.")
		return nil
	}

	buf := imgprep.Prepare(img, imgprep.Options{
		AutoRotate: env.Value.AutoRotate,
		Rotate180:  env.Value.RotatePrint,
		BlackPoint: env.Value.BlackPoint,
	})

	bitmap, err := mono.Binarize(buf, algo, mono.Options{})
	if err != nil {
		return err
	}

	jobID, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate job ID: %w", err)
	}
	logger.Info("Print job prepared",
		zap.String("job_id", jobID),
		zap.String("algorithm", string(algo)),
		zap.Int("width", bitmap.Width()),
		zap.Int("height", bitmap.Height()))

	if env.Value.DebugOutput {
		saveDebugBitmap(jobID, bitmap)
	}

	feed := env.Value.FeedLines
	if opts.feedLines >= 0 {
		feed = opts.feedLines
	}
	encoder := protocol.NewJobEncoder(bitmap, protocol.JobOptions{
		Quality:   env.Value.Quality,
		Energy:    uint16(env.Value.Energy),
		FeedLines: feed,
	})

	start := time.Now()
	var sentBytes int
	var device string

	if opts.dryRun || env.Value.DryRunMode {
		sentBytes, err = runDry(encoder)
	} else {
		device = resolveDevice(opts)
		sentBytes, err = runPrint(encoder, device, bitmap.Height())
	}
	if err != nil {
		return err
	}

	record := localdb.PrintRecord{
		ID:        jobID,
		Device:    device,
		Algorithm: string(algo),
		Width:     bitmap.Width(),
		Height:    bitmap.Height(),
		Bytes:     sentBytes,
		Duration:  time.Since(start),
		DryRun:    opts.dryRun || env.Value.DryRunMode,
	}
	if err := localdb.RecordPrint(record); err != nil {
		logger.Warn("Failed to record print history", zap.Error(err))
	}
	return nil
}

// buildSourceImage は入力オプションから印刷対象の画像を作る。
// 入力が何も無ければ nil を返す。
func buildSourceImage(opts cliOptions) (image.Image, error) {
	switch {
	case opts.qrData != "":
		return textimg.RenderQR(opts.qrData)

	case opts.imagePath != "":
		return imgprep.Load(opts.imagePath)

	case opts.text != "":
		return renderText(opts.text, opts.fontSize)

	case opts.filename != "":
		b, err := os.ReadFile(opts.filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read text file: %w", err)
		}
		return renderText(string(b), opts.fontSize)
	}
	return nil, nil
}

func renderText(text string, fontSize float64) (image.Image, error) {
	if fontSize <= 0 {
		fontSize = env.Value.FontSize
	}
	face, err := textimg.LoadFace(env.Value.FontPath, fontSize)
	if err != nil {
		return nil, err
	}
	return textimg.Render(text, face), nil
}

// runDry はストリームをチャンク化だけして捨てる。
func runDry(encoder *protocol.JobEncoder) (int, error) {
	data, err := io.ReadAll(encoder)
	if err != nil {
		return 0, err
	}
	chunks, err := transport.ChunkAll(data, dryRunChunkSize)
	if err != nil {
		return 0, err
	}
	logger.Info("Dry-run mode: skipping actual printing",
		zap.Int("bytes", len(data)),
		zap.Int("chunks", len(chunks)),
		zap.Int("chunk_size", dryRunChunkSize))
	return len(data), nil
}

// runPrint はBLEで接続してストリームを送信する。
func runPrint(encoder *protocol.JobEncoder, device string, height int) (int, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := transport.NewClient(transport.Options{
		ScanTimeout: time.Duration(env.Value.ScanTimeoutSec) * time.Second,
		ChunkDelay:  time.Duration(env.Value.ChunkDelayMs) * time.Millisecond,
	})
	if err != nil {
		return 0, err
	}
	defer client.Stop()

	if err := client.Connect(ctx, device); err != nil {
		return 0, err
	}

	counted := &countingReader{r: encoder}
	if err := client.Send(ctx, counted); err != nil {
		return counted.n, err
	}

	// Cat printers are slow (~10mm/s). Wait for the mechanism to finish
	// before dropping the connection.
	waitSec := 2 + height/60
	if waitSec < 3 {
		waitSec = 3
	}
	logger.Info("Print finished, waiting for the printer to catch up",
		zap.Int("height_px", height),
		zap.Int("wait_seconds", waitSec))
	select {
	case <-time.After(time.Duration(waitSec) * time.Second):
	case <-ctx.Done():
	}

	return counted.n, nil
}

func resolveDevice(opts cliOptions) string {
	if opts.device != "" {
		return opts.device
	}
	if env.Value.PrinterAddress != nil {
		return *env.Value.PrinterAddress
	}
	return env.Value.PrinterName
}

func saveDebugBitmap(jobID string, bm *mono.Bitmap) {
	path := filepath.Join(paths.GetOutputDir(), fmt.Sprintf("%s.png", jobID))
	f, err := os.Create(path)
	if err != nil {
		logger.Warn("Failed to create debug output file", zap.Error(err))
		return
	}
	defer f.Close()

	if err := png.Encode(f, bm.Image()); err != nil {
		logger.Warn("Failed to encode debug bitmap", zap.Error(err))
		return
	}
	logger.Info("Debug bitmap saved", zap.String("path", path))
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}
