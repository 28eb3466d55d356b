package transport

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-ble/ble"
	"github.com/nantokaworks/catprint/internal/shared/logger"
	"github.com/nantokaworks/catprint/internal/status"
	"go.uber.org/zap"
)

// キャットプリンターのGATT。サービス 0xAE30 配下の 0xAE01 に
// コマンドストリームを書き込む。
var (
	printerService = ble.UUID16(0xAE30)
	printerTxChar  = ble.UUID16(0xAE01)
)

// アドバタイズ名での自動検出対象。
var printerNames = map[string]bool{
	"GT01": true,
	"GB01": true,
	"GB02": true,
	"GB03": true,
}

const (
	// ATTヘッダ3バイトを差し引いた分が1チャンクの上限になる
	attHeaderBytes = 3

	// MTU交換に失敗したときの保守的なフォールバック
	fallbackMTU = 99
)

// Options はBLEクライアントの動作設定。
type Options struct {
	ScanTimeout time.Duration // 接続時のスキャン上限
	ChunkDelay  time.Duration // チャンク書き込み間の待ち時間
}

// Client はキャットプリンターへのBLE接続。
type Client struct {
	device    ble.Device
	client    ble.Client
	tx        *ble.Characteristic
	mtu       int
	opts      Options
	connected bool
}

// NewClient はBLEデバイスを初期化してクライアントを作る。
func NewClient(opts Options) (*Client, error) {
	if err := ensureBluetoothSafeToUse(); err != nil {
		return nil, err
	}
	if opts.ScanTimeout <= 0 {
		opts.ScanTimeout = 10 * time.Second
	}

	d, err := newDevice()
	if err != nil {
		return nil, wrapBluetoothInitError(err)
	}
	ble.SetDefaultDevice(d)

	return &Client{device: d, opts: opts}, nil
}

// Connect はアドレスまたはアドバタイズ名でプリンターに接続する。
// target が空の場合はサービスUUIDと既知の名前で自動検出する。
func (c *Client) Connect(ctx context.Context, target string) error {
	if c.connected {
		return nil
	}

	if target == "" {
		logger.Info("Scanning for a cat printer (auto discovery)",
			zap.Duration("timeout", c.opts.ScanTimeout))
	} else {
		logger.Info("Connecting to printer", zap.String("target", target))
	}

	scanCtx := ble.WithSigHandler(context.WithTimeout(ctx, c.opts.ScanTimeout))
	cl, err := ble.Connect(scanCtx, func(a ble.Advertisement) bool {
		if target != "" {
			return strings.EqualFold(a.Addr().String(), target) ||
				strings.EqualFold(a.LocalName(), target)
		}
		if printerNames[strings.ToUpper(a.LocalName())] {
			return true
		}
		for _, s := range a.Services() {
			if s.Equal(printerService) {
				return true
			}
		}
		return false
	})
	if err != nil {
		status.SetPrinterConnected(false)
		return fmt.Errorf("failed to connect to printer: %w", err)
	}

	mtu, err := cl.ExchangeMTU(512)
	if err != nil {
		logger.Warn("MTU exchange failed, using fallback", zap.Int("fallback", fallbackMTU), zap.Error(err))
		mtu = fallbackMTU
	}

	profile, err := cl.DiscoverProfile(true)
	if err != nil {
		_ = cl.CancelConnection()
		status.SetPrinterConnected(false)
		return fmt.Errorf("failed to discover GATT profile: %w", err)
	}

	tx := profile.FindCharacteristic(ble.NewCharacteristic(printerTxChar))
	if tx == nil {
		_ = cl.CancelConnection()
		status.SetPrinterConnected(false)
		return fmt.Errorf("printer TX characteristic %s not found", printerTxChar)
	}

	// BLE接続直後のパラメータネゴシエーション完了を待つ
	time.Sleep(500 * time.Millisecond)

	c.client = cl
	c.tx = tx
	c.mtu = mtu
	c.connected = true
	status.SetPrinterConnected(true)

	logger.Info("Connected to printer",
		zap.String("address", cl.Addr().String()),
		zap.Int("mtu", mtu),
		zap.Int("chunk_size", c.ChunkSize()))
	return nil
}

// ChunkSize はネゴシエート済みリンクで送れる最大ペイロードを返す。
func (c *Client) ChunkSize() int {
	if c.mtu <= attHeaderBytes {
		return fallbackMTU - attHeaderBytes
	}
	return c.mtu - attHeaderBytes
}

// Send はコマンドストリームをチャンクに分けて順に書き込む。
// ctx がキャンセルされたら以降のチャンクは生成も送信もしない。
func (c *Client) Send(ctx context.Context, r io.Reader) error {
	if !c.connected {
		return fmt.Errorf("printer not connected")
	}

	chunker, err := NewChunker(r, c.ChunkSize())
	if err != nil {
		return err
	}

	sent := 0
	chunks := 0
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("send aborted: %w", err)
		}

		chunk, err := chunker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read command stream: %w", err)
		}

		if err := c.client.WriteCharacteristic(c.tx, chunk, true); err != nil {
			return fmt.Errorf("failed to write chunk %d: %w", chunks, err)
		}
		sent += len(chunk)
		chunks++

		// プリンター側バッファを溢れさせないための送信ペーシング
		if c.opts.ChunkDelay > 0 {
			time.Sleep(c.opts.ChunkDelay)
		}
	}

	logger.Info("Command stream sent",
		zap.Int("bytes", sent),
		zap.Int("chunks", chunks))
	return nil
}

// Disconnect はプリンター接続を切断する。
func (c *Client) Disconnect() error {
	if c.client != nil && c.connected {
		logger.Info("Disconnecting printer")
		if err := c.client.CancelConnection(); err != nil {
			logger.Warn("Failed to cancel connection", zap.Error(err))
		}
		c.connected = false
		c.client = nil
		c.tx = nil
		status.SetPrinterConnected(false)
	}
	return nil
}

// Stop は切断に加えてBLEデバイスも解放する。
func (c *Client) Stop() error {
	_ = c.Disconnect()
	if c.device != nil {
		err := c.device.Stop()
		c.device = nil
		return err
	}
	return nil
}

// IsConnected は接続状態を返す。
func (c *Client) IsConnected() bool {
	return c.connected
}
