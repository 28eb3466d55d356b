package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/nantokaworks/catprint/internal/shared/logger"
	"go.uber.org/zap"
)

// Env はアプリ全体で参照する設定値を保持する。
// LoadEnv 後は Value 経由で読み取る。
type Env struct {
	// プリンター設定
	PrinterAddress *string // BLEアドレス（Linux: MAC / macOS: UUID）
	PrinterName    string  // アドバタイズ名での指定（GT01, GB01, GB02, GB03）
	Quality        int     // 印字品質レベル 1-5
	Energy         int     // 印字エネルギー（0-65535）
	FeedLines      int     // 印刷後のフィード行数

	// 画像処理設定
	Algorithm   string  // 二値化アルゴリズム
	BlackPoint  uint8   // この値以下の輝度を黒に潰す
	AutoRotate  bool    // 横長画像を自動で縦向きに回転
	RotatePrint bool    // 出力を180度回転

	// テキスト描画設定
	FontPath string
	FontSize float64

	// 転送設定
	ChunkDelayMs   int // チャンク送信間の待ち時間
	ScanTimeoutSec int // BLEスキャンのタイムアウト

	// 動作設定
	DryRunMode  bool
	DebugOutput bool
	DebugMode   bool
}

// Value は読み込み済みの設定。LoadEnv を呼ぶまではゼロ値。
var Value Env

// LoadEnv は .env と環境変数から設定を読み込む。
// .env が無いのは通常運用なのでエラーにしない。
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables only")
	}

	Value = Env{
		PrinterAddress: getStringPtr("PRINTER_ADDRESS"),
		PrinterName:    getString("PRINTER_NAME", ""),
		Quality:        getInt("PRINT_QUALITY", 3),
		Energy:         getInt("PRINT_ENERGY", 12000),
		FeedLines:      getInt("FEED_LINES", 80),

		Algorithm:   getString("ALGORITHM", "floyd-steinberg"),
		BlackPoint:  uint8(getInt("BLACK_POINT", 0)),
		AutoRotate:  getBool("AUTO_ROTATE", false),
		RotatePrint: getBool("ROTATE_PRINT", false),

		FontPath: getString("FONT_PATH", ""),
		FontSize: getFloat("FONT_SIZE", 24),

		ChunkDelayMs:   getInt("CHUNK_DELAY_MS", 20),
		ScanTimeoutSec: getInt("SCAN_TIMEOUT", 10),

		DryRunMode:  getBool("DRY_RUN_MODE", false),
		DebugOutput: getBool("DEBUG_OUTPUT", false),
		DebugMode:   getBool("DEBUG_MODE", false),
	}

	logger.Debug("Environment loaded",
		zap.String("algorithm", Value.Algorithm),
		zap.Int("quality", Value.Quality),
		zap.Int("energy", Value.Energy),
		zap.Bool("dry_run", Value.DryRunMode))
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getStringPtr(key string) *string {
	if v := os.Getenv(key); v != "" {
		return &v
	}
	return nil
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("Invalid integer in environment, using default",
			zap.String("key", key), zap.String("value", v), zap.Int("default", def))
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.Warn("Invalid float in environment, using default",
			zap.String("key", key), zap.String("value", v), zap.Float64("default", def))
		return def
	}
	return f
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "true" || v == "1"
}
