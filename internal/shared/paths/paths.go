package paths

import (
	"os"
	"path/filepath"
)

// GetDataDir はアプリのデータディレクトリを返す。
// CATPRINT_DATA_DIR が設定されていればそれを優先する。
func GetDataDir() string {
	if dir := os.Getenv("CATPRINT_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".catprint"
	}
	return filepath.Join(home, ".catprint")
}

// GetDBPath は印刷履歴DBのパスを返す。
func GetDBPath() string {
	return filepath.Join(GetDataDir(), "history.db")
}

// GetOutputDir はデバッグ画像の出力先ディレクトリを返す。
func GetOutputDir() string {
	return filepath.Join(GetDataDir(), "output")
}

// EnsureDataDirs creates the data directories if they don't exist yet.
func EnsureDataDirs() error {
	for _, dir := range []string{GetDataDir(), GetOutputDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
