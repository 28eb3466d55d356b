package transport

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

func isRunningInAppBundleDarwin() bool {
	if runtime.GOOS != "darwin" {
		return false
	}
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	// When launched as a proper macOS app (via LaunchServices), the executable lives under:
	//   Something.app/Contents/MacOS/<exe>
	// BLE access from a plain CLI process can SIGABRT if usage descriptions aren't available.
	return strings.Contains(exe, ".app/Contents/MacOS/")
}

// ensureBluetoothSafeToUse prevents macOS-specific abort traps when CoreBluetooth is touched
// from a non-bundled CLI process (missing Info.plist usage descriptions).
func ensureBluetoothSafeToUse() error {
	if runtime.GOOS != "darwin" {
		return nil
	}
	if isRunningInAppBundleDarwin() {
		return nil
	}
	if os.Getenv("CATPRINT_ALLOW_UNBUNDLED_BLE") == "true" {
		return nil
	}
	return fmt.Errorf("macOSでは .app 以外から起動するとBluetoothで abort trap が出ることがあるだす（CATPRINT_ALLOW_UNBUNDLED_BLE=true で強行できるだす）")
}

func wrapBluetoothInitError(err error) error {
	if err == nil {
		return nil
	}
	// Improve the common go-ble error message on macOS.
	if runtime.GOOS == "darwin" && strings.Contains(err.Error(), "central manager has invalid state") {
		return fmt.Errorf("%w (macOS: Bluetoothがオンか、システム設定 > プライバシーとセキュリティ > Bluetooth でこのアプリを許可するだす)", err)
	}
	return err
}
