//go:build !linux && !darwin

package transport

import (
	"fmt"
	"runtime"

	"github.com/go-ble/ble"
)

func newDevice() (ble.Device, error) {
	return nil, fmt.Errorf("BLE transport is not supported on %s", runtime.GOOS)
}
