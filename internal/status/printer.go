package status

import (
	"sync"

	"github.com/nantokaworks/catprint/internal/shared/logger"
	"go.uber.org/zap"
)

// PrinterStatusChangeCallback is called when printer connection status changes
type PrinterStatusChangeCallback func(connected bool)

var (
	mu               sync.RWMutex
	printerConnected bool
	printerCallbacks []PrinterStatusChangeCallback
)

// SetPrinterConnected sets the printer connection status
func SetPrinterConnected(connected bool) {
	mu.Lock()
	previousStatus := printerConnected
	printerConnected = connected
	callbacks := make([]PrinterStatusChangeCallback, len(printerCallbacks))
	copy(callbacks, printerCallbacks)
	mu.Unlock()

	// 状態が変わったときだけ通知する
	if previousStatus != connected {
		logger.Debug("Printer connection status changed", zap.Bool("connected", connected))

		for _, callback := range callbacks {
			if callback != nil {
				callback(connected)
			}
		}
	}
}

// IsPrinterConnected returns the printer connection status
func IsPrinterConnected() bool {
	mu.RLock()
	defer mu.RUnlock()
	return printerConnected
}

// RegisterPrinterStatusChangeCallback registers a callback for printer status changes
func RegisterPrinterStatusChangeCallback(callback PrinterStatusChangeCallback) {
	mu.Lock()
	defer mu.Unlock()
	printerCallbacks = append(printerCallbacks, callback)
}
