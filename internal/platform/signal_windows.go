//go:build windows

package platform

import "os"

var terminationSignals = []os.Signal{os.Interrupt}
