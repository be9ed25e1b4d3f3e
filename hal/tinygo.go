//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
)

type tinyGoHAL struct {
	logger *uartLogger
	disp   Display
	in     Input
	net    Transport
}

// New returns the controller board HAL: Raspberry Pi Pico, SSD1306 128x64
// OLED on I2C0 (GP4/GP5), sticks on ADC0..ADC3, buttons on GP15/GP14.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// Built with -tags espat, the link runs over an ESP-AT WiFi module on UART1
// (see tinygo_radio.go); otherwise the transport reports ErrNotInitialized
// and the controller runs in local mode.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	var disp Display
	if d, err := newOLEDDisplay(); err == nil {
		disp = d
	} else {
		logger.WriteLineString(fmt.Sprintf("hal: display: %v", err))
		disp = newMemDisplay(128, 64)
	}

	return &tinyGoHAL{
		logger: logger,
		disp:   disp,
		in:     newBoardInput(),
		net:    newRadio(logger),
	}
}

func (h *tinyGoHAL) Logger() Logger       { return h.logger }
func (h *tinyGoHAL) Display() Display     { return h.disp }
func (h *tinyGoHAL) Input() Input         { return h.in }
func (h *tinyGoHAL) Transport() Transport { return h.net }
