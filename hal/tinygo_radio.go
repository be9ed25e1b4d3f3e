//go:build tinygo && baremetal && espat

package hal

import (
	"fmt"
	"machine"
	"net/netip"
	"strconv"

	"tinygo.org/x/drivers/espat"
	"tinygo.org/x/drivers/netlink"
)

// Link settings for an ESP8266/ESP32 AT-firmware module on UART1
// (GP8 TX, GP9 RX). Set them at build time, e.g.
//
//	tinygo flash -target pico -tags espat \
//	  -ldflags "-X dualjoy/hal.radioSSID=field -X dualjoy/hal.radioPass=secret"
var (
	radioSSID   string
	radioPass   string
	radioSelf   = "02:00:00:00:00:01"
	radioPort   = "4210"
	radioTarget = "192.168.4.255:4211"
)

func newRadio(log Logger) Transport {
	self, err := ParseAddress(radioSelf)
	if err != nil {
		log.WriteLineString(fmt.Sprintf("hal: radio: self: %v", err))
		return nullTransport{}
	}
	port, err := strconv.ParseUint(radioPort, 10, 16)
	if err != nil {
		log.WriteLineString(fmt.Sprintf("hal: radio: port %q: %v", radioPort, err))
		return nullTransport{}
	}
	target, err := netip.ParseAddrPort(radioTarget)
	if err != nil {
		log.WriteLineString(fmt.Sprintf("hal: radio: target: %v", err))
		return nullTransport{}
	}

	esp := espat.NewDevice(&espat.Config{
		Uart: machine.UART1,
		Tx:   machine.GP8,
		Rx:   machine.GP9,
	})
	return newRadioTransport(esp, RadioConfig{
		Self: self,
		WiFi: esp,
		Join: netlink.ConnectParams{
			Ssid:       radioSSID,
			Passphrase: radioPass,
			Retries:    3,
		},
		Local:  uint16(port),
		Target: target,
	})
}
