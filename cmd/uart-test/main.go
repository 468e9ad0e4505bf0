//go:build rp2040 || rp2350

// uart-test is a bring-up diagnostic for the rig's command link: it echoes
// every received byte and prints throughput counters, so wiring and baud can
// be verified before flashing the real firmware.
package main

import (
	"time"

	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"rigcode-go/types"
	"rigcode-go/x/conv"
)

func main() {
	time.Sleep(3 * time.Second)

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	cfg := types.Default()
	u := uartx.UART0
	if err := u.Configure(uartx.UARTConfig{
		BaudRate: cfg.Baud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	}); err != nil {
		println("Error: uart0 configure failed")
		for {
			time.Sleep(time.Hour)
		}
	}
	println("[uart-test] echoing on uart0 at", cfg.Baud)

	var rx, tx uint64
	buf := make([]byte, 64)
	report := time.Now()

	for {
		<-u.Readable()
		for {
			n := u.TryRead(buf)
			if n == 0 {
				break
			}
			rx += uint64(n)
			if m, err := u.Write(buf[:n]); err == nil {
				tx += uint64(m)
			}
			led.Set(!led.Get())
		}
		if time.Since(report) >= 5*time.Second {
			report = time.Now()
			line := append([]byte("[uart-test] rx="), conv.AppendUint(nil, rx)...)
			line = append(line, " tx="...)
			line = conv.AppendUint(line, tx)
			println(string(line))
		}
	}
}
