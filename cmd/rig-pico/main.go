//go:build rp2040 || rp2350

// rig-pico is the firmware entrypoint: one controller loop on UART0, the
// tachometer interrupt attached, and the monitor echoing bus events to the
// debug console.
package main

import (
	"context"
	"time"

	"rigcode-go/bus"
	"rigcode-go/services/heartbeat"
	"rigcode-go/services/monitor"
	"rigcode-go/services/rig"
	"rigcode-go/services/rig/platform"
	"rigcode-go/types"
)

func main() {
	// Let the USB console attach before anything prints.
	time.Sleep(3 * time.Second)
	ctx := context.Background()

	cfg := types.Default()

	println("[main] configuring board ...")
	board, err := platform.NewBoard(cfg)
	if err != nil {
		println("Error: board setup failed:", err.Error())
		halt()
	}

	b := bus.New(8)
	controller := rig.New(cfg, board.Deps(b, time.Now))

	if err := board.AttachTacho(controller.Counter()); err != nil {
		println("Error: tacho interrupt:", err.Error())
		halt()
	}

	println("[main] starting monitor ...")
	mon := &monitor.Service{}
	_ = mon.Start(ctx, b)

	hb := &heartbeat.Service{Interval: 5 * time.Second}
	_ = hb.Start(ctx, b)

	println("[main] starting controller loop ...")
	controller.Run(ctx)
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
