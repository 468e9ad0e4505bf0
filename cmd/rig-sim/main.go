//go:build !rp2040 && !rp2350

// rig-sim runs the controller against simulated instruments, speaking the
// wire protocol on stdin/stdout. Useful for exercising host tooling without
// a board:
//
//	echo READ_ALL | rig-sim -rpm 3000 -raw 102 -temp 24.75
package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"rigcode-go/bus"
	"rigcode-go/drivers/max6675"
	"rigcode-go/services/bridge"
	"rigcode-go/services/monitor"
	"rigcode-go/services/rig"
	"rigcode-go/services/rig/platform"
	"rigcode-go/types"
	"rigcode-go/x/ramp"
)

var (
	shaftRPM  = flag.Uint("rpm", 0, "simulated shaft speed, revolutions per minute")
	spinup    = flag.Duration("spinup", 3*time.Second, "time for the shaft to reach speed")
	rawADC    = flag.Uint("raw", 102, "simulated pressure ADC count (0..1023)")
	tempC     = flag.Float64("temp", 24.75, "simulated thermocouple reading, Celsius")
	openProbe = flag.Bool("open", false, "simulate a detached thermocouple")
	jsonPath  = flag.String("json", "", "append bus events as JSON lines to this file")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := types.Default()
	board := platform.NewBoard(cfg, os.Stdout, max6675.ErrOpenCircuit)
	board.ADC.SetRaw(uint16(*rawADC))
	board.Thermo.SetCelsius(float32(*tempC))
	board.Thermo.SetOpen(*openProbe)

	b := bus.New(8)
	controller := rig.New(cfg, board.Deps(b, time.Now))
	_ = board.AttachTacho(controller.Counter())

	mon := &monitor.Service{}
	_ = mon.Start(ctx, b)

	if *jsonPath != "" {
		f, err := os.OpenFile(*jsonPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			glog.Exitf("json log: %v", err)
		}
		defer f.Close()
		_ = bridge.New(f).Start(ctx, b)
	}

	if *shaftRPM > 0 {
		go spinShaft(ctx, board, uint32(*shaftRPM), cfg.Tacho.PulsesPerRev, *spinup)
	}
	go pumpStdin(ctx, board)

	glog.V(1).Info("simulator running")
	controller.Run(ctx)
}

// spinShaft ramps the simulated shaft up to speed, then emits tachometer
// edges at the rate a real shaft would.
func spinShaft(ctx context.Context, board *platform.Board, rpm, ppr uint32, spinup time.Duration) {
	var level atomic.Uint32
	go ramp.Linear(0, rpm, rpm, spinup, 30,
		func(d time.Duration) bool {
			select {
			case <-ctx.Done():
				return false
			case <-time.After(d):
				return true
			}
		},
		func(l uint32) { level.Store(l) })

	for ctx.Err() == nil {
		cur := level.Load()
		if cur == 0 {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		interval := time.Minute / time.Duration(cur*ppr)
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
			board.Pulse()
		}
	}
}

// pumpStdin feeds console lines to the controller's receive side.
func pumpStdin(ctx context.Context, board *platform.Board) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		board.Port.Push(append(sc.Bytes(), '\n'))
	}
	if err := sc.Err(); err != nil {
		glog.Errorf("stdin: %v", err)
	}
}
