//go:build !rp2040 && !rp2350

// rigcli is an interactive maintenance console for the rig controller.
//
//	rigcli -port /dev/ttyACM0            interactive shell
//	rigcli -e "start; data; stop"        one-shot command list
package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"
	"github.com/google/shlex"

	"rigcode-go/client"
	"rigcode-go/types"
)

var (
	configPath = flag.String("config", "", "YAML config file (overrides defaults)")
	portName   = flag.String("port", "", "serial port (overrides config)")
	baud       = flag.Int("baud", 0, "baud rate (overrides config)")
	evalCmds   = flag.String("e", "", "run semicolon-separated commands and exit")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg := client.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = client.LoadConfig(*configPath); err != nil {
			glog.Exitf("config: %v", err)
		}
	}
	if *portName != "" {
		cfg.Serial.Port = *portName
	}
	if *baud > 0 {
		cfg.Serial.Baud = *baud
	}

	sess, err := client.Dial(cfg)
	if err != nil {
		glog.Exitf("connect: %v", err)
	}
	defer sess.Close()

	shell := newShell(sess)
	if *evalCmds != "" {
		runEval(shell, *evalCmds)
		return
	}
	shell.Println("rig console, type 'help' for commands")
	shell.Run()
}

// runEval executes a semicolon-separated command list non-interactively.
func runEval(shell *ishell.Shell, script string) {
	for _, stmt := range strings.Split(script, ";") {
		args, err := shlex.Split(strings.TrimSpace(stmt))
		if err != nil {
			glog.Exitf("parse %q: %v", stmt, err)
		}
		if len(args) == 0 {
			continue
		}
		if err := shell.Process(args...); err != nil {
			glog.Exitf("%s: %v", args[0], err)
		}
	}
}

func newShell(sess *client.Session) *ishell.Shell {
	shell := ishell.New()
	shell.SetPrompt("rig> ")

	shell.AddCmd(&ishell.Cmd{
		Name: "ping",
		Help: "check link liveness",
		Func: func(c *ishell.Context) {
			if err := sess.Ping(); err != nil {
				c.Err(err)
				return
			}
			c.Println("pong")
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "start",
		Help: "arm the ignition sequence (output after the safety delay)",
		Func: func(c *ishell.Context) {
			if err := sess.Start(); err != nil {
				c.Err(err)
				return
			}
			c.Println("armed")
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "stop",
		Help: "cancel the sequence, force the output off",
		Func: func(c *ishell.Context) {
			if err := sess.Stop(); err != nil {
				c.Err(err)
				return
			}
			c.Println("stopped")
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "rpm",
		Help: "read the rotation estimate",
		Func: func(c *ishell.Context) {
			tms, rpm, err := sess.ReadRPM()
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("t=%.3fs rpm=%d\n", float64(tms)/1000, rpm)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "pt",
		Help: "read pressure and temperature",
		Func: func(c *ishell.Context) {
			tms, kpa, temp, err := sess.ReadPT()
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("t=%.3fs p=%.3fkPa temp=%.3fC\n", float64(tms)/1000, kpa, temp)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "data",
		Help: "read one combined telemetry frame",
		Func: func(c *ishell.Context) {
			f, err := sess.ReadAll()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(formatFrame(f))
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "watch",
		Help: "watch <seconds> [hz]: poll telemetry frames",
		Func: func(c *ishell.Context) {
			secs, hz := 5.0, 5.0
			if len(c.Args) > 0 {
				fmt.Sscanf(c.Args[0], "%f", &secs)
			}
			if len(c.Args) > 1 {
				fmt.Sscanf(c.Args[1], "%f", &hz)
			}
			if secs <= 0 || hz <= 0 || hz > 100 {
				c.Err(fmt.Errorf("usage: watch <seconds> [hz<=100]"))
				return
			}
			tick := time.NewTicker(time.Duration(float64(time.Second) / hz))
			defer tick.Stop()
			deadline := time.Now().Add(time.Duration(secs * float64(time.Second)))
			for time.Now().Before(deadline) {
				<-tick.C
				f, err := sess.ReadAll()
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(formatFrame(f))
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "raw",
		Help: "raw <command>: send a verbatim protocol command",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("usage: raw <command>"))
				return
			}
			line, err := sess.Request(strings.Join(c.Args, " "))
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(line)
		},
	})

	return shell
}

func formatFrame(f types.Frame) string {
	return fmt.Sprintf("t=%.3fs rpm=%d p=%.3fkPa temp=%.3fC mosfet=%d",
		float64(f.TMs)/1000, f.RPM, f.PressureKPa, f.TempC, f.Mosfet)
}
