// services/rig/internal/platform/platform_rp2xxx.go
//go:build rp2040 || rp2350

package platform

import (
	"errors"
	"time"

	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"rigcode-go/bus"
	"rigcode-go/drivers/max6675"
	"rigcode-go/services/rig"
	"rigcode-go/services/rig/internal/pulse"
	"rigcode-go/services/rig/internal/sensors"
	"rigcode-go/types"
	"rigcode-go/x/timex"
)

// Pico wiring. GP numbering.
const (
	pinTacho   = machine.GP2  // hall sensor, pulled up, falling edges
	pinMosfet  = machine.GP15 // igniter gate
	pinSPISck  = machine.GP18 // MAX6675 on SPI0
	pinSPISdo  = machine.GP16
	pinSPICS   = machine.GP17
	pinPressPT = machine.ADC0 // transducer on GP26
)

var errNoData = errors.New("platform: no data")

// uartPort adapts the interrupt-buffered uartx driver to the rig's
// non-blocking Port contract. TryRead drains into a small stash so Buffered
// and ReadByte stay cheap on the loop path.
type uartPort struct {
	u     *uartx.UART
	stash [64]byte
	head  int
	n     int
}

func (p *uartPort) Buffered() int {
	if p.n == 0 {
		p.head = 0
		p.n = p.u.TryRead(p.stash[:])
	}
	return p.n
}

func (p *uartPort) ReadByte() (byte, error) {
	if p.n == 0 && p.Buffered() == 0 {
		return 0, errNoData
	}
	b := p.stash[p.head]
	p.head++
	p.n--
	return b, nil
}

func (p *uartPort) Write(b []byte) (int, error) { return p.u.Write(b) }

// adc10 narrows the 16-bit left-justified machine reading to the 10-bit
// count scale the pressure calibration expects.
type adc10 struct{ a machine.ADC }

func (a adc10) Get() uint16 { return a.a.Get() >> 6 }

// Board owns the configured Pico peripherals.
type Board struct {
	Port   rig.Port
	Drive  outputPin
	ADC    sensors.ADC
	Thermo sensors.TempSensor
}

type outputPin struct{ p machine.Pin }

func (o outputPin) Set(level bool) { o.p.Set(level) }

// NewBoard configures UART0, the actuator gate, the ADC and the MAX6675 SPI
// link. The gate is driven low before anything else powers up.
func NewBoard(cfg types.Config) (*Board, error) {
	pinMosfet.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinMosfet.Low()

	u := uartx.UART0
	if err := u.Configure(uartx.UARTConfig{
		BaudRate: cfg.Baud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	}); err != nil {
		return nil, err
	}

	machine.InitADC()
	adc := machine.ADC{Pin: pinPressPT}
	adc.Configure(machine.ADCConfig{})

	spi := machine.SPI0
	if err := spi.Configure(machine.SPIConfig{
		Frequency: 4 * machine.MHz,
		SCK:       pinSPISck,
		SDI:       pinSPISdo,
		Mode:      0,
	}); err != nil {
		return nil, err
	}
	pinSPICS.Configure(machine.PinConfig{Mode: machine.PinOutput})

	return &Board{
		Port:   &uartPort{u: u},
		Drive:  outputPin{p: pinMosfet},
		ADC:    adc10{a: adc},
		Thermo: max6675.New(spi, pinSPICS),
	}, nil
}

// Deps adapts the board to the controller's injection points.
func (b *Board) Deps(ev *bus.Bus, now func() time.Time) rig.Deps {
	return rig.Deps{
		Port:   b.Port,
		Drive:  b.Drive,
		ADC:    b.ADC,
		Temp:   b.Thermo,
		Now:    now,
		Events: ev,
	}
}

// AttachTacho arms the falling-edge interrupt on the hall sensor pin. The
// handler runs in ISR context and only touches the counter's guarded cell.
func (b *Board) AttachTacho(c *pulse.Counter) error {
	pinTacho.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return pinTacho.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		c.OnEdge(timex.Micros(time.Now()))
	})
}
