//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"

	"tinygo.org/x/drivers/ssd1306"
)

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

// oledDisplay draws straight into the driver's own buffer.
type oledDisplay struct {
	dev    *ssd1306.Device
	width  int
	height int
}

func newOLEDDisplay() (*oledDisplay, error) {
	const w, h = 128, 64
	err := machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 1 * machine.MHz,
		SDA:       machine.GP4,
		SCL:       machine.GP5,
	})
	if err != nil {
		return nil, fmt.Errorf("i2c0: %w: %w", ErrDriverFailure, err)
	}

	dev := ssd1306.NewI2C(machine.I2C0)
	dev.Configure(ssd1306.Config{
		Address:  ssd1306.Address_128_32, // 0x3C; most 128x64 modules answer here too
		Width:    w,
		Height:   h,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	dev.ClearDisplay()
	if len(dev.GetBuffer()) != pageBytes(w, h) {
		return nil, fmt.Errorf("ssd1306: %w: unexpected buffer size", ErrDriverFailure)
	}
	return &oledDisplay{dev: dev, width: w, height: h}, nil
}

func (d *oledDisplay) Width() int     { return d.width }
func (d *oledDisplay) Height() int    { return d.height }
func (d *oledDisplay) Stride() int    { return d.width }
func (d *oledDisplay) Buffer() []byte { return d.dev.GetBuffer() }

func (d *oledDisplay) Update() error {
	if err := d.dev.Display(); err != nil {
		return fmt.Errorf("ssd1306: %w: %w", ErrDriverFailure, err)
	}
	return nil
}

// adcAxis maps a 16-bit ADC reading to [-1, 1] around the rest position
// captured at boot.
type adcAxis struct {
	adc    machine.ADC
	center float32
	invert bool
}

func newADCAxis(pin machine.Pin, invert bool) *adcAxis {
	a := &adcAxis{adc: machine.ADC{Pin: pin}, invert: invert}
	a.adc.Configure(machine.ADCConfig{})

	const samples = 64
	var sum uint32
	for i := 0; i < samples; i++ {
		sum += uint32(a.adc.Get())
	}
	a.center = float32(sum / samples)
	return a
}

func (a *adcAxis) Read() float32 {
	v := float32(a.adc.Get()) - a.center
	span := a.center
	if v > 0 {
		span = 65535 - a.center
	}
	if span <= 0 {
		return 0
	}
	v /= span
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	if a.invert {
		v = -v
	}
	return v
}

type machinePin struct {
	name string
	pin  machine.Pin
	mode GPIOMode
}

func (p *machinePin) Name() string   { return p.name }
func (p *machinePin) Caps() GPIOCaps { return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown }

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	cfg := machine.PinConfig{Mode: machine.PinInput}
	switch {
	case mode == GPIOModeOutput:
		cfg.Mode = machine.PinOutput
	case pull == GPIOPullUp:
		cfg.Mode = machine.PinInputPullup
	case pull == GPIOPullDown:
		cfg.Mode = machine.PinInputPulldown
	}
	p.pin.Configure(cfg)
	p.mode = mode
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.pin.Set(level)
	return nil
}

type boardInput struct {
	axes    [AxisCount]Axis
	buttons [ButtonCount]GPIOPin
}

func newBoardInput() *boardInput {
	machine.InitADC()
	return &boardInput{
		axes: [AxisCount]Axis{
			AxisLeftX:  newADCAxis(machine.ADC0, true),
			AxisLeftY:  newADCAxis(machine.ADC1, false),
			AxisRightX: newADCAxis(machine.ADC2, false),
			AxisRightY: newADCAxis(machine.ADC3, true),
		},
		buttons: [ButtonCount]GPIOPin{
			ButtonLeft:  &machinePin{name: "GP15", pin: machine.GP15},
			ButtonRight: &machinePin{name: "GP14", pin: machine.GP14},
		},
	}
}

func (in *boardInput) Axis(id AxisID) Axis {
	if id >= AxisCount {
		return nil
	}
	return in.axes[id]
}

func (in *boardInput) Button(id ButtonID) GPIOPin {
	if id >= ButtonCount {
		return nil
	}
	return in.buttons[id]
}
