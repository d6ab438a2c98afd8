package hal

import (
	"sync"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// DefaultPWMFrequency drives ERM motors without audible whine.
const DefaultPWMFrequency = 20 * physic.KiloHertz

// InitHost loads the periph.io host drivers so pins become registered.
func InitHost() error {
	state, err := host.Init()
	if err != nil {
		return err
	}
	for _, failure := range state.Failed {
		glog.Warningf("periph driver %s failed: %v", failure.D, failure.Err)
	}
	return nil
}

// Periph drives pins through periph.io.
type Periph struct {
	// Lookup resolves a pin name, defaults to gpioreg.ByName.
	Lookup func(name string) gpio.PinIO
	// Frequency of PWM outputs.
	Frequency physic.Frequency

	pins map[string]gpio.PinIO
	lock sync.Mutex
}

// NewPeriph creates a Periph backend on the registered pins.
func NewPeriph() *Periph {
	return &Periph{Lookup: gpioreg.ByName, Frequency: DefaultPWMFrequency}
}

// Duty converts an intensity to a PWM duty cycle.
func Duty(intensity uint8) gpio.Duty {
	return gpio.Duty(int64(intensity) * int64(gpio.DutyMax) / 255)
}

// SetLevel implements Pins.
func (p *Periph) SetLevel(name string, level gpio.Level) error {
	pin, err := p.pin(name, "out")
	if err != nil {
		return err
	}
	glog.V(2).Infof("pin %s: %s", name, level)
	return p.check(name, "out", pin.Out(level))
}

// SetPWM implements Pins.
func (p *Periph) SetPWM(name string, intensity uint8) error {
	pin, err := p.pin(name, "pwm")
	if err != nil {
		return err
	}
	freq := p.Frequency
	if freq == 0 {
		freq = DefaultPWMFrequency
	}
	glog.V(2).Infof("pin %s: pwm %d/255", name, intensity)
	return p.check(name, "pwm", pin.PWM(Duty(intensity), freq))
}

// ConfigureDirection implements Pins. An output starts low.
func (p *Periph) ConfigureDirection(name string, dir Direction) error {
	pin, err := p.pin(name, "configure")
	if err != nil {
		return err
	}
	glog.V(2).Infof("pin %s: %s", name, dir)
	if dir == Input {
		return p.check(name, "in", pin.In(gpio.PullNoChange, gpio.NoEdge))
	}
	return p.check(name, "out", pin.Out(gpio.Low))
}

func (p *Periph) pin(name, op string) (gpio.PinIO, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if pin, ok := p.pins[name]; ok {
		return pin, nil
	}
	lookup := p.Lookup
	if lookup == nil {
		lookup = gpioreg.ByName
	}
	pin := lookup(name)
	if pin == nil {
		return nil, &PinError{Pin: name, Op: op, Err: ErrNoPin}
	}
	if p.pins == nil {
		p.pins = make(map[string]gpio.PinIO)
	}
	p.pins[name] = pin
	return pin, nil
}

func (p *Periph) check(name, op string, err error) error {
	if err != nil {
		return &PinError{Pin: name, Op: op, Err: err}
	}
	return nil
}
