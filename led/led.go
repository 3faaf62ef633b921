package led

import (
	"sync"
	"time"

	"github.com/gr-butler/weatherstation/env"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Indicator is anything that can show a short run of flashes.
type Indicator interface {
	Flicker(pulses int)
}

type LED struct {
	Name    string
	lock    sync.Mutex
	gpioPin gpio.PinIO
	sleep   func(time.Duration)
}

// NewLED drives the named pin. A missing pin is logged and the LED becomes
// a no-op, the station runs fine without its lights.
func NewLED(name string, GPIOPin string) *LED {
	logger.Infof("Creating new LED on pin [%v] called [%v]", GPIOPin, name)
	l := &LED{Name: name, sleep: time.Sleep}
	if p := gpioreg.ByName(GPIOPin); p != nil {
		l.gpioPin = p
	} else {
		logger.Errorf("Failed to find %v pin", GPIOPin)
		return l
	}

	// flicker to show it's working
	_ = l.gpioPin.Out(gpio.High)
	l.sleep(time.Millisecond * 250)
	_ = l.gpioPin.Out(gpio.Low)
	return l
}

// Flash blinks once, or is dropped if a flash is already running.
func (l *LED) Flash() {
	if l.gpioPin == nil {
		return
	}
	if !l.lock.TryLock() {
		// We don't want lots of flash requests all queuing waiting on the mutex,
		// if a flash is in progress we can safely discard the current request.
		return
	}
	defer l.lock.Unlock()
	l.pulse()
}

func (l *LED) Flicker(pulses int) {
	if l.gpioPin == nil {
		return
	}
	if pulses < 1 || pulses > 100 {
		// reject daft or excessive requests
		return
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	for i := 0; i < pulses; i++ {
		l.pulse()
		l.sleep(env.LEDFlashDuration)
	}
}

// pulse lights the LED for one flash period, lock held.
func (l *LED) pulse() {
	_ = l.gpioPin.Out(gpio.High)
	l.sleep(env.LEDFlashDuration)
	_ = l.gpioPin.Out(gpio.Low)
}
