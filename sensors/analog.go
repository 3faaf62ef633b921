package sensors

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gr-butler/weatherstation/env"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
)

var adsChannels = []ads1x15.Channel{ads1x15.Channel0, ads1x15.Channel1, ads1x15.Channel2, ads1x15.Channel3}

// ADS1115 serves the UV, vane, dust and radiation inputs.
type ADS1115 struct {
	pins    []ads1x15.PinADC
	vref    float64
	maxRaw  int
	dustLed gpio.PinIO
	lock    sync.Mutex
}

func NewADS1115(bus i2c.Bus, vref float64, bits int, dustLedPin string) (*ADS1115, error) {
	logger.Infof("Starting ADS1115 ADC [%x]", env.ADS1115_I2C)
	opts := ads1x15.DefaultOpts
	opts.I2cAddress = env.ADS1115_I2C
	adc, err := ads1x15.NewADS1115(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("ads1115: %w", err)
	}

	a := &ADS1115{vref: vref, maxRaw: 1<<bits - 1}
	maxV := physic.ElectricPotential(vref * float64(physic.Volt))
	for _, c := range adsChannels {
		// Obtain an analog pin from the ADC.
		pin, err := adc.PinForChannel(c, maxV, 1*physic.Hertz, ads1x15.SaveEnergy)
		if err != nil {
			a.Halt()
			return nil, fmt.Errorf("ads1115 channel %v: %w", c, err)
		}
		a.pins = append(a.pins, pin)
	}

	if dustLedPin != "" {
		a.dustLed = gpioreg.ByName(dustLedPin)
		if a.dustLed == nil {
			// dust readings will be taken with the LED off, and read as clean air
			logger.Errorf("Failed to find %v - dust LED pin", dustLedPin)
		} else {
			_ = a.dustLed.Out(gpio.High) // LED is active low
		}
	}
	return a, nil
}

func (a *ADS1115) ReadRaw(channel int) (int, error) {
	if channel < 0 || channel >= len(a.pins) {
		return 0, fmt.Errorf("no ADC channel %d", channel)
	}
	a.lock.Lock()
	defer a.lock.Unlock()

	if channel == env.DustChannel && a.dustLed != nil {
		_ = a.dustLed.Out(gpio.Low)
		time.Sleep(env.DustSampleDelay)
		defer func() { _ = a.dustLed.Out(gpio.High) }()
	}

	sample, err := a.pins[channel].Read()
	if err != nil {
		return 0, fmt.Errorf("ads1115 channel %d read: %w", channel, err)
	}
	return VoltsToRaw(float64(sample.V)/float64(physic.Volt), a.vref, a.maxRaw), nil
}

func (a *ADS1115) Halt() {
	for _, p := range a.pins {
		_ = p.Halt()
	}
}

// VoltsToRaw scales a voltage to ADC counts, clamped to the ADC range.
func VoltsToRaw(v, vref float64, maxRaw int) int {
	raw := int(math.Round(v / vref * float64(maxRaw)))
	if raw < 0 {
		return 0
	}
	if raw > maxRaw {
		return maxRaw
	}
	return raw
}
