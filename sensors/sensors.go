package sensors

import (
	"errors"
	"fmt"

	"github.com/gr-butler/weatherstation/env"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

/*
 * Sensors is responsible for reading the sensors and converting sensor output to real values.
 */

// ErrNoDevice is returned by every read of a device that failed to start.
var ErrNoDevice = errors.New("device not available")

type PressurehPa float64
type RelHumidity float64
type TemperatureC float64

func (p PressurehPa) Float64() float64 {
	return float64(p)
}

func (r RelHumidity) Float64() float64 {
	return float64(r)
}

func (t TemperatureC) Float64() float64 {
	return float64(t)
}

type Atmosphere interface {
	Temperature() (TemperatureC, error)
	HumidityAndPressure() (PressurehPa, RelHumidity, error)
}

type LightMeter interface {
	Lux() (float64, error)
}

// Analog returns raw ADC counts, scaled to the configured resolution against
// the reference voltage.
type Analog interface {
	ReadRaw(channel int) (int, error)
}

type Sensors struct {
	Atm   Atmosphere
	Light LightMeter
	ADC   Analog
	Bus   i2c.BusCloser
}

// Open initialises the host drivers and the I²C devices. A device that does
// not respond is logged and replaced by one that always fails, so reporting
// can carry on without it.
func Open(cfg env.Config, args env.Args) (*Sensors, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("open I²C [%v]: %w", cfg.I2CBus, err)
	}
	s := &Sensors{Bus: bus}

	useMCP := args.NoMCP == nil || !*args.NoMCP
	if atm, err := NewAtmosphere(bus, useMCP); err != nil {
		logger.Errorf("Atmosphere sensor unavailable [%v]", err)
		s.Atm = noAtmosphere{}
	} else {
		s.Atm = atm
	}

	if lm, err := NewBH1750(bus, env.BH1750_I2C); err != nil {
		logger.Errorf("BH1750 unavailable [%v]", err)
		s.Light = noLight{}
	} else {
		s.Light = lm
	}

	if adc, err := NewADS1115(bus, cfg.VRef, cfg.AdcBits, env.DustLed); err != nil {
		logger.Errorf("ADS1115 unavailable [%v]", err)
		s.ADC = noAnalog{}
	} else {
		s.ADC = adc
	}

	logger.Info("Sensors initialized.")
	return s, nil
}

func (s *Sensors) Close() error {
	if h, ok := s.ADC.(*ADS1115); ok {
		h.Halt()
	}
	if s.Bus != nil {
		return s.Bus.Close()
	}
	return nil
}

type noAtmosphere struct{}

func (noAtmosphere) Temperature() (TemperatureC, error) { return 0, ErrNoDevice }
func (noAtmosphere) HumidityAndPressure() (PressurehPa, RelHumidity, error) {
	return 0, 0, ErrNoDevice
}

type noLight struct{}

func (noLight) Lux() (float64, error) { return 0, ErrNoDevice }

type noAnalog struct{}

func (noAnalog) ReadRaw(int) (int, error) { return 0, ErrNoDevice }
