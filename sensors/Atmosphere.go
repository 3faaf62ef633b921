package sensors

import (
	"fmt"
	"math"

	"github.com/gr-butler/weatherstation/env"
	logger "github.com/sirupsen/logrus"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/devices/v3/mcp9808"
)

type atmosphere struct {
	PH   *bmxx80.Dev  // BME280 pressure, humidity and fallback temperature
	Temp *mcp9808.Dev // MCP9808 temperature sensor, optional
}

func NewAtmosphere(bus i2c.Bus, useMCP bool) (*atmosphere, error) {
	a := &atmosphere{}

	logger.Infof("Starting BME280 reader [%x]", env.BME280_I2C)
	bme, err := bmxx80.NewI2C(bus, env.BME280_I2C, &bmxx80.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("initialize bme280: %w", err)
	}
	a.PH = bme

	if useMCP {
		logger.Infof("Starting MCP9808 Temperature Sensor [%x]", env.MCP9808_I2C)
		// Create a new temperature sensor with hig res
		tempSensor, err := mcp9808.New(bus, &mcp9808.Opts{Addr: env.MCP9808_I2C, Res: mcp9808.High})
		if err != nil {
			// the BME280 still gives us a temperature
			logger.Errorf("Failed to open MCP9808 sensor: %v", err)
		} else {
			a.Temp = tempSensor
		}
	}
	return a, nil
}

func (a *atmosphere) HumidityAndPressure() (PressurehPa, RelHumidity, error) {
	em := physic.Env{}
	if err := a.PH.Sense(&em); err != nil {
		return 0, 0, fmt.Errorf("bme280 read: %w", err)
	}
	humidity := RelHumidity(math.Round(float64(em.Humidity)/float64(physic.PercentRH)*10) / 10)
	pressure := PressurehPa(math.Round((float64(em.Pressure)/float64(100*physic.Pascal))*100) / 100)
	return pressure, humidity, nil
}

func (a *atmosphere) Temperature() (TemperatureC, error) {
	hiT := physic.Env{}
	if a.Temp != nil {
		err := a.Temp.Sense(&hiT)
		if err == nil {
			return TemperatureC(hiT.Temperature.Celsius()), nil
		}
		logger.Errorf("MCP9808 read failed [%v], using BME280", err)
	}
	if err := a.PH.Sense(&hiT); err != nil {
		return 0, fmt.Errorf("bme280 read: %w", err)
	}
	return TemperatureC(hiT.Temperature.Celsius()), nil
}
