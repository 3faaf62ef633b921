package env

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Channel is one ThingSpeak destination.
type Channel struct {
	ID     string `yaml:"id"`
	APIKey string `yaml:"api_key"`
}

// Config is read once at start up and never changed afterwards.
type Config struct {
	MmPerTip          float64       `yaml:"mm_per_tip"`
	MetresPerRotation float64       `yaml:"metres_per_rotation"`
	Debounce          time.Duration `yaml:"debounce"`
	Tick              time.Duration `yaml:"tick"`
	ReportMinutes     int           `yaml:"report_minutes"`
	Poll              time.Duration `yaml:"poll"`
	VRef              float64       `yaml:"vref"`
	AdcBits           int           `yaml:"adc_bits"`

	RainPin   string `yaml:"rain_pin"`
	WindPin   string `yaml:"wind_pin"`
	RainLine  int    `yaml:"rain_line"`
	WindLine  int    `yaml:"wind_line"`
	GPIOChip  string `yaml:"gpio_chip"`
	GPIODrv   string `yaml:"gpio_driver"` // "periph" or "cdev"
	I2CBus    string `yaml:"i2c_bus"`
	HTTPAddr  string `yaml:"http_addr"`
	Transport string `yaml:"transport"` // "http" or "mqtt"

	ThingSpeakURL string `yaml:"thingspeak_url"`
	MQTTBroker    string `yaml:"mqtt_broker"`
	MQTTClientID  string `yaml:"mqtt_client_id"`
	MQTTUser      string `yaml:"mqtt_user"`
	MQTTPassword  string `yaml:"mqtt_password"`

	Channel1 Channel `yaml:"channel1"`
	Channel2 Channel `yaml:"channel2"`
}

func Default() Config {
	return Config{
		MmPerTip:          MmPerTip,
		MetresPerRotation: MetresPerRotation,
		Debounce:          DebounceInterval,
		Tick:              TickPeriod,
		ReportMinutes:     ReportFreqMin,
		Poll:              PollPeriod,
		VRef:              VRef,
		AdcBits:           AdcBits,
		RainPin:           RainSensorIn,
		WindPin:           WindSensorIn,
		RainLine:          RainLine,
		WindLine:          WindLine,
		GPIOChip:          GPIOChip,
		GPIODrv:           "periph",
		HTTPAddr:          ":80",
		Transport:         "http",
		ThingSpeakURL:     "https://api.thingspeak.com/update",
		MQTTBroker:        "tcp://mqtt.thingspeak.com:1883",
		MQTTClientID:      "weatherstation",
	}
}

// Load builds the config from defaults, then the yaml file at path (if any),
// then the environment.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("read config %v: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return c, fmt.Errorf("parse config %v: %w", path, err)
		}
		logger.Infof("Loaded config file [%v]", path)
	}
	if err := c.overlayEnv(); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func (c *Config) overlayEnv() error {
	str := map[string]*string{
		"TS_CHANNEL1_ID":  &c.Channel1.ID,
		"TS_CHANNEL1_KEY": &c.Channel1.APIKey,
		"TS_CHANNEL2_ID":  &c.Channel2.ID,
		"TS_CHANNEL2_KEY": &c.Channel2.APIKey,
		"TS_TRANSPORT":    &c.Transport,
		"TS_MQTT_BROKER":  &c.MQTTBroker,
		"TS_MQTT_USER":    &c.MQTTUser,
		"TS_MQTT_PASS":    &c.MQTTPassword,
		"GPIO_DRIVER":     &c.GPIODrv,
		"I2C_BUS":         &c.I2CBus,
		"HTTP_ADDR":       &c.HTTPAddr,
	}
	for k, p := range str {
		if v, ok := os.LookupEnv(k); ok {
			*p = v
		}
	}
	if v, ok := os.LookupEnv("REPORT_MINUTES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REPORT_MINUTES %q: %w", v, err)
		}
		c.ReportMinutes = n
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.MmPerTip <= 0 {
		errs = append(errs, fmt.Errorf("mm_per_tip must be positive, got %v", c.MmPerTip))
	}
	if c.MetresPerRotation <= 0 {
		errs = append(errs, fmt.Errorf("metres_per_rotation must be positive, got %v", c.MetresPerRotation))
	}
	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("debounce must not be negative, got %v", c.Debounce))
	}
	if c.Tick <= 0 || c.Tick > time.Minute || time.Minute%c.Tick != 0 {
		errs = append(errs, fmt.Errorf("tick must divide one minute, got %v", c.Tick))
	}
	if c.ReportMinutes < 1 {
		errs = append(errs, fmt.Errorf("report_minutes must be at least 1, got %v", c.ReportMinutes))
	}
	if c.Poll <= 0 {
		errs = append(errs, fmt.Errorf("poll must be positive, got %v", c.Poll))
	}
	if c.VRef <= 0 {
		errs = append(errs, fmt.Errorf("vref must be positive, got %v", c.VRef))
	}
	if c.AdcBits < 1 || c.AdcBits > 16 {
		errs = append(errs, fmt.Errorf("adc_bits must be 1-16, got %v", c.AdcBits))
	}
	switch c.GPIODrv {
	case "periph", "cdev":
	default:
		errs = append(errs, fmt.Errorf("gpio_driver %q (allowed: periph, cdev)", c.GPIODrv))
	}
	switch c.Transport {
	case "http", "mqtt":
	default:
		errs = append(errs, fmt.Errorf("transport %q (allowed: http, mqtt)", c.Transport))
	}
	return errors.Join(errs...)
}

// Interval is the nominal reporting window.
func (c Config) Interval() time.Duration {
	return time.Duration(c.ReportMinutes) * time.Minute
}
