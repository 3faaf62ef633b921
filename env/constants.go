package env

import "time"

const (
	GPIO02 = "GPIO2" // SDA
	GPIO03 = "GPIO3" // SCL
	GPIO05 = "GPIO5"
	GPIO06 = "GPIO6"
	GPIO13 = "GPIO13"
	GPIO17 = "GPIO17" // rain bucket reed switch
	GPIO19 = "GPIO19" // rain tip LED
	GPIO20 = "GPIO20" // status LED
	GPIO26 = "GPIO26" // dust sensor IR LED
	GPIO27 = "GPIO27" // anemometer reed switch

	RainSensorIn = GPIO17
	WindSensorIn = GPIO27

	StatusLed  = GPIO20
	RainTipLed = GPIO19
	DustLed    = GPIO26

	// BCM line offsets for the gpiocdev driver, same physical pins as above.
	RainLine = 17
	WindLine = 27
	GPIOChip = "gpiochip0"

	// https://www.robotics.org.za/WH-SP-RG
	MmPerTip = 0.1
	// one reed closure per revolution of a cup anemometer with 1m run of wind
	MetresPerRotation = 1.0

	VRef    = 3.3
	AdcBits = 10

	// shortest reed contact we believe is real; wind at 60m/s is ~17ms per rotation
	DebounceInterval = time.Millisecond * 15

	TickPeriod    = time.Second
	ReportFreqMin = 15
	PollPeriod    = time.Millisecond * 100

	// 3 second gust window, as the Met Office defines it
	GustSeconds = 3

	LEDFlashDuration = time.Millisecond * 100

	BH1750_I2C  uint16 = 0x23
	BME280_I2C  uint16 = 0x76
	MCP9808_I2C        = 0x18
	ADS1115_I2C uint16 = 0x48

	// Sharp GP2Y1010AU0F: sample 280us after the IR LED goes on
	DustSampleDelay = time.Microsecond * 280

	// linear radiation head output, µSv/h per volt
	MicroSievertPerVolt = 1.0

	// recorded for a quantity that has never been read successfully
	MissingValue = -9999.0
)

// Analog inputs on the ADS1115
const (
	UVChannel        = 0
	VaneChannel      = 1
	DustChannel      = 2
	RadiationChannel = 3
)
