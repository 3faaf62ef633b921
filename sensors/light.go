package sensors

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
)

const (
	bh1750PowerOn      = 0x01
	bh1750ContHighRes  = 0x10
	bh1750CountsPerLux = 1.2
)

// BH1750 ambient light sensor, talked to directly over I²C.
type BH1750 struct {
	dev *i2c.Dev
}

func NewBH1750(bus i2c.Bus, addr uint16) (*BH1750, error) {
	logger.Infof("Starting BH1750 light sensor [%x]", addr)
	b := &BH1750{dev: &i2c.Dev{Addr: addr, Bus: bus}}
	if err := b.dev.Tx([]byte{bh1750PowerOn}, nil); err != nil {
		return nil, fmt.Errorf("bh1750 power on: %w", err)
	}
	if err := b.dev.Tx([]byte{bh1750ContHighRes}, nil); err != nil {
		return nil, fmt.Errorf("bh1750 set mode: %w", err)
	}
	return b, nil
}

func (b *BH1750) Lux() (float64, error) {
	read := make([]byte, 2)
	if err := b.dev.Tx(nil, read); err != nil {
		return 0, fmt.Errorf("bh1750 read: %w", err)
	}
	return countsToLux(read), nil
}

func countsToLux(b []byte) float64 {
	raw := uint16(b[0])<<8 | uint16(b[1])
	return float64(raw) / bh1750CountsPerLux
}
