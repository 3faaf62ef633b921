package sensors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDewPointNeverAboveTemperature(t *testing.T) {
	for temp := -40.0; temp <= 50; temp += 2.5 {
		for rh := 0.0; rh <= 100; rh += 5 {
			dp := DewPoint(temp, rh)
			require.LessOrEqual(t, dp, temp, "temp %v rh %v", temp, rh)
		}
	}
}

func TestDewPointKnownValues(t *testing.T) {
	assert.InDelta(t, 20.0, DewPoint(20, 100), 1e-9)
	assert.InDelta(t, 12.0, DewPoint(20, 60), 0.1)
	assert.InDelta(t, 6.2, DewPoint(25, 30), 0.1)
}

func TestFrostPointBelowZeroDewPoint(t *testing.T) {
	// below freezing the frost point sits above the dew point
	dp := DewPoint(-5, 80)
	fp := FrostPoint(-5, 80)
	assert.Greater(t, fp, dp)
	assert.Less(t, fp, -5.0)
}

func TestUVIndexTable(t *testing.T) {
	assert.Equal(t, 0, UVIndex(0))
	assert.Equal(t, 0, UVIndex(0.049))
	assert.Equal(t, 1, UVIndex(0.05))
	assert.Equal(t, 3, UVIndex(0.35))
	assert.Equal(t, 10, UVIndex(1.0))
	assert.Equal(t, 11, UVIndex(1.2))
	assert.Equal(t, 11, UVIndex(3.3))
}

func TestDustDensity(t *testing.T) {
	assert.Equal(t, 0.0, DustDensity(0.3))
	assert.InDelta(t, 70.0, DustDensity(1.0), 1e-9)
}

func TestRadiation(t *testing.T) {
	assert.Equal(t, 0.0, Radiation(-1, 1))
	assert.InDelta(t, 0.25, Radiation(0.5, 0.5), 1e-12)
}

func TestRawVoltsRoundTrip(t *testing.T) {
	assert.Equal(t, 1023, VoltsToRaw(3.3, 3.3, 1023))
	assert.Equal(t, 0, VoltsToRaw(-0.1, 3.3, 1023))
	assert.Equal(t, 1023, VoltsToRaw(4.0, 3.3, 1023))
	assert.InDelta(t, 1.65, RawToVolts(VoltsToRaw(1.65, 3.3, 1023), 3.3, 1023), 0.005)
	assert.Equal(t, 0.0, RawToVolts(100, 3.3, 0))
}

func TestVaneDegreesScalesWithReference(t *testing.T) {
	// 3.8V on a 5V ladder is north; the same ladder on 3.3V gives 2.508V
	assert.Equal(t, 0.0, VaneDegrees(3.8, 5.0))
	assert.Equal(t, 0.0, VaneDegrees(3.8*3.3/5.0, 3.3))
	assert.Equal(t, 270.0, VaneDegrees(3.3, 3.3))
	assert.Equal(t, 112.5, VaneDegrees(0, 3.3))
}

func TestCountsToLux(t *testing.T) {
	assert.InDelta(t, 100.0, countsToLux([]byte{0x00, 0x78}), 1e-9)
}
