// internal/publish/encode.go
package publish

import (
	"math"

	"github.com/tamzrod/dht-gateway/internal/cache"
	"github.com/tamzrod/dht-gateway/internal/sensor"
)

// Reading block layout: two registers, deci-units, the sensor's own frame
// convention (humidity deci-percent, temperature deci-Celsius with the
// 0x8000 sign flag).

// ReadingRegs is the fixed size of the reading block.
const ReadingRegs = 2

const (
	regHumidity    = 0
	regTemperature = 1

	signBit uint16 = 0x8000
)

// EncodeReading converts a reading into the register block.
// No IO. No side effects.
func EncodeReading(r sensor.Reading) []uint16 {
	regs := make([]uint16, ReadingRegs)

	regs[regHumidity] = uint16(math.Round(r.HumidityPct * 10))

	t := r.TemperatureC
	var sign uint16
	if t < 0 {
		t = -t
		sign = signBit
	}
	regs[regTemperature] = uint16(math.Round(t*10)) | sign

	return regs
}

// encodeDeviceNameRegs packs an ASCII device name two characters per
// register, zero-padded, into the fixed name slots.
func encodeDeviceNameRegs(name string) []uint16 {
	if len(name) > cache.DeviceNameMaxChars {
		name = name[:cache.DeviceNameMaxChars]
	}
	regs := make([]uint16, cache.SlotDeviceNameSlots)
	for i := 0; i < len(name); i++ {
		if i%2 == 0 {
			regs[i/2] |= uint16(name[i]) << 8
		} else {
			regs[i/2] |= uint16(name[i])
		}
	}
	return regs
}

// regsToBytes serialises registers big-endian for the wire.
func regsToBytes(regs []uint16) []byte {
	out := make([]byte, 2*len(regs))
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
