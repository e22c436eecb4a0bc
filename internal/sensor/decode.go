// internal/sensor/decode.go
package sensor

const (
	frameBytes      = 5
	frameBits       = 40
	handshakePulses = 4
)

// Decode turns a captured pulse train into a reading.
// Pure: no IO, deterministic given its input.
//
// The first four pulses are the wake handshake; every second pulse after
// them is a data high pulse whose width encodes one bit (wider than
// oneThreshold = 1). Bits accumulate MSB-first into five bytes:
// humidity hi/lo, temperature hi/lo, checksum.
func Decode(pulses []Pulse, oneThreshold int) (Reading, error) {
	var frame [frameBytes]byte

	bits := 0
	for i := handshakePulses; i < len(pulses) && bits < frameBits; i += 2 {
		frame[bits/8] <<= 1
		if pulses[i].Width > oneThreshold {
			frame[bits/8] |= 1
		}
		bits++
	}

	if bits < frameBits {
		return Reading{}, ErrTimeout
	}
	if frame[4] != frame[0]+frame[1]+frame[2]+frame[3] {
		return Reading{}, ErrChecksum
	}

	humidity := float64(uint16(frame[0])<<8|uint16(frame[1])) / 10.0
	temperature := float64(uint16(frame[2]&0x7F)<<8|uint16(frame[3])) / 10.0
	if frame[2]&0x80 != 0 {
		// bit 7 of the temperature high byte is the sign flag
		temperature = -temperature
	}

	return Reading{TemperatureC: temperature, HumidityPct: humidity}, nil
}
