// internal/publish/encode_test.go
package publish

import (
	"testing"

	"github.com/tamzrod/dht-gateway/internal/sensor"
)

func TestEncodeReading_DeciUnits(t *testing.T) {
	regs := EncodeReading(sensor.Reading{TemperatureC: 34.5, HumidityPct: 65.6})

	if regs[regHumidity] != 656 {
		t.Fatalf("humidity reg = %d, want 656", regs[regHumidity])
	}
	if regs[regTemperature] != 345 {
		t.Fatalf("temperature reg = %d, want 345", regs[regTemperature])
	}
}

func TestEncodeReading_NegativeTemperature(t *testing.T) {
	regs := EncodeReading(sensor.Reading{TemperatureC: -34.5, HumidityPct: 65.6})

	if want := signBit | 345; regs[regTemperature] != want {
		t.Fatalf("temperature reg = %#04x, want %#04x", regs[regTemperature], want)
	}
}

func TestEncodeReading_RoundsDeciDigits(t *testing.T) {
	// 65.6 is not exact in binary; scaling must still land on 656
	regs := EncodeReading(sensor.Reading{TemperatureC: 0.1, HumidityPct: 65.6})

	if regs[regHumidity] != 656 {
		t.Fatalf("humidity reg = %d, want 656", regs[regHumidity])
	}
	if regs[regTemperature] != 1 {
		t.Fatalf("temperature reg = %d, want 1", regs[regTemperature])
	}
}

func TestEncodeDeviceNameRegs(t *testing.T) {
	regs := encodeDeviceNameRegs("DEV-01")

	want := []uint16{
		'D'<<8 | 'E',
		'V'<<8 | '-',
		'0'<<8 | '1',
		0, 0, 0, 0, 0,
	}

	if len(regs) != len(want) {
		t.Fatalf("name regs length = %d, want %d", len(regs), len(want))
	}
	for i := range want {
		if regs[i] != want[i] {
			t.Fatalf("name reg %d = %#04x, want %#04x", i, regs[i], want[i])
		}
	}
}

func TestEncodeDeviceNameRegs_OddLength(t *testing.T) {
	regs := encodeDeviceNameRegs("ABC")

	if regs[1] != 'C'<<8 {
		t.Fatalf("trailing odd character must sit in the high byte, got %#04x", regs[1])
	}
}

func TestRegsToBytes_BigEndian(t *testing.T) {
	got := regsToBytes([]uint16{0x0102, 0xA0B0})
	want := []byte{0x01, 0x02, 0xA0, 0xB0}

	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#02x, want %#02x", i, got[i], want[i])
		}
	}
}
