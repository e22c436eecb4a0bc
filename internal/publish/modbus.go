// internal/publish/modbus.go
package publish

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tamzrod/dht-gateway/internal/cache"
	"github.com/tamzrod/dht-gateway/internal/sensor"
)

// registerWriter is the exact contract the Modbus target uses.
// Satisfied by github.com/goburrow/modbus.Client.
// IMPORTANT: There must be NO other version of this interface anywhere.
type registerWriter interface {
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// Modbus mirrors the latest reading into holding registers of a remote
// unit and, when a status address is configured, maintains the device
// status block there.
type Modbus struct {
	cli     registerWriter
	closeFn func() error

	readingAddr uint16
	statusAddr  *uint16
	nameRegs    []uint16

	needFull bool
	last     cache.Snapshot
}

// NewModbus builds the target. statusAddr nil disables the status block.
func NewModbus(cli registerWriter, closeFn func() error, readingAddr uint16, statusAddr *uint16, deviceName string) *Modbus {
	return &Modbus{
		cli:         cli,
		closeFn:     closeFn,
		readingAddr: readingAddr,
		statusAddr:  statusAddr,
		nameRegs:    encodeDeviceNameRegs(deviceName),
		needFull:    true, // full re-assert on first successful write
	}
}

func (m *Modbus) PublishReading(_ time.Time, r sensor.Reading) error {
	regs := EncodeReading(r)
	if _, err := m.cli.WriteMultipleRegisters(m.readingAddr, uint16(len(regs)), regsToBytes(regs)); err != nil {
		return fmt.Errorf("modbus: reading write addr=%d: %w", m.readingAddr, err)
	}
	return nil
}

// PublishHealth delivers the status block. The first write (and the first
// after any failure) re-asserts the full block, device name included; after
// that only changed slots are written.
func (m *Modbus) PublishHealth(s cache.Snapshot) error {
	if m.statusAddr == nil {
		return nil
	}
	base := *m.statusAddr

	if m.needFull {
		regs := m.fullBlockRegs(s)
		if _, err := m.cli.WriteMultipleRegisters(base, uint16(len(regs)), regsToBytes(regs)); err != nil {
			return fmt.Errorf("modbus: status full block write failed: %w", err)
		}
		m.needFull = false
		m.last = s
		return nil
	}

	var errs []string

	writeSlot := func(slot uint16, value uint16, name string) bool {
		if _, err := m.cli.WriteMultipleRegisters(base+slot, 1, regsToBytes([]uint16{value})); err != nil {
			errs = append(errs, fmt.Sprintf("%s write failed: %v", name, err))
			return false
		}
		return true
	}

	if m.last.Health != s.Health {
		if writeSlot(cache.SlotHealthCode, s.Health, "health") {
			m.last.Health = s.Health
		}
	}
	if m.last.LastErrorCode != s.LastErrorCode {
		if writeSlot(cache.SlotLastErrorCode, s.LastErrorCode, "last_error_code") {
			m.last.LastErrorCode = s.LastErrorCode
		}
	}
	if m.last.SecondsInError != s.SecondsInError {
		if writeSlot(cache.SlotSecondsInError, s.SecondsInError, "seconds_in_error") {
			m.last.SecondsInError = s.SecondsInError
		}
	}

	if len(errs) > 0 {
		m.needFull = true
		return errors.New("modbus: " + strings.Join(errs, " | "))
	}
	return nil
}

func (m *Modbus) fullBlockRegs(s cache.Snapshot) []uint16 {
	regs := cache.Encode(s)
	copy(regs[cache.SlotDeviceNameStart:], m.nameRegs)
	return regs
}

func (m *Modbus) Close() error {
	if m.closeFn == nil {
		return nil
	}
	return m.closeFn()
}
