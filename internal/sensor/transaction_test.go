// internal/sensor/transaction_test.go
package sensor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// scriptedLine replays canned waveforms against the driver. Time is
// virtual: the clock only advances through DelayMicros, so captures run
// instantly and deterministically. Each Input() call arms the next script
// in the queue (the last one repeats).
type scriptedLine struct {
	scripts [][]Pulse

	runs   int
	clock  int
	armed  bool
	driven bool

	// coarse op trace while unarmed, for wake ordering checks
	ops []string
}

func newScriptedLine(scripts ...[]Pulse) *scriptedLine {
	return &scriptedLine{scripts: scripts}
}

func (l *scriptedLine) Output() error {
	l.armed = false
	l.ops = append(l.ops, "output")
	return nil
}

func (l *scriptedLine) Input() error {
	l.ops = append(l.ops, "input")
	l.runs++
	l.clock = 0
	l.armed = true
	return nil
}

func (l *scriptedLine) Set(level bool) error {
	l.driven = level
	l.ops = append(l.ops, fmt.Sprintf("set=%v", level))
	return nil
}

func (l *scriptedLine) Level() bool {
	if !l.armed {
		return l.driven
	}
	t := l.clock
	for _, seg := range l.script() {
		if t < seg.Width {
			return seg.Level
		}
		t -= seg.Width
	}
	return true // released line idles high
}

func (l *scriptedLine) DelayMicros(n int) {
	if l.armed {
		l.clock += n
		return
	}
	l.ops = append(l.ops, fmt.Sprintf("delay=%d", n))
}

func (l *scriptedLine) script() []Pulse {
	if len(l.scripts) == 0 {
		return nil
	}
	idx := l.runs - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(l.scripts) {
		idx = len(l.scripts) - 1
	}
	return l.scripts[idx]
}

// frameWave builds the on-wire waveform for one frame: response delay,
// sensor preamble, 40 bits of (low, high) pairs, then the release low
// before the line idles high.
func frameWave(frame [5]byte) []Pulse {
	wave := []Pulse{
		{Level: true, Width: 30},
		{Level: false, Width: 80},
		{Level: true, Width: 80},
	}

	for i := 0; i < 40; i++ {
		width := 18
		if frame[i/8]&(0x80>>uint(i%8)) != 0 {
			width = 70
		}
		wave = append(wave,
			Pulse{Level: false, Width: 50},
			Pulse{Level: true, Width: width},
		)
	}

	return append(wave, Pulse{Level: false, Width: 45})
}

// ---- tests ----

func TestReadOnce_DecodesFrame(t *testing.T) {
	line := newScriptedLine(frameWave([5]byte{0x02, 0x90, 0x01, 0x59, 0xEC}))
	tr := NewTransactor(line, Config{}, nil)

	r, err := tr.ReadOnce()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.HumidityPct != 65.6 || r.TemperatureC != 34.5 {
		t.Fatalf("reading = %+v, want 65.6 / 34.5", r)
	}
}

func TestReadOnce_WakeSequence(t *testing.T) {
	line := newScriptedLine(frameWave([5]byte{0x02, 0x90, 0x01, 0x59, 0xEC}))
	tr := NewTransactor(line, Config{}, nil)

	if _, err := tr.ReadOnce(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"output", "set=false", "delay=20000", "set=true", "delay=40", "input"}
	if len(line.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", line.ops, want)
	}
	for i := range want {
		if line.ops[i] != want[i] {
			t.Fatalf("ops[%d] = %q, want %q", i, line.ops[i], want[i])
		}
	}
}

func TestReadOnce_SilentSensor(t *testing.T) {
	// no waveform at all: the released line just idles high
	line := newScriptedLine(nil)
	tr := NewTransactor(line, Config{}, nil)

	if _, err := tr.ReadOnce(); !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestReadOnce_PartialFrame(t *testing.T) {
	// preamble plus a handful of bits, then silence
	wave := frameWave([5]byte{0x02, 0x90, 0x01, 0x59, 0xEC})[:23]
	line := newScriptedLine(wave)
	tr := NewTransactor(line, Config{}, nil)

	if _, err := tr.ReadOnce(); !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestReadOnce_CorruptedBit(t *testing.T) {
	wave := frameWave([5]byte{0x02, 0x90, 0x01, 0x59, 0xEC})
	wave[4].Width = 70 // widen the first data pulse into a spurious 1
	line := newScriptedLine(wave)
	tr := NewTransactor(line, Config{}, nil)

	if _, err := tr.ReadOnce(); !errors.Is(err, ErrChecksum) {
		t.Fatalf("err = %v, want ErrChecksum", err)
	}
}

func TestReadOnce_LogsPulseTrace(t *testing.T) {
	// preamble plus two bits, then silence: the trace of what little was
	// captured must reach the debug log for diagnosis
	wave := frameWave([5]byte{0x02, 0x90, 0x01, 0x59, 0xEC})[:7]
	line := newScriptedLine(wave)

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.DebugLevel)

	tr := NewTransactor(line, Config{}, log)
	if _, err := tr.ReadOnce(); !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}

	out := buf.String()
	if !strings.Contains(out, "captured 6 pulses") {
		t.Fatalf("debug output misses the pulse count: %s", out)
	}
	if !strings.Contains(out, "{false 80}") || !strings.Contains(out, "{true 30}") {
		t.Fatalf("debug output misses the pulse widths: %s", out)
	}
}

func TestReadOnce_CustomThreshold(t *testing.T) {
	// widths land between the default threshold and the custom one
	wave := frameWave([5]byte{})
	for i := range wave {
		if wave[i].Level && wave[i].Width == 18 {
			wave[i].Width = 40
		}
	}
	line := newScriptedLine(wave)
	tr := NewTransactor(line, Config{OneThresholdMicros: 60}, nil)

	r, err := tr.ReadOnce()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.HumidityPct != 0 || r.TemperatureC != 0 {
		t.Fatalf("reading = %+v, want zeros", r)
	}
}
