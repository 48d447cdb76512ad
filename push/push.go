package push

import (
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// Channel-1 status bytes understood by the decoder. Anything else is
// logged and discarded.
const (
	NoteOn        uint8 = 144
	NoteOff       uint8 = 128
	Aftertouch    uint8 = 160
	ControlChange uint8 = 176
)

// Pad note range on the 8x8 grid.
const (
	padNoteLo = 36
	padNoteHi = 99
)

// Display geometry of the Push 1 text display.
const (
	DisplayLines = 4
	displayWrite = 24 // command base for text writes, offset by line
	displayClear = 28 // command base for line clears, offset by line
)

// userMode is the SysEx payload (vendor/model header plus command) that
// switches the Push into user mode. Required before any pad or LED
// addressing.
var userMode = []byte{0x47, 0x7F, 0x15, 0x62, 0x00, 0x01, 0x00}

// sysexHeader prefixes every display message.
var sysexHeader = []byte{71, 127, 21}

// Device translates between the Push 1 wire protocol and abstract
// pad/dial events and LED/display writes. Decoded events are delivered
// on a buffered channel; a full channel drops the event rather than
// blocking the MIDI receive callback.
type Device struct {
	send   func(gomidi.Message) error
	stop   func()
	events chan Event
	log    *charmlog.Logger
}

// New wraps a raw MIDI send function and performs the user-mode
// handshake. Open wires a Device to real ports; New exists so the
// protocol can be driven without hardware.
func New(send func(gomidi.Message) error) *Device {
	d := &Device{
		send:   send,
		events: make(chan Event, 32),
		log: charmlog.NewWithOptions(os.Stderr, charmlog.Options{
			Prefix: "push",
		}),
	}
	d.send(gomidi.SysEx(userMode))
	return d
}

// Open connects to the given MIDI ports and starts listening.
func Open(in drivers.In, out drivers.Out) (*Device, error) {
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	d := New(send)
	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		d.Handle(msg.Bytes())
	})
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	d.stop = stop
	return d, nil
}

// Events returns the decoded controller event stream.
func (d *Device) Events() <-chan Event { return d.events }

// Handle decodes one raw controller message and emits the corresponding
// event. Unrecognized messages are logged, never fatal.
func (d *Device) Handle(raw []byte) {
	if len(raw) != 3 {
		d.log.Warn("unrecognized midi message", "bytes", raw)
		return
	}
	status, data1, data2 := raw[0], raw[1], raw[2]
	switch status {
	case NoteOn:
		if row, step, ok := NoteToPad(data1); ok {
			d.emit(Event{Kind: PadDown, Row: row, Step: step})
		}
	case NoteOff:
		if row, step, ok := NoteToPad(data1); ok {
			d.emit(Event{Kind: PadRelease, Row: row, Step: step})
		}
	case Aftertouch:
		if row, step, ok := NoteToPad(data1); ok {
			d.emit(Event{Kind: PadPressure, Row: row, Step: step, Pressure: int(data2)})
		}
	case ControlChange:
		d.emit(Event{Kind: DialChange, Dial: int(data1), Delta: DecodeDelta(data2)})
	default:
		d.log.Warn("unrecognized midi message",
			"status", status, "data1", data1, "data2", data2)
	}
}

func (d *Device) emit(ev Event) {
	select {
	case d.events <- ev:
	default:
		d.log.Warn("event dropped", "kind", ev.Kind)
	}
}

// SetPadColor lights a pad with a device palette code (0 = off).
func (d *Device) SetPadColor(row, step int, color uint8) error {
	return d.send(gomidi.NoteOn(0, PadToNote(row, step), color))
}

// WriteDisplayText writes ASCII text to a display line starting at a
// character offset.
func (d *Device) WriteDisplayText(line, offset int, text string) error {
	data := make([]byte, 0, len(sysexHeader)+4+len(text))
	data = append(data, sysexHeader...)
	data = append(data, byte(displayWrite+line), 0, byte(len(text)+1), byte(offset))
	data = append(data, []byte(text)...)
	return d.send(gomidi.SysEx(data))
}

// ClearDisplayLine blanks one display line.
func (d *Device) ClearDisplayLine(line int) error {
	data := make([]byte, 0, len(sysexHeader)+3)
	data = append(data, sysexHeader...)
	data = append(data, byte(displayClear+line), 0, 0)
	return d.send(gomidi.SysEx(data))
}

// Close stops the listener and darkens the surface.
func (d *Device) Close() error {
	if d.stop != nil {
		d.stop()
	}
	for row := 0; row < 8; row++ {
		for step := 0; step < 8; step++ {
			d.SetPadColor(row, step, 0)
		}
	}
	for line := 0; line < DisplayLines; line++ {
		d.ClearDisplayLine(line)
	}
	return nil
}

// NoteToPad converts a MIDI note to grid coordinates. Notes outside the
// pad range report ok=false.
func NoteToPad(note uint8) (row, step int, ok bool) {
	if note < padNoteLo || note > padNoteHi {
		return 0, 0, false
	}
	base := int(note) - padNoteLo
	return base / 8, base % 8, true
}

// PadToNote converts grid coordinates back to the pad's MIDI note.
func PadToNote(row, step int) uint8 {
	return uint8(row*8 + step + padNoteLo)
}

// DecodeDelta decodes a relative-encoder data byte into a signed delta:
// 0..63 map to themselves, 64..127 to value-128.
func DecodeDelta(b uint8) int {
	if b < 64 {
		return int(b)
	}
	return int(b) - 128
}
