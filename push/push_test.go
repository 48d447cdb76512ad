package push

import (
	"bytes"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
)

func newTestDevice() (*Device, *[]gomidi.Message) {
	var sent []gomidi.Message
	d := New(func(m gomidi.Message) error {
		sent = append(sent, m)
		return nil
	})
	return d, &sent
}

func drain(d *Device) []Event {
	var evs []Event
	for {
		select {
		case ev := <-d.Events():
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

func TestUserModeHandshake(t *testing.T) {
	_, sent := newTestDevice()
	if len(*sent) != 1 {
		t.Fatalf("Expected 1 message at construction, got %d", len(*sent))
	}
	want := []byte{240, 71, 127, 21, 98, 0, 1, 0, 247}
	if !bytes.Equal((*sent)[0].Bytes(), want) {
		t.Errorf("Expected handshake %v, got %v", want, (*sent)[0].Bytes())
	}
}

func TestPadDecode(t *testing.T) {
	d, _ := newTestDevice()

	d.Handle([]byte{144, 36, 100})
	d.Handle([]byte{144, 99, 100})
	d.Handle([]byte{128, 67, 0})
	evs := drain(d)
	if len(evs) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(evs))
	}
	if evs[0].Kind != PadDown || evs[0].Row != 0 || evs[0].Step != 0 {
		t.Errorf("Expected note 36 to decode to pad_down (0,0), got %+v", evs[0])
	}
	if evs[1].Kind != PadDown || evs[1].Row != 7 || evs[1].Step != 7 {
		t.Errorf("Expected note 99 to decode to pad_down (7,7), got %+v", evs[1])
	}
	if evs[2].Kind != PadRelease || evs[2].Row != 3 || evs[2].Step != 7 {
		t.Errorf("Expected note 67 to decode to pad_release (3,7), got %+v", evs[2])
	}
}

func TestNotesOutsidePadRangeIgnored(t *testing.T) {
	d, _ := newTestDevice()
	d.Handle([]byte{144, 35, 100})
	d.Handle([]byte{144, 100, 100})
	d.Handle([]byte{128, 35, 0})
	if evs := drain(d); len(evs) != 0 {
		t.Errorf("Expected no events for notes outside 36..99, got %+v", evs)
	}
}

func TestDialDecode(t *testing.T) {
	if got := DecodeDelta(10); got != 10 {
		t.Errorf("Expected data byte 10 to decode to 10, got %d", got)
	}
	if got := DecodeDelta(70); got != -58 {
		t.Errorf("Expected data byte 70 to decode to -58, got %d", got)
	}
	if got := DecodeDelta(63); got != 63 {
		t.Errorf("Expected data byte 63 to decode to 63, got %d", got)
	}
	if got := DecodeDelta(127); got != -1 {
		t.Errorf("Expected data byte 127 to decode to -1, got %d", got)
	}

	d, _ := newTestDevice()
	d.Handle([]byte{176, 71, 70})
	evs := drain(d)
	if len(evs) != 1 || evs[0].Kind != DialChange || evs[0].Dial != 71 || evs[0].Delta != -58 {
		t.Errorf("Expected dial_change dial=71 delta=-58, got %+v", evs)
	}
}

func TestAftertouchDecode(t *testing.T) {
	d, _ := newTestDevice()
	d.Handle([]byte{160, 44, 90})
	evs := drain(d)
	if len(evs) != 1 || evs[0].Kind != PadPressure || evs[0].Row != 1 || evs[0].Step != 0 || evs[0].Pressure != 90 {
		t.Errorf("Expected pad_pressure (1,0) 90, got %+v", evs)
	}
}

func TestUnrecognizedMessagesDiscarded(t *testing.T) {
	d, _ := newTestDevice()
	d.Handle([]byte{145, 36, 100}) // note-on, channel 2
	d.Handle([]byte{250})          // realtime start
	d.Handle([]byte{176, 71})      // truncated
	if evs := drain(d); len(evs) != 0 {
		t.Errorf("Expected unrecognized messages to be dropped, got %+v", evs)
	}
}

func TestPadNoteRoundTrip(t *testing.T) {
	for row := 0; row < 8; row++ {
		for step := 0; step < 8; step++ {
			note := PadToNote(row, step)
			r, s, ok := NoteToPad(note)
			if !ok || r != row || s != step {
				t.Errorf("Expected note %d to round-trip to (%d,%d), got (%d,%d)", note, row, step, r, s)
			}
		}
	}
}

func TestSetPadColor(t *testing.T) {
	d, sent := newTestDevice()
	*sent = nil
	d.SetPadColor(2, 3, 13)
	want := []byte{144, 55, 13}
	if len(*sent) != 1 || !bytes.Equal((*sent)[0].Bytes(), want) {
		t.Errorf("Expected LED message %v, got %v", want, *sent)
	}
}

func TestWriteDisplayText(t *testing.T) {
	d, sent := newTestDevice()
	*sent = nil
	d.WriteDisplayText(0, 4, "hi")
	want := []byte{240, 71, 127, 21, 24, 0, 3, 4, 'h', 'i', 247}
	if len(*sent) != 1 || !bytes.Equal((*sent)[0].Bytes(), want) {
		t.Errorf("Expected display write %v, got %v", want, (*sent)[0].Bytes())
	}

	*sent = nil
	d.WriteDisplayText(3, 0, "A")
	want = []byte{240, 71, 127, 21, 27, 0, 2, 0, 'A', 247}
	if len(*sent) != 1 || !bytes.Equal((*sent)[0].Bytes(), want) {
		t.Errorf("Expected display write %v, got %v", want, (*sent)[0].Bytes())
	}
}

func TestClearDisplayLine(t *testing.T) {
	d, sent := newTestDevice()
	*sent = nil
	d.ClearDisplayLine(1)
	want := []byte{240, 71, 127, 21, 29, 0, 0, 247}
	if len(*sent) != 1 || !bytes.Equal((*sent)[0].Bytes(), want) {
		t.Errorf("Expected display clear %v, got %v", want, (*sent)[0].Bytes())
	}
}
