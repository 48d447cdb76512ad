package push

import (
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// FindPorts scans the MIDI ports for names containing the configured
// input/output substrings (case-insensitive). The scan runs behind a
// timeout because some backends can hang while enumerating.
func FindPorts(inName, outName string) (drivers.In, drivers.Out, error) {
	type ports struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan ports, 1)
	go func() {
		ch <- ports{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	var scanned ports
	select {
	case scanned = <-ch:
	case <-time.After(3 * time.Second):
		return nil, nil, fmt.Errorf("midi port scan timed out")
	}

	var in drivers.In
	for _, p := range scanned.ins {
		if strings.Contains(strings.ToLower(p.String()), strings.ToLower(inName)) {
			in = p
			break
		}
	}
	if in == nil {
		return nil, nil, fmt.Errorf("no input port matching %q", inName)
	}

	var out drivers.Out
	for _, p := range scanned.outs {
		if strings.Contains(strings.ToLower(p.String()), strings.ToLower(outName)) {
			out = p
			break
		}
	}
	if out == nil {
		return nil, nil, fmt.Errorf("no output port matching %q", outName)
	}
	return in, out, nil
}
