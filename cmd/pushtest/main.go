package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"takt/push"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "monitor":
		monitor()
	case "display":
		display(strings.Join(os.Args[2:], " "))
	case "leds":
		leds()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("pushtest - Push 1 diagnostics")
	fmt.Println()
	fmt.Println("  pushtest list             list MIDI ports")
	fmt.Println("  pushtest monitor          print decoded pad/dial events")
	fmt.Println("  pushtest display <text>   write text to display line 0")
	fmt.Println("  pushtest leds             sweep pad colors")
}

func listPorts() {
	fmt.Println("Inputs:")
	for i, p := range gomidi.GetInPorts() {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("Outputs:")
	for i, p := range gomidi.GetOutPorts() {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func open() *push.Device {
	in, out, err := push.FindPorts("push", "push")
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	dev, err := push.Open(in, out)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	return dev
}

func monitor() {
	dev := open()
	defer dev.Close()
	fmt.Println("Monitoring, ctrl+c to quit")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	for {
		select {
		case ev := <-dev.Events():
			switch ev.Kind {
			case push.DialChange:
				fmt.Printf("%s dial=%d delta=%d\n", ev.Kind, ev.Dial, ev.Delta)
			case push.PadPressure:
				fmt.Printf("%s row=%d step=%d pressure=%d\n", ev.Kind, ev.Row, ev.Step, ev.Pressure)
			default:
				fmt.Printf("%s row=%d step=%d\n", ev.Kind, ev.Row, ev.Step)
			}
		case <-sig:
			return
		}
	}
}

func display(text string) {
	dev := open()
	defer dev.Close()
	if text == "" {
		text = "takt"
	}
	dev.WriteDisplayText(0, 0, text)
	time.Sleep(3 * time.Second)
}

func leds() {
	dev := open()
	defer dev.Close()
	for _, color := range []uint8{5, 13, 0} {
		for row := 0; row < 8; row++ {
			for step := 0; step < 8; step++ {
				dev.SetPadColor(row, step, color)
			}
			time.Sleep(50 * time.Millisecond)
		}
	}
}
