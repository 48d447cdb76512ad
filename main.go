package main

import (
	"context"
	"flag"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	charmlog "github.com/charmbracelet/log"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"takt/audio"
	"takt/config"
	"takt/push"
	"takt/sampler"
	"takt/tui"
	"takt/ui"
)

func main() {
	configPath := flag.String("config", "takt.yaml", "path to config file")
	flag.Parse()

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Prefix: "takt",
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load config", "err", err)
	}

	sr := beep.SampleRate(cfg.Audio.SampleRate)
	if err := speaker.Init(sr, cfg.Audio.Buffer); err != nil {
		logger.Fatal("audio init", "err", err)
	}

	player := audio.NewPlayer()
	loader := audio.NewLoader(player, sr)
	smp := sampler.New(cfg.Sequencer.Steps, cfg.Sequencer.Samples, cfg.Sequencer.BPM, float64(sr), loader)
	player.SetClock(smp.Engine().Advance)
	speaker.Play(player)

	in, out, err := push.FindPorts(cfg.MIDI.Input, cfg.MIDI.Output)
	if err != nil {
		logger.Fatal("midi ports", "err", err)
	}
	dev, err := push.Open(in, out)
	if err != nil {
		logger.Fatal("open push", "err", err)
	}
	defer dev.Close()

	// A slot whose sample fails to load stays empty and silent; the rest
	// of the kit and the clock are unaffected.
	for _, entry := range cfg.Kit {
		if err := smp.LoadSample(entry.Path, entry.Slot); err != nil {
			logger.Warn("sample load failed", "slot", entry.Slot, "err", err)
		}
	}

	u := ui.New(smp, dev)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go u.Run(ctx, dev.Events())
	u.DrawAll()

	smp.Start()

	m := tui.NewModel(smp, u.Updates())
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Fatal("tui", "err", err)
	}
	smp.Stop()
}
