package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"murmur/audio"
	"murmur/beep"
	"murmur/clipboard"
	"murmur/config"
	"murmur/doctor"
	"murmur/hotkey"
	"murmur/log"
	"murmur/session"
	"murmur/settings"
	"murmur/shell"
	"murmur/shutdown"
	"murmur/sink"
	"murmur/transcriber"
)

var version = "dev"

func run() int {
	modelFlag := flag.String("model", "", "Whisper model size: tiny, base, small, medium, large, turbo")
	langFlag := flag.String("lang", "", "Language code for transcription (e.g. en, de). Empty or \"auto\" = auto-detect")
	saveFlag := flag.String("save", "", "Append transcriptions to this file")
	durationFlag := flag.Float64("duration", 0, "Fixed recording length in seconds")
	clipboardFlag := flag.Bool("clipboard", true, "Copy transcriptions to the clipboard")
	autoPasteFlag := flag.Bool("autopaste", false, "Paste into the focused window after copying")
	delayFlag := flag.Float64("delay", 0, "Seconds to wait before pasting")
	engineFlag := flag.String("engine", "auto", "Transcription engine: whispercpp, groq, or auto")
	modelDirFlag := flag.String("modeldir", "", "Directory holding whisper.cpp ggml model files")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	setupFlag := flag.Bool("setup", false, "Select microphone device interactively")
	interactiveFlag := flag.Bool("interactive", false, "Run the interactive command shell")
	continuousFlag := flag.Bool("continuous", false, "Record fixed-length cycles back to back")
	onceFlag := flag.Bool("once", false, "Record a single fixed-length cycle and exit")
	quietFlag := flag.Bool("quiet", false, "Disable audible cues")
	configFlag := flag.String("config", "", "Config file path (default: ~/.config/murmur/config.toml)")
	logPathFlag := flag.String("logpath", "", "Log directory path (default: OS-specific location)")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("murmur %s\n", version)
		return 0
	}

	logDir, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot resolve log directory: %v\n", err)
		return 1
	}
	log.SetDir(logDir)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log files: %v\n", err)
		return 1
	}
	defer log.Close()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	s := settings.Default()
	if err := cfg.Apply(&s); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	if err := applyFlags(&s, modelFlag, langFlag, saveFlag, durationFlag, clipboardFlag, autoPasteFlag, delayFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	store := settings.NewStore(s)

	engine := *engineFlag
	if engine == "auto" && cfg.Engine != "" {
		engine = cfg.Engine
	}
	modelDir := *modelDirFlag
	if modelDir == "" {
		modelDir = config.ExpandTilde(cfg.ModelDir)
	}

	if *doctorFlag {
		return doctor.Run(engine, modelDir, store.Snapshot().Model)
	}

	if *quietFlag {
		beep.Disable()
	}

	eng, err := transcriber.New(engine, modelDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("loading %s model...\n", store.Snapshot().Model)
	if err := eng.Load(context.Background(), store.Snapshot().Model); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	audioCtx, err := audio.NewContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "audio: %v\n", err)
		return 1
	}
	defer audioCtx.Close()

	device, err := pickDevice(audioCtx, *deviceFlag, *setupFlag, cfg.Device)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := clipboard.Init(); err != nil {
		log.Warnf("paste unavailable: %v", err)
	}

	sig := shutdown.NewSignal()
	shutdown.NotifySignal(sig)

	dispatcher, fileSink := sink.Default(os.Stdout)
	defer fileSink.Close()

	// Constructed here but only registered in hotkey mode.
	keys := hotkey.New()

	ctrl := session.NewController(session.Config{
		Store:    store,
		Audio:    audioCtx,
		Engine:   eng,
		Hotkeys:  keys,
		Sinks:    dispatcher,
		Shutdown: sig,
		Device:   device,
	}, session.Events{
		RecordingStarted: beep.RecordStart,
		RecordingStopped: beep.RecordStop,
		SilenceWarning:   beep.Silence,
	})

	log.SessionStart(eng.Name(), string(store.Snapshot().Model))
	defer func() { log.SessionEnd(ctrl.Cycles()) }()

	switch {
	case *interactiveFlag:
		sh := shell.New(shell.Config{
			Controller: ctrl,
			Store:      store,
			Engine:     eng,
			File:       fileSink,
			Shutdown:   sig,
		})
		if err := sh.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case *onceFlag:
		if _, err := ctrl.RunCycle(session.ModeFixed); err != nil {
			beep.Failure()
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case *continuousFlag:
		return runContinuous(ctrl, sig)
	default:
		return runHotkeyLoop(ctrl, keys, sig)
	}
}

func applyFlags(s *settings.Settings, model, lang, save *string, duration *float64, clip, paste *bool, delay *float64) error {
	if *model != "" {
		m, err := settings.ParseModel(*model)
		if err != nil {
			return err
		}
		s.Model = m
	}
	if *lang != "" {
		s.Language = *lang
	}
	if *save != "" {
		s.SavePath = config.ExpandTilde(*save)
	}
	if *duration != 0 {
		if *duration < 0 {
			return fmt.Errorf("duration must be positive")
		}
		s.Duration = time.Duration(*duration * float64(time.Second))
	}
	if *delay != 0 {
		if *delay < 0 {
			return fmt.Errorf("delay must not be negative")
		}
		s.PasteDelay = time.Duration(*delay * float64(time.Second))
	}
	// Flags registered with non-zero defaults only override when set.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "clipboard":
			s.Clipboard = *clip
		case "autopaste":
			s.AutoPaste = *paste
		}
	})
	return nil
}

func pickDevice(ctx audio.Context, name string, setup bool, cfgName string) (*audio.DeviceInfo, error) {
	if name == "" {
		name = cfgName
	}
	if setup {
		return audio.SelectDevice(ctx, name)
	}
	if name == "" {
		return nil, nil
	}
	devices, err := ctx.Devices()
	if err != nil {
		return nil, err
	}
	for i := range devices {
		if devices[i].Name == name {
			return &devices[i], nil
		}
	}
	return nil, fmt.Errorf("microphone %q not found, run with -setup to list devices", name)
}

func runContinuous(ctrl *session.Controller, sig *shutdown.Signal) int {
	fmt.Println("continuous mode, ctrl-c to stop")
	for !sig.Triggered() {
		rep, err := ctrl.RunCycle(session.ModeFixed)
		if err != nil {
			beep.Failure()
			fmt.Fprintln(os.Stderr, err)
			// Avoid a hot loop when the device keeps failing.
			time.Sleep(time.Second)
			continue
		}
		if rep.Final == session.StateShuttingDown {
			break
		}
	}
	return 0
}

// runHotkeyLoop is the default mode: cycles start and stop on
// Ctrl+Shift+Space, Ctrl+Shift+Escape quits.
func runHotkeyLoop(ctrl *session.Controller, keys hotkey.Watcher, sig *shutdown.Signal) int {
	if err := keys.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "hotkey: %v\n", err)
		return 1
	}
	defer keys.Stop()

	// The cancel chord behaves exactly like SIGINT.
	go func() {
		select {
		case <-keys.Cancel():
			sig.Trigger()
		case <-sig.Done():
		}
	}()

	fmt.Println("press Ctrl+Shift+Space to start and stop recording, Ctrl+Shift+Escape to quit")
	for !sig.Triggered() {
		rep, err := ctrl.RunCycle(session.ModeHotkey)
		if err != nil {
			beep.Failure()
			log.Errorf("cycle failed: %v", err)
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if rep.Final == session.StateShuttingDown {
			break
		}
	}
	fmt.Println("\nbye")
	return 0
}
