// Package doctor walks the user through interactive checks of everything
// dictation needs: the global hotkey, the microphone and transcription
// engine, and the clipboard/paste path.
package doctor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"murmur/audio"
	"murmur/clipboard"
	"murmur/encoder"
	"murmur/hotkey"
	"murmur/settings"
	"murmur/transcriber"
)

// Run executes the checks in order and returns an exit code, 0 when all
// pass. Later checks are skipped once one fails.
func Run(engine, modelDir string, model settings.Model) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("murmur doctor - interactive system diagnostics")
	fmt.Println("==============================================")

	pass := checkHotkey()
	if pass {
		pass = checkMicAndTranscription(engine, modelDir, model)
	}
	if pass {
		pass = checkClipboard()
	}

	fmt.Println()
	if !pass {
		fmt.Println("Some checks failed. See details above.")
		return 1
	}
	fmt.Println("All checks passed!")
	return 0
}

func checkHotkey() bool {
	fmt.Println()
	fmt.Println("[1/3] Hotkey detection")
	fmt.Println("Press Ctrl+Shift+Space...")

	hk := hotkey.New()
	if err := hk.Start(); err != nil {
		fmt.Printf("  FAIL: could not register hotkey: %v\n", err)
		return false
	}
	defer hk.Stop()

	select {
	case <-hk.Toggle():
		fmt.Println("  PASS: hotkey detected")
		// The hotkey hook can leave the terminal in raw mode.
		resetTerminal()
		return true
	case <-time.After(10 * time.Second):
		fmt.Println("  FAIL: timeout waiting for hotkey")
		return false
	}
}

func checkMicAndTranscription(engine, modelDir string, model settings.Model) bool {
	fmt.Println()
	fmt.Println("[2/3] Microphone and transcription")

	reader := bufio.NewReader(os.Stdin)

	ctx, err := audio.NewContext()
	if err != nil {
		fmt.Printf("  FAIL: cannot connect to audio: %v\n", err)
		return false
	}
	defer ctx.Close()

	device, ok := selectDevice(ctx, reader)
	if !ok {
		return false
	}

	eng, err := transcriber.New(engine, modelDir)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("Engine: %s, model: %s\n", eng.Name(), model)
	fmt.Print("Loading model...")
	if err := eng.Load(context.Background(), model); err != nil {
		fmt.Printf("\n  FAIL: model load: %v\n", err)
		return false
	}
	fmt.Println(" ok")

	fmt.Println()
	fmt.Print("Press Enter and speak for 3 seconds...")
	reader.ReadString('\n')

	clip, err := recordClip(ctx, device, 3*time.Second)
	if err != nil {
		fmt.Printf("  FAIL: recording error: %v\n", err)
		return false
	}
	if len(clip.PCM) == 0 {
		fmt.Println("  FAIL: no audio captured")
		return false
	}
	fmt.Printf("  Recorded %.1fs, transcribing...\n", clip.Duration().Seconds())

	text, err := eng.Transcribe(context.Background(), clip, "")
	if err != nil {
		fmt.Printf("  FAIL: transcription error: %v\n", err)
		return false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = "(no speech detected)"
	}
	fmt.Printf("\n  Transcribed text: %s\n\n", text)

	if !confirm("Is this correct?") {
		fmt.Println("  FAIL: transcription not confirmed")
		return false
	}
	fmt.Println("  PASS: transcription verified by user")
	return true
}

func selectDevice(ctx audio.Context, reader *bufio.Reader) (*audio.DeviceInfo, bool) {
	devices, err := ctx.Devices()
	if err != nil {
		fmt.Printf("  FAIL: cannot list devices: %v\n", err)
		return nil, false
	}
	if len(devices) == 0 {
		fmt.Println("  FAIL: no capture devices found")
		return nil, false
	}
	if len(devices) == 1 {
		fmt.Printf("Using device: %s\n", devices[0].Name)
		return &devices[0], true
	}

	fmt.Println()
	fmt.Println("Select input device:")
	for i, d := range devices {
		fmt.Printf("  %d. %s\n", i+1, d.Name)
	}
	fmt.Printf("Choice [1-%d]: ", len(devices))
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)

	idx := 1
	if line != "" {
		fmt.Sscanf(line, "%d", &idx)
	}
	if idx < 1 || idx > len(devices) {
		fmt.Println("  FAIL: invalid choice")
		return nil, false
	}
	fmt.Printf("Selected: %s\n", devices[idx-1].Name)
	return &devices[idx-1], true
}

func recordClip(ctx audio.Context, device *audio.DeviceInfo, dur time.Duration) (*audio.Clip, error) {
	dev, err := ctx.NewCapture(device, audio.CaptureConfig{
		SampleRate: encoder.SampleRate,
		Channels:   encoder.Channels,
	})
	if err != nil {
		return nil, err
	}
	defer dev.Close()

	var (
		mu  sync.Mutex
		pcm []byte
	)
	dev.SetCallback(func(data []byte, _ uint32) {
		mu.Lock()
		pcm = append(pcm, data...)
		mu.Unlock()
	})
	if err := dev.Start(); err != nil {
		return nil, err
	}

	fmt.Print("  Recording")
	end := time.After(dur)
	tick := time.NewTicker(500 * time.Millisecond)
	defer tick.Stop()
wait:
	for {
		select {
		case <-end:
			break wait
		case <-tick.C:
			fmt.Print(".")
		}
	}
	dev.Stop()
	dev.ClearCallback()
	fmt.Println(" done")

	mu.Lock()
	defer mu.Unlock()
	return &audio.Clip{PCM: pcm, SampleRate: encoder.SampleRate, Channels: encoder.Channels}, nil
}

func checkClipboard() bool {
	fmt.Println()
	fmt.Println("[3/3] Clipboard and paste")

	if err := clipboard.Init(); err != nil {
		fmt.Printf("  Warning: paste init: %v\n", err)
	}

	const probe = "murmur-doctor-test"
	if err := clipboard.Copy(probe); err != nil {
		fmt.Printf("  FAIL: clipboard copy failed: %v\n", err)
		return false
	}
	got, err := clipboard.Read()
	if err != nil {
		fmt.Printf("  FAIL: clipboard read failed: %v\n", err)
		return false
	}
	if got != probe {
		fmt.Printf("  FAIL: clipboard roundtrip (got %q)\n", got)
		return false
	}
	fmt.Println("  PASS: clipboard roundtrip")

	fmt.Println()
	fmt.Println("Focus on a text editor window...")
	for i := 5; i > 0; i-- {
		fmt.Printf("  %d...\n", i)
		time.Sleep(time.Second)
	}
	if err := clipboard.Paste(); err != nil {
		fmt.Printf("  FAIL: paste failed: %v\n", err)
		return false
	}

	resetTerminal()
	fmt.Println()
	if !confirm(fmt.Sprintf("Did the text %q appear?", probe)) {
		fmt.Println("  FAIL: paste not confirmed")
		return false
	}
	fmt.Println("  PASS: paste verified by user")
	return true
}

func confirm(question string) bool {
	// Fresh reader to drop any input buffered during the check.
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/n]: ", question)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
