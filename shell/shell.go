// Package shell is the interactive command loop. It is the only writer of
// settings while running; recording is driven synchronously through the
// session controller so at most one cycle is ever in flight.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"murmur/config"
	"murmur/session"
	"murmur/settings"
	"murmur/shutdown"
	"murmur/sink"
	"murmur/transcriber"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type Config struct {
	Controller *session.Controller
	Store      *settings.Store
	Engine     transcriber.Transcriber
	File       *sink.FileSink
	Shutdown   *shutdown.Signal
	In         io.Reader
	Out        io.Writer
}

type Shell struct {
	cfg    Config
	styled bool
}

func New(cfg Config) *Shell {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Shell{cfg: cfg, styled: isTerminal(cfg.Out)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (sh *Shell) style(st lipgloss.Style, s string) string {
	if !sh.styled {
		return s
	}
	return st.Render(s)
}

func (sh *Shell) printf(format string, args ...any) {
	fmt.Fprintf(sh.cfg.Out, format+"\n", args...)
}

func (sh *Shell) ok(format string, args ...any) {
	sh.printf("%s", sh.style(okStyle, fmt.Sprintf(format, args...)))
}

func (sh *Shell) fail(format string, args ...any) {
	sh.printf("%s", sh.style(errStyle, fmt.Sprintf(format, args...)))
}

// Run reads commands until exit, EOF, or shutdown. Malformed input prints a
// diagnostic and leaves all state untouched.
func (sh *Shell) Run() error {
	sh.printf("%s", sh.style(dimStyle, `type "help" for commands`))

	scanner := bufio.NewScanner(sh.cfg.In)
	for {
		if sh.cfg.Shutdown.Triggered() {
			return nil
		}
		fmt.Fprint(sh.cfg.Out, sh.style(promptStyle, "murmur> "))
		if !scanner.Scan() {
			fmt.Fprintln(sh.cfg.Out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(cmd) {
		case "exit", "quit":
			return nil
		case "help":
			sh.help()
		case "status":
			sh.status()
		case "record":
			sh.record(arg)
		case "continuous":
			sh.continuous()
		case "language":
			sh.language(arg)
		case "clipboard":
			sh.setBool(arg, "clipboard", func(s *settings.Settings, v bool) { s.Clipboard = v })
		case "autopaste":
			sh.setBool(arg, "autopaste", func(s *settings.Settings, v bool) { s.AutoPaste = v })
		case "delay":
			sh.delay(arg)
		case "model":
			sh.model(arg)
		case "save":
			sh.save(arg)
		case "duration":
			sh.duration(arg)
		default:
			sh.fail("unknown command %q, type \"help\"", cmd)
		}
	}
}

func (sh *Shell) help() {
	sh.printf(`commands:
  record [seconds]    record once and transcribe
  continuous          record cycles until interrupted
  model <name>        switch whisper model (%s)
  language <code>     set language, "auto" to detect
  duration <seconds>  set the default recording length
  clipboard on|off    copy transcriptions to the clipboard
  autopaste on|off    paste after copying (implies clipboard)
  delay <seconds>     pause before pasting
  save <path|off>     append transcriptions to a file
  status              show current settings
  exit                leave the shell`, strings.Join(settings.ModelNames(), ", "))
}

func (sh *Shell) status() {
	s := sh.cfg.Store.Snapshot()
	lang := s.Language
	if lang == "" {
		lang = "auto"
	}
	save := s.SavePath
	if save == "" {
		save = "off"
	}
	sh.printf("  engine:    %s", sh.cfg.Engine.Name())
	sh.printf("  model:     %s", s.Model)
	sh.printf("  language:  %s", lang)
	sh.printf("  duration:  %s", s.Duration)
	sh.printf("  clipboard: %s", onOff(s.Clipboard))
	sh.printf("  autopaste: %s", onOff(s.AutoPaste))
	sh.printf("  delay:     %s", s.PasteDelay)
	sh.printf("  save:      %s", save)
	sh.printf("  state:     %s", sh.cfg.Controller.State())
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// record runs one fixed-duration cycle. A seconds argument applies to this
// recording only; the configured duration is restored afterwards.
func (sh *Shell) record(arg string) {
	restore := time.Duration(0)
	if arg != "" {
		secs, err := parseSeconds(arg)
		if err != nil {
			sh.fail("record: %v", err)
			return
		}
		restore = sh.cfg.Store.Snapshot().Duration
		sh.cfg.Store.Apply(func(s *settings.Settings) { s.Duration = secs })
	}

	dur := sh.cfg.Store.Snapshot().Duration
	sh.printf("%s", sh.style(dimStyle, fmt.Sprintf("recording for %s...", dur)))
	rep, err := sh.cfg.Controller.RunCycle(session.ModeFixed)

	if restore != 0 {
		sh.cfg.Store.Apply(func(s *settings.Settings) { s.Duration = restore })
	}
	sh.report(rep, err)
}

func (sh *Shell) continuous() {
	sh.printf("%s", sh.style(dimStyle, "continuous mode, ctrl-c to stop"))
	for !sh.cfg.Shutdown.Triggered() {
		rep, err := sh.cfg.Controller.RunCycle(session.ModeFixed)
		sh.report(rep, err)
		if err != nil || rep.Final == session.StateShuttingDown {
			return
		}
	}
}

func (sh *Shell) report(rep session.Report, err error) {
	switch {
	case err != nil:
		sh.fail("cycle failed: %v", err)
	case rep.Final == session.StateShuttingDown:
		sh.printf("%s", sh.style(dimStyle, "interrupted"))
	case rep.Text == "":
		sh.printf("%s", sh.style(dimStyle, "no speech detected"))
	default:
		sh.ok("%s", rep.Text)
	}
}

func (sh *Shell) language(arg string) {
	if arg == "" {
		sh.fail("language: missing code, e.g. \"language en\" or \"language auto\"")
		return
	}
	s := sh.cfg.Store.Apply(func(s *settings.Settings) { s.Language = arg })
	if s.Language == "" {
		sh.ok("language: auto-detect")
		return
	}
	sh.ok("language: %s", s.Language)
}

func (sh *Shell) setBool(arg, name string, set func(*settings.Settings, bool)) {
	var v bool
	switch strings.ToLower(arg) {
	case "on":
		v = true
	case "off":
		v = false
	default:
		sh.fail("%s: expected on or off", name)
		return
	}
	sh.cfg.Store.Apply(func(s *settings.Settings) { set(s, v) })
	sh.ok("%s: %s", name, onOff(v))
}

func (sh *Shell) delay(arg string) {
	d, err := parseSeconds(arg)
	if err != nil {
		sh.fail("delay: %v", err)
		return
	}
	sh.cfg.Store.Apply(func(s *settings.Settings) { s.PasteDelay = d })
	sh.ok("paste delay: %s", d)
}

func (sh *Shell) duration(arg string) {
	d, err := parseSeconds(arg)
	if err != nil {
		sh.fail("duration: %v", err)
		return
	}
	if d <= 0 {
		sh.fail("duration: must be positive")
		return
	}
	sh.cfg.Store.Apply(func(s *settings.Settings) { s.Duration = d })
	sh.ok("duration: %s", d)
}

// model switches the active whisper model. The load can be slow and the old
// model keeps serving until the new one loads, so switching is refused while
// a cycle is running.
func (sh *Shell) model(arg string) {
	m, err := settings.ParseModel(arg)
	if err != nil {
		sh.fail("model: %v", err)
		return
	}
	if sh.cfg.Controller.Busy() {
		sh.fail("model: a recording cycle is active, try again when it finishes")
		return
	}
	sh.printf("%s", sh.style(dimStyle, fmt.Sprintf("loading %s...", m)))
	if err := sh.cfg.Engine.Load(context.Background(), m); err != nil {
		sh.fail("model: %v (keeping %s)", err, sh.cfg.Store.Snapshot().Model)
		return
	}
	sh.cfg.Store.Apply(func(s *settings.Settings) { s.Model = m })
	sh.ok("model: %s", m)
}

func (sh *Shell) save(arg string) {
	if arg == "" {
		sh.fail("save: expected a file path or \"off\"")
		return
	}
	// The open transcript handle belongs to the old path; close it before
	// the settings change takes effect.
	if sh.cfg.File != nil {
		if err := sh.cfg.File.Close(); err != nil {
			sh.fail("save: closing transcript: %v", err)
		}
	}
	if strings.EqualFold(arg, "off") {
		sh.cfg.Store.Apply(func(s *settings.Settings) { s.SavePath = "" })
		sh.ok("save: off")
		return
	}
	path := config.ExpandTilde(arg)
	sh.cfg.Store.Apply(func(s *settings.Settings) { s.SavePath = path })
	sh.ok("save: %s", path)
}

func parseSeconds(arg string) (time.Duration, error) {
	if arg == "" {
		return 0, fmt.Errorf("missing seconds")
	}
	secs, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", arg)
	}
	if secs < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return time.Duration(secs * float64(time.Second)), nil
}
