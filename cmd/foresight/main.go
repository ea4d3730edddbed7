// Command foresight intercepts, transforms, and retypes input events
// from Linux evdev devices.
//
// Usage:
//
//	foresight intercept [-g|--grab] [--keymap PATH] PATH...
//	foresight redirect PATH
//	foresight systemd EXEC [ARGS...]
//	foresight list-devices
//	foresight help
//
// intercept reads one or more devices, transforms the events, and prints
// them to stdout; it never creates a virtual device. redirect (alias to)
// does the inverse: it reads a transformed event stream from stdin and
// replays it on a virtual device whose capabilities mirror PATH's own.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/moisrex/foresight/internal/evcodes"
	"github.com/moisrex/foresight/internal/evdevio"
	"github.com/moisrex/foresight/internal/keymap"
	"github.com/moisrex/foresight/internal/keystatus"
	"github.com/moisrex/foresight/internal/logging"
	"github.com/moisrex/foresight/internal/pipeline"
	"github.com/moisrex/foresight/internal/search"
	"github.com/moisrex/foresight/internal/svcunit"
	"github.com/moisrex/foresight/internal/transform"
	"github.com/moisrex/foresight/internal/uinput"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printHelp()
		return 1
	}

	action := args[0]
	rest := args[1:]

	switch action {
	case "intercept":
		return runIntercept(rest)
	case "redirect", "to":
		return runRedirect(rest)
	case "systemd":
		return runSystemd(rest)
	case "list-devices":
		return runListDevices(rest)
	case "help", "-h", "--help":
		printHelp()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "foresight: unknown action %q\n\n", action)
		printHelp()
		return 1
	}
}

func printHelp() {
	fmt.Fprint(os.Stderr, `foresight - transform and retype Linux input events

Usage:
  foresight intercept [-g|--grab] [--log LEVEL] [--keymap PATH] PATH...
  foresight redirect PATH
  foresight systemd EXEC [ARGS...]
  foresight list-devices
  foresight help
`)
}

// runIntercept reads one or more devices and prints the resulting event
// stream to stdout as a sequence of struct input_event records; it never
// creates a virtual device. Multiple devices are multiplexed onto a
// single producer stage so one tick never clobbers another device's
// event before the tracker/quantizer/printer see it.
func runIntercept(args []string) int {
	fs := pflag.NewFlagSet("intercept", pflag.ContinueOnError)
	grab := fs.BoolP("grab", "g", false, "exclusively grab each device")
	logLevel := fs.String("log", "info", "log level (debug/info/warn/error/disabled)")
	keymapPath := fs.String("keymap", "", "path to a keymap YAML file; enables the search ring when set")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	paths := fs.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "foresight intercept: at least one device path is required")
		return 1
	}

	logger := logging.New(*logLevel)

	devices := make([]*evdevio.Device, 0, len(paths))
	for _, p := range paths {
		dev, err := evdevio.Open(p, *grab)
		if err != nil {
			logger.Error().Err(err).Str("path", p).Msg("failed to open device")
			for _, d := range devices {
				d.Close()
			}
			return 1
		}
		devices = append(devices, dev)
	}

	tracker := keystatus.NewTracker()
	quantizer := transform.NewQuantizer(1)
	printer := &stdoutPrinter{w: os.Stdout}

	stages := []pipeline.Stage{
		evdevio.NewMultiplexer(devices),
		tracker,
		quantizer,
	}

	if *keymapPath != "" {
		km, err := keymap.Load(*keymapPath)
		if err != nil {
			logger.Error().Err(err).Str("path", *keymapPath).Msg("failed to load keymap")
			for _, d := range devices {
				d.Close()
			}
			return 1
		}
		stages = append(stages, search.NewKeyFeeder(km, tracker, search.NewBuffer()))
	}

	stages = append(stages, printer)

	p := pipeline.New(stages...)
	ctx := pipeline.NewContext()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		ctx.Stop()
	}()

	if err := p.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("pipeline exited with error")
		return 1
	}

	return 0
}

// runRedirect reads a stream of struct input_event records from stdin and
// replays it on a virtual device whose EV_KEY/EV_REL/EV_ABS capabilities
// mirror PATH's own, queried rather than guessed at.
func runRedirect(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "foresight redirect: exactly one device path is required")
		return 1
	}
	path := args[0]

	src, err := evdevio.Open(path, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "foresight redirect: %v\n", err)
		return 1
	}
	caps := capabilitiesOf(src)
	src.Close()

	sink := uinput.New(caps)
	tracker := keystatus.NewTracker()
	quantizer := transform.NewQuantizer(1)
	producer := &stdinProducer{r: os.Stdin}

	stages := []pipeline.Stage{producer, tracker, quantizer, sink}

	p := pipeline.New(stages...)
	ctx := pipeline.NewContext()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		ctx.Stop()
	}()

	if err := p.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "foresight redirect: %v\n", err)
		return 1
	}

	return 0
}

// capabilitiesOf queries dev's EV_KEY/EV_REL/EV_ABS bitmaps and builds the
// uinput.Capabilities a virtual device needs to replicate dev's input
// surface, instead of hardcoding a generic keyboard-and-mouse set.
func capabilitiesOf(dev *evdevio.Device) uinput.Capabilities {
	caps := uinput.Capabilities{Name: "foresight-virtual"}

	for _, t := range dev.EventTypes() {
		switch t {
		case evcodes.EV_KEY:
			codes := dev.Codes(evcodes.EV_KEY, evcodes.KEY_MAX)
			if len(codes) == 0 {
				codes = allKeycodes()
			}
			caps.Keys = codes
		case evcodes.EV_REL:
			caps.Rel = dev.Codes(evcodes.EV_REL, evcodes.REL_MAX)
		case evcodes.EV_ABS:
			for _, code := range dev.Codes(evcodes.EV_ABS, evcodes.ABS_MAX) {
				caps.Abs = append(caps.Abs, uinput.AbsAxis{Code: code})
			}
		}
	}

	return caps
}

// stdinProducer implements pipeline.Producer by decoding one event.Event
// from stdin per tick, the format redirect reads instead of an evdev fd.
type stdinProducer struct {
	r io.Reader
}

// Name satisfies [pipeline.Stage].
func (p *stdinProducer) Name() string { return "stdinProducer" }

var _ pipeline.Producer = (*stdinProducer)(nil)

// Produce decodes one struct input_event record from stdin. EOF ends the
// pipeline the same way a disconnected device would.
func (p *stdinProducer) Produce(ctx *pipeline.Context) (pipeline.Action, error) {
	ev, err := evdevio.DecodeEvent(p.r)
	if err != nil {
		if err == io.EOF {
			return pipeline.Exit, nil
		}
		return pipeline.Idle, fmt.Errorf("stdinProducer.Produce: %w", err)
	}
	ctx.Event = ev
	return pipeline.Next, nil
}

// stdoutPrinter implements pipeline.Emitter by writing the current event
// to stdout as a struct input_event record, what intercept documents
// instead of creating a virtual device.
type stdoutPrinter struct {
	w io.Writer
}

// Name satisfies [pipeline.Stage].
func (p *stdoutPrinter) Name() string { return "stdoutPrinter" }

var _ pipeline.Emitter = (*stdoutPrinter)(nil)

// Emit writes the current event to stdout.
func (p *stdoutPrinter) Emit(ctx *pipeline.Context) (pipeline.Action, error) {
	if _, err := p.w.Write(evdevio.EncodeEvent(ctx.Event)); err != nil {
		return pipeline.Exit, fmt.Errorf("stdoutPrinter.Emit: %w", err)
	}
	return pipeline.Next, nil
}

func runSystemd(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "foresight systemd: EXEC is required")
		return 1
	}

	if !svcunit.CheckSupport() {
		fmt.Fprintln(os.Stderr, "foresight systemd: warning: no systemd --user instance detected, installing anyway")
	}

	path, err := svcunit.Install("foresight", args[0], args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "foresight systemd: %v\n", err)
		return 1
	}

	fmt.Printf("installed %s\nrun: systemctl --user enable --now foresight.service\n", path)
	return 0
}

func runListDevices(args []string) int {
	devices, err := evdevio.Devices(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "foresight list-devices: %v\n", err)
		return 1
	}
	defer func() {
		for _, d := range devices {
			d.Close()
		}
	}()

	for _, d := range devices {
		fmt.Printf("%s\t%s\ttypes=%v\n", d.Path, d.DeviceName(), d.EventTypes())
	}

	return 0
}

// allKeycodes returns every evdev key code from 1 through 254, a
// conservative superset that capabilitiesOf registers on the uinput sink
// when a device reports EV_KEY but its key bitmap comes back empty.
func allKeycodes() []uint16 {
	codes := make([]uint16, 0, 255)
	for i := uint16(1); i < 255; i++ {
		codes = append(codes, i)
	}
	return codes
}
