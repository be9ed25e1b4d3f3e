//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"dualjoy/app"
	"dualjoy/hal"
)

func main() {
	var (
		headless   hal.HeadlessConfig
		configPath string
		term       bool
		listen     string
		target     string
		self       string
	)
	flag.BoolVar(&headless.Host.Demo, "demo", false, "Drive the sticks and buttons with synthetic input.")
	flag.IntVar(&headless.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	headlessMode := flag.Bool("headless", false, "Run without a window.")
	flag.Uint64Var(&headless.DumpEvery, "dump", 0, "In headless mode, print the screen as text every N ticks and on exit (0 = never).")
	flag.BoolVar(&term, "term", false, "Render into the terminal instead of a window.")
	flag.StringVar(&configPath, "config", "", "TOML or YAML config file.")
	flag.StringVar(&listen, "listen", "", "Local UDP address for the link (overrides config).")
	flag.StringVar(&target, "target", "", "UDP address link datagrams are sent to (overrides config).")
	flag.StringVar(&self, "self", "", "This controller's link address (overrides config).")
	flag.Parse()

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	host, err := hostConfig(cfg.Link, listen, target, self)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	host.Demo = headless.Host.Demo
	headless.Host = host
	if headless.DumpEvery > 0 {
		headless.Dump = os.Stdout
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	newApp := runner(ctx, cfg, configPath)

	switch {
	case *headlessMode:
		err = hal.RunHeadless(ctx, newApp, headless)
	case term:
		err = hal.RunTerminal(ctx, host, newApp)
	default:
		err = hal.RunWindow(host, newApp)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func hostConfig(link app.LinkConfig, listen, target, self string) (hal.HostConfig, error) {
	host := hal.DefaultHostConfig()
	pick := func(flagVal, cfgVal string, dst *string) {
		switch {
		case flagVal != "":
			*dst = flagVal
		case cfgVal != "":
			*dst = cfgVal
		}
	}
	pick(listen, link.Listen, &host.Listen)
	pick(target, link.Target, &host.Target)

	addr := self
	if addr == "" {
		addr = link.Self
	}
	if addr != "" {
		a, err := hal.ParseAddress(addr)
		if err != nil {
			return hal.HostConfig{}, err
		}
		host.Self = a
	}
	return host, nil
}

// runner adapts the app to the host runners: the app's tasks run in the
// background and the per-tick step reports their failure. A config file,
// when given, is watched and reapplied on change.
func runner(ctx context.Context, cfg app.Config, configPath string) func(hal.HAL) func() error {
	return func(h hal.HAL) func() error {
		a, err := app.New(h, cfg)
		if err != nil {
			return func() error { return err }
		}
		if configPath != "" {
			go watchConfig(ctx, a, configPath)
		}
		done := make(chan error, 1)
		go func() { done <- a.Run(ctx) }()
		return func() error {
			select {
			case err := <-done:
				if err == nil {
					err = ctx.Err()
				}
				return err
			default:
				return nil
			}
		}
	}
}

func watchConfig(ctx context.Context, a *app.App, path string) {
	log := a.Logger()
	err := app.WatchConfig(ctx, path, a.Reload, func(err error) {
		log.WriteLineString(fmt.Sprintf("config: %v", err))
	})
	if err != nil {
		log.WriteLineString(fmt.Sprintf("config: not watching %s: %v", path, err))
	}
}
