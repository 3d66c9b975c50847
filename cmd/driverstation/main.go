// cmd/driverstation/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/tamzrod/driverstation/internal/config"
	"github.com/tamzrod/driverstation/internal/httpapi"
	"github.com/tamzrod/driverstation/internal/joystick"
	"github.com/tamzrod/driverstation/internal/logging"
	"github.com/tamzrod/driverstation/internal/metrics"
	"github.com/tamzrod/driverstation/internal/probe"
	"github.com/tamzrod/driverstation/internal/session"
	"github.com/tamzrod/driverstation/internal/transport"
	"github.com/tamzrod/driverstation/internal/writer"
)

// Version information set at build time.
var version = "dev"

type options struct {
	configPath  string
	verbose     bool
	showVersion bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "driverstation [team]",
		Short: "Robot driver station link",
		Long: `driverstation keeps a UDP control link to a robot controller:
command packets every 20 ms, status decoding, liveness and joystick slots.

The team number argument overrides driverstation.team from the config file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return nil
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "config file")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every packet (debug level)")
	cmd.Flags().BoolVarP(&opts.showVersion, "version", "V", false, "print version and exit")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})

	return cmd
}

func run(ctx context.Context, opts options, args []string) error {
	logger := logging.New(log.New(os.Stderr, "", log.LstdFlags), logging.LevelInfo)

	// --------------------
	// Load + validate config
	// --------------------

	cfg, storePath, err := loadConfig(opts.configPath, logger)
	if err != nil {
		return err
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	if opts.verbose {
		level = logging.LevelDebug
	}
	logger.SetLevel(level)

	team, err := resolveTeam(cfg.Station.Team, args)
	if err != nil {
		return err
	}

	store := config.NewStore(cfg, storePath)
	store.SetTeam(team)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// --------------------
	// Robot link
	// --------------------

	host := config.RemoteHostFor(cfg.Network.RemoteHost, team)
	localAddr, localPort, err := splitListen(cfg.Network.Listen)
	if err != nil {
		return fmt.Errorf("network.listen: %w", err)
	}

	link, err := transport.New(ctx, transport.Config{
		RemoteHost:   host,
		RemotePort:   cfg.Network.RemotePort,
		LocalAddr:    localAddr,
		LocalPort:    localPort,
		ResolveRetry: ms(cfg.Network.ResolveRetryMs),
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	defer link.Close()

	deps := session.Deps{
		Link:    link,
		Store:   store,
		Devices: joystick.StaticSource{},
		Logger:  logger,
		Metrics: m,
	}
	if cfg.ProbeEnabled() {
		probeHost := cfg.Probe.Host
		if probeHost == "" {
			probeHost = host
		}
		deps.Prober = probe.New(probeHost, ms(cfg.Timing.ProbeTimeoutMs))
	}

	tm := cfg.Timing
	ctrl, err := session.New(session.Config{
		Team:          team,
		SendInterval:  ms(tm.SendIntervalMs),
		LoopInterval:  ms(tm.LoopIntervalMs),
		Liveness:      ms(tm.LivenessMs),
		RequestWindow: ms(tm.RequestWindowMs),
		ProbeInterval: ms(tm.ProbeIntervalMs),
		ProbeTimeout:  ms(tm.ProbeTimeoutMs),
	}, deps)
	if err != nil {
		return err
	}
	ctrl.LoadJoysticks()

	// --------------------
	// Telemetry mirror (optional)
	// --------------------

	sinks, closeSinks, err := writer.BuildSinks(cfg.Mirror, team)
	if err != nil {
		return fmt.Errorf("mirror: %w", err)
	}
	defer closeSinks()

	// --------------------
	// Run
	// --------------------

	var wg sync.WaitGroup

	if len(sinks) > 0 {
		runner := writer.NewRunner(ms(cfg.Mirror.IntervalMs), ctrl, sinks, nil, logger, m)
		wg.Add(1)
		go func() {
			defer wg.Done()
			runner.Run(ctx)
		}()
	}

	if cfg.HTTP.Listen != "" {
		api := httpapi.New(ctrl, reg, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := api.ListenAndServe(ctx, cfg.HTTP.Listen); err != nil {
				logger.Error("httpapi: %v", err)
			}
		}()
	}

	logger.Info("driverstation %s: team %d, robot %s", version, team, host)

	err = ctrl.Run(ctx)
	wg.Wait()

	_ = ctrl.SaveJoysticks()

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// loadConfig returns a validated, normalized config and the path it may
// be saved back to. A missing file yields defaults and no save path.
func loadConfig(path string, logger *logging.LeveledLogger) (*config.Config, string, error) {
	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("config %s not found, using defaults; settings will not be saved", path)
		cfg, path = &config.Config{}, ""
	case err != nil:
		return nil, "", err
	}

	if err := config.Validate(cfg); err != nil {
		return nil, "", fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, path, nil
}

// resolveTeam lets the positional argument override the configured team.
func resolveTeam(configured uint16, args []string) (uint16, error) {
	team := configured
	if len(args) > 0 {
		n, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return 0, fmt.Errorf("invalid team number %q", args[0])
		}
		team = uint16(n)
	}
	if team == 0 {
		return 0, errors.New("no team number: pass one as argument or set driverstation.team")
	}
	return team, nil
}

func splitListen(listen string) (string, int, error) {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "", 0, err
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 0 || p > 65535 {
		return "", 0, fmt.Errorf("bad port %q", port)
	}
	if p == 0 {
		p = -1
	}
	return host, p, nil
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }
