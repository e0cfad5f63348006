// plugdemo runs the in-process demo host and registers a handful of hooks
// through the plugbridge SDK, so the whole registration/dispatch/unhook
// cycle can be exercised against a live IRC session.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soyeahso/plugbridge"
	"github.com/soyeahso/plugbridge/hooks"
	"github.com/soyeahso/plugbridge/internal/demohost"
	"github.com/soyeahso/plugbridge/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile  string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "plugdemo",
		Short: "plugdemo — plugbridge SDK demo against an IRC host",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := demohost.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			return run(cmd.Context(), cfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&cfgFile, "config", "plugdemo.yaml", "config file")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, silent)")

	return cmd
}

func run(ctx context.Context, cfg demohost.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.New(nil, cfg.LogLevel)
	host := demohost.New(cfg, log, os.Stdout)

	// Feed stdin into the host as user input.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			host.Input(scanner.Text())
		}
	}()

	// Run drives the host loop on this goroutine; the ready callback is
	// therefore the host callback goroutine, which is where the SDK must
	// be initialized and hooks registered.
	return host.Run(ctx, func() {
		plugbridge.Init(host, plugbridge.Options{LogLevel: cfg.LogLevel})
		registerDemoHooks(log.Sub("demo"))
	})
}

// registerDemoHooks wires one hook of each kind.
func registerDemoHooks(log *logging.Logger) {
	greet := hooks.NewCommandSettings("greet").
		Description("Greet someone in the current buffer.").
		AddArgument("<name>").
		ArgumentsDescription("name: who to greet").
		AddCompletion("%(nicks)")

	if _, err := hooks.NewCommand(greet, hooks.CommandFunc(
		func(_ *plugbridge.Host, buffer *plugbridge.Buffer, args plugbridge.Args) {
			who := "world"
			if args.Len() > 1 {
				who = args.At(1)
			}
			buffer.Print("hello, " + who + "!")
		})); err != nil {
		log.Error().Err(err).Msg("greet registration failed")
	}

	// Intercept /quit ahead of the host's own handler to say goodbye first.
	if _, err := hooks.NewCommandRun("2000|/quit*", hooks.CommandRunFunc(
		func(_ *plugbridge.Host, buffer *plugbridge.Buffer, command string) hooks.ReturnCode {
			buffer.Print("goodbye: " + strings.TrimSpace(command))
			return hooks.Continue
		})); err != nil {
		log.Error().Err(err).Msg("quit interceptor registration failed")
	}

	if _, err := hooks.NewSignal("buffer_opened", hooks.SignalFunc(
		func(host *plugbridge.Host, _ string, data hooks.SignalData) hooks.ReturnCode {
			host.CoreBuffer().Print("buffer opened: " + data.Buffer.Name())
			return hooks.Continue
		})); err != nil {
		log.Error().Err(err).Msg("signal registration failed")
	}

	if _, err := hooks.NewTimer(5*time.Minute, 60, 0, hooks.TimerFunc(
		func(host *plugbridge.Host, _ int) {
			host.CoreBuffer().Print("plugdemo heartbeat")
		})); err != nil {
		log.Error().Err(err).Msg("timer registration failed")
	}
}
