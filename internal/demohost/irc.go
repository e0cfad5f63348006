package demohost

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/lrstanley/girc"

	"github.com/soyeahso/plugbridge/hostapi"
	"github.com/soyeahso/plugbridge/internal/logging"
)

// ircSession owns the girc client. girc runs its handlers on its own
// goroutines, so every handler posts back onto the host loop.
type ircSession struct {
	client *girc.Client
	log    *logging.Logger
}

func newIRCSession(h *Host) *ircSession {
	port := h.cfg.Port
	if port == 0 {
		if h.cfg.TLS {
			port = 6697
		} else {
			port = 6667
		}
	}

	gircCfg := girc.Config{
		Server:  h.cfg.Server,
		Port:    port,
		Nick:    h.cfg.Nick,
		User:    h.cfg.Nick,
		Name:    "plugbridge demo host",
		SSL:     h.cfg.TLS,
		Version: "plugdemo/1.0",
	}
	if h.cfg.TLS {
		gircCfg.TLSConfig = &tls.Config{ServerName: h.cfg.Server}
	}
	if h.cfg.Password != "" {
		gircCfg.ServerPass = h.cfg.Password
	}

	s := &ircSession{
		client: girc.New(gircCfg),
		log:    h.log.Sub("irc"),
	}

	s.client.Handlers.Add(girc.CONNECTED, func(c *girc.Client, e girc.Event) {
		h.post(func() {
			h.emitSignal("irc_connected", hostapi.SignalValue{
				Kind: hostapi.SignalString,
				Str:  []byte(h.cfg.Server),
			})
			for _, channel := range h.cfg.Channels {
				c.Cmd.Join(channel)
			}
		})
	})

	s.client.Handlers.Add(girc.JOIN, func(c *girc.Client, e girc.Event) {
		if e.Source == nil || e.Source.Name != c.GetNick() || len(e.Params) == 0 {
			return
		}
		channel := e.Params[0]
		h.post(func() {
			buf := h.ensureBuffer(channel)
			h.current = buf.handle
			h.Print(buf.handle, []byte("joined "+channel))
		})
	})

	s.client.Handlers.Add(girc.PRIVMSG, func(c *girc.Client, e girc.Event) {
		if e.Source == nil || len(e.Params) < 2 {
			return
		}
		target := e.Params[0]
		if target == c.GetNick() {
			target = e.Source.Name // direct message: buffer per sender
		}
		from, text := e.Source.Name, e.Last()
		h.post(func() {
			buf := h.ensureBuffer(target)
			h.Print(buf.handle, []byte(from+": "+text))
		})
	})

	return s
}

func (s *ircSession) join(channel string) {
	s.client.Cmd.Join(channel)
}

func (s *ircSession) message(target, text string) {
	s.client.Cmd.Message(target, text)
}

func (s *ircSession) quit(message string) {
	if message == "" {
		message = "plugdemo shutting down"
	}
	s.client.Quit(message)
}

// Run drives the host loop on the calling goroutine. ready runs first, on
// that same goroutine, which is where the demo calls plugbridge.Init and
// registers its hooks. Run returns when ctx is canceled or the IRC
// connection ends.
func (h *Host) Run(ctx context.Context, ready func()) error {
	h.irc = newIRCSession(h)

	if ready != nil {
		ready()
	}

	h.log.Info().
		Str("server", h.cfg.Server).
		Str("nick", h.cfg.Nick).
		Strs("channels", h.cfg.Channels).
		Bool("tls", h.cfg.TLS).
		Msg("connecting to IRC")

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.irc.client.Connect()
	}()

	for {
		select {
		case fn := <-h.loop:
			fn()
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("irc connect: %w", err)
			}
			return nil
		case <-ctx.Done():
			h.irc.client.Close()
			return ctx.Err()
		}
	}
}
