//go:build !tinygo

// Command joymon is the receiving end of the host simulator's link: it
// prints what the controller sends and answers commands.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"
	"unicode/utf8"

	"golang.org/x/term"

	"dualjoy/hal"
	"dualjoy/internal/buildinfo"
	"dualjoy/sample"
	"dualjoy/transport"
)

func main() {
	var (
		listen  = flag.String("listen", "127.0.0.1:4211", "Local UDP address.")
		target  = flag.String("target", "127.0.0.1:4210", "Controller's UDP address (for replies).")
		self    = flag.String("self", "02:00:00:00:00:02", "This receiver's link address.")
		every   = flag.Duration("every", time.Second, "Sample summary interval; 0 prints every sample.")
		reply   = flag.Bool("reply", true, "Answer hello and command packets with a text packet.")
		version = flag.Bool("version", false, "Print the version and exit.")
	)
	flag.Parse()

	if *version {
		fmt.Println("joymon", buildinfo.String())
		return
	}

	addr, err := hal.ParseAddress(*self)
	if err != nil {
		fatalf("self: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := hal.NewLogger(os.Stderr)
	tr := hal.NewUDPTransport(addr, *listen, *target)
	defer tr.Close()

	m := &monitor{
		log:   log,
		link:  transport.NewLink(tr, log),
		every: *every,
		reply: *reply,
		live:  term.IsTerminal(int(os.Stdout.Fd())),
	}
	if err := m.link.Setup(); err != nil {
		fatalf("link: %v", err)
	}
	m.run(ctx)
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

type monitor struct {
	log   hal.Logger
	link  *transport.Link
	every time.Duration
	reply bool
	// live rewrites one status line in place instead of logging samples.
	live bool

	last    sample.Snapshot
	samples int
	shown   time.Time
}

func (m *monitor) run(ctx context.Context) {
	t := time.NewTicker(10 * time.Millisecond)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			if m.live {
				fmt.Println()
			}
			st := m.link.Stats()
			m.log.WriteLineString(fmt.Sprintf("joymon: %d samples, sent %d, failed %d, dropped %d",
				m.samples, st.Sent, st.Failed, st.Dropped))
			return
		case now := <-t.C:
			m.link.Poll(m.handle)
			if m.samples > 0 && now.Sub(m.shown) >= m.every {
				m.show(now)
			}
		}
	}
}

func (m *monitor) handle(from hal.Address, p transport.Packet) {
	switch p.Type {
	case transport.TypeSample:
		m.last = p.Sample
		m.samples++
		if m.every <= 0 {
			m.show(time.Now())
		}
	case transport.TypeHello:
		m.answer(replyText("hi ", p.Text))
	case transport.TypeCommand:
		if p.Text == "ping" {
			m.answer("pong")
			return
		}
		m.answer(replyText("ok ", p.Text))
	}
}

func (m *monitor) show(now time.Time) {
	s := m.last
	line := fmt.Sprintf("#%d L(%+.2f,%+.2f) R(%+.2f,%+.2f) toggle=%t armed=%t",
		s.Generation, s.LeftX, s.LeftY, s.RightX, s.RightY, s.Toggle, s.Armed)
	m.shown = now
	if m.live {
		fmt.Printf("\r\x1b[K%s", line)
		return
	}
	m.log.WriteLineString(line)
}

// replyText joins prefix and text, cut on a rune boundary to fit a text packet.
func replyText(prefix, text string) string {
	s := prefix + text
	if len(s) <= transport.MaxText {
		return s
	}
	i := transport.MaxText
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i]
}

func (m *monitor) answer(text string) {
	if !m.reply {
		return
	}
	_ = m.link.Send(transport.Packet{Type: transport.TypeText, Text: text})
}
