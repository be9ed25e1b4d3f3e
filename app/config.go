package app

import (
	"errors"
	"fmt"

	"dualjoy/hal"
	"dualjoy/input"
)

// Config is the controller's runtime configuration.
type Config struct {
	// Name is sent in hello packets.
	Name string `toml:"name" yaml:"name"`

	InputHz int `toml:"input_hz" yaml:"input_hz"`
	FrameHz int `toml:"frame_hz" yaml:"frame_hz"`

	// Peers are link addresses ("aa:bb:cc:dd:ee:ff"); empty means broadcast.
	Peers []string `toml:"peers" yaml:"peers"`

	// Menu lists the remote commands offered by the menu view.
	Menu []string `toml:"menu" yaml:"menu"`

	Flick float32 `toml:"flick" yaml:"flick"`
	Rest  float32 `toml:"rest" yaml:"rest"`

	Link LinkConfig `toml:"link" yaml:"link"`
}

// LinkConfig is the host simulator's UDP stand-in for the radio. The device
// build ignores it.
type LinkConfig struct {
	Self   string `toml:"self" yaml:"self"`
	Listen string `toml:"listen" yaml:"listen"`
	Target string `toml:"target" yaml:"target"`
}

// Menu commands with local meaning besides being sent.
const (
	CmdArm    = "arm"
	CmdDisarm = "disarm"
	CmdStatus = "status"
)

func DefaultConfig() Config {
	return Config{
		Name:    "dualjoy",
		InputHz: 20,
		FrameHz: 25,
		Menu:    []string{CmdArm, CmdDisarm, "ping", "calibrate", CmdStatus},
		Flick:   input.DefaultFlick,
		Rest:    input.DefaultRest,
	}
}

var errConfig = errors.New("invalid config")

// Validate checks rates, stick thresholds and addresses.
func (c Config) Validate() error {
	if c.InputHz <= 0 || c.InputHz > 1000 {
		return fmt.Errorf("%w: input_hz %d", errConfig, c.InputHz)
	}
	if c.FrameHz <= 0 || c.FrameHz > 1000 {
		return fmt.Errorf("%w: frame_hz %d", errConfig, c.FrameHz)
	}
	if c.Rest <= 0 || c.Flick <= c.Rest || c.Flick > 1 {
		return fmt.Errorf("%w: want 0 < rest < flick <= 1, got rest %.2f flick %.2f", errConfig, c.Rest, c.Flick)
	}
	if _, err := c.peerAddrs(); err != nil {
		return fmt.Errorf("%w: %w", errConfig, err)
	}
	if c.Link.Self != "" {
		if _, err := hal.ParseAddress(c.Link.Self); err != nil {
			return fmt.Errorf("%w: link.self: %w", errConfig, err)
		}
	}
	return nil
}

func (c Config) peerAddrs() ([]hal.Address, error) {
	out := make([]hal.Address, 0, len(c.Peers))
	for _, p := range c.Peers {
		a, err := hal.ParseAddress(p)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.InputHz == 0 {
		c.InputHz = d.InputHz
	}
	if c.FrameHz == 0 {
		c.FrameHz = d.FrameHz
	}
	if len(c.Menu) == 0 {
		c.Menu = d.Menu
	}
	if c.Flick == 0 {
		c.Flick = d.Flick
	}
	if c.Rest == 0 {
		c.Rest = d.Rest
	}
	return c
}
