// Package config loads the board-level configuration a firestep
// binary boots from: which serial device to open, which pin map the
// machine wires up, and the HTTP status listener address. Defaults
// are registered first and a YAML file is layered over them, the same
// two-step koanf setup the rest of the fleet's servers use.
package config

import (
	"log"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	yml "gopkg.in/yaml.v2"

	"github.com/jpl-firestep/firestep/machine"
)

// FileName is the default configuration file name, searched for in
// the process's working directory.
const FileName = "firestep.yml"

var k = koanf.New(".")

// Config is the whole of a firestep process's board configuration.
type Config struct {
	// Device is the serial port the firmware loop reads/writes.
	Device string `yaml:"Device"`

	// Baud is the serial baud rate.
	Baud int `yaml:"Baud"`

	// PinConfig names the wiring table: "default" or "ramps14".
	PinConfig string `yaml:"PinConfig"`

	// HTTPAddr is the listen address for the read-only status server,
	// empty to disable it.
	HTTPAddr string `yaml:"HTTPAddr"`

	// InvertLimits mirrors sys.lh: true if limit switches are
	// active-low on this board.
	InvertLimits bool `yaml:"InvertLimits"`
}

// Default returns the configuration a fresh board boots with absent
// any firestep.yml.
func Default() Config {
	return Config{
		Device:       "/dev/ttyACM0",
		Baud:         115200,
		PinConfig:    "default",
		HTTPAddr:     ":8080",
		InvertLimits: false,
	}
}

// Load reads path (FileName if empty) over Default(), tolerating a
// missing file.
func Load(path string) (Config, error) {
	if path == "" {
		path = FileName
	}
	if err := k.Load(structs.Provider(Default(), "yaml"), nil); err != nil {
		return Config{}, err
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if !strings.Contains(err.Error(), "no such") {
			return Config{}, err
		}
	}
	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// WriteDefault writes the default configuration to path (FileName if
// empty), for a user to then edit by hand.
func WriteDefault(path string) error {
	if path == "" {
		path = FileName
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return yml.NewEncoder(f).Encode(Default())
}

// PinConfigValue resolves the configured pin map name to a
// machine.PinConfig, logging and falling back to the default wiring
// if the name isn't recognized.
func (c Config) PinConfigValue() machine.PinConfig {
	switch c.PinConfig {
	case "", "default":
		return machine.PinConfigDefault
	case "ramps14":
		return machine.PinConfigRamps14
	default:
		log.Printf("config: unrecognized PinConfig %q, using default", c.PinConfig)
		return machine.PinConfigDefault
	}
}
