package config_test

import (
	"testing"

	"github.com/jpl-firestep/firestep/config"
	"github.com/jpl-firestep/firestep/machine"
)

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	c, err := config.Load("does-not-exist.yml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := config.Default()
	if c != want {
		t.Fatalf("config = %+v, want %+v", c, want)
	}
}

func TestPinConfigValueResolvesRamps14(t *testing.T) {
	c := config.Config{PinConfig: "ramps14"}
	if got := c.PinConfigValue(); got != machine.PinConfigRamps14 {
		t.Fatalf("PinConfigValue = %v, want PinConfigRamps14", got)
	}
}

func TestPinConfigValueFallsBackOnUnknownName(t *testing.T) {
	c := config.Config{PinConfig: "bogus"}
	if got := c.PinConfigValue(); got != machine.PinConfigDefault {
		t.Fatalf("PinConfigValue = %v, want PinConfigDefault", got)
	}
}
