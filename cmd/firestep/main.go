// Command firestep runs the firmware-side heartbeat loop: it opens
// the serial link to the host, wires up the machine model from
// config, and drives the cooperative scheduler forever, optionally
// serving a read-only HTTP status mirror alongside it.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/jpl-firestep/firestep/config"
	"github.com/jpl-firestep/firestep/gpio"
	"github.com/jpl-firestep/firestep/httpstatus"
	"github.com/jpl-firestep/firestep/jsoncmd"
	"github.com/jpl-firestep/firestep/link"
	"github.com/jpl-firestep/firestep/machine"
	"github.com/jpl-firestep/firestep/thread"
)

func main() {
	configPath := flag.String("config", "", "path to firestep.yml (defaults to ./firestep.yml)")
	mkconf := flag.Bool("mkconf", false, "write the default configuration to -config and exit")
	flag.Parse()

	if *mkconf {
		if err := config.WriteDefault(*configPath); err != nil {
			log.Fatalf("writing default config: %v", err)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	l, err := link.Open(link.Config{Device: cfg.Device, Baud: cfg.Baud})
	if err != nil {
		log.Fatalf("opening %s: %v", cfg.Device, err)
	}
	defer l.Close()

	pins := gpio.NewSim()
	m := machine.New(pins)
	m.SetPinConfig(cfg.PinConfigValue())
	m.InvertLim = cfg.InvertLimits

	heartbeat := thread.New(m, l, l, jsoncmd.Encoder{})

	if cfg.HTTPAddr != "" {
		status := httpstatus.New(heartbeat.Controller)
		go func() {
			log.Printf("status server listening on %s", cfg.HTTPAddr)
			log.Println(http.ListenAndServe(cfg.HTTPAddr, status.Router()))
		}()
	}

	log.Printf("firestep running on %s at %d baud", cfg.Device, cfg.Baud)
	if err := heartbeat.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
