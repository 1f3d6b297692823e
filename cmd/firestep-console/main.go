// Command firestep-console is an interactive host-side client for a
// firestep board: it dials the board's serial port, echoes typed JSON
// commands to it, and prints the decoded response, colorized by
// whether the command errored.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/tarm/serial"
	"github.com/theckman/yacspin"

	"github.com/jpl-firestep/firestep/comm"
)

func main() {
	device := flag.String("device", "/dev/ttyACM0", "serial device the board is attached to")
	baud := flag.Int("baud", 115200, "serial baud rate")
	netAddr := flag.String("net", "", "dial a networked bridge (host:port) instead of a local serial device")
	flag.Parse()

	var rd comm.RemoteDevice
	target := *device
	if *netAddr != "" {
		target = *netAddr
		rd = comm.NewRemoteDevice(*netAddr, false, &comm.Terminators{Rx: '\n', Tx: '\n'}, nil)
	} else {
		rd = comm.NewRemoteDevice(*device, true, &comm.Terminators{Rx: '\n', Tx: '\n'}, &serial.Config{
			Name: *device,
			Baud: *baud,
		})
	}

	if err := dial(&rd, target); err != nil {
		color.Red("failed to connect to %s: %v", target, err)
		os.Exit(1)
	}
	defer rd.Close()

	color.Green("connected to %s", target)
	printBanner()
	repl(&rd)
}

func dial(rd *comm.RemoteDevice, device string) error {
	cfg := yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[9],
		Suffix:          " dialing " + device,
		SuffixAutoColon: true,
		StopCharacter:   "✓",
		StopColors:      []string{"fgGreen"},
	}
	spinner, err := yacspin.New(cfg)
	if err != nil {
		return err
	}
	spinner.Start()
	err = rd.Open()
	if err != nil {
		spinner.StopFailCharacter("✗")
		spinner.StopFailColors("fgRed")
		spinner.StopFail()
		return err
	}
	spinner.Stop()
	return nil
}

func printBanner() {
	header := "firestep console"
	pad := runewidth.StringWidth(header)
	fmt.Println(header)
	fmt.Println(strings.Repeat("=", pad))
	fmt.Println(`type a JSON command, e.g. {"sys":{"v":""}}, or "quit" to exit`)
}

// repl reads one line at a time from stdin, round-trips it through rd,
// and prints the decoded response. A response carrying a negative "s"
// is printed in red; everything else is printed in green.
func repl(rd *comm.RemoteDevice) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		resp, err := rd.SendRecv([]byte(line))
		if err != nil {
			color.Red("communication error: %v", err)
			continue
		}
		printResponse(resp)
	}
}

func printResponse(raw []byte) {
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		color.Yellow("%s", string(raw))
		return
	}
	pretty, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		color.Yellow("%s", string(raw))
		return
	}
	if isErrorResponse(decoded) {
		color.Red("%s", pretty)
		return
	}
	color.Green("%s", pretty)
}

func isErrorResponse(decoded map[string]interface{}) bool {
	s, ok := decoded["s"]
	if !ok {
		return false
	}
	switch v := s.(type) {
	case float64:
		return v < 0
	case json.Number:
		f, err := v.Float64()
		return err == nil && f < 0
	default:
		return false
	}
}
