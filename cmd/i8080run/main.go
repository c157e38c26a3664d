package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/linguisician/intel8080/internal/machine"
)

func main() {
	comPath := flag.String("com", "", "path to a raw CP/M .com image (loads at 0x0100)")
	hexPath := flag.String("hex", "", "path to an Intel HEX image")
	startPC := flag.Int("pc", 0x0100, "initial PC value")
	steps := flag.Int("steps", 200_000_000, "max CPU steps to run")
	trace := flag.Bool("trace", false, "print PC/opcodes and registers per step")
	until := flag.String("until", "", "stop when console output contains this substring (case-insensitive)")
	fail := flag.String("fail", "", "exit nonzero when console output contains this substring (case-insensitive)")
	dump := flag.Bool("dump", false, "dump registers when the run ends")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	flag.Parse()

	if *comPath == "" && *hexPath == "" {
		log.Fatal("one of -com or -hex is required")
	}

	// Stream console output to stdout and capture it for pattern detection.
	var captured bytes.Buffer
	console := io.Writer(os.Stdout)
	if *until != "" || *fail != "" {
		console = io.MultiWriter(os.Stdout, &captured)
	}

	m := machine.New(machine.Config{Console: console, CPMStub: true})
	switch {
	case *comPath != "":
		if err := m.LoadCOMFile(*comPath); err != nil {
			log.Fatalf("load com: %v", err)
		}
	case *hexPath != "":
		if err := m.LoadHexFile(*hexPath); err != nil {
			log.Fatalf("load hex: %v", err)
		}
	}
	c := m.CPU()
	c.PC = uint16(*startPC)
	c.SP = 0xF000

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}

	exit := func(code int, ran int) {
		if *dump {
			m.DumpRegisters(os.Stdout)
		}
		fmt.Printf("\nDone: steps=%d elapsed=%s\n", ran, time.Since(start).Truncate(time.Millisecond))
		os.Exit(code)
	}

	mem := m.Memory()
	for i := 0; i < *steps; i++ {
		if c.Halted() {
			exit(0, i)
		}
		if *trace {
			pc := c.PC
			fmt.Printf("PC=%04X OP=%02X A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X\n",
				pc, mem[pc], c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L, c.SP)
		}
		c.Step()
		if *fail != "" && strings.Contains(strings.ToLower(captured.String()), strings.ToLower(*fail)) {
			fmt.Printf("\nDetected '%s' in console output.\n", *fail)
			exit(1, i+1)
		}
		if *until != "" && strings.Contains(strings.ToLower(captured.String()), strings.ToLower(*until)) {
			fmt.Printf("\nDetected '%s' in console output.\n", *until)
			exit(0, i+1)
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Printf("\nTimeout after %s.\n", time.Since(start).Truncate(time.Millisecond))
			exit(2, i+1)
		}
	}
	exit(3, *steps)
}
