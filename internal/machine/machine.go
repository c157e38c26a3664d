package machine

import (
	"fmt"
	"io"
	"os"

	"github.com/linguisician/intel8080/internal/cpu"
	"github.com/linguisician/intel8080/internal/ihex"
)

// MemSize is the full 8080 address space.
const MemSize = 0x10000

// Output ports recognized by the harness. ConsolePort prints the raw byte;
// the other two back the CP/M shim installed by Config.CPMStub.
const (
	WarmBootPort = 0x00
	BDOSPort     = 0x01
	ConsolePort  = 0x69
)

// COMOrigin is where CP/M transient programs load and start.
const COMOrigin = 0x0100

// Machine owns a 64 KiB memory, a CPU wired to it, and a console sink for
// port output. It is the host side the core expects: it supplies the run
// loop, the loaders, and the port handlers.
type Machine struct {
	cfg     Config
	mem     []byte
	cpu     *cpu.CPU
	console io.Writer
}

// New builds a machine per cfg. With CPMStub set, a warm-boot hook at 0x0000
// and a BDOS entry at 0x0005 are installed so CP/M transient programs (the
// published CPU exercisers among them) can print and exit.
func New(cfg Config) *Machine {
	cfg.Defaults()
	m := &Machine{
		cfg:     cfg,
		mem:     make([]byte, MemSize),
		console: cfg.Console,
	}
	m.cpu = cpu.New(m.portIn, m.portOut, m.mem)
	if cfg.CPMStub {
		m.installCPMStub()
	}
	return m
}

// CPU exposes the core for tests and tools.
func (m *Machine) CPU() *cpu.CPU { return m.cpu }

// Memory exposes the backing memory image.
func (m *Machine) Memory() []byte { return m.mem }

// installCPMStub plants two OUT-based hooks: jumping to 0x0000 (warm boot)
// halts the machine, and calling 0x0005 reflects the BDOS request to the
// port handler before returning to the caller.
func (m *Machine) installCPMStub() {
	copy(m.mem[0x0000:], []byte{0xD3, WarmBootPort, 0x76}) // OUT 0; HLT
	copy(m.mem[0x0005:], []byte{0xD3, BDOSPort, 0xC9})     // OUT 1; RET
}

func (m *Machine) portIn(port byte) byte {
	if m.cfg.PortIn != nil {
		return m.cfg.PortIn(port)
	}
	return 0
}

func (m *Machine) portOut(port, data byte) {
	switch port {
	case ConsolePort:
		m.console.Write([]byte{data})
	case BDOSPort:
		m.bdosCall()
	case WarmBootPort:
		// The HLT planted right after the hook stops the machine.
	default:
		if m.cfg.PortOut != nil {
			m.cfg.PortOut(port, data)
		}
	}
}

// bdosCall services the two BDOS functions the exercisers use: C=2 writes
// the character in E, C=9 writes the '$'-terminated string at DE.
func (m *Machine) bdosCall() {
	c := m.cpu
	switch c.C {
	case 2:
		m.console.Write([]byte{c.E})
	case 9:
		addr := c.DE()
		for n := 0; n < MemSize; n++ {
			ch := m.mem[addr]
			if ch == '$' {
				break
			}
			m.console.Write([]byte{ch})
			addr++
		}
	}
}

// LoadCOM places a raw CP/M .com image at 0x0100 and points PC at it.
func (m *Machine) LoadCOM(data []byte) error {
	if err := m.cpu.Load(COMOrigin, data); err != nil {
		return err
	}
	m.cpu.PC = COMOrigin
	return nil
}

// LoadCOMFile reads path and loads it per LoadCOM.
func (m *Machine) LoadCOMFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read com: %w", err)
	}
	return m.LoadCOM(data)
}

// LoadHex applies an Intel HEX image to memory. PC is left untouched; the
// caller decides the entry point.
func (m *Machine) LoadHex(text []byte) error {
	return ihex.Apply(m.mem, text)
}

// LoadHexFile reads path and loads it per LoadHex.
func (m *Machine) LoadHexFile(path string) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read hex: %w", err)
	}
	return m.LoadHex(text)
}

// Run steps the CPU until it halts or maxSteps instructions have run. It
// returns the number of steps taken and whether the CPU is halted.
func (m *Machine) Run(maxSteps int) (int, bool) {
	for i := 0; i < maxSteps; i++ {
		if m.cpu.Halted() {
			return i, true
		}
		m.cpu.Step()
	}
	return maxSteps, m.cpu.Halted()
}

// DumpRegisters writes a snapshot of the registers and flags as a small
// table, for quick inspection from a driver.
func (m *Machine) DumpRegisters(w io.Writer) {
	c := m.cpu
	fmt.Fprintln(w, "===============================+==========")
	fmt.Fprintln(w, "Registers                      | Flags")
	fmt.Fprintln(w, "-------------------------------+----------")
	fmt.Fprintln(w, " A  B  C  D  E  H  L   SP   PC | S Z A P C")
	fmt.Fprintf(w, "%02x %02x %02x %02x %02x %02x %02x %04x %04x | %d %d %d %d %d\n",
		c.A, c.B, c.C, c.D, c.E, c.H, c.L, c.SP, c.PC,
		c.Flag(cpu.FlagSign), c.Flag(cpu.FlagZero), c.Flag(cpu.FlagAuxCarry),
		c.Flag(cpu.FlagParity), c.Flag(cpu.FlagCarry))
	fmt.Fprintln(w, "===============================+==========")
}
