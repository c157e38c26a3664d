package invaders

import (
	"github.com/linguisician/intel8080/internal/cpu"
)

// Board I/O ports. Reads: 0..2 are switch banks, 3 is the shift result.
// Writes: 2 sets the shift offset, 4 shifts data in, 3 and 5 are the sound
// latches, 6 kicks the watchdog.
const (
	portInputs0     = 0
	portInputs1     = 1
	portInputs2     = 2
	portShiftResult = 3
	portShiftOffset = 2
	portShiftData   = 4
	portSound1      = 3
	portSound2      = 5
	portWatchdog    = 6
)

// ROMSize is the game program: four 2 KiB chips at 0x0000.
const ROMSize = 0x2000

// Inputs reflects the cabinet switches sampled each frame.
type Inputs struct {
	Coin    bool
	Tilt    bool
	P1Start bool
	P2Start bool
	P1Shot  bool
	P1Left  bool
	P1Right bool
	P2Shot  bool
	P2Left  bool
	P2Right bool
}

// Cabinet wires the 8080 core to the Space Invaders board: program ROM and
// video RAM in a flat 64 KiB image, the discrete shift register, the switch
// banks, and the two per-frame screen interrupts.
type Cabinet struct {
	mem []byte
	cpu *cpu.CPU
	sr  ShiftRegister
	in  Inputs
	fb  []byte

	// Instructions are not cycle-weighted, so frame pacing is an
	// instruction budget rather than a T-state count.
	stepsPerHalfFrame int
}

// New builds a cabinet with an empty ROM.
func New() *Cabinet {
	cb := &Cabinet{
		mem:               make([]byte, 0x10000),
		fb:                make([]byte, ScreenW*ScreenH*4),
		stepsPerHalfFrame: 5000,
	}
	cb.cpu = cpu.New(cb.portIn, cb.portOut, cb.mem)
	return cb
}

// CPU exposes the core for tests and tools.
func (cb *Cabinet) CPU() *cpu.CPU { return cb.cpu }

// LoadROM places the concatenated game ROM at 0x0000.
func (cb *Cabinet) LoadROM(data []byte) error {
	return cb.cpu.Load(0x0000, data)
}

// SetInputs replaces the sampled switch state.
func (cb *Cabinet) SetInputs(in Inputs) { cb.in = in }

// SetStepsPerHalfFrame tunes how many instructions run between the two
// screen interrupts of a frame.
func (cb *Cabinet) SetStepsPerHalfFrame(n int) {
	if n > 0 {
		cb.stepsPerHalfFrame = n
	}
}

func (cb *Cabinet) portIn(port byte) byte {
	switch port {
	case portInputs0:
		// Unused bank; bits 1..3 read high on the original board.
		return 0x0E
	case portInputs1:
		return cb.inputs1()
	case portInputs2:
		return cb.inputs2()
	case portShiftResult:
		return cb.sr.Result()
	}
	return 0
}

func (cb *Cabinet) portOut(port, data byte) {
	switch port {
	case portShiftOffset:
		cb.sr.SetOffset(data)
	case portShiftData:
		cb.sr.ShiftData(data)
	case portSound1, portSound2:
		// Sound latches are not emulated.
	case portWatchdog:
		// Watchdog kick; nothing resets here.
	}
}

// inputs1 packs the port 1 switch bank: coin, starts, and player 1 controls.
// Bit 3 reads high.
func (cb *Cabinet) inputs1() byte {
	v := byte(0x08)
	if cb.in.Coin {
		v |= 0x01
	}
	if cb.in.P2Start {
		v |= 0x02
	}
	if cb.in.P1Start {
		v |= 0x04
	}
	if cb.in.P1Shot {
		v |= 0x10
	}
	if cb.in.P1Left {
		v |= 0x20
	}
	if cb.in.P1Right {
		v |= 0x40
	}
	return v
}

// inputs2 packs the port 2 bank: DIP switches (left at zero), tilt, and
// player 2 controls.
func (cb *Cabinet) inputs2() byte {
	var v byte
	if cb.in.Tilt {
		v |= 0x04
	}
	if cb.in.P2Shot {
		v |= 0x10
	}
	if cb.in.P2Left {
		v |= 0x20
	}
	if cb.in.P2Right {
		v |= 0x40
	}
	return v
}

// StepFrame runs one 60 Hz frame: half a frame of instructions, the
// mid-screen interrupt (RST 1), the second half, the vblank interrupt
// (RST 2), then a framebuffer refresh.
func (cb *Cabinet) StepFrame() {
	cb.runSteps(cb.stepsPerHalfFrame)
	cb.cpu.RequestInterrupt(0xCF)
	cb.runSteps(cb.stepsPerHalfFrame)
	cb.cpu.RequestInterrupt(0xD7)
	cb.refresh()
}

func (cb *Cabinet) runSteps(n int) {
	for i := 0; i < n; i++ {
		cb.cpu.Step()
	}
}

// ShiftRegister emulates the board's discrete 16-bit shift register.
// Writes to port 4 shift a byte into the high half; port 2 sets the read
// window; port 3 reads the windowed byte back.
type ShiftRegister struct {
	offset byte
	value  uint16
}

// SetOffset stores the 3-bit read offset.
func (sr *ShiftRegister) SetOffset(v byte) { sr.offset = v & 0x07 }

// ShiftData pushes data into the high byte, dropping the low byte.
func (sr *ShiftRegister) ShiftData(data byte) {
	sr.value = uint16(data)<<8 | sr.value>>8
}

// Result returns the byte starting offset bits below the top.
func (sr *ShiftRegister) Result() byte {
	return byte(sr.value >> (8 - sr.offset))
}
