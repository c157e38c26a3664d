package invaders

import "testing"

func TestShiftRegister(t *testing.T) {
	var sr ShiftRegister
	sr.ShiftData(0xAB)
	if got := sr.Result(); got != 0xAB {
		t.Fatalf("offset 0 after one write got %02X want AB", got)
	}
	sr.ShiftData(0xCD)
	// value is now CDAB
	if got := sr.Result(); got != 0xCD {
		t.Fatalf("offset 0 got %02X want CD", got)
	}
	sr.SetOffset(4)
	if got := sr.Result(); got != 0xDA {
		t.Fatalf("offset 4 got %02X want DA", got)
	}
	sr.SetOffset(7)
	if got := sr.Result(); got != 0xD5 {
		t.Fatalf("offset 7 got %02X want D5", got)
	}
	// Offsets wrap at 3 bits.
	sr.SetOffset(8)
	if got := sr.Result(); got != 0xCD {
		t.Fatalf("offset 8 should behave as 0, got %02X", got)
	}
}

func TestShiftRegisterThroughPorts(t *testing.T) {
	cb := New()
	// MVI A,0xAB; OUT 4; MVI A,2; OUT 2; IN 3; HLT
	prog := []byte{0x3E, 0xAB, 0xD3, 0x04, 0x3E, 0x02, 0xD3, 0x02, 0xDB, 0x03, 0x76}
	if err := cb.LoadROM(prog); err != nil {
		t.Fatalf("load: %v", err)
	}
	for i := 0; i < 6; i++ {
		cb.CPU().Step()
	}
	// value = AB00, offset 2 -> top byte shifted left by 2: 0xAC.
	if cb.CPU().A != 0xAC {
		t.Fatalf("IN 3 got %02X want AC", cb.CPU().A)
	}
}

func TestInputPorts(t *testing.T) {
	cb := New()
	if got := cb.portIn(portInputs1); got != 0x08 {
		t.Fatalf("idle port 1 got %02X want 08", got)
	}
	cb.SetInputs(Inputs{Coin: true, P1Start: true, P1Right: true})
	if got := cb.portIn(portInputs1); got != 0x08|0x01|0x04|0x40 {
		t.Fatalf("port 1 got %02X", got)
	}
	cb.SetInputs(Inputs{P2Shot: true, Tilt: true})
	if got := cb.portIn(portInputs2); got != 0x10|0x04 {
		t.Fatalf("port 2 got %02X", got)
	}
	if got := cb.portIn(portInputs0); got != 0x0E {
		t.Fatalf("port 0 got %02X want 0E", got)
	}
}

func TestStepFrame_DeliversInterrupts(t *testing.T) {
	cb := New()
	cb.SetStepsPerHalfFrame(4)
	// EI, then spin. The mid-frame RST 1 should land at 0x0008 where a
	// HLT waits; the vblank RST 2 is latched but not serviced afterwards.
	rom := make([]byte, ROMSize)
	rom[0x0000] = 0xFB // EI
	rom[0x0001] = 0xC3 // JMP 0x0001
	rom[0x0002] = 0x01
	rom[0x0003] = 0x00
	rom[0x0008] = 0x76 // HLT at the RST 1 vector
	if err := cb.LoadROM(rom); err != nil {
		t.Fatalf("load: %v", err)
	}
	cb.CPU().SP = 0x2400
	cb.StepFrame()
	if !cb.CPU().Halted() {
		t.Fatalf("mid-frame interrupt was not serviced")
	}
	if cb.CPU().PC != 0x0009 {
		t.Fatalf("PC got %04X want 0009 (after HLT at the RST 1 vector)", cb.CPU().PC)
	}
}

func TestScreenDecode(t *testing.T) {
	cb := New()
	// Light bit 0 of the first VRAM byte: pixel (0, 255).
	cb.mem[vramBase] = 0x01
	cb.refresh()
	i := ((ScreenH - 1) * ScreenW) * 4
	if cb.fb[i] != 0xFF || cb.fb[i+3] != 0xFF {
		t.Fatalf("pixel (0,255) not lit: % X", cb.fb[i:i+4])
	}
	// Bit 7 of the same byte: pixel (0, 248).
	cb.mem[vramBase] = 0x80
	cb.refresh()
	if cb.fb[i] != 0x00 {
		t.Fatalf("pixel (0,255) should be dark now")
	}
	i = ((ScreenH - 8) * ScreenW) * 4
	if cb.fb[i] != 0xFF {
		t.Fatalf("pixel (0,248) not lit")
	}
	// Second column byte group: x=1 starts 32 bytes in.
	cb.mem[vramBase+32] = 0x01
	cb.refresh()
	i = ((ScreenH-1)*ScreenW + 1) * 4
	if cb.fb[i] != 0xFF {
		t.Fatalf("pixel (1,255) not lit")
	}
}
