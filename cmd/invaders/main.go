package main

import (
	"flag"
	"hash/crc32"
	"log"
	"os"
	"time"

	"github.com/linguisician/intel8080/internal/invaders"
	"github.com/linguisician/intel8080/internal/ui"
)

func main() {
	romPath := flag.String("rom", "", "path to the concatenated invaders ROM (8 KiB)")
	scale := flag.Int("scale", 3, "window scale")
	title := flag.String("title", "invaders", "window title")
	stepsPerHalf := flag.Int("halfsteps", 0, "instructions per half frame (0 = default)")
	headless := flag.Bool("headless", false, "run without a window")
	frames := flag.Int("frames", 300, "frames to run in headless mode")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}

	cab := invaders.New()
	if err := cab.LoadROM(rom); err != nil {
		log.Fatalf("load rom: %v", err)
	}
	if *stepsPerHalf > 0 {
		cab.SetStepsPerHalfFrame(*stepsPerHalf)
	}

	if *headless {
		runHeadless(cab, *frames)
		return
	}

	app := ui.NewApp(ui.Config{Title: *title, Scale: *scale}, cab)
	if err := app.Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func runHeadless(cab *invaders.Cabinet, frames int) {
	if frames <= 0 {
		frames = 1
	}
	start := time.Now()
	for i := 0; i < frames; i++ {
		cab.StepFrame()
	}
	dur := time.Since(start)
	crc := crc32.ChecksumIEEE(cab.Framebuffer())
	fps := float64(frames) / dur.Seconds()
	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		frames, dur.Truncate(time.Millisecond), fps, crc)
}
