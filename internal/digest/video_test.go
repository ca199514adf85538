package digest

import (
	"testing"

	"nescore/internal/ppu"
)

func TestVideoChainsFrames(t *testing.T) {
	a := new(ppu.Frame)
	b := new(ppu.Frame)
	b[100] = 0xFF112233

	first := NewVideo()
	first.AddFrame(a)
	first.AddFrame(b)

	second := NewVideo()
	second.AddFrame(b)
	second.AddFrame(a)

	if first.Hash() == second.Hash() {
		t.Errorf("Expected frame order to change the hash, both are %s", first.Hash())
	}
	if first.Frames() != 2 {
		t.Errorf("Expected 2 frames, got %d", first.Frames())
	}
}

func TestVideoDeterministic(t *testing.T) {
	frame := new(ppu.Frame)
	for i := range frame {
		frame[i] = uint32(i) * 2654435761
	}

	x, y := NewVideo(), NewVideo()
	for i := 0; i < 3; i++ {
		x.AddFrame(frame)
		y.AddFrame(frame)
	}
	if x.Hash() != y.Hash() {
		t.Errorf("Expected equal hashes, got %s and %s", x.Hash(), y.Hash())
	}
	if len(x.Hash()) != 40 {
		t.Errorf("Expected 40 hex digits, got %d", len(x.Hash()))
	}
}

func TestVideoReset(t *testing.T) {
	dig := NewVideo()
	empty := dig.Hash()
	dig.AddFrame(new(ppu.Frame))
	if dig.Hash() == empty {
		t.Error("Expected hash to change after a frame")
	}
	dig.ResetDigest()
	if dig.Hash() != empty || dig.Frames() != 0 {
		t.Errorf("Expected reset digest, got %s after %d frames", dig.Hash(), dig.Frames())
	}
}

func TestVideoNilFrame(t *testing.T) {
	if err := NewVideo().AddFrame(nil); err == nil {
		t.Error("Expected error for nil frame")
	}
}
