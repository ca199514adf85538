package digest

import (
	"crypto/sha1"
	"fmt"

	"nescore/internal/ppu"
)

const pixelDepth = 3

// Video chains a SHA-1 over successive frames. Each frame's hash covers the
// previous hash followed by the frame's RGB pixels, so the final value
// depends on every frame and on their order.
type Video struct {
	digest [sha1.Size]byte
	pixels []byte
	frames int
}

func NewVideo() *Video {
	return &Video{
		pixels: make([]byte, sha1.Size+ppu.Width*ppu.Height*pixelDepth),
	}
}

func (dig *Video) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

func (dig *Video) ResetDigest() {
	dig.digest = [sha1.Size]byte{}
	dig.frames = 0
}

// Frames returns how many frames went into the current hash.
func (dig *Video) Frames() int {
	return dig.frames
}

// AddFrame folds frame into the digest.
func (dig *Video) AddFrame(frame *ppu.Frame) error {
	if frame == nil {
		return fmt.Errorf("digest: nil frame %d", dig.frames)
	}

	// chain fingerprints by copying the last digest to the head of the data
	copy(dig.pixels, dig.digest[:])

	i := sha1.Size
	for _, c := range frame {
		dig.pixels[i] = uint8(c >> 16)
		dig.pixels[i+1] = uint8(c >> 8)
		dig.pixels[i+2] = uint8(c)
		i += pixelDepth
	}

	dig.digest = sha1.Sum(dig.pixels)
	dig.frames++
	return nil
}
