package graphics

import (
	"math"

	"nescore/internal/ppu"
)

// VideoProcessor applies brightness, contrast and saturation adjustments
// to frames. A frame holds at most a few dozen distinct colors, so results
// are cached per input color.
type VideoProcessor struct {
	brightness float64
	contrast   float64
	saturation float64
	cache      map[uint32]uint32
}

// NewVideoProcessor creates a new video processor. 1.0 leaves a channel
// untouched.
func NewVideoProcessor(brightness, contrast, saturation float64) *VideoProcessor {
	return &VideoProcessor{
		brightness: brightness,
		contrast:   contrast,
		saturation: saturation,
		cache:      make(map[uint32]uint32),
	}
}

// Identity reports whether ProcessFrame would return its input unchanged
func (vp *VideoProcessor) Identity() bool {
	return vp.brightness == 1 && vp.contrast == 1 && vp.saturation == 1
}

// ProcessFrame returns an adjusted copy of frame, or frame itself when no
// adjustment is configured. The input is never modified.
func (vp *VideoProcessor) ProcessFrame(frame *ppu.Frame) *ppu.Frame {
	if frame == nil || vp.Identity() {
		return frame
	}

	out := new(ppu.Frame)
	for i, argb := range frame {
		adjusted, ok := vp.cache[argb]
		if !ok {
			adjusted = vp.adjust(argb)
			vp.cache[argb] = adjusted
		}
		out[i] = adjusted
	}
	return out
}

func (vp *VideoProcessor) adjust(argb uint32) uint32 {
	r := float64(uint8(argb>>16)) / 255
	g := float64(uint8(argb>>8)) / 255
	b := float64(uint8(argb)) / 255

	channel := func(c float64) float64 {
		return (c*vp.brightness-0.5)*vp.contrast + 0.5
	}
	r, g, b = channel(r), channel(g), channel(b)

	if vp.saturation != 1 {
		h, s, l := rgbToHSL(clamp01(r), clamp01(g), clamp01(b))
		r, g, b = hslToRGB(h, clamp01(s*vp.saturation), l)
	}

	return argb&0xFF000000 | toByte(r)<<16 | toByte(g)<<8 | toByte(b)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func toByte(v float64) uint32 {
	return uint32(math.Round(clamp01(v) * 255))
}

func rgbToHSL(r, g, b float64) (h, s, l float64) {
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	l = (hi + lo) / 2
	if hi == lo {
		return 0, 0, l
	}

	d := hi - lo
	if l > 0.5 {
		s = d / (2 - hi - lo)
	} else {
		s = d / (hi + lo)
	}

	switch hi {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, l
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return hueToRGB(p, q, h+1.0/3), hueToRGB(p, q, h), hueToRGB(p, q, h-1.0/3)
}

func hueToRGB(p, q, t float64) float64 {
	switch {
	case t < 0:
		t++
	case t > 1:
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}
