// lut.go - precomputed sine/tanh lookup tables for fast math
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package wavetable

import "math"

// Table sizes and ranges, carried over from the reference engine's
// audio_lut.go sinLUT/tanhLUT.
const (
	sinLUTSize  = 8192
	sinLUTMask  = sinLUTSize - 1
	tanhLUTSize = 4096
	tanhLUTMin  = float32(-4.0)
	tanhLUTMax  = float32(4.0)
	twoPi       = 2 * math.Pi
)

var (
	sinLUTScale  = float32(sinLUTSize) / twoPi
	tanhLUTScale = float32(tanhLUTSize-1) / (tanhLUTMax - tanhLUTMin)
	sinLUT       [sinLUTSize]float32
	tanhLUT      [tanhLUTSize]float32
)

func init() {
	for i := 0; i < sinLUTSize; i++ {
		phase := float64(i) * 2 * math.Pi / float64(sinLUTSize)
		sinLUT[i] = float32(math.Sin(phase))
	}
	for i := 0; i < tanhLUTSize; i++ {
		x := float64(tanhLUTMin) + float64(i)*float64(tanhLUTMax-tanhLUTMin)/float64(tanhLUTSize-1)
		tanhLUT[i] = float32(math.Tanh(x))
	}
}

// FastSin returns sin(phase) via lookup table with linear interpolation.
// phase is in radians and may be any finite value; it is wrapped to
// [0, 2*pi) internally.
func FastSin(phase float32) float32 {
	if phase < 0 {
		phase += twoPi
		if phase < 0 {
			phase = phase - twoPi*float32(int(phase/twoPi)-1)
		}
	} else if phase >= twoPi {
		phase = phase - twoPi*float32(int(phase/twoPi))
	}

	indexF := phase * sinLUTScale
	index := int(indexF)
	frac := indexF - float32(index)

	index &= sinLUTMask
	nextIndex := (index + 1) & sinLUTMask
	return sinLUT[index] + frac*(sinLUT[nextIndex]-sinLUT[index])
}

// FastTanh returns tanh(x) via lookup table with linear interpolation.
// Input outside [-4, 4] saturates to +-1.
func FastTanh(x float32) float32 {
	if x <= tanhLUTMin {
		return -1.0
	}
	if x >= tanhLUTMax {
		return 1.0
	}

	indexF := (x - tanhLUTMin) * tanhLUTScale
	index := int(indexF)
	frac := indexF - float32(index)

	if index < 0 {
		return tanhLUT[0]
	}
	if index >= tanhLUTSize-1 {
		return tanhLUT[tanhLUTSize-1]
	}
	return tanhLUT[index] + frac*(tanhLUT[index+1]-tanhLUT[index])
}
