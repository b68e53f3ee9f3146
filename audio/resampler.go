// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/ik5/opsynth/utils"
)

// maxEmptyReads bounds consecutive (0, nil) reads from a source.
const maxEmptyReads = 100

// Resampler streams src at another sample rate using Catmull-Rom
// interpolation over a four frame window. Channel count is preserved.
// When downsampling the input runs through a one-pole low-pass at the
// destination Nyquist frequency first.
type Resampler struct {
	src      Source
	rate     int
	srcRate  int
	channels int

	// win holds source frames base-1 .. base+2
	win    [4][]float32
	base   int
	primed bool

	out int // output frames produced

	buf    []float32
	bufN   int
	bufPos int
	srcEOF bool
	total  int // real source frames read

	alpha  float32
	smooth []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	srcRate := src.SampleRate()

	size := src.BufSize()
	if size < channels {
		size = 4096
	}
	size -= size % channels

	r := &Resampler{
		src:      src,
		rate:     dstRate,
		srcRate:  srcRate,
		channels: channels,
		buf:      make([]float32, size),
		smooth:   make([]float32, channels),
	}

	if srcRate > dstRate {
		r.alpha = float32(1 - math.Exp(-math.Pi*float64(dstRate)/float64(srcRate)))
	}

	for i := range r.win {
		r.win[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampler source: %w", err)
	}

	return nil
}

// pull copies the next source frame into frame. At the end of the stream
// frame is left untouched and ok is false.
func (r *Resampler) pull(frame []float32) (ok bool, err error) {
	for empty := 0; r.bufPos >= r.bufN; {
		if r.srcEOF {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.buf)
		r.bufN, r.bufPos = n-n%r.channels, 0

		if err == io.EOF {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("resampler source: %w", err)
		}

		if n > 0 {
			empty = 0
		} else if empty++; empty >= maxEmptyReads {
			return false, fmt.Errorf("resampler source: %w", io.ErrNoProgress)
		}
	}

	copy(frame, r.buf[r.bufPos:r.bufPos+r.channels])
	r.bufPos += r.channels
	r.total++

	if r.alpha > 0 {
		if r.total == 1 {
			copy(r.smooth, frame)
		}
		for c := range frame {
			r.smooth[c] += r.alpha * (frame[c] - r.smooth[c])
			frame[c] = r.smooth[c]
		}
	}

	return true, nil
}

// shift slides the window one frame forward, repeating the last frame once
// the source is exhausted.
func (r *Resampler) shift() error {
	first := r.win[0]
	copy(r.win[:], r.win[1:])
	r.win[3] = first

	ok, err := r.pull(r.win[3])
	if !ok {
		copy(r.win[3], r.win[2])
	}

	return err
}

func (r *Resampler) prime() (bool, error) {
	ok, err := r.pull(r.win[1])
	if err != nil || !ok {
		return false, err
	}
	copy(r.win[0], r.win[1])

	for i := 2; i < 4; i++ {
		ok, err := r.pull(r.win[i])
		if err != nil {
			return false, err
		}
		if !ok {
			copy(r.win[i], r.win[i-1])
		}
	}

	r.primed = true
	return true, nil
}

// ReadSamples fills dst with frames at the destination rate. len(dst) must
// be a multiple of Channels().
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		ok, err := r.prime()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, io.EOF
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		// output frame out sits at source position out*srcRate/rate
		pos := r.out * r.srcRate

		for pos >= (r.base+1)*r.rate {
			if err := r.shift(); err != nil {
				return written * r.channels, err
			}
			r.base++
		}

		if r.srcEOF && r.bufPos >= r.bufN && pos >= r.total*r.rate {
			return written * r.channels, io.EOF
		}

		x := float32(pos-r.base*r.rate) / float32(r.rate)
		o := written * r.channels
		for c := range r.channels {
			dst[o+c] = utils.CubicInterpolate(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], x)
		}

		written++
		r.out++
	}

	return written * r.channels, nil
}
