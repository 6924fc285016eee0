package hgi

import (
	"fmt"
	"image"
	"runtime"
	"sync"
)

// Encoder turns a grayscale image into a Pyramid of residuals.
//
// It reuses its prediction surface across Encode calls and is not safe for
// concurrent use.
type Encoder struct {
	// Parallel spreads the rows of each level over runtime.NumCPU() goroutines.
	// Levels are still processed in order and the output is identical.
	Parallel bool

	quant  Quantizer
	interp Interpolator

	surface *image.Gray
}

func NewEncoder(q Quantizer, ip Interpolator) *Encoder {
	return &Encoder{quant: q, interp: ip}
}

// NewEncoderFor builds an encoder with the quantizer and interpolator m names.
func NewEncoderFor(m Metadata) (*Encoder, error) {
	if !m.QuantizationLevel.valid() {
		return nil, fmt.Errorf("%w: %s", ErrContract, m.QuantizationLevel)
	}
	ip, err := NewInterpolator(m.Interpolation)
	if err != nil {
		return nil, err
	}
	return NewEncoder(NewLinear(m.QuantizationLevel), ip), nil
}

// Encode predicts every pixel of img from the already reconstructed coarser
// levels and stores the quantized residuals. img is not modified.
func (e *Encoder) Encode(m Metadata, img image.Image) (Pyramid, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() != int(m.Width) || b.Dy() != int(m.Height) {
		return nil, fmt.Errorf("%w: image is %dx%d, metadata says %dx%d",
			ErrContract, b.Dx(), b.Dy(), m.Width, m.Height)
	}

	surface := e.ensureSurface(b.Dx(), b.Dy())
	grayInto(surface, img)

	t := m.Traversal()
	p := newPyramid(t)

	base := p[0]
	for _, s := range t.Spans(0) {
		row := surface.Pix[s.Y*surface.Stride:]
		x := s.X0
		for i := 0; i < s.N; i++ {
			base[s.Offset+i] = row[x]
			x += s.DX
		}
	}

	for level := 1; level <= t.Levels; level++ {
		spans := t.Spans(level)
		if !e.Parallel || len(spans) < 2 {
			e.encodeSpans(t.Levels, level, spans, p[level], surface)
			continue
		}

		var wg sync.WaitGroup
		for _, group := range splitSpans(spans, runtime.NumCPU()) {
			wg.Add(1)
			go e.encodeSpansWorker(t.Levels, level, group, p[level], surface, &wg)
		}
		wg.Wait()
	}

	return p, nil
}

func (e *Encoder) encodeSpansWorker(levels, level int, spans []Span, dst []byte, surface *image.Gray, wg *sync.WaitGroup) {
	defer wg.Done()
	e.encodeSpans(levels, level, spans, dst, surface)
}

// encodeSpans writes each residual into dst and the value the decoder will
// reconstruct back into surface.
func (e *Encoder) encodeSpans(levels, level int, spans []Span, dst []byte, surface *image.Gray) {
	for _, s := range spans {
		row := surface.Pix[s.Y*surface.Stride:]
		x := s.X0
		for i := 0; i < s.N; i++ {
			prediction := e.interp.Interpolate(levels, level, x, s.Y, surface)
			residual := row[x] - prediction

			stored := e.quant.Quantize(residual)
			// Quantizing must not move the sum across the 255/0 boundary,
			// otherwise the reconstruction lands on the other side of the range.
			if wraps(prediction, stored) != wraps(prediction, residual) {
				stored = residual
			}

			dst[s.Offset+i] = stored
			row[x] = prediction + stored
			x += s.DX
		}
	}
}

func (e *Encoder) ensureSurface(w, h int) *image.Gray {
	if e.surface == nil || e.surface.Rect.Dx() != w || e.surface.Rect.Dy() != h {
		e.surface = image.NewGray(image.Rect(0, 0, w, h))
	}
	return e.surface
}

// wraps reports whether a+b overflows a byte.
func wraps(a, b uint8) bool {
	return uint(a)+uint(b) > 0xff
}
