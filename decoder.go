package hgi

import (
	"image"
	"runtime"
	"sync"
)

// Decoder rebuilds images from pyramids. Every Decode call returns a freshly
// allocated image; the Decoder itself holds no per-image state.
type Decoder struct {
	// Parallel spreads the rows of each level over runtime.NumCPU() goroutines.
	Parallel bool

	interp Interpolator
}

func NewDecoder(ip Interpolator) *Decoder {
	return &Decoder{interp: ip}
}

// NewDecoderFor builds a decoder with the interpolator m names.
func NewDecoderFor(m Metadata) (*Decoder, error) {
	ip, err := NewInterpolator(m.Interpolation)
	if err != nil {
		return nil, err
	}
	return NewDecoder(ip), nil
}

// Decode replays the encoder's traversal, adding each stored residual to the
// prediction made from the pixels reconstructed so far.
func (d *Decoder) Decode(m Metadata, p Pyramid) (*image.Gray, error) {
	if err := p.Check(m); err != nil {
		return nil, err
	}

	t := m.Traversal()
	img := image.NewGray(image.Rect(0, 0, t.Width, t.Height))

	base := p[0]
	for _, s := range t.Spans(0) {
		row := img.Pix[s.Y*img.Stride:]
		x := s.X0
		for i := 0; i < s.N; i++ {
			row[x] = base[s.Offset+i]
			x += s.DX
		}
	}

	for level := 1; level <= t.Levels; level++ {
		spans := t.Spans(level)
		if !d.Parallel || len(spans) < 2 {
			d.decodeSpans(t.Levels, level, spans, p[level], img)
			continue
		}

		var wg sync.WaitGroup
		for _, group := range splitSpans(spans, runtime.NumCPU()) {
			wg.Add(1)
			go d.decodeSpansWorker(t.Levels, level, group, p[level], img, &wg)
		}
		wg.Wait()
	}

	return img, nil
}

func (d *Decoder) decodeSpansWorker(levels, level int, spans []Span, src []byte, img *image.Gray, wg *sync.WaitGroup) {
	defer wg.Done()
	d.decodeSpans(levels, level, spans, src, img)
}

func (d *Decoder) decodeSpans(levels, level int, spans []Span, src []byte, img *image.Gray) {
	for _, s := range spans {
		row := img.Pix[s.Y*img.Stride:]
		x := s.X0
		for i := 0; i < s.N; i++ {
			prediction := d.interp.Interpolate(levels, level, x, s.Y, img)
			row[x] = prediction + src[s.Offset+i]
			x += s.DX
		}
	}
}
