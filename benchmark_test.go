package hgi

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"testing"

	"github.com/xfmoulet/qoi"
)

// benchImage is a 1920x1080 product gradient, the size the codec is tuned for.
func benchImage() *image.Gray {
	return makeProductImage(1920, 1080)
}

// benchCodec runs one encode+decode cycle and reports the encoded size.
type benchCodec struct {
	name  string
	cycle func() (int, error)
}

func streamCodec(name string, encode func(io.Writer, image.Image) error, decode func(io.Reader) (image.Image, error), img image.Image) benchCodec {
	var buf bytes.Buffer
	var r bytes.Reader
	return benchCodec{name, func() (int, error) {
		buf.Reset()
		if err := encode(&buf, img); err != nil {
			return 0, err
		}
		r.Reset(buf.Bytes())
		_, err := decode(&r)
		return buf.Len(), err
	}}
}

// hgiCodec keeps one Encoder, Decoder and output buffer for the whole run so
// only the per-image work is measured.
func hgiCodec(img *image.Gray, level QuantizationLevel, parallel bool) benchCodec {
	m := MetadataFor(img, Options{Quantization: level, ScaleLevel: 4})
	enc := NewEncoder(NewLinear(level), CrossedInterpolator{})
	dec := NewDecoder(CrossedInterpolator{})
	enc.Parallel, dec.Parallel = parallel, parallel

	name := "HGI_" + level.String()
	if parallel {
		name += "_parallel"
	}
	var buf bytes.Buffer
	return benchCodec{name, func() (int, error) {
		p, err := enc.Encode(m, img)
		if err != nil {
			return 0, err
		}
		buf.Reset()
		if _, err := (&Archive{Metadata: m, Pyramid: p}).WriteTo(&buf); err != nil {
			return 0, err
		}
		size := buf.Len()
		a, err := ReadArchive(&buf)
		if err != nil {
			return 0, err
		}
		_, err = dec.Decode(a.Metadata, a.Pyramid)
		return size, err
	}}
}

// BenchmarkCodecs compares a full encode+decode cycle against PNG and QOI.
func BenchmarkCodecs(b *testing.B) {
	img := benchImage()

	codecs := []benchCodec{
		streamCodec("PNG", png.Encode, png.Decode, img),
		streamCodec("QOI", qoi.Encode, qoi.Decode, img),
	}
	for _, level := range []QuantizationLevel{Lossless, Medium} {
		codecs = append(codecs, hgiCodec(img, level, false), hgiCodec(img, level, true))
	}

	for _, c := range codecs {
		b.Run(c.name, func(b *testing.B) {
			size, err := c.cycle()
			if err != nil {
				b.Fatalf("%s: %v", c.name, err)
			}
			b.SetBytes(int64(len(img.Pix)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := c.cycle(); err != nil {
					b.Fatalf("%s: %v", c.name, err)
				}
			}
			b.ReportMetric(float64(size), "size_B")
		})
	}
}

func BenchmarkEncode(b *testing.B) {
	img := benchImage()
	m := MetadataFor(img, Options{Quantization: Medium, ScaleLevel: 4})

	for _, parallel := range []bool{false, true} {
		name := "serial"
		if parallel {
			name = "parallel"
		}
		b.Run(name, func(b *testing.B) {
			enc, err := NewEncoderFor(m)
			if err != nil {
				b.Fatal(err)
			}
			enc.Parallel = parallel
			b.SetBytes(int64(len(img.Pix)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := enc.Encode(m, img); err != nil {
					b.Fatalf("encode failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	img := benchImage()
	m := MetadataFor(img, Options{Quantization: Medium, ScaleLevel: 4})
	enc, err := NewEncoderFor(m)
	if err != nil {
		b.Fatal(err)
	}
	p, err := enc.Encode(m, img)
	if err != nil {
		b.Fatal(err)
	}

	for _, parallel := range []bool{false, true} {
		name := "serial"
		if parallel {
			name = "parallel"
		}
		b.Run(name, func(b *testing.B) {
			dec := NewDecoder(CrossedInterpolator{})
			dec.Parallel = parallel
			b.SetBytes(int64(len(img.Pix)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := dec.Decode(m, p); err != nil {
					b.Fatalf("decode failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkArchive(b *testing.B) {
	a, err := EncodeArchive(benchImage(), Options{Quantization: Medium, ScaleLevel: 4})
	if err != nil {
		b.Fatal(err)
	}
	var buf bytes.Buffer

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if _, err := a.WriteTo(&buf); err != nil {
			b.Fatalf("serialize failed: %v", err)
		}
	}
}
