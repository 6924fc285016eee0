package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"

	"github.com/svanichkin/hgi"
)

const usage = `Usage:
  hgi encode -i <image> -o <out.hgi> [-l levels] [-q lossless|low|medium|high] [-width px] [-parallel]
  hgi decode -i <in.hgi> -o <out.png> [-parallel]
  hgi test   -i <image> [-s suffix] [-l levels] [-q level] [-width px]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "encode":
		err = runEncode(args)
	case "decode":
		err = runDecode(args)
	case "test":
		err = runTest(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// encodingFlags are shared by encode and test.
type encodingFlags struct {
	level    int
	quant    string
	width    uint
	parallel bool
}

func (f *encodingFlags) register(fs *flag.FlagSet) {
	def := hgi.DefaultOptions()
	fs.IntVar(&f.level, "l", def.ScaleLevel, "number of pyramid levels")
	fs.StringVar(&f.quant, "q", def.Quantization.String(), "quantization: lossless, low, medium or high")
	fs.UintVar(&f.width, "width", 0, "downscale to this width before encoding (0 keeps the size)")
	fs.BoolVar(&f.parallel, "parallel", false, "process the rows of each level concurrently")
}

func (f *encodingFlags) options() (hgi.Options, error) {
	q, err := hgi.ParseQuantizationLevel(f.quant)
	if err != nil {
		return hgi.Options{}, err
	}
	return hgi.Options{Quantization: q, ScaleLevel: f.level, Parallel: f.parallel}, nil
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	in := fs.String("i", "", "input image")
	out := fs.String("o", "", "output archive")
	var ef encodingFlags
	ef.register(fs)
	fs.Parse(args)
	if *in == "" || *out == "" {
		return fmt.Errorf("encode: -i and -o are required")
	}

	opts, err := ef.options()
	if err != nil {
		return err
	}
	img, err := loadGray(*in, ef.width)
	if err != nil {
		return err
	}

	if err := writeArchive(*out, img, opts); err != nil {
		return err
	}
	fmt.Printf("Encoded %s (quantization=%s, levels=%d) → %s\n", *in, opts.Quantization, opts.ScaleLevel, *out)
	return nil
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	in := fs.String("i", "", "input archive")
	out := fs.String("o", "", "output PNG")
	parallel := fs.Bool("parallel", false, "process the rows of each level concurrently")
	fs.Parse(args)
	if *in == "" || *out == "" {
		return fmt.Errorf("decode: -i and -o are required")
	}

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()

	a, err := hgi.ReadArchive(bufio.NewReader(f))
	if err != nil {
		return fmt.Errorf("%s: %w", *in, err)
	}
	dec, err := hgi.NewDecoderFor(a.Metadata)
	if err != nil {
		return err
	}
	dec.Parallel = *parallel

	img, err := dec.Decode(a.Metadata, a.Pyramid)
	if err != nil {
		return err
	}
	if err := savePNG(*out, img); err != nil {
		return err
	}
	fmt.Printf("Decoded %s → %s\n", *in, *out)
	return nil
}

// runTest encodes and decodes an image in memory, reports size and error
// figures, and writes the archive and the reconstruction to the working directory.
func runTest(args []string) error {
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	in := fs.String("i", "", "input image")
	suffix := fs.String("s", "", "output file name suffix")
	var ef encodingFlags
	ef.register(fs)
	fs.Parse(args)
	if *in == "" {
		return fmt.Errorf("test: -i is required")
	}

	opts, err := ef.options()
	if err != nil {
		return err
	}
	before, err := loadGray(*in, ef.width)
	if err != nil {
		return err
	}

	a, err := hgi.EncodeArchive(before, opts)
	if err != nil {
		return err
	}
	after, err := a.Image()
	if err != nil {
		return err
	}
	st, err := hgi.Compare(before, after)
	if err != nil {
		return err
	}
	data, err := a.MarshalBinary()
	if err != nil {
		return err
	}

	uncompressed := len(before.Pix)
	fmt.Printf("Uncompressed: %d kb\n", uncompressed/1024)
	fmt.Printf("Compressed:   %d kb\n", len(data)/1024)
	fmt.Printf("Ratio:        %.2f\n", hgi.Ratio(uncompressed, len(data)))
	fmt.Printf("SD:           %.2f\n", st.RMSE)
	fmt.Printf("Max error:    %d\n", st.MaxError)

	stem := strings.TrimSuffix(filepath.Base(*in), filepath.Ext(*in)) + *suffix
	if err := savePNG(stem+".png", after); err != nil {
		return err
	}
	return os.WriteFile(stem+".hgi", data, 0o644)
}

// loadGray decodes an image file, optionally downscales it to width pixels
// (keeping the aspect ratio) and converts it to 8-bit grayscale.
func loadGray(path string, width uint) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if width > 0 && int(width) < img.Bounds().Dx() {
		img = resize.Resize(width, 0, img, resize.Lanczos3)
	}

	if g, ok := img.(*image.Gray); ok {
		return hgi.ToGray(g), nil
	}
	filter := gift.New(gift.Grayscale())
	dst := image.NewGray(filter.Bounds(img.Bounds()))
	filter.Draw(dst, img)
	return dst, nil
}

// writeArchive encodes img into path. A partially written file is removed.
func writeArchive(path string, img image.Image, opts hgi.Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(path)
		}
	}()

	w := bufio.NewWriter(f)
	if err := hgi.EncodeTo(w, img, opts); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func savePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return err
	}
	return out.Close()
}
