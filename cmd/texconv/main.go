// Command texconv encodes and decodes GPU block-compressed textures from
// the command line.
//
// Usage:
//
//	texconv enc [options] <input.png|.jpg|.bmp> <output.texcomp>
//	texconv dec [options] <input.texcomp> <output.png>
//	texconv info <input.texcomp>
package main

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"

	"github.com/deepteams/texcomp"
	"github.com/deepteams/texcomp/internal/bc15"
	"github.com/deepteams/texcomp/internal/imgfmt"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "enc":
		err = runEnc(os.Args[2:])
	case "dec":
		err = runDec(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "texconv: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "texconv: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  texconv enc [options] <input> <output.texcomp>   Compress PNG/JPEG/BMP
  texconv dec [options] <input.texcomp> <output.png>  Decompress to PNG
  texconv info <input.texcomp>                      Show container header

Run "texconv <command> -h" for command-specific options.
`)
}

var blockFormats = map[string]imgfmt.Format{
	"bc1":        imgfmt.BC1_UNORM,
	"bc1srgb":    imgfmt.BC1_UNORM_SRGB,
	"bc2":        imgfmt.BC2_UNORM,
	"bc3":        imgfmt.BC3_UNORM,
	"bc3srgb":    imgfmt.BC3_UNORM_SRGB,
	"bc4":        imgfmt.BC4_UNORM,
	"bc4snorm":   imgfmt.BC4_SNORM,
	"bc5":        imgfmt.BC5_UNORM,
	"bc5snorm":   imgfmt.BC5_SNORM,
	"bc6h":       imgfmt.BC6H_UF16,
	"bc6hsigned": imgfmt.BC6H_SF16,
	"bc7":        imgfmt.BC7_UNORM,
	"bc7srgb":    imgfmt.BC7_UNORM_SRGB,
}

func runEnc(args []string) error {
	fs := flag.NewFlagSet("enc", flag.ContinueOnError)
	formatName := fs.String("fmt", "bc7", "target format: bc1, bc1srgb, bc2, bc3, bc3srgb, bc4, bc4snorm, bc5, bc5snorm, bc6h, bc6hsigned, bc7, bc7srgb")
	ditherRGB := fs.Bool("dither_rgb", false, "dither RGB to the 565 grid before fitting, carrying each residual to the texel below (BC1-3)")
	ditherA := fs.Bool("dither_a", false, "set the alpha-dither flag (BC1-3); no encoder reads it, so alpha is not dithered")
	uniform := fs.Bool("uniform", false, "disable perceptual channel weighting (BC1-3)")
	threshold := fs.Float64("alpha_ref", 0, "alpha-test threshold for BC1 colour-key (0 disables)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("enc: need <input> <output.texcomp>\nUsage: texconv enc [options] <input> <output.texcomp>")
	}
	dstFormat, ok := blockFormats[strings.ToLower(*formatName)]
	if !ok {
		return fmt.Errorf("enc: unknown format %q", *formatName)
	}

	in, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer in.Close()
	src, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("enc: decoding input: %w", err)
	}

	nrgba := toNRGBA(src)
	width, height := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()

	srcImg := texcomp.Image{
		Format:   imgfmt.R8G8B8A8_UNORM,
		Width:    width,
		Height:   height,
		RowPitch: nrgba.Stride,
		Bytes:    nrgba.Pix,
	}

	pitch, err := imgfmt.BlockPitch(dstFormat, width)
	if err != nil {
		return fmt.Errorf("enc: %w", err)
	}
	blockRows := (height + 3) / 4
	dstImg := texcomp.Image{
		Format:   dstFormat,
		Width:    width,
		Height:   height,
		RowPitch: pitch,
		Bytes:    make([]byte, pitch*blockRows),
	}

	var flags bc15.Flags
	if *ditherRGB {
		flags |= bc15.DitherRGB
	}
	if *ditherA {
		flags |= bc15.DitherA
	}
	if *uniform {
		flags |= bc15.Uniform
	}
	opt := texcomp.ConvertOptions{BC1Flags: flags, Threshold: float32(*threshold)}

	res := texcomp.Convert(srcImg, dstImg, opt)
	if res.Err != nil {
		return errors.Wrap(res.Err, "enc")
	}

	out, err := os.Create(fs.Arg(1))
	if err != nil {
		return err
	}
	if err := writeContainer(out, dstImg); err != nil {
		out.Close()
		os.Remove(fs.Arg(1))
		return fmt.Errorf("enc: writing container: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Encoded %s -> %s (%s, %dx%d)\n", fs.Arg(0), fs.Arg(1), *formatName, width, height)
	return nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	n := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			n.Set(x, y, src.At(x, y))
		}
	}
	return n
}

func runDec(args []string) error {
	fs := flag.NewFlagSet("dec", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("dec: need <input.texcomp> <output.png>\nUsage: texconv dec [options] <input.texcomp> <output.png>")
	}

	in, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	srcImg, err := readContainer(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("dec: %w", err)
	}

	dstImg := texcomp.Image{
		Format:   imgfmt.R8G8B8A8_UNORM,
		Width:    srcImg.Width,
		Height:   srcImg.Height,
		RowPitch: srcImg.Width * 4,
		Bytes:    make([]byte, srcImg.Width*4*srcImg.Height),
	}
	res := texcomp.Convert(srcImg, dstImg, texcomp.ConvertOptions{})
	if res.Err != nil {
		return errors.Wrap(res.Err, "dec")
	}

	nrgba := &image.NRGBA{Pix: dstImg.Bytes, Stride: dstImg.RowPitch, Rect: image.Rect(0, 0, dstImg.Width, dstImg.Height)}

	out, err := os.Create(fs.Arg(1))
	if err != nil {
		return err
	}
	var encErr error
	if strings.HasSuffix(strings.ToLower(fs.Arg(1)), ".jpg") || strings.HasSuffix(strings.ToLower(fs.Arg(1)), ".jpeg") {
		encErr = jpeg.Encode(out, nrgba, &jpeg.Options{Quality: 90})
	} else {
		encErr = png.Encode(out, nrgba)
	}
	if encErr != nil {
		out.Close()
		os.Remove(fs.Arg(1))
		return fmt.Errorf("dec: encoding output: %w", encErr)
	}
	if err := out.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Decoded %s -> %s\n", fs.Arg(0), fs.Arg(1))
	return nil
}

func runInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("info: missing input file\nUsage: texconv info <input.texcomp>")
	}
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()
	img, err := readContainer(in)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	d, err := imgfmt.Lookup(img.Format)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	fmt.Printf("File:       %s\n", args[0])
	fmt.Printf("Format:     %s\n", d.Name)
	fmt.Printf("Dimensions: %d x %d\n", img.Width, img.Height)
	fmt.Printf("Row pitch:  %d bytes\n", img.RowPitch)
	fmt.Printf("Data size:  %d bytes\n", len(img.Bytes))
	return nil
}
