package ggrenderer

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/user/mjpegw/pkg/adapters/logger"
	"github.com/user/mjpegw/pkg/ports"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestRenderer_CreateCanvas(t *testing.T) {
	r := New()

	canvas := r.CreateCanvas(64, 48, color.White)
	bounds := canvas.ToImage().Bounds()
	if bounds.Dx() != 64 || bounds.Dy() != 48 {
		t.Errorf("expected 64x48, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_EncodeDecode(t *testing.T) {
	r := New()
	img := solid(40, 24, color.RGBA{R: 200, G: 40, B: 40, A: 255})

	formats := []ports.ImageFormat{
		ports.FormatJPEG,
		ports.FormatPNG,
		ports.FormatGIF,
		ports.FormatBMP,
		ports.FormatTIFF,
	}
	for _, f := range formats {
		t.Run(f.String(), func(t *testing.T) {
			data, err := r.EncodeImage(img, f, 90)
			if err != nil {
				t.Fatalf("EncodeImage failed: %v", err)
			}
			decoded, err := r.DecodeImage(data, f)
			if err != nil {
				t.Fatalf("DecodeImage failed: %v", err)
			}
			if b := decoded.Bounds(); b.Dx() != 40 || b.Dy() != 24 {
				t.Errorf("expected 40x24, got %dx%d", b.Dx(), b.Dy())
			}
		})
	}
}

func TestRenderer_EncodeWebPUnsupported(t *testing.T) {
	r := New()
	if _, err := r.EncodeImage(solid(8, 8, color.RGBA{A: 255}), ports.FormatWebP, 0); err == nil {
		t.Error("expected error encoding WebP")
	}
}

func TestRenderer_DecodeGarbage(t *testing.T) {
	r := New()
	if _, err := r.DecodeImage([]byte("not an image"), ports.FormatPNG); err == nil {
		t.Error("expected error decoding garbage")
	}
}

func TestRenderer_ResizeImage(t *testing.T) {
	r := New()
	img := solid(100, 60, color.RGBA{G: 255, A: 255})

	resized := r.ResizeImage(img, 50, 30)
	if b := resized.Bounds(); b.Dx() != 50 || b.Dy() != 30 {
		t.Errorf("expected 50x30, got %dx%d", b.Dx(), b.Dy())
	}
	_, g, _, a := resized.At(25, 15).RGBA()
	if g>>8 != 255 || a>>8 != 255 {
		t.Errorf("expected opaque green, got g=%d a=%d", g>>8, a>>8)
	}
}

func TestCanvas_DrawRect(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)
	canvas.DrawRect(10, 10, 30, 30, color.RGBA{R: 255, A: 255})

	red, green, _, _ := canvas.ToImage().At(20, 20).RGBA()
	if red == 0 || green != 0 {
		t.Error("expected red pixel inside rectangle")
	}
}

func TestCanvas_DrawCircle(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)
	canvas.DrawCircle(50, 50, 20, color.Black)

	img := canvas.ToImage()
	if c, _, _, _ := img.At(50, 50).RGBA(); c != 0 {
		t.Error("expected black pixel at circle centre")
	}
	if c, _, _, _ := img.At(5, 5).RGBA(); c != 0xffff {
		t.Error("expected white pixel outside circle")
	}
}

func TestCanvas_DrawImage(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)
	canvas.DrawImage(solid(20, 20, color.RGBA{R: 255, A: 255}), 10, 10)

	_, green, _, _ := canvas.ToImage().At(15, 15).RGBA()
	if green != 0 {
		t.Error("expected red pixel from drawn image")
	}
}

func TestCanvas_DrawLine(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)
	canvas.DrawLine(0, 50, 100, 50, color.Black, 2)

	r1, g1, b1, _ := canvas.ToImage().At(50, 50).RGBA()
	if r1 == 0xffff && g1 == 0xffff && b1 == 0xffff {
		t.Error("expected non-white pixel on line")
	}
}

func TestCanvas_DrawText(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(200, 50, color.White)

	canvas.DrawText("frame 0001", 100, 25, ports.TextStyle{
		FontSize: 14,
		FontPath: "/nonexistent/font.ttf",
		Color:    color.Black,
		Align:    ports.AlignCenter,
	})

	if canvas.ToImage() == nil {
		t.Error("expected image to be created")
	}
}

func TestCanvas_DrawText_LogsFontFallback(t *testing.T) {
	var out bytes.Buffer
	r := New(WithLogger(logger.NewWriter(ports.LevelDebug, &out, &out)))
	canvas := r.CreateCanvas(100, 30, color.White)

	canvas.DrawText("00:01", 50, 15, ports.TextStyle{
		FontSize: 12,
		FontPath: "/nonexistent/font.ttf",
		Color:    color.Black,
	})

	got := out.String()
	if !strings.Contains(got, "[renderer]") || !strings.Contains(got, "/nonexistent/font.ttf") {
		t.Errorf("expected font fallback debug message, got %q", got)
	}

	out.Reset()
	canvas.DrawText("00:02", 50, 15, ports.TextStyle{Color: color.Black})
	if out.Len() != 0 {
		t.Errorf("unexpected log output without a font path: %q", out.String())
	}
}
