package orchestrator

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/mjpegw/pkg/adapters/filesink"
	"github.com/user/mjpegw/pkg/adapters/ggrenderer"
	"github.com/user/mjpegw/pkg/adapters/imagedir"
	"github.com/user/mjpegw/pkg/adapters/logger"
	"github.com/user/mjpegw/pkg/adapters/mjpegencoder"
	"github.com/user/mjpegw/pkg/adapters/osfilesystem"
	"github.com/user/mjpegw/pkg/avi"
	"github.com/user/mjpegw/pkg/jpegenc"
	"github.com/user/mjpegw/pkg/stages/encode"
	"github.com/user/mjpegw/pkg/stages/inspect"
	"github.com/user/mjpegw/pkg/stages/prepare"
	"github.com/user/mjpegw/pkg/stages/source"
)

func writeSolidPNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

// TestImageDirectoryToAVI runs the pipeline with real adapters and decodes
// every stored frame with the standard library JPEG decoder.
func TestImageDirectoryToAVI(t *testing.T) {
	frames := t.TempDir()
	colors := []color.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
	}
	for i, c := range colors {
		writeSolidPNG(t, filepath.Join(frames, string(rune('a'+i))+".png"), 20, 10, c)
	}

	out := t.TempDir()
	debugDir := filepath.Join(out, "debug")
	log := logger.NewNoop()
	renderer := ggrenderer.New()
	fs := osfilesystem.New()
	sink := filesink.New(debugDir, fs, renderer)

	orch := New(
		source.NewStage(imagedir.New(frames, 10, fs, renderer, log), log),
		prepare.NewStage(renderer, sink, log, 2),
		encode.NewStage(mjpegencoder.New(sink, log), log),
		inspect.NewStage(fs, sink, log),
		log,
	)

	config := DefaultConfig()
	config.OutputPath = filepath.Join(out, "out.avi")
	config.Width = 40
	config.Height = 40
	config.FPS = 10
	config.OutroMs = 0
	config.Quality = int(jpegenc.QualityHigh)

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.FrameCount != 3 || !result.Verified {
		t.Fatalf("unexpected result %+v", result)
	}

	data, err := os.ReadFile(config.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	r := bytes.NewReader(data)
	info, err := avi.Inspect(r)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	for i, want := range colors {
		payload, err := avi.ReadFrame(r, info, i)
		if err != nil {
			t.Fatalf("ReadFrame(%d) failed: %v", i, err)
		}
		img, err := jpeg.Decode(bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("frame %d does not decode: %v", i, err)
		}
		if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 40 {
			t.Fatalf("frame %d is %dx%d", i, b.Dx(), b.Dy())
		}

		// The 2:1 source is letterboxed into rows 10-29.
		cr, cg, cb, _ := img.At(20, 20).RGBA()
		got := [3]uint32{cr >> 8, cg >> 8, cb >> 8}
		wantCh := [3]uint8{want.R, want.G, want.B}
		for ch := range got {
			if wantCh[ch] == 255 && got[ch] < 200 || wantCh[ch] == 0 && got[ch] > 60 {
				t.Errorf("frame %d centre = %v, want close to %v", i, got, wantCh)
				break
			}
		}

		br, bg, bb, _ := img.At(20, 2).RGBA()
		if br>>8 > 40 || bg>>8 > 40 || bb>>8 > 40 {
			t.Errorf("frame %d letterbox is not black: %d %d %d", i, br>>8, bg>>8, bb>>8)
		}
	}

	for _, name := range []string{
		"frames/prepared/frame-0000.png",
		"frames/encoded/frame-0002.jpg",
		"inspect.json",
	} {
		if _, err := os.Stat(filepath.Join(debugDir, name)); err != nil {
			t.Errorf("missing debug output %s: %v", name, err)
		}
	}
}
