package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Rasterizer renders the first PDF page through ImageMagick.
type Rasterizer struct {
	bin     string
	timeout time.Duration
}

type RasterOption func(*Rasterizer)

// WithTimeout bounds each ImageMagick invocation; expiry counts as failure.
func WithTimeout(d time.Duration) RasterOption {
	return func(r *Rasterizer) { r.timeout = d }
}

func NewRasterizer(bin string, opts ...RasterOption) *Rasterizer {
	if bin == "" {
		bin = "convert"
	}
	r := &Rasterizer{bin: bin, timeout: time.Minute}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Rasterizer) Name() string { return "imagemagick" }

// Available reports whether "<bin> -version" exits cleanly.
func (r *Rasterizer) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, r.bin, "-version").Run() == nil
}

func (r *Rasterizer) Render(ctx context.Context, req Request) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.bin, rasterArgs(req.PDFPath, req.OutputPath)...)
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", r.bin, ctx.Err())
		}
		return fmt.Errorf("%s: %w: %s", r.bin, err, strings.TrimSpace(stderr.String()))
	}
	if _, err := os.Stat(req.OutputPath); err != nil {
		return fmt.Errorf("%s: exited cleanly but wrote no output: %w", r.bin, err)
	}
	return nil
}

// rasterArgs renders page one at 300 DPI in sRGB, fits it inside 400x533
// (shrink only), sharpens, flattens onto white and strips metadata.
func rasterArgs(pdfPath, outPath string) []string {
	return []string{
		"-density", "300",
		pdfPath + "[0]",
		"-colorspace", "sRGB",
		"-resize", "400x533>",
		"-sharpen", "0x1.0",
		"-background", "white",
		"-alpha", "remove",
		"-strip",
		"png:" + outPath,
	}
}
