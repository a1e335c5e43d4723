package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	qr "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrEmptyPayload is returned when asked to render blank payload text.
var ErrEmptyPayload = errors.New("payload is empty")

// labelBand is the height in pixels of one caption band.
const labelBand = 22

// Renderer turns payload text into an image artifact.
type Renderer interface {
	// Render returns a PNG with the QR code and optional labels above and below it.
	Render(ctx context.Context, payload, topLabel, bottomLabel string) ([]byte, error)
}

// QRRenderer renders QR codes with skip2/go-qrcode.
type QRRenderer struct {
	size  int
	level qr.RecoveryLevel
}

// NewQRRenderer creates a renderer from configuration.
func NewQRRenderer(cfg Config) (*QRRenderer, error) {
	level, err := ParseRecovery(cfg.Recovery)
	if err != nil {
		return nil, err
	}
	size := cfg.Size
	if size <= 0 {
		size = 320
	}
	return &QRRenderer{size: size, level: level}, nil
}

// ParseRecovery maps a configuration value to a QR error correction level.
func ParseRecovery(s string) (qr.RecoveryLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return qr.Low, nil
	case "", "medium":
		return qr.Medium, nil
	case "high":
		return qr.High, nil
	case "highest":
		return qr.Highest, nil
	default:
		return qr.Medium, fmt.Errorf("unknown recovery level %q", s)
	}
}

// Render implements Renderer.
func (r *QRRenderer) Render(ctx context.Context, payload, topLabel, bottomLabel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload) == "" {
		return nil, ErrEmptyPayload
	}

	code, err := qr.New(payload, r.level)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr matrix: %w", err)
	}
	matrix := code.Image(r.size)
	qrBounds := matrix.Bounds()

	top, bottom := 0, 0
	if topLabel != "" {
		top = labelBand
	}
	if bottomLabel != "" {
		bottom = labelBand
	}

	width := qrBounds.Dx()
	canvas := image.NewRGBA(image.Rect(0, 0, width, top+qrBounds.Dy()+bottom))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, top, width, top+qrBounds.Dy()), matrix, qrBounds.Min, draw.Src)

	if topLabel != "" {
		drawLabel(canvas, topLabel, 0)
	}
	if bottomLabel != "" {
		drawLabel(canvas, bottomLabel, top+qrBounds.Dy())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawLabel centers text inside the band starting at y.
// Text wider than the canvas is cut and suffixed with "...".
func drawLabel(dst *image.RGBA, text string, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}

	width := dst.Bounds().Dx()
	text = fit(d, text, width-8)
	advance := d.MeasureString(text).Ceil()

	x := (width - advance) / 2
	if x < 0 {
		x = 0
	}
	// Baseline sits a little below the band center
	baseline := y + (labelBand+basicfont.Face7x13.Ascent)/2
	d.Dot = fixed.P(x, baseline)
	d.DrawString(text)
}

func fit(d *font.Drawer, text string, limit int) string {
	if d.MeasureString(text).Ceil() <= limit {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if d.MeasureString(candidate).Ceil() <= limit {
			return candidate
		}
	}
	return ""
}
