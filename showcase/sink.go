package main

import (
	"image"
	"time"

	"github.com/go-wups/wupf/pkg/logger"
)

// consoleSink stands in for the host overlay: instead of drawing banners over
// the screen it logs their dimensions and display time.
type consoleSink struct{}

func (consoleSink) Present(img *image.RGBA, d time.Duration) {
	b := img.Bounds()
	logger.L().Info().
		Int("width", b.Dx()).
		Int("height", b.Dy()).
		Dur("for", d).
		Msg("notification presented")
}
