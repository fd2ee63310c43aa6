package gallery

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"fyne.io/fyne/v2"
)

// pngExporter saves the long pressed image as a PNG file chosen by the user.
type pngExporter struct{}

// NewPNGExporter returns the default Exporter. It asks for a file name with the platform
// save dialog, or the desktop portal when built for flatpak.
func NewPNGExporter() Exporter {
	return pngExporter{}
}

func (pngExporter) Export(win fyne.Window, index int, img image.Image) {
	if win == nil || img == nil {
		return
	}
	saveImage(win, exportName(index), img, func(err error) {
		switch {
		case errors.Is(err, errExportCancelled):
			Logger().Debug("export cancelled", "index", index)
			return
		case err != nil:
			Logger().Error("export failed", "index", index, "error", err)
			return
		}
		Logger().Info("image exported", "index", index)
	})
}

func exportName(index int) string {
	return fmt.Sprintf("image-%03d.png", index+1)
}

// writePNG encodes img to w and always closes w.
func writePNG(w io.WriteCloser, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		_ = w.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return w.Close()
}

// errExportCancelled is reported when the user dismissed the save dialog.
var errExportCancelled = errors.New("gallery: export cancelled")
