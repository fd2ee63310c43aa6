//go:build !flatpak || windows || android || ios || wasm || js

package gallery

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

func saveImage(win fyne.Window, name string, img image.Image, done func(error)) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			done(err)
			return
		}
		if writer == nil {
			done(errExportCancelled)
			return
		}
		done(writePNG(writer, img))
	}, win)
	d.SetFileName(name)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	d.Show()
}
