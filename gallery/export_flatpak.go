//go:build flatpak && !windows && !android && !ios && !wasm && !js

package gallery

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/storage"

	"github.com/rymdport/portal"
	"github.com/rymdport/portal/filechooser"
)

func saveImage(win fyne.Window, name string, img image.Image, done func(error)) {
	pngFilter := &filechooser.Filter{
		Name: "PNG",
		Rules: []filechooser.Rule{
			{Type: filechooser.MIMEType, Pattern: "image/png"},
			{Type: filechooser.GlobPattern, Pattern: "*.png"},
		},
	}
	options := &filechooser.SaveFileOptions{
		AcceptLabel:   lang.L("Save"),
		CurrentName:   name,
		Filters:       []*filechooser.Filter{pngFilter},
		CurrentFilter: pngFilter,
	}
	windowHandle := windowHandleForPortal(win)

	go func() {
		uris, err := filechooser.SaveFile(windowHandle, lang.L("Save Image"), options)
		if err != nil {
			fyne.Do(func() { done(err) })
			return
		}
		if len(uris) == 0 {
			fyne.Do(func() { done(errExportCancelled) })
			return
		}

		uri, err := storage.ParseURI(uris[0])
		if err != nil {
			fyne.Do(func() { done(err) })
			return
		}
		writer, err := storage.Writer(uri)
		if err == nil {
			err = writePNG(writer, img)
		}
		fyne.Do(func() { done(err) })
	}()
}

func windowHandleForPortal(window fyne.Window) string {
	native, ok := window.(driver.NativeWindow)
	if !ok {
		return ""
	}

	windowHandle := ""
	native.RunNative(func(context any) {
		if x11, ok := context.(driver.X11WindowContext); ok {
			windowHandle = portal.FormatX11WindowHandle(x11.WindowHandle)
		}
	})
	return windowHandle
}
