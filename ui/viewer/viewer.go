// Package viewer is a desktop browser for the glyphs of a page: each
// letter's traced boundary mask, its contours and the predicted label.
package viewer

import (
	"errors"
	"fmt"
	"strings"

	"glyph-ocr/internal/classify"
	"glyph-ocr/internal/contour"
	glyphimage "glyph-ocr/internal/image"
	"glyph-ocr/internal/logger"
	"glyph-ocr/internal/reader"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const overlayScale = 4

// Viewer is the glyph browser window.
type Viewer struct {
	fyne.Window
	app       fyne.App
	extractor *reader.Extractor
	models    *classify.Models
	unknown   string
	recent    *Recent

	glyphs []reader.Glyph

	list   *widget.List
	image  *fynecanvas.Image
	detail *widget.Label
	status *widget.Label
}

// New creates the viewer window. recent may be nil.
func New(fyneApp fyne.App, extractor *reader.Extractor, unknown string, recent *Recent) *Viewer {
	v := &Viewer{
		Window:    fyneApp.NewWindow("Glyph Viewer"),
		app:       fyneApp,
		extractor: extractor,
		unknown:   unknown,
		recent:    recent,
	}

	v.list = widget.NewList(
		func() int { return len(v.glyphs) },
		func() fyne.CanvasObject { return widget.NewLabel("L00 W00 #00 ?") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(v.glyphs) {
				obj.(*widget.Label).SetText(Describe(v.glyphs[id], v.predict(v.glyphs[id])))
			}
		},
	)
	v.list.OnSelected = func(id widget.ListItemID) { v.showGlyph(int(id)) }

	v.image = fynecanvas.NewImageFromImage(nil)
	v.image.FillMode = fynecanvas.ImageFillContain
	v.image.SetMinSize(fyne.NewSize(440, 440))

	v.detail = widget.NewLabel("")
	v.status = widget.NewLabel("Open a page to begin")

	toolbar := container.NewHBox(
		widget.NewButton("Open Page...", v.onOpenPage),
		widget.NewButton("Load Models...", v.onLoadModels),
	)
	right := container.NewBorder(nil, v.detail, nil, nil, v.image)
	split := container.NewHSplit(v.list, right)
	split.SetOffset(0.3)

	v.SetContent(container.NewBorder(toolbar, container.NewPadded(v.status), nil, nil, split))
	size := fyne.NewSize(900, 600)
	if recent != nil && recent.Width > 0 && recent.Height > 0 {
		size = fyne.NewSize(recent.Width, recent.Height)
	}
	v.Resize(size)
	v.SetCloseIntercept(v.onClose)
	return v
}

func (v *Viewer) onClose() {
	if v.recent != nil {
		sz := v.Canvas().Size()
		v.recent.SetSize(sz.Width, sz.Height)
		if err := v.recent.Save(); err != nil {
			logger.OrNop(v.extractor.Log).Warning("viewer", "failed to save recent files", logger.Fields{"error": err.Error()})
		}
	}
	v.Close()
}

// OpenPage segments and traces a page and lists its glyphs.
func (v *Viewer) OpenPage(path string) error {
	pg, err := glyphimage.Load(path)
	if err != nil {
		return err
	}
	mat, err := pg.Mat()
	if err != nil {
		return err
	}
	defer mat.Close()

	letters, err := v.extractor.Letters(mat)
	if err != nil {
		return err
	}
	defer letters.Close()

	v.glyphs = v.extractor.TraceGlyphs(letters)
	v.list.UnselectAll()
	v.list.Refresh()
	v.image.Image = nil
	v.image.Refresh()
	v.detail.SetText("")
	v.status.SetText(fmt.Sprintf("%s: %d lines, %d glyphs", path, len(letters), len(v.glyphs)))
	if v.recent != nil {
		v.recent.SetPage(path)
	}
	return nil
}

// LoadModels loads trained classifiers so glyphs show their prediction.
func (v *Viewer) LoadModels(path string) error {
	m, err := classify.LoadModels(path)
	if err != nil {
		return err
	}
	v.models = m
	v.list.Refresh()
	v.status.SetText(fmt.Sprintf("models %s (run %s)", path, m.RunID))
	if v.recent != nil {
		v.recent.SetModels(path)
	}
	return nil
}

func (v *Viewer) predict(g reader.Glyph) string {
	if v.models == nil || g.Err != nil {
		return ""
	}
	label, err := v.models.Predict(g.Contours)
	if err != nil {
		return v.unknown
	}
	return label
}

func (v *Viewer) showGlyph(i int) {
	if i < 0 || i >= len(v.glyphs) {
		return
	}
	g := v.glyphs[i]
	if g.Mask != nil {
		v.image.Image = glyphimage.RenderContours(g.Mask, g.Contours, overlayScale)
	} else {
		v.image.Image = nil
	}
	v.image.Refresh()
	v.detail.SetText(Detail(g))
}

func (v *Viewer) onOpenPage() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		rc.Close()
		if err := v.OpenPage(rc.URI().Path()); err != nil {
			dialog.ShowError(err, v.Window)
		}
	}, v.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(glyphimage.SupportedFormats()))
	fd.Show()
}

func (v *Viewer) onLoadModels() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		rc.Close()
		if err := v.LoadModels(rc.URI().Path()); err != nil {
			dialog.ShowError(err, v.Window)
		}
	}, v.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	fd.Show()
}

// Describe is the list entry for a glyph: its position and, when known,
// the predicted label.
func Describe(g reader.Glyph, prediction string) string {
	s := fmt.Sprintf("L%d W%d #%d", g.Line+1, g.Word+1, g.Letter+1)
	switch {
	case errors.Is(g.Err, contour.ErrEmptyGlyph):
		return s + " (no ink)"
	case g.Err != nil:
		return s + " (error)"
	case prediction != "":
		return fmt.Sprintf("%s %q (%d)", s, prediction, len(g.Contours))
	default:
		return fmt.Sprintf("%s (%d)", s, len(g.Contours))
	}
}

// Detail lists the contour lengths of a glyph.
func Detail(g reader.Glyph) string {
	if g.Err != nil {
		return g.Err.Error()
	}
	parts := make([]string, len(g.Contours))
	for i, c := range g.Contours {
		parts[i] = fmt.Sprintf("%d", c.Len())
	}
	return fmt.Sprintf("%d contours: %s", len(g.Contours), strings.Join(parts, ", "))
}
