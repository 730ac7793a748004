package ui

import (
	"context"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

type promptResult struct {
	value string
	err   error
}

// ChooseFile shows a file-open dialog and blocks until it closes.
func (a *DetectApp) ChooseFile(ctx context.Context, title string, extensions []string) (string, error) {
	result := make(chan promptResult, 1)
	a.log.WithField("prompt", title).Debug("showing file dialog")

	fyne.Do(func() {
		d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				result <- promptResult{err: err}
				return
			}
			defer reader.Close()
			result <- promptResult{value: reader.URI().Path()}
		}, a.mainWin)

		d.SetFilter(storage.NewExtensionFileFilter(extensions))
		d.Resize(fyne.NewSize(720, 480))
		d.Show()
	})

	return wait(ctx, result)
}

// AskText shows a single-line prompt and blocks until it closes.
func (a *DetectApp) AskText(ctx context.Context, title, label string) (string, error) {
	result := make(chan promptResult, 1)

	fyne.Do(func() {
		entry := widget.NewEntry()
		entry.SetPlaceHolder("https://www.youtube.com/watch?v=...")

		d := dialog.NewForm(title, "OK", "Cancel",
			[]*widget.FormItem{widget.NewFormItem(label, entry)},
			func(ok bool) {
				if !ok {
					result <- promptResult{}
					return
				}
				result <- promptResult{value: strings.TrimSpace(entry.Text)}
			}, a.mainWin)

		d.Resize(fyne.NewSize(460, 160))
		d.Show()
	})

	return wait(ctx, result)
}

func wait(ctx context.Context, result <-chan promptResult) (string, error) {
	select {
	case r := <-result:
		return r.value, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
