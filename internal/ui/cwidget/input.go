package cwidget

import (
	"errors"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var ErrNotPositive = errors.New("value must be positive")

// Input is a labelled entry that parses its text into T and shows
// validation errors below the field.
type Input[T any] struct {
	widget.BaseWidget

	labelWidget *widget.Label
	entryWidget *widget.Entry
	errorWidget *widget.Label

	LabelText   string
	Placeholder string

	DefaultValue T

	OnChanged func(T)

	Validator func(string) (T, error)
	Format    func(T) string
}

func newInput[T any](label, placeholder string, defaultValue T, format func(T) string, validator func(string) (T, error), onChanged func(T)) *Input[T] {
	input := &Input[T]{
		LabelText:    label,
		Placeholder:  placeholder,
		OnChanged:    onChanged,
		DefaultValue: defaultValue,
		Validator:    validator,
		Format:       format,
	}

	input.labelWidget = widget.NewLabel(fmt.Sprintf("%s: %s", label, format(defaultValue)))
	input.labelWidget.TextStyle = fyne.TextStyle{Bold: true}

	input.entryWidget = widget.NewEntry()
	input.entryWidget.SetPlaceHolder(placeholder)

	input.errorWidget = widget.NewLabel("")
	input.errorWidget.Hidden = true
	input.errorWidget.TextStyle = fyne.TextStyle{Italic: true}
	input.errorWidget.Importance = widget.DangerImportance

	input.entryWidget.OnChanged = func(s string) {
		res, err := input.Validator(s)
		input.SetError(err)

		if err == nil {
			if input.OnChanged != nil {
				input.OnChanged(res)
			}
			input.labelWidget.SetText(fmt.Sprintf("%s: %s", label, format(res)))
		}
	}

	input.ExtendBaseWidget(input)

	return input
}

func NewIntInput(label, placeholder string, defaultValue int, onChanged func(int)) *Input[int] {
	return newInput(label, placeholder, defaultValue, strconv.Itoa, func(s string) (int, error) {
		if s == "" {
			return defaultValue, nil
		}
		res, err := strconv.Atoi(s)
		if err != nil {
			return defaultValue, err
		}
		if res <= 0 {
			return defaultValue, ErrNotPositive
		}
		return res, nil
	}, onChanged)
}

func NewFloatInput(label, placeholder string, defaultValue float64, onChanged func(float64)) *Input[float64] {
	format := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	return newInput(label, placeholder, defaultValue, format, func(s string) (float64, error) {
		if s == "" {
			return defaultValue, nil
		}
		res, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return defaultValue, err
		}
		if res <= 0 {
			return defaultValue, ErrNotPositive
		}
		return res, nil
	}, onChanged)
}

func (item *Input[T]) CreateRenderer() fyne.WidgetRenderer {
	c := container.NewVBox(
		item.labelWidget,
		item.entryWidget,
		item.errorWidget,
	)

	return widget.NewSimpleRenderer(c)
}

func (item *Input[T]) SetError(err error) {
	item.errorWidget.Hidden = err == nil
	if err != nil {
		item.errorWidget.SetText(err.Error())
	}
	item.errorWidget.Refresh()
}

func (item *Input[T]) SetText(text string) {
	item.entryWidget.SetText(text)
}
