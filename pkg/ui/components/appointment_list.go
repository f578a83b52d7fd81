package components

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/careassist/care-reminder/pkg/models"
)

// AppointmentList shows appointments one per row, each with a Cancel button
type AppointmentList struct {
	mu       sync.RWMutex
	list     *widget.List
	items    []models.Appointment
	onCancel func(models.Appointment)
}

// NewAppointmentList creates the list and its scroll container
func NewAppointmentList(onCancel func(models.Appointment)) (*AppointmentList, fyne.CanvasObject) {
	al := &AppointmentList{onCancel: onCancel}

	al.list = widget.NewList(
		al.Len,
		func() fyne.CanvasObject {
			label := widget.NewLabel("template")
			label.Wrapping = fyne.TextWrapWord
			cancel := widget.NewButtonWithIcon("Cancel", theme.DeleteIcon(), nil)
			cancel.Importance = widget.DangerImportance
			return container.NewBorder(nil, nil, nil, cancel, label)
		},
		al.updateRow,
	)

	scroll := container.NewScroll(al.list)
	scroll.SetMinSize(fyne.NewSize(0, 180))
	return al, container.NewBorder(widget.NewSeparator(), widget.NewSeparator(), nil, nil, scroll)
}

// RowText is the label shown for one appointment
func RowText(appt models.Appointment) string {
	recurring := string(appt.Recurring)
	if recurring == "" {
		recurring = string(models.RecurrenceNone)
	}
	return fmt.Sprintf("%s  %s (%s)", appt.Title, appt.DisplayTime(), recurring)
}

func (al *AppointmentList) updateRow(id widget.ListItemID, obj fyne.CanvasObject) {
	appt, ok := al.At(id)
	if !ok {
		return
	}

	row := obj.(*fyne.Container)
	for _, child := range row.Objects {
		switch w := child.(type) {
		case *widget.Label:
			w.SetText(RowText(appt))
		case *widget.Button:
			w.OnTapped = func() {
				if al.onCancel != nil {
					al.onCancel(appt)
				}
			}
		}
	}
}

// SetItems replaces the rows
func (al *AppointmentList) SetItems(items []models.Appointment) {
	al.mu.Lock()
	al.items = items
	al.mu.Unlock()
	al.list.Refresh()
}

func (al *AppointmentList) Len() int {
	al.mu.RLock()
	defer al.mu.RUnlock()
	return len(al.items)
}

// At returns the appointment shown in row id
func (al *AppointmentList) At(id int) (models.Appointment, bool) {
	al.mu.RLock()
	defer al.mu.RUnlock()
	if id < 0 || id >= len(al.items) {
		return models.Appointment{}, false
	}
	return al.items[id], true
}

// Row builds and fills a row the way the list does, for callers that render it elsewhere
func (al *AppointmentList) Row(id int) fyne.CanvasObject {
	obj := al.list.CreateItem()
	al.updateRow(id, obj)
	return obj
}
