package components

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careassist/care-reminder/pkg/models"
)

func TestAppointmentListCancel(t *testing.T) {
	test.NewTempApp(t)

	var cancelled []models.AppointmentID
	al, obj := NewAppointmentList(func(a models.Appointment) {
		cancelled = append(cancelled, a.ID)
	})
	require.NotNil(t, obj)
	assert.Equal(t, 0, al.Len())

	al.SetItems([]models.Appointment{
		{ID: "1", Title: "GP", AppointmentTime: "bad", Recurring: models.RecurrenceNone},
		{ID: "2", Title: "Dentist", AppointmentTime: "also bad", Recurring: models.RecurrenceWeekly},
	})
	assert.Equal(t, 2, al.Len())

	row := al.Row(1).(*fyne.Container)
	var button *widget.Button
	var label *widget.Label
	for _, child := range row.Objects {
		switch w := child.(type) {
		case *widget.Button:
			button = w
		case *widget.Label:
			label = w
		}
	}
	require.NotNil(t, button)
	require.NotNil(t, label)
	assert.Equal(t, "Dentist  also bad (weekly)", label.Text)

	test.Tap(button)
	assert.Equal(t, []models.AppointmentID{"2"}, cancelled)

	_, ok := al.At(5)
	assert.False(t, ok)
}

func TestRowTextDefaultsRecurrence(t *testing.T) {
	assert.Equal(t, "GP  soon (none)", RowText(models.Appointment{Title: "GP", AppointmentTime: "soon"}))
}

func TestGestureButton(t *testing.T) {
	test.NewTempApp(t)

	var order []string
	b := NewGestureButton("Send", func() { order = append(order, "gesture") }, func() { order = append(order, "tap") })
	test.Tap(b)

	assert.Equal(t, []string{"gesture", "tap"}, order)
	assert.Equal(t, "Send", b.Text)
}

func TestAccessibleTheme(t *testing.T) {
	base := theme.DefaultTheme()

	plain := NewAccessibleTheme(false, false)
	assert.Equal(t, base.Size(theme.SizeNameText), plain.Size(theme.SizeNameText))
	assert.Equal(t, base.Color(theme.ColorNameBackground, theme.VariantLight),
		plain.Color(theme.ColorNameBackground, theme.VariantLight))

	large := NewAccessibleTheme(true, false)
	assert.InDelta(t, base.Size(theme.SizeNameText)*LargeTextScale, large.Size(theme.SizeNameText), 0.001)
	assert.Equal(t, base.Size(theme.SizeNamePadding), large.Size(theme.SizeNamePadding))

	contrast := NewAccessibleTheme(false, true)
	assert.Equal(t, contrastBackground, contrast.Color(theme.ColorNameBackground, theme.VariantLight))
	assert.Equal(t, contrastAccent, contrast.Color(theme.ColorNamePrimary, theme.VariantLight))
}
