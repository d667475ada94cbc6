package availability

import "time"

// Cell is one rendered day in the calendar grid. The two flags are
// independent: a leading pad cell can be available, and an in-month cell
// can be closed. A cell is clickable only when Selectable returns true.
type Cell struct {
	Date           time.Time
	IsCurrentMonth bool
	IsAvailable    bool
}

// Selectable reports whether the cell responds to selection.
func (c Cell) Selectable() bool {
	return c.IsCurrentMonth && c.IsAvailable
}

// View is the month-paging calendar state bound to a service schedule.
// Month navigation never moves the selected date; assigning a selected
// date from outside snaps the displayed month to contain it, never the
// reverse.
type View struct {
	current  time.Time // first day of the displayed month
	selected *time.Time
	schedule Schedule
	now      func() time.Time
}

// NewView creates a view showing the current month.
func NewView(sched Schedule) *View {
	return NewViewWithClock(sched, time.Now)
}

// NewViewWithClock allows injecting the clock for tests.
func NewViewWithClock(sched Schedule, clock func() time.Time) *View {
	now := clock()
	return &View{
		current:  firstOfMonth(now),
		schedule: sched,
		now:      clock,
	}
}

// NewViewAt creates a view showing the month containing t. The HTTP
// calendar endpoint uses it to render an arbitrary requested month.
func NewViewAt(t time.Time, sched Schedule, clock func() time.Time) *View {
	if clock == nil {
		clock = time.Now
	}
	return &View{
		current:  firstOfMonth(t),
		schedule: sched,
		now:      clock,
	}
}

// CurrentMonth returns the first day of the displayed month.
func (v *View) CurrentMonth() time.Time {
	return v.current
}

// Selected returns the selected date, if any.
func (v *View) Selected() (time.Time, bool) {
	if v.selected == nil {
		return time.Time{}, false
	}
	return *v.selected, true
}

// PrevMonth shifts the displayed month back by one.
func (v *View) PrevMonth() {
	v.current = v.current.AddDate(0, -1, 0)
}

// NextMonth shifts the displayed month forward by one.
func (v *View) NextMonth() {
	v.current = v.current.AddDate(0, 1, 0)
}

// Select records date as selected if it is available under the bound
// schedule. Unavailable dates are ignored without error; the UI treats
// them as non-interactive.
func (v *View) Select(date time.Time) {
	if !IsAvailableAt(date, v.schedule, v.now()) {
		return
	}
	d := date
	v.selected = &d
}

// SetSelected assigns the selected date from outside (e.g. a parent
// component) and snaps the displayed month to contain it.
func (v *View) SetSelected(date time.Time) {
	d := date
	v.selected = &d
	v.current = firstOfMonth(date)
}

// Grid returns the rendered cells for the displayed month: leading pad
// cells so the first column is Monday (a Sunday-start month pads six),
// then every day of the month. There is no trailing pad.
func (v *View) Grid() []Cell {
	first := v.current
	last := first.AddDate(0, 1, -1)
	now := v.now()

	pad := int(first.Weekday()) - 1
	if first.Weekday() == time.Sunday {
		pad = 6
	}

	cells := make([]Cell, 0, pad+last.Day())
	for i := pad; i > 0; i-- {
		d := first.AddDate(0, 0, -i)
		cells = append(cells, Cell{
			Date:           d,
			IsCurrentMonth: false,
			IsAvailable:    IsAvailableAt(d, v.schedule, now),
		})
	}
	for day := 1; day <= last.Day(); day++ {
		d := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, first.Location())
		cells = append(cells, Cell{
			Date:           d,
			IsCurrentMonth: true,
			IsAvailable:    IsAvailableAt(d, v.schedule, now),
		})
	}
	return cells
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
