package usecase

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"petcare-booking/internal/data/entity"
	"petcare-booking/pkg/utils"

	"github.com/shopspring/decimal"
)

var (
	ErrPastDate       = errors.New("date is before today")
	ErrInvalidSlot    = errors.New("invalid time slot")
	ErrDraftSubmitted = errors.New("booking draft already submitted")
	ErrDraftBusy      = errors.New("booking draft is being submitted")
	ErrDraftNotFound  = errors.New("booking draft not found")
	ErrUnknownService = errors.New("service not found")
)

// FieldError names one failing field and the message shown for it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failing check in order. Error() reports only
// the first, which is what a form shows.
type ValidationError struct {
	Failures []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Failures) == 0 {
		return "validation failed"
	}
	return e.Failures[0].Message
}

func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Failures {
		if f.Field == field {
			return true
		}
	}
	return false
}

type DraftState string

const (
	DraftEmpty         DraftState = "empty"
	DraftEditing       DraftState = "editing"
	DraftInvalid       DraftState = "invalid"
	DraftReadyToSubmit DraftState = "ready_to_submit"
	DraftSubmitting    DraftState = "submitting"
	DraftSubmitted     DraftState = "submitted"
	DraftSubmitFailed  DraftState = "submit_failed"
)

// Field names used in FieldError.
const (
	FieldServices  = "services"
	FieldDate      = "date"
	FieldTime      = "time"
	FieldAddress   = "address"
	FieldTelephone = "telephone"
	FieldEmail     = "email"
	FieldPet       = "petId"
	FieldNotes     = "notes"
)

const (
	firstSlotHour = 8
	lastSlotHour  = 19
	slotLayout    = "15:04"
	dateLayout    = "2006-01-02"
)

var DefaultAddresses = []string{
	"123 Main Street, New York, NY 10001",
	"456 Park Avenue, New York, NY 10002",
	"789 Broadway, New York, NY 10003",
	"321 5th Avenue, New York, NY 10004",
	"654 Lexington Avenue, New York, NY 10005",
	"987 Madison Avenue, New York, NY 10006",
	"111 Central Park West, New York, NY 10023",
	"222 Columbus Avenue, New York, NY 10024",
	"333 Amsterdam Avenue, New York, NY 10025",
	"444 Riverside Drive, New York, NY 10027",
}

// TimeSlots returns the half-hour grid 08:00 through 19:30.
func TimeSlots() []string {
	slots := make([]string, 0, (lastSlotHour-firstSlotHour+1)*2)
	for h := firstSlotHour; h <= lastSlotHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return slots
}

func parseSlot(label string) (time.Duration, bool) {
	for _, s := range TimeSlots() {
		if s == label {
			t, err := time.Parse(slotLayout, label)
			if err != nil {
				return 0, false
			}
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
		}
	}
	return 0, false
}

// FilterAddresses returns the catalog entries containing query, ignoring
// case. An empty query returns the whole catalog.
func FilterAddresses(query string, catalog []string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]string, 0, len(catalog))
	for _, a := range catalog {
		if q == "" || strings.Contains(strings.ToLower(a), q) {
			out = append(out, a)
		}
	}
	return out
}

// DraftEngine creates drafts bound to a service catalog, address catalog,
// clock and time zone.
type DraftEngine struct {
	catalog   *entity.Catalog
	addresses []string
	now       func() time.Time
	loc       *time.Location
}

func NewDraftEngine(catalog *entity.Catalog, addresses []string, loc *time.Location, now func() time.Time) *DraftEngine {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &DraftEngine{catalog: catalog, addresses: addresses, now: now, loc: loc}
}

func (e *DraftEngine) Catalog() *entity.Catalog {
	return e.catalog
}

func (e *DraftEngine) Addresses(query string) []string {
	return FilterAddresses(query, e.addresses)
}

func (e *DraftEngine) Location() *time.Location {
	return e.loc
}

func (e *DraftEngine) Now() time.Time {
	return e.now().In(e.loc)
}

func (e *DraftEngine) today() time.Time {
	return dayOf(e.Now(), e.loc)
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ParseDate reads a 2006-01-02 calendar day in the engine's zone.
func (e *DraftEngine) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, e.loc)
}

// NewDraft starts an empty draft for owner with today's date and the current
// time of day, minute precision.
func (e *DraftEngine) NewDraft(ownerID string) *Draft {
	now := e.Now()
	return &Draft{
		ID:        utils.GenerateRecordID("draft"),
		OwnerID:   ownerID,
		engine:    e,
		date:      dayOf(now, e.loc),
		timeOfDay: time.Duration(now.Hour())*time.Hour + time.Duration(now.Minute())*time.Minute,
		state:     DraftEmpty,
		updatedAt: now,
	}
}

// Draft is one in-progress booking. It is safe for concurrent use.
type Draft struct {
	ID      string
	OwnerID string

	engine *DraftEngine

	mu        sync.Mutex
	selected  []entity.Service
	date      time.Time
	timeOfDay time.Duration
	address   string
	telephone string
	email     string
	petID     string
	petName   string
	notes     string
	state     DraftState
	updatedAt time.Time
}

// edit runs fn under the lock unless the draft is already submitted or in flight.
func (d *Draft) edit(fn func() error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case DraftSubmitted:
		return ErrDraftSubmitted
	case DraftSubmitting:
		return ErrDraftBusy
	}
	if err := fn(); err != nil {
		return err
	}
	d.state = DraftEditing
	d.updatedAt = d.engine.Now()
	return nil
}

// ToggleService adds svc or removes it when already selected.
func (d *Draft) ToggleService(svc entity.Service) error {
	return d.edit(func() error {
		for i, s := range d.selected {
			if s.ID == svc.ID {
				d.selected = append(d.selected[:i:i], d.selected[i+1:]...)
				return nil
			}
		}
		d.selected = append(d.selected, svc)
		return nil
	})
}

// SetDate keeps only the calendar day of date. Days before today are
// rejected and the draft keeps its previous date.
func (d *Draft) SetDate(date time.Time) error {
	day := dayOf(date, d.engine.loc)
	return d.edit(func() error {
		if day.Before(d.engine.today()) {
			return ErrPastDate
		}
		d.date = day
		return nil
	})
}

// SetTimeSlot accepts one of TimeSlots().
func (d *Draft) SetTimeSlot(label string) error {
	tod, ok := parseSlot(label)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, label)
	}
	return d.edit(func() error {
		d.timeOfDay = tod
		return nil
	})
}

func (d *Draft) SetAddress(address string) error {
	return d.edit(func() error {
		d.address = address
		return nil
	})
}

// SetTelephone stores the formatted number and reports its validity.
func (d *Draft) SetTelephone(raw string) (utils.PhoneCheck, error) {
	formatted := utils.FormatPhone(raw)
	err := d.edit(func() error {
		d.telephone = formatted
		return nil
	})
	if err != nil {
		return utils.PhoneCheck{}, err
	}
	return utils.ValidatePhone(formatted), nil
}

func (d *Draft) SetEmail(email string) error {
	return d.edit(func() error {
		d.email = email
		return nil
	})
}

// SetPet links the draft to a pet, keeping its name as shown at booking
// time. A nil pet clears the link. Ownership is checked by the caller.
func (d *Draft) SetPet(pet *entity.Pet) error {
	return d.edit(func() error {
		if pet == nil {
			d.petID, d.petName = "", ""
			return nil
		}
		d.petID, d.petName = pet.ID, pet.Name
		return nil
	})
}

func (d *Draft) SetNotes(notes string) error {
	return d.edit(func() error {
		d.notes = notes
		return nil
	})
}

// validateLocked runs every check in order without stopping at the first.
func (d *Draft) validateLocked() []FieldError {
	var failures []FieldError

	if len(d.selected) == 0 {
		failures = append(failures, FieldError{FieldServices, "Please select at least one service"})
	}
	if strings.TrimSpace(d.address) == "" {
		failures = append(failures, FieldError{FieldAddress, "Please enter an address"})
	}

	phone := strings.TrimSpace(d.telephone)
	switch {
	case phone == "":
		failures = append(failures, FieldError{FieldTelephone, "Please enter a telephone number"})
	case !utils.ValidatePhone(phone).Valid:
		failures = append(failures, FieldError{FieldTelephone, "Please enter a valid 10-digit phone number"})
	}

	email := strings.TrimSpace(d.email)
	if email == "" {
		failures = append(failures, FieldError{FieldEmail, "Please enter an email address"})
	}
	if !utils.ValidateEmail(email) {
		failures = append(failures, FieldError{FieldEmail, "Please enter a valid email address"})
	}

	return failures
}

// Validate reports every failing check and moves the draft to Invalid or
// ReadyToSubmit. A nil error means the draft can be submitted.
func (d *Draft) Validate() *ValidationError {
	d.mu.Lock()
	defer d.mu.Unlock()

	failures := d.validateLocked()
	if d.state != DraftSubmitted && d.state != DraftSubmitting {
		if len(failures) > 0 {
			d.state = DraftInvalid
		} else {
			d.state = DraftReadyToSubmit
		}
	}
	if len(failures) > 0 {
		return &ValidationError{Failures: failures}
	}
	return nil
}

func (d *Draft) State() DraftState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// DraftView is a consistent copy of a draft's fields.
type DraftView struct {
	ID        string
	OwnerID   string
	State     DraftState
	Services  []entity.Service
	Amount    decimal.Decimal
	Date      time.Time
	TimeOfDay time.Duration
	When      time.Time
	Address   string
	Telephone string
	Email     string
	PetID     string
	PetName   string
	Notes     string
	UpdatedAt time.Time
}

func (d *Draft) View() DraftView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewLocked()
}

func (d *Draft) viewLocked() DraftView {
	services := make([]entity.Service, len(d.selected))
	copy(services, d.selected)

	amount := decimal.Zero
	for _, s := range services {
		amount = amount.Add(s.Price)
	}

	return DraftView{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		State:     d.state,
		Services:  services,
		Amount:    amount,
		Date:      d.date,
		TimeOfDay: d.timeOfDay,
		When:      combine(d.date, d.timeOfDay, d.engine.loc),
		Address:   d.address,
		Telephone: d.telephone,
		Email:     d.email,
		PetID:     d.petID,
		PetName:   d.petName,
		Notes:     d.notes,
		UpdatedAt: d.updatedAt,
	}
}

// beginSubmit validates and moves the draft to Submitting, returning the
// fields to persist. Drafts that fail validation become Invalid.
func (d *Draft) beginSubmit() (DraftView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case DraftSubmitted:
		return DraftView{}, ErrDraftSubmitted
	case DraftSubmitting:
		return DraftView{}, ErrDraftBusy
	}

	if failures := d.validateLocked(); len(failures) > 0 {
		d.state = DraftInvalid
		return DraftView{}, &ValidationError{Failures: failures}
	}

	d.state = DraftSubmitting
	return d.viewLocked(), nil
}

// finishSubmit records the outcome. Field values are never touched.
func (d *Draft) finishSubmit(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.state = DraftSubmitFailed
		return
	}
	d.state = DraftSubmitted
}

func (d *Draft) idleSince() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updatedAt
}

// combine merges a calendar day and a time of day into one instant.
func combine(day time.Time, tod time.Duration, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		int(tod/time.Hour), int((tod%time.Hour)/time.Minute), 0, 0, loc)
}

// FormatSlot renders a time of day as an HH:MM label.
func FormatSlot(tod time.Duration) string {
	h := int(tod / time.Hour)
	m := int((tod % time.Hour) / time.Minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// buildBooking turns a validated draft view into a pending booking record.
func buildBooking(v DraftView, id string, createdAt time.Time) *entity.Booking {
	snapshots := make([]entity.ServiceSnapshot, 0, len(v.Services))
	names := make([]string, 0, len(v.Services))
	ids := make([]int, 0, len(v.Services))
	for _, s := range v.Services {
		snapshots = append(snapshots, s.Snapshot())
		names = append(names, s.Name)
		ids = append(ids, s.ID)
	}

	return &entity.Booking{
		Base: entity.Base{
			ID:        id,
			CreatedAt: createdAt,
		},
		OwnerID:       v.OwnerID,
		PetID:         v.PetID,
		PetName:       v.PetName,
		Services:      snapshots,
		ServiceNames:  strings.Join(names, ", "),
		ServiceIDs:    ids,
		Amount:        v.Amount,
		Date:          v.When,
		DateFormatted: v.When.Format(entity.DateFormattedLayout),
		Address:       strings.TrimSpace(v.Address),
		Telephone:     strings.TrimSpace(v.Telephone),
		Email:         strings.TrimSpace(v.Email),
		Notes:         strings.TrimSpace(v.Notes),
		Status:        entity.BookingStatusPending,
	}
}
