// Package booking owns the exclusivity invariant for appointment timeslots: at
// most one live appointment per (service, timeslot) pair, and no appointment
// ever outlives its service. Exclusivity is enforced by the store's unique
// index on the pair, so booking is one indivisible insert-if-absent rather
// than a racy check-then-insert.
package booking

import (
	"context"
	"time"

	"campora/errs"
	"campora/models"
	"campora/utils"
)

// Store is the document-store surface the engine needs. InsertAppointment must
// return errs.ErrConflict when another live appointment already holds the same
// (serviceid, timeslot) pair.
type Store interface {
	GetService(ctx context.Context, serviceID string) (*models.Service, error)
	DeleteService(ctx context.Context, serviceID string) error
	GetAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error)
	InsertAppointment(ctx context.Context, appt *models.Appointment) error
	DeleteAppointment(ctx context.Context, appointmentID string) error
	AppointmentsByService(ctx context.Context, serviceID string) ([]models.Appointment, error)
	PurgeAppointments(ctx context.Context, serviceID string) error
}

type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Book claims the (serviceID, timeslot) pair for user. The service lookup is
// advisory (missing service is NotFound regardless of slot state); the claim
// itself is the single atomic insert.
func (e *Engine) Book(ctx context.Context, serviceID, user, timeslot string) (*models.Appointment, error) {
	service, err := e.store.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	// The requested slot must be one of the service's candidate timeslots.
	if !contains(service.AvailableDates, timeslot) {
		return nil, errs.ErrConflict
	}

	appt := &models.Appointment{
		AppointmentID: "a" + utils.GenerateName(14),
		ServiceID:     serviceID,
		UserID:        user,
		Timeslot:      timeslot,
		CreatedAt:     time.Now().Unix(),
	}
	if err := e.store.InsertAppointment(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// BookableDates returns the service's candidate timeslots minus the ones held
// by live appointments. Snapshot only; a slot can be taken between this read
// and a subsequent Book.
func (e *Engine) BookableDates(ctx context.Context, serviceID string) ([]string, error) {
	service, err := e.store.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	appts, err := e.store.AppointmentsByService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(appts))
	for _, a := range appts {
		taken[a.Timeslot] = true
	}

	dates := []string{}
	for _, d := range service.AvailableDates {
		if !taken[d] {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

// Appointments lists the live appointments of a service.
func (e *Engine) Appointments(ctx context.Context, serviceID string) ([]models.Appointment, error) {
	return e.store.AppointmentsByService(ctx, serviceID)
}

// DeleteService removes a service and every appointment that references it as
// one logical operation. The purge runs first: if the service delete fails the
// service simply survives with no appointments, but a deleted service can
// never be observed with live appointments.
func (e *Engine) DeleteService(ctx context.Context, serviceID, requester string) error {
	service, err := e.store.GetService(ctx, serviceID)
	if err != nil {
		return err
	}
	if service.UserID != requester {
		return errs.ErrForbidden
	}

	if err := e.store.PurgeAppointments(ctx, serviceID); err != nil {
		return err
	}
	return e.store.DeleteService(ctx, serviceID)
}

// DeleteAppointment frees a slot. Only the booking user may delete; a second
// delete of the same id reports NotFound. The freed appointment is returned so
// callers can announce the slot.
func (e *Engine) DeleteAppointment(ctx context.Context, appointmentID, requester string) (*models.Appointment, error) {
	appt, err := e.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.UserID != requester {
		return nil, errs.ErrForbidden
	}
	if err := e.store.DeleteAppointment(ctx, appointmentID); err != nil {
		return nil, err
	}
	return appt, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
