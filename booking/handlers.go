package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"campora/errs"
	"campora/globals"
	"campora/models"
	"campora/mq"
	"campora/utils"

	"github.com/julienschmidt/httprouter"
)

var engine = NewEngine(mongoStore{})

// POST /api/appointments
func BookAppointment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		ServiceID string `json:"service_id"`
		Timeslot  string `json:"timeslot"`
		User      string `json:"user"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.ServiceID == "" || body.Timeslot == "" || body.User == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields for appointment")
		return
	}

	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user")
		return
	}
	if body.User != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Unauthorized: User mismatch")
		return
	}

	appt, err := engine.Book(r.Context(), body.ServiceID, userID, body.Timeslot)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), bookErrMsg(err))
		return
	}

	mq.Emit(r.Context(), "appointment-booked", models.Index{
		EntityType: "service", EntityId: appt.ServiceID, ItemType: "appointment", ItemId: appt.AppointmentID,
	})
	BroadcastSlotUpdate(appt.ServiceID, "slot_taken", appt.Timeslot)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message":        "Appointment booked successfully",
		"appointment_id": appt.AppointmentID,
	})
}

func bookErrMsg(err error) string {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return "Service not found"
	case errors.Is(err, errs.ErrConflict):
		return "Appointment already booked for this timeslot"
	case errors.Is(err, errs.ErrUnavailable):
		return "Database connection timeout"
	default:
		return "Internal Server Error"
	}
}

// GET /api/appointments/:serviceid
func GetAppointmentsForService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	appts, err := engine.Appointments(r.Context(), ps.ByName("serviceid"))
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), "Failed to retrieve appointments")
		return
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	utils.RespondWithJSON(w, http.StatusOK, appts)
}

// GET /api/bookable_dates/:serviceid
func GetBookableDates(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	dates, err := engine.BookableDates(r.Context(), ps.ByName("serviceid"))
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), "Service not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"bookable_dates": dates})
}

// DELETE /api/services/:serviceid
func DeleteService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	serviceID := ps.ByName("serviceid")

	requester, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requester == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user")
		return
	}

	if err := engine.DeleteService(r.Context(), serviceID, requester); err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), deleteServiceErrMsg(err))
		return
	}

	mq.Emit(r.Context(), "service-deleted", models.Index{EntityType: "service", EntityId: serviceID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Service deleted successfully"})
}

func deleteServiceErrMsg(err error) string {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return "Service not found"
	case errors.Is(err, errs.ErrForbidden):
		return "Only the owner may delete this service"
	default:
		return "Internal Server Error"
	}
}

// DELETE /api/appointments/:appointmentid
func DeleteAppointment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	appointmentID := ps.ByName("appointmentid")

	requester, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requester == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user")
		return
	}

	appt, err := engine.DeleteAppointment(r.Context(), appointmentID, requester)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), deleteApptErrMsg(err))
		return
	}

	BroadcastSlotUpdate(appt.ServiceID, "slot_freed", appt.Timeslot)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Appointment deleted successfully"})
}

func deleteApptErrMsg(err error) string {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return "Appointment not found"
	case errors.Is(err, errs.ErrForbidden):
		return "Only the booking user may delete this appointment"
	default:
		return "Internal Server Error"
	}
}
