package booking

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"campora/errs"
	"campora/middleware"
	"campora/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

func hmacSecret() []byte {
	if s := os.Getenv("TICKET_HMAC_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("campora-ticket-secret")
}

// qrPayload returns serviceID|appointmentID|timeslot|timestamp|signature.
func qrPayload(serviceID, appointmentID, timeslot string) string {
	data := fmt.Sprintf("%s|%s|%s|%d", serviceID, appointmentID, timeslot, time.Now().Unix())

	h := hmac.New(sha256.New, hmacSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// GET /api/appointment/:appointmentid/ticket
// Streams a PDF confirmation with a signed QR payload for door verification.
func PrintAppointmentTicket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	appointmentID := ps.ByName("appointmentid")

	tokenString := r.Header.Get("Authorization")
	claims, err := middleware.ValidateJWT(tokenString)
	if err != nil {
		log.Printf("JWT validation error: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	appt, err := engine.store.GetAppointment(r.Context(), appointmentID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Appointment not found")
			return
		}
		utils.RespondWithError(w, errs.HTTPStatus(err), "Failed to load appointment")
		return
	}
	if appt.UserID != claims.UserID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your appointment")
		return
	}

	qrPNG, err := qrcode.Encode(qrPayload(appt.ServiceID, appt.AppointmentID, appt.Timeslot), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Appointment Confirmation")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Service ID: %s", appt.ServiceID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Name: %s", claims.Username))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Timeslot: %s", appt.Timeslot))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=appointment-"+appt.AppointmentID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
