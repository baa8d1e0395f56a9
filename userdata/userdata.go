package userdata

import (
	"context"
	"log"
	"net/http"

	"campora/db"
	"campora/globals"
	"campora/models"
	"campora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// RecordPurchase appends an immutable purchase record. Audit only: it never
// drives an allocation decision, so a failed insert is logged and swallowed
// rather than rolling back the purchase.
func RecordPurchase(ctx context.Context, purchase models.Purchase) {
	if _, err := db.PurchasesCollection.InsertOne(ctx, purchase); err != nil {
		log.Printf("Error recording purchase for %s: %v", purchase.ProductID, err)
	}
}

// GET /api/user/appointments_and_bookings
func GetAppointmentsAndBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user")
		return
	}

	purchases := []models.Purchase{}
	cur, err := db.PurchasesCollection.Find(r.Context(), bson.M{"userid": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Database connection timeout")
		return
	}
	if err := cur.All(r.Context(), &purchases); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode purchases")
		return
	}

	bookings := []models.Appointment{}
	cur, err = db.AppointmentsCollection.Find(r.Context(), bson.M{"userid": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Database connection timeout")
		return
	}
	if err := cur.All(r.Context(), &bookings); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode bookings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"user_purchases": purchases,
		"user_bookings":  bookings,
	})
}
