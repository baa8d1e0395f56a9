package services

import (
	"encoding/json"
	"net/http"
	"time"

	"campora/db"
	"campora/globals"
	"campora/models"
	"campora/mq"
	"campora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// GET /api/services
func GetServices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cur, err := db.ServicesCollection.Find(r.Context(), bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Database connection timeout")
		return
	}
	defer cur.Close(r.Context())

	var list []models.Service
	if err := cur.All(r.Context(), &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode services")
		return
	}
	if list == nil {
		list = []models.Service{}
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GET /api/services/:serviceid
func GetService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var service models.Service
	err := db.ServicesCollection.FindOne(r.Context(), bson.M{"serviceid": ps.ByName("serviceid")}).Decode(&service)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Service not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, service)
}

// POST /api/services
func CreateService(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user")
		return
	}

	var service models.Service
	if err := json.NewDecoder(r.Body).Decode(&service); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if service.UserID == "" || service.Description == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields for service")
		return
	}
	if service.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Unauthorized: User mismatch")
		return
	}

	service.ServiceID = "s" + utils.GenerateName(12)
	service.CreatedAt = time.Now().Unix()

	if _, err := db.ServicesCollection.InsertOne(r.Context(), service); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create service")
		return
	}

	mq.Emit(r.Context(), "service-created", models.Index{EntityType: "service", EntityId: service.ServiceID})
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message":    "Service created successfully",
		"service_id": service.ServiceID,
	})
}
