package products

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
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GET /api/products
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cur, err := db.ProductsCollection.Find(r.Context(), bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Database connection timeout")
		return
	}
	defer cur.Close(r.Context())

	var products []models.Product
	if err := cur.All(r.Context(), &products); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

// GET /api/products/:productid
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var product models.Product
	err := db.ProductsCollection.FindOne(r.Context(), bson.M{"productid": ps.ByName("productid")}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// POST /api/products
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user")
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if product.UserID == "" || product.Description == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields for product listing")
		return
	}
	if product.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Unauthorized: User mismatch")
		return
	}
	if product.Quantity < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Quantity must not be negative")
		return
	}

	product.ProductID = "p" + utils.GenerateName(12)
	product.CreatedAt = time.Now().Unix()

	if _, err := db.ProductsCollection.InsertOne(r.Context(), product); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	mq.Emit(r.Context(), "product-created", models.Index{EntityType: "product", EntityId: product.ProductID})
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message":    "Product created successfully",
		"product_id": product.ProductID,
	})
}

// GET /api/search/products?title=
func SearchProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	title := r.URL.Query().Get("title")
	if title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "title is required")
		return
	}

	filter := bson.M{"description": bson.M{"$regex": primitive.Regex{Pattern: title, Options: "i"}}}
	cur, err := db.ProductsCollection.Find(r.Context(), filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Database connection timeout")
		return
	}
	defer cur.Close(r.Context())

	var products []models.Product
	if err := cur.All(r.Context(), &products); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"products": products})
}
