package inventory

import (
	"errors"
	"net/http"
	"time"

	"campora/errs"
	"campora/globals"
	"campora/models"
	"campora/mq"
	"campora/userdata"
	"campora/utils"

	"github.com/julienschmidt/httprouter"
)

var allocator = NewAllocator(mongoStore{})

// POST /api/purchase_product/:productid
func PurchaseProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	buyer, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || buyer == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user")
		return
	}

	product, err := allocator.AttemptPurchase(r.Context(), productID, buyer)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), purchaseErrMsg(err))
		return
	}

	userdata.RecordPurchase(r.Context(), models.Purchase{
		PurchaseID:  "pu" + utils.GenerateName(12),
		ProductID:   productID,
		UserID:      buyer,
		UniqueCode:  utils.GetUUID(),
		PurchasedAt: time.Now(),
	})
	mq.Emit(r.Context(), "product-purchased", models.Index{
		EntityType: "product", EntityId: productID, ItemType: "purchase", ItemId: buyer,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message":    "Product purchased successfully",
		"product_id": productID,
		"quantity":   product.Quantity,
	})
}

func purchaseErrMsg(err error) string {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return "Product not found"
	case errors.Is(err, errs.ErrForbidden):
		return "Cannot purchase your own product"
	case errors.Is(err, errs.ErrConflict):
		return "Product is sold out"
	case errors.Is(err, errs.ErrUnavailable):
		return "Database connection timeout"
	default:
		return "Internal Server Error"
	}
}

// GET /api/products/:productid/is_sold_out
func IsProductSoldOut(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	soldOut, err := allocator.IsSoldOut(r.Context(), ps.ByName("productid"))
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), "Product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"is_sold_out": soldOut})
}

// DELETE /api/products/:productid
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	requester, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requester == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user")
		return
	}

	if err := allocator.DeleteProduct(r.Context(), productID, requester); err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), deleteErrMsg(err))
		return
	}

	mq.Emit(r.Context(), "product-deleted", models.Index{EntityType: "product", EntityId: productID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Product deleted successfully"})
}

func deleteErrMsg(err error) string {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return "Not found"
	case errors.Is(err, errs.ErrForbidden):
		return "Only the owner may delete this"
	default:
		return "Internal Server Error"
	}
}
