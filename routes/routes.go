package routes

import (
	"campora/auth"
	"campora/booking"
	"campora/inventory"
	"campora/middleware"
	"campora/products"
	"campora/ratelim"
	"campora/services"
	"campora/userdata"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/login", ratelim.RateLimit(auth.Login))
	router.GET("/api/check_username", ratelim.RateLimit(auth.CheckUsername))
}

func AddProductRoutes(router *httprouter.Router) {
	router.GET("/api/products", products.GetProducts)
	router.POST("/api/products", ratelim.RateLimit(middleware.Authenticate(products.CreateProduct)))
	router.GET("/api/products/:productid", products.GetProduct)
	router.DELETE("/api/products/:productid", middleware.Authenticate(inventory.DeleteProduct))
	router.GET("/api/products/:productid/is_sold_out", inventory.IsProductSoldOut)
	router.GET("/api/search/products", ratelim.RateLimit(products.SearchProducts))

	router.POST("/api/purchase_product/:productid", ratelim.RateLimit(middleware.Authenticate(inventory.PurchaseProduct)))
}

func AddServiceRoutes(router *httprouter.Router) {
	router.GET("/api/services", services.GetServices)
	router.POST("/api/services", ratelim.RateLimit(middleware.Authenticate(services.CreateService)))
	router.GET("/api/services/:serviceid", services.GetService)
	router.DELETE("/api/services/:serviceid", middleware.Authenticate(booking.DeleteService))
}

func AddBookingRoutes(router *httprouter.Router) {
	router.POST("/api/appointments", ratelim.RateLimit(middleware.Authenticate(booking.BookAppointment)))
	router.GET("/api/appointments/:serviceid", booking.GetAppointmentsForService)
	router.DELETE("/api/appointments/:appointmentid", middleware.Authenticate(booking.DeleteAppointment))
	router.GET("/api/bookable_dates/:serviceid", booking.GetBookableDates)
	router.GET("/api/appointment/:appointmentid/ticket", booking.PrintAppointmentTicket)

	router.GET("/ws/services/:serviceid", booking.HandleServiceWS)
}

func AddUserDataRoutes(router *httprouter.Router) {
	router.GET("/api/user/appointments_and_bookings", middleware.Authenticate(userdata.GetAppointmentsAndBookings))
}
