package models

import "time"

type User struct {
	UserID    string    `json:"userid" bson:"userid"`
	Username  string    `json:"username" bson:"username"`
	Password  string    `json:"password,omitempty" bson:"password"`
	Role      []string  `json:"role,omitempty" bson:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	LastLogin time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
}

// Product is the countable resource: quantity is only ever mutated by the
// inventory allocator's conditional decrement.
type Product struct {
	ProductID   string  `json:"product_id" bson:"productid"`
	UserID      string  `json:"user" bson:"userid"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	CreatedAt   int64   `json:"createdAt" bson:"createdAt"`
}

type Service struct {
	ServiceID      string   `json:"service_id" bson:"serviceid"`
	UserID         string   `json:"user" bson:"userid"`
	Description    string   `json:"description" bson:"description"`
	Price          float64  `json:"price" bson:"price"`
	AvailableDates []string `json:"available_dates" bson:"availabledates"`
	CreatedAt      int64    `json:"createdAt" bson:"createdAt"`
}

// Appointment claims one (serviceid, timeslot) pair; the pair is unique across
// live appointments (enforced by a unique index, see db.EnsureIndexes).
type Appointment struct {
	AppointmentID string `json:"appointment_id" bson:"appointmentid"`
	ServiceID     string `json:"service_id" bson:"serviceid"`
	UserID        string `json:"user" bson:"userid"`
	Timeslot      string `json:"timeslot" bson:"timeslot"`
	CreatedAt     int64  `json:"createdAt" bson:"createdAt"`
}

// Purchase is an append-only audit record. Never mutated, never read to make
// allocation decisions.
type Purchase struct {
	PurchaseID  string    `json:"purchase_id" bson:"purchaseid"`
	ProductID   string    `json:"product_id" bson:"productid"`
	UserID      string    `json:"user" bson:"userid"`
	UniqueCode  string    `json:"uniquecode" bson:"uniquecode"`
	PurchasedAt time.Time `json:"purchasedAt" bson:"purchasedAt"`
}

// Index is the payload published to the event channel after a write.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}
