package booking

import (
	"context"

	"campora/db"
	"campora/errs"
	"campora/models"

	"go.mongodb.org/mongo-driver/bson"
)

// mongoStore backs the engine with the services and appointments collections.
// The unique (serviceid, timeslot) index created in db.EnsureIndexes makes
// InsertAppointment the atomic insert-if-absent the engine relies on.
type mongoStore struct{}

func (mongoStore) GetService(ctx context.Context, serviceID string) (*models.Service, error) {
	var service models.Service
	err := db.ServicesCollection.FindOne(ctx, bson.M{"serviceid": serviceID}).Decode(&service)
	if err != nil {
		return nil, errs.FromMongo(err)
	}
	return &service, nil
}

func (mongoStore) DeleteService(ctx context.Context, serviceID string) error {
	res, err := db.ServicesCollection.DeleteOne(ctx, bson.M{"serviceid": serviceID})
	if err != nil {
		return errs.FromMongo(err)
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (mongoStore) GetAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	var appt models.Appointment
	err := db.AppointmentsCollection.FindOne(ctx, bson.M{"appointmentid": appointmentID}).Decode(&appt)
	if err != nil {
		return nil, errs.FromMongo(err)
	}
	return &appt, nil
}

func (mongoStore) InsertAppointment(ctx context.Context, appt *models.Appointment) error {
	// Duplicate key on (serviceid, timeslot) surfaces as ErrConflict.
	if _, err := db.AppointmentsCollection.InsertOne(ctx, appt); err != nil {
		return errs.FromMongo(err)
	}
	return nil
}

func (mongoStore) DeleteAppointment(ctx context.Context, appointmentID string) error {
	res, err := db.AppointmentsCollection.DeleteOne(ctx, bson.M{"appointmentid": appointmentID})
	if err != nil {
		return errs.FromMongo(err)
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (mongoStore) AppointmentsByService(ctx context.Context, serviceID string) ([]models.Appointment, error) {
	cur, err := db.AppointmentsCollection.Find(ctx, bson.M{"serviceid": serviceID})
	if err != nil {
		return nil, errs.FromMongo(err)
	}
	defer cur.Close(ctx)

	var appts []models.Appointment
	if err := cur.All(ctx, &appts); err != nil {
		return nil, errs.FromMongo(err)
	}
	return appts, nil
}

func (mongoStore) PurgeAppointments(ctx context.Context, serviceID string) error {
	if _, err := db.AppointmentsCollection.DeleteMany(ctx, bson.M{"serviceid": serviceID}); err != nil {
		return errs.FromMongo(err)
	}
	return nil
}
