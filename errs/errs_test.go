package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrForbidden, http.StatusForbidden},
		{ErrConflict, http.StatusConflict},
		{ErrUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("wrapped: %w", ErrConflict), http.StatusConflict},
		{errors.New("something else"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestFromMongo(t *testing.T) {
	if err := FromMongo(nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := FromMongo(mongo.ErrNoDocuments); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	err := FromMongo(errors.New("connection reset"))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable wrapping, got %v", err)
	}
}
