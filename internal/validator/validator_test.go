package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/cx-tal-miterani/flight-booking-ledger/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBook(t *testing.T) {
	v := NewBookingValidator()

	tests := []struct {
		name   string
		req    models.BookFlightRequest
		fields []string
	}{
		{"valid", models.BookFlightRequest{PassengerName: "Ali", FlightID: "PK202"}, nil},
		{"blank name", models.BookFlightRequest{PassengerName: "   ", FlightID: "PK202"}, []string{"passengerName"}},
		{"missing both", models.BookFlightRequest{}, []string{"passengerName", "flightId"}},
		{"long flight id", models.BookFlightRequest{PassengerName: "Ali", FlightID: strings.Repeat("X", 17)}, []string{"flightId"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			err := v.ValidateBook(&req)
			if tt.fields == nil {
				require.NoError(t, err)
				return
			}

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			var fields []string
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestValidateBook_TrimsInput(t *testing.T) {
	req := models.BookFlightRequest{PassengerName: "  Ali \n", FlightID: " PK101 "}
	require.NoError(t, NewBookingValidator().ValidateBook(&req))
	assert.Equal(t, "Ali", req.PassengerName)
	assert.Equal(t, "PK101", req.FlightID)
}

func TestValidateCancel(t *testing.T) {
	req := models.CancelBookingRequest{}
	err := NewBookingValidator().ValidateCancel(&req)
	require.Error(t, err)
	assert.Equal(t, "validation failed: passengerName: passengerName is required", err.Error())
}
