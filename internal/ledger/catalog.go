package ledger

import "github.com/cx-tal-miterani/flight-booking-ledger/shared/models"

// SeedCatalog returns the fixed catalog every ledger starts with.
func SeedCatalog() []models.Flight {
	return []models.Flight{
		{ID: "PK101", Destination: "Karachi", AvailableSeats: 10, Status: models.FlightStatusOnTime},
		{ID: "PK202", Destination: "Lahore", AvailableSeats: 5, Status: models.FlightStatusOnTime},
		{ID: "PK303", Destination: "Islamabad", AvailableSeats: 8, Status: models.FlightStatusOnTime},
	}
}
