package entity

import "time"

// Reservation is a booked wash slot
type Reservation struct {
	ID            int64     `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	PlateNumber   string    `json:"plate_number,omitempty"`
	ServiceID     int64     `json:"service_id"`
	Date          string    `json:"date"`
	SlotStart     string    `json:"slot_start"`
	Status        string    `json:"status"`
	CreatedBy     int64     `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// Slot is a bookable time window on a date
type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}
