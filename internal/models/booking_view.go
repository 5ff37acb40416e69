package models

// LocationInfo is the fixed-shape location block of the composite view.
// Fields fall back to literal defaults rather than being omitted.
type LocationInfo struct {
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	PinTitle    string  `json:"pinTitle"`
	MapImageURL string  `json:"mapImageUrl"`
}

// BookingView is the denormalized object API clients consume. It merges the
// booking with its resolved target, the location overlay, the derived price
// and the requester identity. Recomputed on every read, never persisted.
type BookingView struct {
	Booking

	ServiceTitle       string  `json:"service_title"`
	ServiceDescription string  `json:"service_description,omitempty"`
	CategoryName       string  `json:"category_name,omitempty"`
	Price              float64 `json:"price"`
	AverageRating      float64 `json:"average_rating,omitempty"`
	TotalRatings       int     `json:"total_ratings,omitempty"`
	ImageURL           string  `json:"image_url,omitempty"`

	Location LocationInfo `json:"location"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`

	// Detail view only; resolved from the booking's own type ids.
	EventTypeName       string `json:"event_type,omitempty"`
	PhotographyTypeName string `json:"photography_type,omitempty"`
}

// BookingPage is the shape shared by the admin and user listings.
type BookingPage struct {
	Bookings []*BookingView `json:"bookings"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	Limit    int            `json:"limit"`
}
