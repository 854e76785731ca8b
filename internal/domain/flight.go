package domain

type Carrier struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Flight is a scheduled flight from the catalog. Only flights that have
// operated (an actual flight time was recorded) are searchable or bookable.
type Flight struct {
	ID              int64   `json:"id"`
	Carrier         Carrier `json:"carrier"`
	FlightNumber    string  `json:"flight_number"`
	OriginCity      string  `json:"origin_city"`
	DestCity        string  `json:"dest_city"`
	Date            Date    `json:"date"`
	DurationMinutes int     `json:"duration_minutes"`
	Operated        bool    `json:"operated"`
}

type User struct {
	ID     int64  `json:"id"`
	Handle string `json:"handle"`
	Name   string `json:"name"`
}
