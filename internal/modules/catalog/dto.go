package catalog

type CreatePlaceRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
	IsAvailable *bool  `json:"is_available"`
}

type UpdatePlaceRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	IsAvailable *bool  `json:"is_available"`
}

type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

type CreateBookRequest struct {
	Title          string `json:"title" binding:"required"`
	Author         string `json:"author" binding:"required"`
	Genre          string `json:"genre" binding:"required"`
	PublishYear    int    `json:"publish_year" binding:"required"`
	Description    string `json:"description"`
	MeetingAddress string `json:"meeting_address" binding:"required"`
}

type UpdateBookRequest struct {
	Title          string `json:"title"`
	Author         string `json:"author"`
	Genre          string `json:"genre"`
	PublishYear    int    `json:"publish_year"`
	Description    string `json:"description"`
	MeetingAddress string `json:"meeting_address"`
}
