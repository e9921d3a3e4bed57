package models

// Faculty represents one of the school houses.
type Faculty struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
