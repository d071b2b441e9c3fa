package model

// CarEntity is a car as delivered by the provider catalog
type CarEntity struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
