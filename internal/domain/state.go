package domain

// AppState is a point-in-time view of everything the store holds.
type AppState struct {
	Users           []User     `json:"users"`
	Patients        []Patient  `json:"patients"`
	Incidents       []Incident `json:"incidents"`
	CurrentUser     *User      `json:"currentUser"`
	IsAuthenticated bool       `json:"isAuthenticated"`
}
