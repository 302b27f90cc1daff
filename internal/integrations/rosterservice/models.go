package rosterservice

// Member участник ростера в ответе сервиса
type Member struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// RosterResponse ответ GET /internal/roster
type RosterResponse struct {
	Users []Member `json:"users"`
}
