package models

// Department groups role templates and the persons expanded from them.
// Departments are created at import time; the user may rename or recolor
// them, but they are never deleted within a session.
type Department struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
	OrderIndex  int    `json:"orderIndex"`
}
