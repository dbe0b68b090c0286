package dto

type RoleRequest struct {
	ID   string
	Name string `json:"name" validate:"required,max=255"`
}
