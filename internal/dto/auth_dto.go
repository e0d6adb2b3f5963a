package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	Usuario     UsuarioResponse `json:"usuario"`
}

type CrearUsuarioRequest struct {
	Username string `json:"username" validate:"required,min=4"`
	Nombre   string `json:"nombre"   validate:"required,min=2"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6"`
	Rol      string `json:"rol"      validate:"required,oneof=cajero supervisor administrador"`
}

type UsuarioResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email,omitempty"`
	Rol      string `json:"rol"`
	Activo   bool   `json:"activo"`
}
