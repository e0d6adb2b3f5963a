package handler

import (
	"net/http"

	"fondapos/internal/apierror"
	"fondapos/internal/dto"
	"fondapos/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary      Iniciar sesión
// @Description  Valida credenciales y emite un token JWT de acceso.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Credenciales"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	token, usuario, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Credenciales invalidas"))
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		Usuario:     toUsuarioResponse(usuario),
	})
}

// CrearUsuario godoc
// @Summary      Crear usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearUsuarioRequest true "Usuario"
// @Success      201  {object} dto.UsuarioResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/usuarios [post]
func (h *AuthHandler) CrearUsuario(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	u, err := h.svc.CrearUsuario(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUsuarioResponse(u))
}

// ListarUsuarios godoc
// @Summary      Listar usuarios
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.UsuarioResponse
// @Router       /v1/usuarios [get]
func (h *AuthHandler) ListarUsuarios(c *gin.Context) {
	usuarios, err := h.svc.ListUsuarios(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar usuarios"))
		return
	}
	data := make([]dto.UsuarioResponse, 0, len(usuarios))
	for i := range usuarios {
		data = append(data, toUsuarioResponse(&usuarios[i]))
	}
	c.JSON(http.StatusOK, data)
}
