package handler

import (
	"net/http"
	"strconv"

	"fondapos/internal/apierror"
	"fondapos/internal/dto"
	"fondapos/internal/middleware"
	"fondapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// AbrirCaja godoc
// @Summary      Abrir sesión de caja
// @Description  Abre la sesión del usuario autenticado. Falla si ya tiene una abierta.
// @Tags         caja
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AbrirCajaRequest true "Monto de apertura"
// @Success      201  {object} dto.SesionCajaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/caja/abrir [post]
func (h *CajaHandler) AbrirCaja(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	sesion, err := h.svc.Abrir(c.Request.Context(), usuarioID, req.MontoApertura)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSesionCajaResponse(sesion))
}

// CerrarCaja godoc
// @Summary      Cerrar sesión de caja
// @Description  Cierra la sesión calculando monto esperado (apertura + ventas en efectivo) y diferencia contra el conteo físico.
// @Tags         caja
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CerrarCajaRequest true "Sesión y monto contado"
// @Success      200  {object} dto.SesionCajaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/caja/cerrar [post]
func (h *CajaHandler) CerrarCaja(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("sesion_caja_id invalido"))
		return
	}

	sesion, err := h.svc.Cerrar(c.Request.Context(), usuarioID, sesionID, req.MontoCierre)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSesionCajaResponse(sesion))
}

// SesionActiva godoc
// @Summary      Sesión de caja activa del usuario
// @Tags         caja
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SesionCajaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/caja/activa [get]
func (h *CajaHandler) SesionActiva(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	sesion, err := h.svc.GetActiva(c.Request.Context(), usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSesionCajaResponse(sesion))
}

// Historial godoc
// @Summary      Historial de sesiones cerradas
// @Tags         caja
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Página (default 1)"
// @Param        limit query int false "Registros por página (default 50)"
// @Success      200 {array} dto.SesionCajaResponse
// @Router       /v1/caja/historial [get]
func (h *CajaHandler) Historial(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	sesiones, total, err := h.svc.Historial(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar sesiones"))
		return
	}
	data := make([]dto.SesionCajaResponse, 0, len(sesiones))
	for i := range sesiones {
		data = append(data, toSesionCajaResponse(&sesiones[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total, "page": page, "limit": limit})
}
