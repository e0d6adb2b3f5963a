package handler

import (
	"net/http"

	"fondapos/internal/apierror"
	"fondapos/internal/dto"
	"fondapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MesasHandler struct{ svc service.MesaService }

func NewMesasHandler(svc service.MesaService) *MesasHandler { return &MesasHandler{svc: svc} }

// CrearMesa godoc
// @Summary      Crear mesa
// @Tags         mesas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearMesaRequest true "Mesa"
// @Success      201  {object} dto.MesaResponse
// @Router       /v1/mesas [post]
func (h *MesasHandler) CrearMesa(c *gin.Context) {
	var req dto.CrearMesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	m, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMesaResponse(m))
}

// ListarMesas godoc
// @Summary      Listar mesas activas
// @Tags         mesas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.MesaResponse
// @Router       /v1/mesas [get]
func (h *MesasHandler) ListarMesas(c *gin.Context) {
	mesas, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar mesas"))
		return
	}
	data := make([]dto.MesaResponse, 0, len(mesas))
	for i := range mesas {
		data = append(data, toMesaResponse(&mesas[i]))
	}
	c.JSON(http.StatusOK, data)
}

// CambiarEstadoMesa godoc
// @Summary      Cambiar estado de una mesa manualmente
// @Tags         mesas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                       true "UUID de la mesa"
// @Param        body body dto.CambiarEstadoMesaRequest true "Estado"
// @Success      200  {object} dto.MesaResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/mesas/{id}/estado [put]
func (h *MesasHandler) CambiarEstadoMesa(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CambiarEstadoMesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	m, err := h.svc.CambiarEstado(c.Request.Context(), id, req.Estado)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMesaResponse(m))
}
