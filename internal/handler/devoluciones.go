package handler

import (
	"net/http"

	"fondapos/internal/apierror"
	"fondapos/internal/dto"
	"fondapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DevolucionesHandler struct{ svc service.DevolucionService }

func NewDevolucionesHandler(svc service.DevolucionService) *DevolucionesHandler {
	return &DevolucionesHandler{svc: svc}
}

// ProcesarDevolucion godoc
// @Summary      Procesar una devolución
// @Description  Revierte líneas de una venta completada: los productos simples vuelven al stock, los platos preparados se registran como pérdida operativa, y se genera la salida de caja. Idempotente por banderas de efecto.
// @Tags         devoluciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ProcesarDevolucionRequest true "Detalle de la devolución"
// @Success      201  {object} dto.DevolucionResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/devoluciones [post]
func (h *DevolucionesHandler) ProcesarDevolucion(c *gin.Context) {
	var req dto.ProcesarDevolucionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	dev, err := h.svc.Procesar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDevolucionResponse(dev))
}

// ObtenerDevolucion godoc
// @Summary      Obtener una devolución
// @Tags         devoluciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la devolución"
// @Success      200 {object} dto.DevolucionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/devoluciones/{id} [get]
func (h *DevolucionesHandler) ObtenerDevolucion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	dev, err := h.svc.ObtenerDevolucion(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDevolucionResponse(dev))
}

// ListarDevoluciones godoc
// @Summary      Listar devoluciones
// @Tags         devoluciones
// @Produce      json
// @Security     BearerAuth
// @Param        venta_id query string false "Filtrar por venta"
// @Param        estado   query string false "pendiente | completada | cancelada"
// @Param        page     query int    false "Página (default 1)"
// @Param        limit    query int    false "Registros por página (default 50)"
// @Success      200      {object} dto.DevolucionListResponse
// @Router       /v1/devoluciones [get]
func (h *DevolucionesHandler) ListarDevoluciones(c *gin.Context) {
	var filter dto.DevolucionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	devs, total, err := h.svc.ListDevoluciones(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar devoluciones"))
		return
	}
	data := make([]dto.DevolucionResponse, 0, len(devs))
	for i := range devs {
		data = append(data, toDevolucionResponse(&devs[i]))
	}
	c.JSON(http.StatusOK, dto.DevolucionListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit})
}
