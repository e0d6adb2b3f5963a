package handler

import (
	"net/http"

	"fondapos/internal/apierror"
	"fondapos/internal/dto"
	"fondapos/internal/service"

	"github.com/gin-gonic/gin"
)

type FlujoCajaHandler struct{ svc service.FlujoCajaService }

func NewFlujoCajaHandler(svc service.FlujoCajaService) *FlujoCajaHandler {
	return &FlujoCajaHandler{svc: svc}
}

// ListarFlujos godoc
// @Summary      Listar movimientos de dinero
// @Tags         flujo-caja
// @Produce      json
// @Security     BearerAuth
// @Param        desde     query string false "Fecha YYYY-MM-DD"
// @Param        hasta     query string false "Fecha YYYY-MM-DD"
// @Param        direccion query string false "entrada | salida"
// @Param        categoria query string false "ventas | devoluciones | compras | gastos_operativos | otros"
// @Param        page      query int    false "Página (default 1)"
// @Param        limit     query int    false "Registros por página (default 50)"
// @Success      200       {object} dto.FlujoCajaListResponse
// @Router       /v1/flujo-caja [get]
func (h *FlujoCajaHandler) ListarFlujos(c *gin.Context) {
	var filter dto.FlujoCajaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	flujos, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar flujo de caja"))
		return
	}
	data := make([]dto.FlujoCajaResponse, 0, len(flujos))
	for i := range flujos {
		data = append(data, toFlujoCajaResponse(&flujos[i]))
	}
	c.JSON(http.StatusOK, dto.FlujoCajaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit})
}

// ResumenFlujos godoc
// @Summary      Resumen de entradas y salidas por rango de fechas
// @Tags         flujo-caja
// @Produce      json
// @Security     BearerAuth
// @Param        desde query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Param        hasta query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Success      200   {object} dto.ResumenFlujoResponse
// @Failure      400   {object} apierror.APIError
// @Router       /v1/flujo-caja/resumen [get]
func (h *FlujoCajaHandler) ResumenFlujos(c *gin.Context) {
	resumen, err := h.svc.Resumen(c.Request.Context(), c.Query("desde"), c.Query("hasta"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resumen)
}
