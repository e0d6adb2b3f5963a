package handler

import (
	"net/http"

	"fondapos/internal/apierror"
	"fondapos/internal/dto"
	"fondapos/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// ListarMovimientos godoc
// @Summary      Listar el libro de movimientos de inventario
// @Description  Entradas inmutables del libro, con filtros por producto, motivo y dirección.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        producto_id query string false "Filtrar por producto"
// @Param        motivo      query string false "venta_automatica | devolucion_producto_simple | perdida_operativa | ajuste_manual"
// @Param        direccion   query string false "entrada | salida | ajuste"
// @Param        page        query int    false "Página (default 1)"
// @Param        limit       query int    false "Registros por página (default 100)"
// @Success      200         {object} dto.MovimientoListResponse
// @Router       /v1/inventario/movimientos [get]
func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	movs, total, err := h.svc.ListMovimientos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	data := make([]dto.MovimientoResponse, 0, len(movs))
	for i := range movs {
		data = append(data, toMovimientoResponse(&movs[i]))
	}
	c.JSON(http.StatusOK, dto.MovimientoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit})
}
