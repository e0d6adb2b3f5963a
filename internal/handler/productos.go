package handler

import (
	"net/http"

	"fondapos/internal/apierror"
	"fondapos/internal/dto"
	"fondapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductosHandler struct {
	svc        service.ProductoService
	inventario service.InventarioService
}

func NewProductosHandler(svc service.ProductoService, inventario service.InventarioService) *ProductosHandler {
	return &ProductosHandler{svc: svc, inventario: inventario}
}

// CrearProducto godoc
// @Summary      Crear producto de inventario
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProductoRequest true "Producto"
// @Success      201  {object} dto.ProductoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/productos [post]
func (h *ProductosHandler) CrearProducto(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductoResponse(p))
}

// ObtenerProducto godoc
// @Summary      Obtener producto
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      200 {object} dto.ProductoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/productos/{id} [get]
func (h *ProductosHandler) ObtenerProducto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	p, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductoResponse(p))
}

// ListarProductos godoc
// @Summary      Listar productos
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        nombre query string false "Búsqueda parcial por nombre"
// @Param        codigo query string false "Código exacto"
// @Param        activo query string false "false | all (default: solo activos)"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 50)"
// @Success      200    {object} dto.ProductoListResponse
// @Router       /v1/productos [get]
func (h *ProductosHandler) ListarProductos(c *gin.Context) {
	var filter dto.ProductoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	productos, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar productos"))
		return
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, toProductoResponse(&productos[i]))
	}
	c.JSON(http.StatusOK, dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit})
}

// ActualizarProducto godoc
// @Summary      Actualizar producto
// @Description  Actualiza datos del catálogo. El stock no se toca por acá: use el ajuste de inventario.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                        true "UUID del producto"
// @Param        body body dto.ActualizarProductoRequest true "Producto"
// @Success      200  {object} dto.ProductoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/productos/{id} [put]
func (h *ProductosHandler) ActualizarProducto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductoResponse(p))
}

// EliminarProducto godoc
// @Summary      Eliminar producto (baja lógica)
// @Tags         productos
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/productos/{id} [delete]
func (h *ProductosHandler) EliminarProducto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AjustarStock godoc
// @Summary      Ajuste manual de stock
// @Description  Aplica un movimiento de ajuste con delta con signo. El stock resultante no puede quedar negativo.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID del producto"
// @Param        body body dto.AjustarStockRequest true "Delta y nota"
// @Success      200  {object} dto.MovimientoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/productos/{id}/ajustar-stock [post]
func (h *ProductosHandler) AjustarStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	mov, err := h.inventario.AjustarStock(c.Request.Context(), id, req.Delta, req.Nota)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMovimientoResponse(mov))
}

// AlertasStock godoc
// @Summary      Productos en o por debajo del stock mínimo
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.AlertaStockResponse
// @Router       /v1/productos/alertas [get]
func (h *ProductosHandler) AlertasStock(c *gin.Context) {
	productos, err := h.inventario.ListAlertasStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar alertas"))
		return
	}
	alertas := make([]dto.AlertaStockResponse, 0, len(productos))
	for _, p := range productos {
		alertas = append(alertas, dto.AlertaStockResponse{
			ProductoID:  p.ID.String(),
			Nombre:      p.Nombre,
			StockActual: p.StockActual,
			StockMinimo: p.StockMinimo,
		})
	}
	c.JSON(http.StatusOK, alertas)
}
