package handler

import (
	"net/http"

	"fondapos/internal/apierror"
	"fondapos/internal/dto"
	"fondapos/internal/infra"
	"fondapos/internal/middleware"
	"fondapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VentasHandler struct {
	svc         service.VentaService
	nombreLocal string
	pdfPath     string
}

func NewVentasHandler(svc service.VentaService, nombreLocal, pdfPath string) *VentasHandler {
	return &VentasHandler{svc: svc, nombreLocal: nombreLocal, pdfPath: pdfPath}
}

// RegistrarVenta godoc
// @Summary      Registrar una nueva venta
// @Description  Crea una venta atómica: valida stock, descuenta inventario y registra el flujo de caja. Con pendiente=true la venta queda sin efecto financiero.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	venta, err := h.svc.Registrar(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toVentaResponse(venta))
}

// CompletarVenta godoc
// @Summary      Completar una venta pendiente
// @Description  Aplica los efectos financieros de una venta pendiente: descuenta stock y registra el flujo de caja.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      200 {object} dto.VentaResponse
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/ventas/{id}/completar [post]
func (h *VentasHandler) CompletarVenta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	venta, err := h.svc.Completar(c.Request.Context(), id, usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVentaResponse(venta))
}

// CancelarVenta godoc
// @Summary      Cancelar o anular una venta
// @Description  Pendiente: se cancela sin nada que revertir. Completada: se anula eliminando su flujo de caja; el inventario no se restaura (para eso existen las devoluciones).
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID de la venta"
// @Param        body body dto.CancelarVentaRequest true "Motivo"
// @Success      200  {object} dto.VentaResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas/{id} [delete]
func (h *VentasHandler) CancelarVenta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CancelarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	venta, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if venta.Estado == "completada" {
		venta, err = h.svc.Anular(c.Request.Context(), id, req.Motivo)
	} else {
		venta, err = h.svc.CancelarPendiente(c.Request.Context(), id, req.Motivo)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVentaResponse(venta))
}

// CancelarItem godoc
// @Summary      Cancelar una línea de una venta pendiente
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path string                  true "UUID de la venta"
// @Param        itemId path string                  true "UUID de la línea"
// @Param        body   body dto.CancelarItemRequest true "Motivo"
// @Success      200    {object} dto.VentaResponse
// @Failure      409    {object} apierror.APIError
// @Router       /v1/ventas/{id}/items/{itemId} [delete]
func (h *VentasHandler) CancelarItem(c *gin.Context) {
	ventaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de item invalido"))
		return
	}
	var req dto.CancelarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	venta, err := h.svc.CancelarItem(c.Request.Context(), ventaID, itemID, usuarioID, req.Motivo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVentaResponse(venta))
}

// ObtenerVenta godoc
// @Summary      Obtener una venta
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      200 {object} dto.VentaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id} [get]
func (h *VentasHandler) ObtenerVenta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	venta, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVentaResponse(venta))
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Description  Retorna lista paginada de ventas filtrada por fecha y estado.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        fecha  query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Param        estado query string false "pendiente | completada | cancelada | all"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 50)"
// @Success      200    {object} dto.VentaListResponse
// @Failure      400    {object} apierror.APIError
// @Router       /v1/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	ventas, total, err := h.svc.ListVentas(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ventas"))
		return
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, toVentaResponse(&ventas[i]))
	}
	c.JSON(http.StatusOK, dto.VentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit})
}

// TicketPDF godoc
// @Summary      Descargar el ticket PDF de una venta
// @Tags         ventas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      200
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id}/ticket [get]
func (h *VentasHandler) TicketPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	venta, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	path, err := infra.GenerateTicketPDF(venta, h.nombreLocal, h.pdfPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo generar el ticket"))
		return
	}
	c.FileAttachment(path, "ticket.pdf")
}
