package handler

import (
	"net/http"
	"strconv"

	"fondapos/internal/apierror"
	"fondapos/internal/dto"
	"fondapos/internal/model"
	"fondapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogoHandler serves the sellable catalog. Every listing annotates each
// sellable with its computed availability.
type CatalogoHandler struct {
	svc      service.CatalogoService
	resolver service.Resolver
}

func NewCatalogoHandler(svc service.CatalogoService, resolver service.Resolver) *CatalogoHandler {
	return &CatalogoHandler{svc: svc, resolver: resolver}
}

// disponible swallows resolution errors: a broken catalog entry lists as
// unavailable instead of failing the whole listing.
func (h *CatalogoHandler) disponible(c *gin.Context, tipo string, id uuid.UUID) int {
	n, err := h.resolver.Disponible(c.Request.Context(), tipo, id)
	if err != nil {
		return 0
	}
	return n
}

func paginacion(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit
}

// ── Items de menú ────────────────────────────────────────────────────────────

// CrearItemMenu godoc
// @Summary      Crear item de menú
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearItemMenuRequest true "Item con recetas y variantes"
// @Success      201  {object} dto.ItemMenuResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/menu/items [post]
func (h *CatalogoHandler) CrearItemMenu(c *gin.Context) {
	var req dto.CrearItemMenuRequest
	if !bindAndValidate(c, &req) {
		return
	}
	item, err := h.svc.CrearItemMenu(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItemMenuResponse(item, h.disponible(c, model.TipoItemMenu, item.ID)))
}

// ObtenerItemMenu godoc
// @Summary      Obtener item de menú con disponibilidad
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del item"
// @Success      200 {object} dto.ItemMenuResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/menu/items/{id} [get]
func (h *CatalogoHandler) ObtenerItemMenu(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	item, err := h.svc.ObtenerItemMenu(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemMenuResponse(item, h.disponible(c, model.TipoItemMenu, item.ID)))
}

// ListarItemsMenu godoc
// @Summary      Listar items de menú con disponibilidad
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        nombre    query string false "Búsqueda parcial por nombre"
// @Param        categoria query string false "Categoría exacta"
// @Param        page      query int    false "Página (default 1)"
// @Param        limit     query int    false "Registros por página (default 50)"
// @Success      200 {array} dto.ItemMenuResponse
// @Router       /v1/menu/items [get]
func (h *CatalogoHandler) ListarItemsMenu(c *gin.Context) {
	var filter dto.MenuFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	items, total, err := h.svc.ListItemsMenu(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar el menú"))
		return
	}
	data := make([]dto.ItemMenuResponse, 0, len(items))
	for i := range items {
		data = append(data, toItemMenuResponse(&items[i], h.disponible(c, model.TipoItemMenu, items[i].ID)))
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total, "page": filter.Page, "limit": filter.Limit})
}

// EliminarItemMenu godoc
// @Summary      Eliminar item de menú (baja lógica)
// @Tags         menu
// @Security     BearerAuth
// @Param        id path string true "UUID del item"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/menu/items/{id} [delete]
func (h *CatalogoHandler) EliminarItemMenu(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.EliminarItemMenu(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Productos simples ────────────────────────────────────────────────────────

// CrearSimple godoc
// @Summary      Crear producto simple
// @Tags         simples
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProductoSimpleRequest true "Producto simple"
// @Success      201  {object} dto.ProductoSimpleResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/simples [post]
func (h *CatalogoHandler) CrearSimple(c *gin.Context) {
	var req dto.CrearProductoSimpleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ps, err := h.svc.CrearSimple(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSimpleResponse(ps, h.disponible(c, model.TipoSimple, ps.ID)))
}

// ObtenerSimple godoc
// @Summary      Obtener producto simple con disponibilidad
// @Tags         simples
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del producto simple"
// @Success      200 {object} dto.ProductoSimpleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/simples/{id} [get]
func (h *CatalogoHandler) ObtenerSimple(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	ps, err := h.svc.ObtenerSimple(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSimpleResponse(ps, h.disponible(c, model.TipoSimple, ps.ID)))
}

// ListarSimples godoc
// @Summary      Listar productos simples con disponibilidad
// @Tags         simples
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Página (default 1)"
// @Param        limit query int false "Registros por página (default 50)"
// @Success      200 {array} dto.ProductoSimpleResponse
// @Router       /v1/simples [get]
func (h *CatalogoHandler) ListarSimples(c *gin.Context) {
	page, limit := paginacion(c)
	simples, total, err := h.svc.ListSimples(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar productos simples"))
		return
	}
	data := make([]dto.ProductoSimpleResponse, 0, len(simples))
	for i := range simples {
		data = append(data, toSimpleResponse(&simples[i], h.disponible(c, model.TipoSimple, simples[i].ID)))
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total, "page": page, "limit": limit})
}

// EliminarSimple godoc
// @Summary      Eliminar producto simple (baja lógica)
// @Tags         simples
// @Security     BearerAuth
// @Param        id path string true "UUID del producto simple"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/simples/{id} [delete]
func (h *CatalogoHandler) EliminarSimple(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.EliminarSimple(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Combos ───────────────────────────────────────────────────────────────────

// CrearCombo godoc
// @Summary      Crear combo
// @Tags         combos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearComboRequest true "Combo con componentes fijos y de elección"
// @Success      201  {object} dto.ComboResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/combos [post]
func (h *CatalogoHandler) CrearCombo(c *gin.Context) {
	var req dto.CrearComboRequest
	if !bindAndValidate(c, &req) {
		return
	}
	combo, err := h.svc.CrearCombo(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toComboResponse(combo, h.disponible(c, model.TipoCombo, combo.ID)))
}

// ObtenerCombo godoc
// @Summary      Obtener combo con disponibilidad (opciones default)
// @Tags         combos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del combo"
// @Success      200 {object} dto.ComboResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/combos/{id} [get]
func (h *CatalogoHandler) ObtenerCombo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	combo, err := h.svc.ObtenerCombo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toComboResponse(combo, h.disponible(c, model.TipoCombo, combo.ID)))
}

// ListarCombos godoc
// @Summary      Listar combos con disponibilidad
// @Tags         combos
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Página (default 1)"
// @Param        limit query int false "Registros por página (default 50)"
// @Success      200 {array} dto.ComboResponse
// @Router       /v1/combos [get]
func (h *CatalogoHandler) ListarCombos(c *gin.Context) {
	page, limit := paginacion(c)
	combos, total, err := h.svc.ListCombos(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar combos"))
		return
	}
	data := make([]dto.ComboResponse, 0, len(combos))
	for i := range combos {
		data = append(data, toComboResponse(&combos[i], h.disponible(c, model.TipoCombo, combos[i].ID)))
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total, "page": page, "limit": limit})
}

// EliminarCombo godoc
// @Summary      Eliminar combo (baja lógica)
// @Tags         combos
// @Security     BearerAuth
// @Param        id path string true "UUID del combo"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/combos/{id} [delete]
func (h *CatalogoHandler) EliminarCombo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.EliminarCombo(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Disponibilidad godoc
// @Summary      Disponibilidad de un vendible
// @Description  Máxima cantidad vendible según el stock actual. Las líneas libres y los vendibles sin receta reportan el tope 999999.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        tipo query string true "menu | variante_menu | simple | variante_simple | combo"
// @Param        id   query string true "UUID del vendible"
// @Success      200  {object} map[string]int
// @Failure      400  {object} apierror.APIError
// @Router       /v1/inventario/disponibilidad [get]
func (h *CatalogoHandler) Disponibilidad(c *gin.Context) {
	tipo := c.Query("tipo")
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id invalido"))
		return
	}
	n, err := h.resolver.Disponible(c.Request.Context(), tipo, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"disponible": n})
}
