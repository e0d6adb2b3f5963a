package service

import (
	"context"
	"time"

	"fondapos/internal/dto"
	"fondapos/internal/model"
	"fondapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repos en memoria para tests unitarios. runTx corre fn con tx nil cuando el
// DB es nil, así que todos los métodos *Tx ignoran el parámetro tx.

// ── Productos ────────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	// ordenLock registra el orden en que se tomaron los locks de fila
	ordenLock []uuid.UUID
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Codigo == codigo && p.Activo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListBajoStockMinimo(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.BajoStockMinimo() && !p.EsPerdidaOperativa() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	r.ordenLock = append(r.ordenLock, id)
	return p, nil
}

func (r *stubProductoRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, nuevo decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockActual = nuevo
	return nil
}

func (r *stubProductoRepo) FindOrCreatePerdidaOperativaTx(_ *gorm.DB) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.EsPerdidaOperativa() {
			return p, nil
		}
	}
	p := &model.Producto{
		ID:           uuid.New(),
		Codigo:       model.CodigoPerdidaOperativa,
		Nombre:       "Pérdida operativa",
		UnidadMedida: "unidad",
		Activo:       true,
	}
	r.productos[p.ID] = p
	return p, nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── Movimientos de inventario ────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoInventario
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoInventario) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, _ dto.MovimientoFilter) ([]model.MovimientoInventario, int64, error) {
	return r.movimientos, int64(len(r.movimientos)), nil
}

var _ repository.MovimientoRepository = (*stubMovimientoRepo)(nil)

// porMotivo filtra los movimientos registrados por motivo.
func (r *stubMovimientoRepo) porMotivo(motivo string) []model.MovimientoInventario {
	var out []model.MovimientoInventario
	for _, m := range r.movimientos {
		if m.Motivo == motivo {
			out = append(out, m)
		}
	}
	return out
}

// ── Ventas ───────────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Items {
		if v.Items[i].ID == uuid.Nil {
			v.Items[i].ID = uuid.New()
		}
		v.Items[i].VentaID = v.ID
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVentaRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVentaRepo) UpdateTx(_ *gorm.DB, v *model.Venta) error {
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Estado = estado
	return nil
}

func (r *stubVentaRepo) UpdateItemTx(_ *gorm.DB, item *model.VentaItem) error {
	v, ok := r.ventas[item.VentaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range v.Items {
		if v.Items[i].ID == item.ID {
			v.Items[i] = *item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	out := make([]model.Venta, 0, len(r.ventas))
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── Flujo de caja ────────────────────────────────────────────────────────────

type stubFlujoRepo struct {
	flujos []model.FlujoCaja
	// ventasEfectivo simula la suma de ventas en efectivo de una sesión
	ventasEfectivo decimal.Decimal
}

func (r *stubFlujoRepo) CreateTx(_ *gorm.DB, f *model.FlujoCaja) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.flujos = append(r.flujos, *f)
	return nil
}

func (r *stubFlujoRepo) DeleteByVentaTx(_ *gorm.DB, ventaID uuid.UUID) error {
	out := r.flujos[:0]
	for _, f := range r.flujos {
		if f.VentaID == nil || *f.VentaID != ventaID {
			out = append(out, f)
		}
	}
	r.flujos = out
	return nil
}

func (r *stubFlujoRepo) List(_ context.Context, _ dto.FlujoCajaFilter) ([]model.FlujoCaja, int64, error) {
	return r.flujos, int64(len(r.flujos)), nil
}

func (r *stubFlujoRepo) Resumen(_ context.Context, _, _ time.Time) (decimal.Decimal, decimal.Decimal, map[string]decimal.Decimal, error) {
	entradas, salidas := decimal.Zero, decimal.Zero
	porCategoria := make(map[string]decimal.Decimal)
	for _, f := range r.flujos {
		porCategoria[f.Categoria] = porCategoria[f.Categoria].Add(f.Monto)
		if f.Direccion == model.DireccionEntrada {
			entradas = entradas.Add(f.Monto)
		} else {
			salidas = salidas.Add(f.Monto)
		}
	}
	return entradas, salidas, porCategoria, nil
}

func (r *stubFlujoRepo) SumVentasEfectivoPorSesion(_ context.Context, _ uuid.UUID) (decimal.Decimal, error) {
	return r.ventasEfectivo, nil
}

var _ repository.FlujoCajaRepository = (*stubFlujoRepo)(nil)

// ── Sesiones de caja ─────────────────────────────────────────────────────────

type stubCajaRepo struct {
	sesiones map[uuid.UUID]*model.SesionCaja
}

func newStubCajaRepo() *stubCajaRepo {
	return &stubCajaRepo{sesiones: make(map[uuid.UUID]*model.SesionCaja)}
}

func (r *stubCajaRepo) CreateSesion(_ context.Context, s *model.SesionCaja) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sesiones[s.ID] = s
	return nil
}

func (r *stubCajaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubCajaRepo) FindAbiertaPorUsuario(_ context.Context, usuarioID uuid.UUID) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.UsuarioID == usuarioID && s.Estado == model.SesionAbierta {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCajaRepo) UpdateSesion(_ context.Context, s *model.SesionCaja) error {
	r.sesiones[s.ID] = s
	return nil
}

func (r *stubCajaRepo) Historial(_ context.Context, _, _ int) ([]model.SesionCaja, int64, error) {
	var out []model.SesionCaja
	for _, s := range r.sesiones {
		if s.Estado == model.SesionCerrada {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.CajaRepository = (*stubCajaRepo)(nil)

// ── Mesas ────────────────────────────────────────────────────────────────────

type stubMesaRepo struct {
	mesas map[uuid.UUID]*model.Mesa
}

func newStubMesaRepo() *stubMesaRepo {
	return &stubMesaRepo{mesas: make(map[uuid.UUID]*model.Mesa)}
}

func (r *stubMesaRepo) Create(_ context.Context, m *model.Mesa) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.mesas[m.ID] = m
	return nil
}

func (r *stubMesaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Mesa, error) {
	m, ok := r.mesas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMesaRepo) List(_ context.Context) ([]model.Mesa, error) {
	var out []model.Mesa
	for _, m := range r.mesas {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMesaRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	return r.UpdateEstadoTx(nil, id, estado)
}

func (r *stubMesaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	m, ok := r.mesas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Estado = estado
	return nil
}

var _ repository.MesaRepository = (*stubMesaRepo)(nil)

// ── Menú ─────────────────────────────────────────────────────────────────────

type stubMenuRepo struct {
	items     map[uuid.UUID]*model.ItemMenu
	variantes map[uuid.UUID]*model.ItemMenuVariante
	recetas   map[string][]model.Receta // clave: duenoTipo + "/" + duenoID
}

func newStubMenuRepo() *stubMenuRepo {
	return &stubMenuRepo{
		items:     make(map[uuid.UUID]*model.ItemMenu),
		variantes: make(map[uuid.UUID]*model.ItemMenuVariante),
		recetas:   make(map[string][]model.Receta),
	}
}

func claveReceta(duenoTipo string, duenoID uuid.UUID) string {
	return duenoTipo + "/" + duenoID.String()
}

func (r *stubMenuRepo) CreateItem(_ context.Context, item *model.ItemMenu) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return nil
}

func (r *stubMenuRepo) FindItemByID(_ context.Context, id uuid.UUID) (*model.ItemMenu, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *stubMenuRepo) FindVarianteByID(_ context.Context, id uuid.UUID) (*model.ItemMenuVariante, error) {
	v, ok := r.variantes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubMenuRepo) ListItems(_ context.Context, _ dto.MenuFilter) ([]model.ItemMenu, int64, error) {
	var out []model.ItemMenu
	for _, item := range r.items {
		out = append(out, *item)
	}
	return out, int64(len(out)), nil
}

func (r *stubMenuRepo) UpdateItem(_ context.Context, item *model.ItemMenu) error {
	r.items[item.ID] = item
	return nil
}

func (r *stubMenuRepo) SoftDeleteItem(_ context.Context, id uuid.UUID) error {
	if item, ok := r.items[id]; ok {
		item.Activo = false
	}
	return nil
}

func (r *stubMenuRepo) RecetasDe(_ context.Context, duenoTipo string, duenoID uuid.UUID) ([]model.Receta, error) {
	return r.recetas[claveReceta(duenoTipo, duenoID)], nil
}

func (r *stubMenuRepo) conReceta(duenoTipo string, duenoID, productoID uuid.UUID, cantidad decimal.Decimal) {
	clave := claveReceta(duenoTipo, duenoID)
	r.recetas[clave] = append(r.recetas[clave], model.Receta{
		ID:                uuid.New(),
		DuenoTipo:         duenoTipo,
		DuenoID:           duenoID,
		ProductoID:        productoID,
		CantidadNecesaria: cantidad,
	})
}

var _ repository.MenuRepository = (*stubMenuRepo)(nil)

// ── Productos simples ────────────────────────────────────────────────────────

type stubSimpleRepo struct {
	simples   map[uuid.UUID]*model.ProductoSimple
	variantes map[uuid.UUID]*model.ProductoSimpleVariante
}

func newStubSimpleRepo() *stubSimpleRepo {
	return &stubSimpleRepo{
		simples:   make(map[uuid.UUID]*model.ProductoSimple),
		variantes: make(map[uuid.UUID]*model.ProductoSimpleVariante),
	}
}

func (r *stubSimpleRepo) Create(_ context.Context, p *model.ProductoSimple) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.simples[p.ID] = p
	return nil
}

func (r *stubSimpleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductoSimple, error) {
	p, ok := r.simples[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubSimpleRepo) FindVarianteByID(_ context.Context, id uuid.UUID) (*model.ProductoSimpleVariante, error) {
	v, ok := r.variantes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubSimpleRepo) List(_ context.Context, _, _ int) ([]model.ProductoSimple, int64, error) {
	var out []model.ProductoSimple
	for _, p := range r.simples {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubSimpleRepo) Update(_ context.Context, p *model.ProductoSimple) error {
	r.simples[p.ID] = p
	return nil
}

func (r *stubSimpleRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.simples[id]; ok {
		p.Activo = false
	}
	return nil
}

var _ repository.ProductoSimpleRepository = (*stubSimpleRepo)(nil)

// ── Combos ───────────────────────────────────────────────────────────────────

type stubComboRepo struct {
	combos map[uuid.UUID]*model.Combo
}

func newStubComboRepo() *stubComboRepo {
	return &stubComboRepo{combos: make(map[uuid.UUID]*model.Combo)}
}

func (r *stubComboRepo) Create(_ context.Context, c *model.Combo) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.combos[c.ID] = c
	return nil
}

func (r *stubComboRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Combo, error) {
	c, ok := r.combos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubComboRepo) FindOpcionByID(_ context.Context, id uuid.UUID) (*model.ComboComponenteOpcion, error) {
	for _, c := range r.combos {
		for _, comp := range c.Componentes {
			for _, op := range comp.Opciones {
				if op.ID == id {
					return &op, nil
				}
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubComboRepo) List(_ context.Context, _, _ int) ([]model.Combo, int64, error) {
	var out []model.Combo
	for _, c := range r.combos {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubComboRepo) Update(_ context.Context, c *model.Combo) error {
	r.combos[c.ID] = c
	return nil
}

func (r *stubComboRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if c, ok := r.combos[id]; ok {
		c.Activo = false
	}
	return nil
}

var _ repository.ComboRepository = (*stubComboRepo)(nil)

// ── Devoluciones ─────────────────────────────────────────────────────────────

type stubDevolucionRepo struct {
	devoluciones []*model.Devolucion
}

func (r *stubDevolucionRepo) CreateTx(_ *gorm.DB, d *model.Devolucion) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	for i := range d.Items {
		if d.Items[i].ID == uuid.Nil {
			d.Items[i].ID = uuid.New()
		}
		d.Items[i].DevolucionID = d.ID
	}
	r.devoluciones = append(r.devoluciones, d)
	return nil
}

func (r *stubDevolucionRepo) UpdateTx(_ *gorm.DB, d *model.Devolucion) error {
	for i, prev := range r.devoluciones {
		if prev.ID == d.ID {
			r.devoluciones[i] = d
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubDevolucionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Devolucion, error) {
	for _, d := range r.devoluciones {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubDevolucionRepo) List(_ context.Context, _ dto.DevolucionFilter) ([]model.Devolucion, int64, error) {
	out := make([]model.Devolucion, 0, len(r.devoluciones))
	for _, d := range r.devoluciones {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *stubDevolucionRepo) SumDevueltoPorItemTx(_ *gorm.DB, ventaItemID uuid.UUID) (int, error) {
	suma := 0
	for _, d := range r.devoluciones {
		if d.Estado == model.DevolucionCancelada {
			continue
		}
		for _, it := range d.Items {
			if it.VentaItemID == ventaItemID {
				suma += it.CantidadDevuelta
			}
		}
	}
	return suma, nil
}

var _ repository.DevolucionRepository = (*stubDevolucionRepo)(nil)

// ── Notificador ──────────────────────────────────────────────────────────────

// stubNotificador registra los eventos post-commit que recibiría el
// dispatcher de workers.
type stubNotificador struct {
	ventas       []*model.Venta
	devoluciones []*model.Devolucion
}

func (n *stubNotificador) VentaCompletada(v *model.Venta) {
	n.ventas = append(n.ventas, v)
}

func (n *stubNotificador) DevolucionProcesada(d *model.Devolucion) {
	n.devoluciones = append(n.devoluciones, d)
}

var _ Notificador = (*stubNotificador)(nil)

// ── Seed helpers ─────────────────────────────────────────────────────────────

func seedProducto(repo *stubProductoRepo, nombre, codigo string, stock, minimo int64) *model.Producto {
	p := &model.Producto{
		ID:            uuid.New(),
		Codigo:        codigo,
		Nombre:        nombre,
		UnidadMedida:  "unidad",
		StockActual:   decimal.NewFromInt(stock),
		StockMinimo:   decimal.NewFromInt(minimo),
		CostoUnitario: decimal.NewFromInt(100),
		Activo:        true,
	}
	repo.productos[p.ID] = p
	return p
}

func seedSimple(repo *stubSimpleRepo, nombre string, productoID *uuid.UUID, costoPorUnidad decimal.Decimal) *model.ProductoSimple {
	ps := &model.ProductoSimple{
		ID:             uuid.New(),
		Nombre:         nombre,
		Precio:         decimal.NewFromInt(250),
		ProductoID:     productoID,
		CostoPorUnidad: costoPorUnidad,
		Activo:         true,
	}
	repo.simples[ps.ID] = ps
	return ps
}

func seedItemMenu(repo *stubMenuRepo, nombre string, precio int64) *model.ItemMenu {
	item := &model.ItemMenu{
		ID:     uuid.New(),
		Nombre: nombre,
		Precio: decimal.NewFromInt(precio),
		Activo: true,
	}
	repo.items[item.ID] = item
	return item
}
