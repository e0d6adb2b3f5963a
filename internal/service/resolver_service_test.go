package service

import (
	"context"
	"testing"

	"fondapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildResolver() (Resolver, *stubProductoRepo, *stubMenuRepo, *stubSimpleRepo, *stubComboRepo) {
	productoRepo := newStubProductoRepo()
	menuRepo := newStubMenuRepo()
	simpleRepo := newStubSimpleRepo()
	comboRepo := newStubComboRepo()
	return NewResolver(productoRepo, menuRepo, simpleRepo, comboRepo), productoRepo, menuRepo, simpleRepo, comboRepo
}

func TestResolver_SimpleEscalaPorCostoPorUnidad(t *testing.T) {
	r, productoRepo, _, simpleRepo, _ := buildResolver()
	botella := seedProducto(productoRepo, "Botella agua", "AGU-001", 50, 5)
	// 1 vendido consume 2 unidades de inventario
	simple := seedSimple(simpleRepo, "Agua grande", &botella.ID, decimal.NewFromInt(2))

	res, err := r.Resolver(context.Background(), model.TipoSimple, simple.ID, 3, nil)
	require.NoError(t, err)
	assert.True(t, res.Vendible)
	require.Len(t, res.Requerimientos, 1)
	assert.Equal(t, botella.ID, res.Requerimientos[0].ProductoID)
	assert.Equal(t, "6", res.Requerimientos[0].Cantidad.String())
	assert.True(t, res.Requerimientos[0].Recuperable)
}

func TestResolver_SimpleRotoNoEsVendible(t *testing.T) {
	r, productoRepo, _, simpleRepo, _ := buildResolver()
	botella := seedProducto(productoRepo, "Botella agua", "AGU-001", 50, 5)

	sinVinculo := seedSimple(simpleRepo, "Sin vínculo", nil, decimal.NewFromInt(1))
	costoCero := seedSimple(simpleRepo, "Costo cero", &botella.ID, decimal.Zero)

	for _, id := range []uuid.UUID{sinVinculo.ID, costoCero.ID} {
		res, err := r.Resolver(context.Background(), model.TipoSimple, id, 1, nil)
		require.NoError(t, err)
		assert.False(t, res.Vendible)
		assert.Empty(t, res.Requerimientos)
	}
}

func TestResolver_VarianteSimpleSinRecetaCaeAlPadre(t *testing.T) {
	r, productoRepo, _, simpleRepo, _ := buildResolver()
	botella := seedProducto(productoRepo, "Botella agua", "AGU-001", 50, 5)
	padre := seedSimple(simpleRepo, "Agua", &botella.ID, decimal.NewFromInt(1))

	variante := &model.ProductoSimpleVariante{
		ID:               uuid.New(),
		ProductoSimpleID: padre.ID,
		Nombre:           "Agua con gas",
		Precio:           decimal.NewFromInt(300),
		Activo:           true,
	}
	simpleRepo.variantes[variante.ID] = variante

	res, err := r.Resolver(context.Background(), model.TipoVarianteSimple, variante.ID, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "Agua con gas", res.Nombre)
	require.Len(t, res.Requerimientos, 1)
	assert.Equal(t, botella.ID, res.Requerimientos[0].ProductoID)
	assert.Equal(t, "2", res.Requerimientos[0].Cantidad.String())
}

func TestResolver_VarianteSimpleConRecetaPropia(t *testing.T) {
	r, productoRepo, menuRepo, simpleRepo, _ := buildResolver()
	botella := seedProducto(productoRepo, "Botella agua", "AGU-001", 50, 5)
	hielo := seedProducto(productoRepo, "Hielo", "HIE-001", 50, 5)
	padre := seedSimple(simpleRepo, "Agua", &botella.ID, decimal.NewFromInt(1))

	variante := &model.ProductoSimpleVariante{
		ID:               uuid.New(),
		ProductoSimpleID: padre.ID,
		Nombre:           "Agua con hielo",
		Precio:           decimal.NewFromInt(300),
		Activo:           true,
	}
	simpleRepo.variantes[variante.ID] = variante
	menuRepo.conReceta(model.DuenoRecetaVarianteSimple, variante.ID, hielo.ID, decimal.NewFromInt(3))

	// Con receta propia no cae al padre: consume hielo, no botellas.
	res, err := r.Resolver(context.Background(), model.TipoVarianteSimple, variante.ID, 2, nil)
	require.NoError(t, err)
	require.Len(t, res.Requerimientos, 1)
	assert.Equal(t, hielo.ID, res.Requerimientos[0].ProductoID)
	assert.Equal(t, "6", res.Requerimientos[0].Cantidad.String())
}

func TestResolver_MenuSinRecetasNoRestringe(t *testing.T) {
	r, _, menuRepo, _, _ := buildResolver()
	item := seedItemMenu(menuRepo, "Café", 150)

	res, err := r.Resolver(context.Background(), model.TipoItemMenu, item.ID, 4, nil)
	require.NoError(t, err)
	assert.True(t, res.Vendible)
	assert.Empty(t, res.Requerimientos)
}

func TestResolver_LineaLibreSiempreVendible(t *testing.T) {
	r, _, _, _, _ := buildResolver()
	res, err := r.Resolver(context.Background(), model.TipoLibre, uuid.New(), 1, nil)
	require.NoError(t, err)
	assert.True(t, res.Vendible)
	assert.Empty(t, res.Requerimientos)
}

func TestResolver_CantidadInvalida(t *testing.T) {
	r, _, _, _, _ := buildResolver()
	_, err := r.Resolver(context.Background(), model.TipoLibre, uuid.New(), 0, nil)
	var ve *ValidacionError
	assert.ErrorAs(t, err, &ve)
}

func TestResolver_ComboAgregaIngredientesCompartidos(t *testing.T) {
	r, productoRepo, menuRepo, _, comboRepo := buildResolver()
	pan := seedProducto(productoRepo, "Pan", "PAN-001", 100, 10)
	carne := seedProducto(productoRepo, "Carne", "CAR-001", 100, 10)

	hamburguesa := seedItemMenu(menuRepo, "Hamburguesa", 500)
	menuRepo.conReceta(model.DuenoRecetaItemMenu, hamburguesa.ID, pan.ID, decimal.NewFromInt(1))
	menuRepo.conReceta(model.DuenoRecetaItemMenu, hamburguesa.ID, carne.ID, decimal.NewFromInt(1))

	tostado := seedItemMenu(menuRepo, "Tostado", 300)
	menuRepo.conReceta(model.DuenoRecetaItemMenu, tostado.ID, pan.ID, decimal.NewFromInt(2))

	tipoMenu := model.TipoItemMenu
	hamburguesaID := hamburguesa.ID
	tostadoID := tostado.ID
	combo := &model.Combo{
		ID:     uuid.New(),
		Nombre: "Combo pan doble",
		Precio: decimal.NewFromInt(700),
		Activo: true,
		Componentes: []model.ComboComponente{
			{ID: uuid.New(), Nombre: "Hamburguesa", Tipo: model.ComponenteFijo, Cantidad: 1, VendibleTipo: &tipoMenu, VendibleID: &hamburguesaID},
			{ID: uuid.New(), Nombre: "Tostado", Tipo: model.ComponenteFijo, Cantidad: 1, VendibleTipo: &tipoMenu, VendibleID: &tostadoID},
		},
	}
	comboRepo.combos[combo.ID] = combo

	res, err := r.Resolver(context.Background(), model.TipoCombo, combo.ID, 2, nil)
	require.NoError(t, err)
	require.Len(t, res.Requerimientos, 2)

	// El pan de ambos componentes se agrega: (1+2) × 2 = 6
	porProducto := make(map[uuid.UUID]decimal.Decimal)
	for _, req := range res.Requerimientos {
		porProducto[req.ProductoID] = req.Cantidad
	}
	assert.Equal(t, "6", porProducto[pan.ID].String())
	assert.Equal(t, "2", porProducto[carne.ID].String())

	// Orden determinístico por UUID para el orden de locks
	assert.True(t, res.Requerimientos[0].ProductoID.String() < res.Requerimientos[1].ProductoID.String())
}

func comboConEleccion(comboRepo *stubComboRepo, simpleA, simpleB uuid.UUID, requerido, conDefault bool) *model.Combo {
	comp := model.ComboComponente{
		ID:        uuid.New(),
		Nombre:    "Bebida",
		Tipo:      model.ComponenteEleccion,
		Cantidad:  1,
		Requerido: requerido,
		Opciones: []model.ComboComponenteOpcion{
			{ID: uuid.New(), VendibleTipo: model.TipoSimple, VendibleID: simpleA, EsDefault: conDefault},
			{ID: uuid.New(), VendibleTipo: model.TipoSimple, VendibleID: simpleB},
		},
	}
	combo := &model.Combo{
		ID:          uuid.New(),
		Nombre:      "Combo bebida",
		Precio:      decimal.NewFromInt(400),
		Activo:      true,
		Componentes: []model.ComboComponente{comp},
	}
	comboRepo.combos[combo.ID] = combo
	return combo
}

func TestResolver_ComboEleccionUsaSeleccion(t *testing.T) {
	r, productoRepo, _, simpleRepo, comboRepo := buildResolver()
	lataA := seedProducto(productoRepo, "Lata cola", "COL-001", 30, 3)
	lataB := seedProducto(productoRepo, "Lata naranja", "NAR-001", 30, 3)
	simpleA := seedSimple(simpleRepo, "Cola", &lataA.ID, decimal.NewFromInt(1))
	simpleB := seedSimple(simpleRepo, "Naranja", &lataB.ID, decimal.NewFromInt(1))

	combo := comboConEleccion(comboRepo, simpleA.ID, simpleB.ID, true, true)
	comp := combo.Componentes[0]

	sel := model.SeleccionesCombo{
		comp.ID.String(): {OpcionID: comp.Opciones[1].ID},
	}
	res, err := r.Resolver(context.Background(), model.TipoCombo, combo.ID, 1, sel)
	require.NoError(t, err)
	require.Len(t, res.Requerimientos, 1)
	assert.Equal(t, lataB.ID, res.Requerimientos[0].ProductoID)
}

func TestResolver_ComboEleccionSinSeleccionUsaDefault(t *testing.T) {
	r, productoRepo, _, simpleRepo, comboRepo := buildResolver()
	lataA := seedProducto(productoRepo, "Lata cola", "COL-001", 30, 3)
	lataB := seedProducto(productoRepo, "Lata naranja", "NAR-001", 30, 3)
	simpleA := seedSimple(simpleRepo, "Cola", &lataA.ID, decimal.NewFromInt(1))
	simpleB := seedSimple(simpleRepo, "Naranja", &lataB.ID, decimal.NewFromInt(1))

	combo := comboConEleccion(comboRepo, simpleA.ID, simpleB.ID, true, true)

	res, err := r.Resolver(context.Background(), model.TipoCombo, combo.ID, 1, nil)
	require.NoError(t, err)
	require.Len(t, res.Requerimientos, 1)
	assert.Equal(t, lataA.ID, res.Requerimientos[0].ProductoID)
}

func TestResolver_ComboEleccionRequeridaSinDefaultFalla(t *testing.T) {
	r, productoRepo, _, simpleRepo, comboRepo := buildResolver()
	lataA := seedProducto(productoRepo, "Lata cola", "COL-001", 30, 3)
	lataB := seedProducto(productoRepo, "Lata naranja", "NAR-001", 30, 3)
	simpleA := seedSimple(simpleRepo, "Cola", &lataA.ID, decimal.NewFromInt(1))
	simpleB := seedSimple(simpleRepo, "Naranja", &lataB.ID, decimal.NewFromInt(1))

	combo := comboConEleccion(comboRepo, simpleA.ID, simpleB.ID, true, false)

	_, err := r.Resolver(context.Background(), model.TipoCombo, combo.ID, 1, nil)
	var re *ResolucionError
	assert.ErrorAs(t, err, &re)
}

func TestResolver_ComboEleccionOpcionalSinDefaultNoAporta(t *testing.T) {
	r, productoRepo, _, simpleRepo, comboRepo := buildResolver()
	lataA := seedProducto(productoRepo, "Lata cola", "COL-001", 30, 3)
	lataB := seedProducto(productoRepo, "Lata naranja", "NAR-001", 30, 3)
	simpleA := seedSimple(simpleRepo, "Cola", &lataA.ID, decimal.NewFromInt(1))
	simpleB := seedSimple(simpleRepo, "Naranja", &lataB.ID, decimal.NewFromInt(1))

	combo := comboConEleccion(comboRepo, simpleA.ID, simpleB.ID, false, false)

	res, err := r.Resolver(context.Background(), model.TipoCombo, combo.ID, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Requerimientos)
}

func TestResolver_ComboSeleccionAjena(t *testing.T) {
	r, productoRepo, _, simpleRepo, comboRepo := buildResolver()
	lataA := seedProducto(productoRepo, "Lata cola", "COL-001", 30, 3)
	lataB := seedProducto(productoRepo, "Lata naranja", "NAR-001", 30, 3)
	simpleA := seedSimple(simpleRepo, "Cola", &lataA.ID, decimal.NewFromInt(1))
	simpleB := seedSimple(simpleRepo, "Naranja", &lataB.ID, decimal.NewFromInt(1))

	combo := comboConEleccion(comboRepo, simpleA.ID, simpleB.ID, true, true)
	comp := combo.Componentes[0]

	sel := model.SeleccionesCombo{
		comp.ID.String(): {OpcionID: uuid.New()}, // opción que no existe en el componente
	}
	_, err := r.Resolver(context.Background(), model.TipoCombo, combo.ID, 1, sel)
	var re *ResolucionError
	assert.ErrorAs(t, err, &re)
}

// ── Disponible ───────────────────────────────────────────────────────────────

func TestDisponible_MinimoEntreIngredientes(t *testing.T) {
	r, productoRepo, menuRepo, _, _ := buildResolver()
	pan := seedProducto(productoRepo, "Pan", "PAN-001", 10, 1)
	carne := seedProducto(productoRepo, "Carne", "CAR-001", 4, 1)

	item := seedItemMenu(menuRepo, "Hamburguesa", 500)
	menuRepo.conReceta(model.DuenoRecetaItemMenu, item.ID, pan.ID, decimal.NewFromInt(2))
	menuRepo.conReceta(model.DuenoRecetaItemMenu, item.ID, carne.ID, decimal.NewFromInt(1))

	// pan alcanza para 5, carne para 4 → disponible 4
	disp, err := r.Disponible(context.Background(), model.TipoItemMenu, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, disp)
}

func TestDisponible_SinRequerimientosEsIlimitado(t *testing.T) {
	r, _, menuRepo, _, _ := buildResolver()
	item := seedItemMenu(menuRepo, "Café", 150)

	disp, err := r.Disponible(context.Background(), model.TipoItemMenu, item.ID)
	require.NoError(t, err)
	assert.Equal(t, DisponibilidadIlimitada, disp)
}

func TestDisponible_NoVendibleEsCero(t *testing.T) {
	r, _, _, simpleRepo, _ := buildResolver()
	roto := seedSimple(simpleRepo, "Roto", nil, decimal.NewFromInt(1))

	disp, err := r.Disponible(context.Background(), model.TipoSimple, roto.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, disp)
}

func TestDisponible_StockAgotadoEsCero(t *testing.T) {
	r, productoRepo, _, simpleRepo, _ := buildResolver()
	lata := seedProducto(productoRepo, "Lata", "LAT-001", 0, 1)
	simple := seedSimple(simpleRepo, "Gaseosa", &lata.ID, decimal.NewFromInt(1))

	disp, err := r.Disponible(context.Background(), model.TipoSimple, simple.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, disp)
}

// ── PlanDevolucion ───────────────────────────────────────────────────────────

func TestPlanDevolucion_MenuEsPerdidaAlPrecioDeVenta(t *testing.T) {
	r, _, menuRepo, _, _ := buildResolver()
	item := seedItemMenu(menuRepo, "Milanesa", 800)

	itemID := item.ID
	linea := &model.VentaItem{
		TipoProducto:   model.TipoItemMenu,
		ReferenciaID:   &itemID,
		PrecioUnitario: decimal.NewFromInt(800),
	}
	planes, err := r.PlanDevolucion(context.Background(), linea, 2)
	require.NoError(t, err)
	require.Len(t, planes, 1)
	assert.Nil(t, planes[0].ProductoID)
	assert.Equal(t, model.MotivoPerdidaOperativa, planes[0].Motivo)
	assert.Equal(t, "2", planes[0].Cantidad.String())
	assert.Equal(t, "800", planes[0].CostoUnitario.String())
}

func TestPlanDevolucion_SimpleRestaura(t *testing.T) {
	r, productoRepo, _, simpleRepo, _ := buildResolver()
	lata := seedProducto(productoRepo, "Lata", "LAT-001", 30, 3)
	simple := seedSimple(simpleRepo, "Gaseosa", &lata.ID, decimal.NewFromInt(2))

	simpleID := simple.ID
	linea := &model.VentaItem{
		TipoProducto:   model.TipoSimple,
		ReferenciaID:   &simpleID,
		PrecioUnitario: decimal.NewFromInt(250),
	}
	planes, err := r.PlanDevolucion(context.Background(), linea, 3)
	require.NoError(t, err)
	require.Len(t, planes, 1)
	require.NotNil(t, planes[0].ProductoID)
	assert.Equal(t, lata.ID, *planes[0].ProductoID)
	assert.Equal(t, model.MotivoDevolucionSimple, planes[0].Motivo)
	assert.Equal(t, "6", planes[0].Cantidad.String())
}

func TestPlanDevolucion_LibreNoTienePlan(t *testing.T) {
	r, _, _, _, _ := buildResolver()
	planes, err := r.PlanDevolucion(context.Background(), &model.VentaItem{TipoProducto: model.TipoLibre}, 1)
	require.NoError(t, err)
	assert.Empty(t, planes)
}

func TestPlanDevolucion_ComboSeparaPerdidaYRestock(t *testing.T) {
	r, productoRepo, menuRepo, simpleRepo, comboRepo := buildResolver()
	lata := seedProducto(productoRepo, "Lata", "LAT-001", 30, 3)
	gaseosa := seedSimple(simpleRepo, "Gaseosa", &lata.ID, decimal.NewFromInt(1))
	plato := seedItemMenu(menuRepo, "Milanesa", 800)

	tipoMenu := model.TipoItemMenu
	tipoSimple := model.TipoSimple
	platoID := plato.ID
	gaseosaID := gaseosa.ID
	combo := &model.Combo{
		ID:     uuid.New(),
		Nombre: "Combo almuerzo",
		Precio: decimal.NewFromInt(950),
		Activo: true,
		Componentes: []model.ComboComponente{
			{ID: uuid.New(), Nombre: "Plato", Tipo: model.ComponenteFijo, Cantidad: 1, VendibleTipo: &tipoMenu, VendibleID: &platoID},
			{ID: uuid.New(), Nombre: "Bebida", Tipo: model.ComponenteFijo, Cantidad: 1, VendibleTipo: &tipoSimple, VendibleID: &gaseosaID},
		},
	}
	comboRepo.combos[combo.ID] = combo

	comboID := combo.ID
	linea := &model.VentaItem{
		TipoProducto:   model.TipoCombo,
		ReferenciaID:   &comboID,
		PrecioUnitario: decimal.NewFromInt(950),
	}
	planes, err := r.PlanDevolucion(context.Background(), linea, 1)
	require.NoError(t, err)
	require.Len(t, planes, 2)

	var perdida, restock *MovimientoPlan
	for i := range planes {
		if planes[i].ProductoID == nil {
			perdida = &planes[i]
		} else {
			restock = &planes[i]
		}
	}
	require.NotNil(t, perdida)
	require.NotNil(t, restock)
	// La pérdida del componente preparado se valúa a su precio de catálogo
	assert.Equal(t, "800", perdida.CostoUnitario.String())
	assert.Equal(t, model.MotivoPerdidaOperativa, perdida.Motivo)
	assert.Equal(t, lata.ID, *restock.ProductoID)
	assert.Equal(t, model.MotivoDevolucionSimple, restock.Motivo)
}
