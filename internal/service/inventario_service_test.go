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

func buildInventario() (InventarioService, *stubProductoRepo, *stubMovimientoRepo) {
	productos := newStubProductoRepo()
	movimientos := &stubMovimientoRepo{}
	return NewInventarioService(productos, movimientos), productos, movimientos
}

func TestInventario_MovimientoActualizaLedgerYSnapshot(t *testing.T) {
	svc, productos, movimientos := buildInventario()
	p := seedProducto(productos, "Harina", "HAR-001", 10, 2)

	mov, err := svc.AplicarMovimientoTx(nil, p, MovimientoInput{
		Direccion: model.DireccionEntrada,
		Cantidad:  decimal.NewFromInt(5),
		Motivo:    model.MotivoAjusteManual,
	})
	require.NoError(t, err)
	assert.Equal(t, "10", mov.StockAnterior.String())
	assert.Equal(t, "15", mov.StockNuevo.String())
	assert.Equal(t, "15", p.StockActual.String())
	// El costo del ledger sale del producto salvo override explícito
	assert.Equal(t, "100", mov.CostoUnitario.String())
	require.Len(t, movimientos.movimientos, 1)
}

func TestInventario_CostoUnitarioOverride(t *testing.T) {
	svc, productos, _ := buildInventario()
	p := seedProducto(productos, "Harina", "HAR-001", 10, 2)

	costo := decimal.NewFromInt(850)
	mov, err := svc.AplicarMovimientoTx(nil, p, MovimientoInput{
		Direccion:     model.DireccionEntrada,
		Cantidad:      decimal.NewFromInt(1),
		Motivo:        model.MotivoPerdidaOperativa,
		CostoUnitario: &costo,
	})
	require.NoError(t, err)
	assert.Equal(t, "850", mov.CostoUnitario.String())
}

func TestInventario_DireccionesValidanCantidad(t *testing.T) {
	svc, productos, _ := buildInventario()
	p := seedProducto(productos, "Harina", "HAR-001", 10, 2)

	casos := []MovimientoInput{
		{Direccion: model.DireccionEntrada, Cantidad: decimal.NewFromInt(-1)},
		{Direccion: model.DireccionEntrada, Cantidad: decimal.Zero},
		{Direccion: model.DireccionSalida, Cantidad: decimal.NewFromInt(-1)},
		{Direccion: model.DireccionAjuste, Cantidad: decimal.Zero},
		{Direccion: "transferencia", Cantidad: decimal.NewFromInt(1)},
	}
	for _, in := range casos {
		in.Motivo = model.MotivoAjusteManual
		_, err := svc.AplicarMovimientoTx(nil, p, in)
		var ve *ValidacionError
		assert.ErrorAs(t, err, &ve, "direccion=%s cantidad=%s", in.Direccion, in.Cantidad)
	}
	assert.Equal(t, "10", p.StockActual.String())
}

func TestInventario_AjusteLlevaDeltaConSigno(t *testing.T) {
	svc, productos, movimientos := buildInventario()
	p := seedProducto(productos, "Harina", "HAR-001", 10, 2)

	mov, err := svc.AjustarStock(context.Background(), p.ID, decimal.NewFromInt(-3), "merma por humedad")
	require.NoError(t, err)
	assert.Equal(t, model.DireccionAjuste, mov.Direccion)
	assert.Equal(t, "-3", mov.Cantidad.String())
	assert.Equal(t, "merma por humedad", mov.Nota)
	assert.Equal(t, "7", p.StockActual.String())

	ajustes := movimientos.porMotivo(model.MotivoAjusteManual)
	require.Len(t, ajustes, 1)
}

func TestInventario_AjusteNoDejaStockNegativo(t *testing.T) {
	svc, productos, movimientos := buildInventario()
	p := seedProducto(productos, "Harina", "HAR-001", 10, 2)

	_, err := svc.AjustarStock(context.Background(), p.ID, decimal.NewFromInt(-11), "conteo")
	var ve *ValidacionError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "10", p.StockActual.String())
	assert.Empty(t, movimientos.movimientos)

	// El delta cero tampoco genera un asiento
	_, err = svc.AjustarStock(context.Background(), p.ID, decimal.Zero, "")
	assert.ErrorAs(t, err, &ve)
}

func TestInventario_AjusteProductoInexistente(t *testing.T) {
	svc, _, _ := buildInventario()
	_, err := svc.AjustarStock(context.Background(), uuid.New(), decimal.NewFromInt(1), "")
	assert.ErrorIs(t, err, ErrNoEncontrado)
}
