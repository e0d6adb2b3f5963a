package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCaja() (CajaService, *stubCajaRepo, *stubFlujoRepo) {
	cajas := newStubCajaRepo()
	flujos := &stubFlujoRepo{}
	return NewCajaService(cajas, flujos), cajas, flujos
}

func TestCaja_UnaSolaSesionAbiertaPorUsuario(t *testing.T) {
	svc, _, _ := buildCaja()
	usuarioID := uuid.New()

	sesion, err := svc.Abrir(context.Background(), usuarioID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.Equal(t, "1000", sesion.MontoApertura.String())

	_, err = svc.Abrir(context.Background(), usuarioID, decimal.NewFromInt(500))
	var estadoErr *EstadoInvalidoError
	assert.ErrorAs(t, err, &estadoErr)

	// Otro usuario abre la suya sin problema
	_, err = svc.Abrir(context.Background(), uuid.New(), decimal.NewFromInt(500))
	assert.NoError(t, err)
}

func TestCaja_AperturaNegativaRechazada(t *testing.T) {
	svc, _, _ := buildCaja()
	_, err := svc.Abrir(context.Background(), uuid.New(), decimal.NewFromInt(-1))
	var ve *ValidacionError
	assert.ErrorAs(t, err, &ve)
}

func TestCaja_CierreCalculaEsperadoYDiferencia(t *testing.T) {
	svc, _, flujos := buildCaja()
	usuarioID := uuid.New()

	sesion, err := svc.Abrir(context.Background(), usuarioID, decimal.NewFromInt(1000))
	require.NoError(t, err)

	// Ventas en efectivo de la sesión: solo ellas pasan por el cajón
	flujos.ventasEfectivo = decimal.NewFromInt(2500)

	cerrada, err := svc.Cerrar(context.Background(), usuarioID, sesion.ID, decimal.NewFromInt(3400))
	require.NoError(t, err)
	require.NotNil(t, cerrada.MontoEsperado)
	require.NotNil(t, cerrada.Diferencia)
	require.NotNil(t, cerrada.ClosedAt)
	assert.Equal(t, "3500", cerrada.MontoEsperado.String())
	assert.Equal(t, "-100", cerrada.Diferencia.String())

	// Cerrada la sesión, el usuario puede abrir otra
	_, err = svc.Abrir(context.Background(), usuarioID, decimal.NewFromInt(200))
	assert.NoError(t, err)
}

func TestCaja_CierreDeOtroUsuarioRechazado(t *testing.T) {
	svc, _, _ := buildCaja()

	sesion, err := svc.Abrir(context.Background(), uuid.New(), decimal.NewFromInt(1000))
	require.NoError(t, err)

	_, err = svc.Cerrar(context.Background(), uuid.New(), sesion.ID, decimal.NewFromInt(1000))
	var ve *ValidacionError
	assert.ErrorAs(t, err, &ve)
}

func TestCaja_CierreDobleRechazado(t *testing.T) {
	svc, _, _ := buildCaja()
	usuarioID := uuid.New()

	sesion, err := svc.Abrir(context.Background(), usuarioID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	_, err = svc.Cerrar(context.Background(), usuarioID, sesion.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)

	_, err = svc.Cerrar(context.Background(), usuarioID, sesion.ID, decimal.NewFromInt(1000))
	var estadoErr *EstadoInvalidoError
	assert.ErrorAs(t, err, &estadoErr)
}

func TestCaja_GetActiva(t *testing.T) {
	svc, _, _ := buildCaja()
	usuarioID := uuid.New()

	_, err := svc.GetActiva(context.Background(), usuarioID)
	assert.ErrorIs(t, err, ErrNoEncontrado)

	sesion, err := svc.Abrir(context.Background(), usuarioID, decimal.NewFromInt(1000))
	require.NoError(t, err)

	activa, err := svc.GetActiva(context.Background(), usuarioID)
	require.NoError(t, err)
	assert.Equal(t, sesion.ID, activa.ID)
}
