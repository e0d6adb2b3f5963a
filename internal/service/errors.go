package service

import (
	"errors"
	"fmt"
)

// Taxonomía de errores de los orquestadores. Todo se detecta y levanta de
// forma síncrona; nada se reintenta automáticamente — una venta de dinero y
// stock se reenvía por el caller, nunca se repite en silencio.
//
// Para el caller hay dos clases: "corrija su entrada y reenvíe"
// (Validacion/StockInsuficiente/Resolucion/DevolucionExcedida/EstadoInvalido)
// y "falla transitoria, puede reintentar" (Procesamiento).

// ErrNoEncontrado signals a missing sale, item, sellable or session.
var ErrNoEncontrado = errors.New("recurso no encontrado")

// ValidacionError: entrada malformada, rechazada antes de cualquier efecto.
type ValidacionError struct {
	Detalle string
}

func (e *ValidacionError) Error() string { return "validación: " + e.Detalle }

// StockInsuficienteError names the offending sellable and the shortfall.
type StockInsuficienteError struct {
	Vendible   string
	Solicitado int
	Disponible int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: solicitado %d, disponible %d",
		e.Vendible, e.Solicitado, e.Disponible)
}

// ResolucionError: referencia rota o elección de combo requerida sin selección.
type ResolucionError struct {
	Detalle string
}

func (e *ResolucionError) Error() string { return "resolución: " + e.Detalle }

// DevolucionExcedidaError: la cantidad pedida supera lo devolvible restante.
type DevolucionExcedidaError struct {
	VentaItemID string
	Solicitado  int
	Restante    int
}

func (e *DevolucionExcedidaError) Error() string {
	return fmt.Sprintf("devolución excedida para el item %s: solicitado %d, restante %d",
		e.VentaItemID, e.Solicitado, e.Restante)
}

// EstadoInvalidoError: operación contra una venta/devolución en el estado
// equivocado del ciclo de vida.
type EstadoInvalidoError struct {
	Detalle string
}

func (e *EstadoInvalidoError) Error() string { return "estado inválido: " + e.Detalle }

// ProcesamientoError: falla inesperada durante la fase de escritura atómica.
// Dispara rollback completo; el caller puede reintentar.
type ProcesamientoError struct {
	Causa error
}

func (e *ProcesamientoError) Error() string { return "falla de procesamiento: " + e.Causa.Error() }
func (e *ProcesamientoError) Unwrap() error { return e.Causa }

// EsReintentable distingue fallas transitorias de errores de entrada.
func EsReintentable(err error) bool {
	var pe *ProcesamientoError
	return errors.As(err, &pe)
}
