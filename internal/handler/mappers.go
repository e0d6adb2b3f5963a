package handler

import (
	"time"

	"fondapos/internal/dto"
	"fondapos/internal/model"

	"github.com/google/uuid"
)

func uuidPtrToStr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func timePtrToStr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func toVentaResponse(v *model.Venta) dto.VentaResponse {
	items := make([]dto.VentaItemResponse, 0, len(v.Items))
	for i := range v.Items {
		it := &v.Items[i]
		items = append(items, dto.VentaItemResponse{
			ID:             it.ID.String(),
			Tipo:           it.TipoProducto,
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			TotalLinea:     it.TotalLinea,
			Selecciones:    it.Selecciones,
			Cancelado:      it.Cancelado(),
		})
	}
	return dto.VentaResponse{
		ID:           v.ID.String(),
		Estado:       v.Estado,
		Subtotal:     v.Subtotal,
		Descuento:    v.Descuento,
		Impuesto:     v.Impuesto,
		Total:        v.Total,
		MetodoPago:   v.MetodoPago,
		SesionCajaID: uuidPtrToStr(v.SesionCajaID),
		MesaID:       uuidPtrToStr(v.MesaID),
		Items:        items,
		CreatedAt:    v.CreatedAt.Format(time.RFC3339),
	}
}

func toDevolucionResponse(d *model.Devolucion) dto.DevolucionResponse {
	items := make([]dto.DevolucionItemResponse, 0, len(d.Items))
	for i := range d.Items {
		it := &d.Items[i]
		items = append(items, dto.DevolucionItemResponse{
			ID:                   it.ID.String(),
			VentaItemID:          it.VentaItemID.String(),
			CantidadDevuelta:     it.CantidadDevuelta,
			CantidadOriginal:     it.CantidadOriginal,
			PrecioUnitario:       it.PrecioUnitario,
			TotalLinea:           it.TotalLinea,
			InventarioRestaurado: it.InventarioRestaurado,
		})
	}
	return dto.DevolucionResponse{
		ID:                   d.ID.String(),
		VentaID:              d.VentaID.String(),
		Tipo:                 d.Tipo,
		Motivo:               d.Motivo,
		MetodoReembolso:      d.MetodoReembolso,
		Estado:               d.Estado,
		Subtotal:             d.Subtotal,
		Impuesto:             d.Impuesto,
		Total:                d.Total,
		InventarioRestaurado: d.InventarioRestaurado,
		FlujoCajaAjustado:    d.FlujoCajaAjustado,
		Items:                items,
		CreatedAt:            d.CreatedAt.Format(time.RFC3339),
	}
}

func toProductoResponse(p *model.Producto) dto.ProductoResponse {
	var fv *string
	if p.FechaVencimiento != nil {
		s := p.FechaVencimiento.Format("2006-01-02")
		fv = &s
	}
	return dto.ProductoResponse{
		ID:               p.ID.String(),
		Codigo:           p.Codigo,
		Nombre:           p.Nombre,
		UnidadMedida:     p.UnidadMedida,
		StockActual:      p.StockActual,
		StockMinimo:      p.StockMinimo,
		CostoUnitario:    p.CostoUnitario,
		FechaVencimiento: fv,
		Activo:           p.Activo,
	}
}

func toMovimientoResponse(m *model.MovimientoInventario) dto.MovimientoResponse {
	nombre := ""
	if m.Producto != nil {
		nombre = m.Producto.Nombre
	}
	return dto.MovimientoResponse{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		Producto:      nombre,
		Direccion:     m.Direccion,
		Cantidad:      m.Cantidad,
		CostoUnitario: m.CostoUnitario,
		Motivo:        m.Motivo,
		Nota:          m.Nota,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		ReferenciaID:  uuidPtrToStr(m.ReferenciaID),
		Fecha:         m.Fecha.Format(time.RFC3339),
	}
}

func toSesionCajaResponse(s *model.SesionCaja) dto.SesionCajaResponse {
	return dto.SesionCajaResponse{
		ID:            s.ID.String(),
		UsuarioID:     s.UsuarioID.String(),
		MontoApertura: s.MontoApertura,
		MontoCierre:   s.MontoCierre,
		MontoEsperado: s.MontoEsperado,
		Diferencia:    s.Diferencia,
		Estado:        s.Estado,
		OpenedAt:      s.OpenedAt.Format(time.RFC3339),
		ClosedAt:      timePtrToStr(s.ClosedAt),
	}
}

func toFlujoCajaResponse(f *model.FlujoCaja) dto.FlujoCajaResponse {
	return dto.FlujoCajaResponse{
		ID:          f.ID.String(),
		Direccion:   f.Direccion,
		Categoria:   f.Categoria,
		Monto:       f.Monto,
		VentaID:     uuidPtrToStr(f.VentaID),
		Descripcion: f.Descripcion,
		Notas:       f.Notas,
		Fecha:       f.Fecha.Format(time.RFC3339),
	}
}

func toRecetaResponses(recetas []model.Receta) []dto.RecetaResponse {
	out := make([]dto.RecetaResponse, 0, len(recetas))
	for _, r := range recetas {
		nombre := ""
		if r.Producto != nil {
			nombre = r.Producto.Nombre
		}
		out = append(out, dto.RecetaResponse{
			ID:                r.ID.String(),
			ProductoID:        r.ProductoID.String(),
			Producto:          nombre,
			CantidadNecesaria: r.CantidadNecesaria,
		})
	}
	return out
}

func toItemMenuResponse(item *model.ItemMenu, disponible int) dto.ItemMenuResponse {
	variantes := make([]dto.VarianteMenuResponse, 0, len(item.Variantes))
	for i := range item.Variantes {
		v := &item.Variantes[i]
		variantes = append(variantes, dto.VarianteMenuResponse{
			ID:      v.ID.String(),
			Nombre:  v.Nombre,
			Precio:  v.Precio,
			Recetas: toRecetaResponses(v.Recetas),
		})
	}
	return dto.ItemMenuResponse{
		ID:          item.ID.String(),
		Nombre:      item.Nombre,
		Descripcion: item.Descripcion,
		Precio:      item.Precio,
		Categoria:   item.Categoria,
		Activo:      item.Activo,
		Disponible:  disponible,
		Recetas:     toRecetaResponses(item.Recetas),
		Variantes:   variantes,
	}
}

func toSimpleResponse(ps *model.ProductoSimple, disponible int) dto.ProductoSimpleResponse {
	return dto.ProductoSimpleResponse{
		ID:             ps.ID.String(),
		Nombre:         ps.Nombre,
		Precio:         ps.Precio,
		ProductoID:     uuidPtrToStr(ps.ProductoID),
		CostoPorUnidad: ps.CostoPorUnidad,
		Activo:         ps.Activo,
		Disponible:     disponible,
	}
}

func toComboResponse(c *model.Combo, disponible int) dto.ComboResponse {
	componentes := make([]dto.ComponenteComboResponse, 0, len(c.Componentes))
	for i := range c.Componentes {
		comp := &c.Componentes[i]
		opciones := make([]dto.OpcionComboResponse, 0, len(comp.Opciones))
		for _, op := range comp.Opciones {
			opciones = append(opciones, dto.OpcionComboResponse{
				ID:           op.ID.String(),
				VendibleTipo: op.VendibleTipo,
				VendibleID:   op.VendibleID.String(),
				AjustePrecio: op.AjustePrecio,
				EsDefault:    op.EsDefault,
			})
		}
		componentes = append(componentes, dto.ComponenteComboResponse{
			ID:           comp.ID.String(),
			Nombre:       comp.Nombre,
			Tipo:         comp.Tipo,
			Cantidad:     comp.Cantidad,
			Requerido:    comp.Requerido,
			VendibleTipo: comp.VendibleTipo,
			VendibleID:   uuidPtrToStr(comp.VendibleID),
			Opciones:     opciones,
		})
	}
	return dto.ComboResponse{
		ID:          c.ID.String(),
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Precio:      c.Precio,
		Activo:      c.Activo,
		Disponible:  disponible,
		Componentes: componentes,
	}
}

func toMesaResponse(m *model.Mesa) dto.MesaResponse {
	return dto.MesaResponse{
		ID:        m.ID.String(),
		Numero:    m.Numero,
		Capacidad: m.Capacidad,
		Estado:    m.Estado,
		Activo:    m.Activo,
	}
}

func toUsuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Nombre:   u.Nombre,
		Email:    u.Email,
		Rol:      u.Rol,
		Activo:   u.Activo,
	}
}
