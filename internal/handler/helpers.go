package handler

import (
	"errors"
	"net/http"
	"reflect"

	"fondapos/internal/apierror"
	"fondapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps the service error taxonomy onto HTTP statuses. Transient
// processing failures hide the internal cause behind a generic 500.
func respondError(c *gin.Context, err error) {
	var (
		valErr   *service.ValidacionError
		resErr   *service.ResolucionError
		stockErr *service.StockInsuficienteError
		devErr   *service.DevolucionExcedidaError
		estErr   *service.EstadoInvalidoError
		procErr  *service.ProcesamientoError
	)
	switch {
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New("Recurso no encontrado"))
	case errors.As(err, &valErr), errors.As(err, &resErr):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.As(err, &stockErr), errors.As(err, &devErr), errors.As(err, &estErr):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &procErr):
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
