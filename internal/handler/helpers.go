package handler

import (
	"errors"
	"net/http"
	"reflect"

	"printmonitor/internal/apierror"
	"printmonitor/internal/validacao"

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

	_ = validate.RegisterValidation("ipv4br", func(fl validator.FieldLevel) bool {
		return validacao.IPv4Valido(fl.Field().String())
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(camposInvalidos(err)))
		return false
	}
	return true
}

// bindQuery binds and validates query parameters for the JSON routes.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetros inválidos: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(camposInvalidos(err)))
		return false
	}
	return true
}

// bindForm binds an urlencoded form and validates it. The returned message is
// meant for the re-rendered form; it is empty when the form is valid.
func bindForm(c *gin.Context, form interface{}) string {
	if err := c.ShouldBind(form); err != nil {
		return "Formulário inválido"
	}
	if err := validate.Struct(form); err != nil {
		return mensagemValidacao(err)
	}
	return ""
}

func camposInvalidos(err error) map[string]string {
	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return fields
}

func mensagemValidacao(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Formulário inválido"
	}
	for _, fe := range ve {
		if fe.Tag() == "ipv4br" {
			return "IP inválido: informe um IPv4 válido"
		}
	}
	switch ve[0].Tag() {
	case "required":
		return "Preencha todos os campos obrigatórios"
	case "max":
		return "Campo " + ve[0].Field() + " muito longo"
	case "uuid":
		return "Selecione uma impressora"
	}
	return "Formulário inválido"
}
