package handler

import (
	"net/http"
	"reflect"

	"farmacia/internal/apierror"
	"farmacia/internal/middleware"
	"farmacia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
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
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindFormAndValidate is the multipart/form-data counterpart of
// bindAndValidate, used by the medicine endpoints that carry image files.
func bindFormAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Formulário inválido: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindQueryAndValidate binds the query string and runs validator tags.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
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

// parseID parses the :id path param; writes a 400 on failure.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// atorFrom extracts the acting user's identity from the JWT claims.
func atorFrom(c *gin.Context) service.Identity {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Identity{}
	}
	id, _ := uuid.Parse(claims.UserID)
	return service.Identity{ID: id, Nome: claims.Nome}
}

// respondError maps a service error to the HTTP status of its kind.
// Unclassified errors become an opaque 500 — internals are logged, not leaked.
func respondError(c *gin.Context, err error) {
	kind, ok := service.KindOf(err)
	if !ok {
		log.Error().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Err(err).
			Msg("erro interno")
		c.JSON(http.StatusInternalServerError, apierror.New("Erro interno do servidor"))
		return
	}
	switch kind {
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case service.KindBusinessRule:
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case service.KindConflict:
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case service.KindTransient:
		c.JSON(http.StatusServiceUnavailable, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("Erro interno do servidor"))
	}
}
