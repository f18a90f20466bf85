package handlers

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/intern-management-api/internal/errors"
	"github.com/yukikurage/intern-management-api/internal/services"
)

var registerTagNames sync.Once

// useRequestFieldNames makes validation errors report json, form or uri
// names instead of Go field names.
func useRequestFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form", "uri"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return field.Name
		})
	})
}

// internalError records the cause for the request logger and hides it from the client
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	apierrors.InternalError(c, "")
}

// respondBindError answers 400 for a body that failed to bind, listing the
// offending fields when validation rejected it
func respondBindError(c *gin.Context, err error, message string) {
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		apierrors.BadRequest(c, message)
		return
	}

	fields := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		fields = append(fields, fe.Field())
	}
	apierrors.BadRequestWithDetails(c, message, gin.H{"fields": fields})
}

// respondValidationError answers 400 for errors a service raises before touching storage
func respondValidationError(c *gin.Context, err error) bool {
	var missing *services.MissingFieldError
	switch {
	case errors.As(err, &missing):
		apierrors.MissingField(c, missing.Field)
		return true
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrNoFieldsToUpdate):
		apierrors.BadRequest(c, err.Error())
		return true
	}
	return false
}
