package middleware

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/pkg/validation"
)

// RegisterValidators installs the custom rules on gin's validator and reports
// field names by their JSON or form tag.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return validation.RegisterCustomRules(v)
}

// BindJSON binds the request body into obj and writes a 400 on failure.
// It returns false when the handler should stop.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// BindQuery binds query parameters into obj and writes a 400 on failure
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// BindForm binds a urlencoded or multipart form, writing a 400 on failure
func BindForm(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindWith(obj, binding.FormMultipart); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}
