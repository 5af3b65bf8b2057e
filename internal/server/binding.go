package server

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

var cloidPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{32}$`)

// registerValidators adds the request-level tags shared by all handlers:
// "decimal" for positive decimal strings, "cloid" for 128-bit hex client
// order ids.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && d.IsPositive()
		})
		_ = v.RegisterValidation("cloid", func(fl validator.FieldLevel) bool {
			return cloidPattern.MatchString(fl.Field().String())
		})
	})
}
