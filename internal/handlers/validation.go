package handlers

import (
	"sync"

	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the LGPD enum rules to gin's binding validator
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		_ = v.RegisterValidation("consent_type", func(fl validator.FieldLevel) bool {
			return models.ConsentType(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("request_type", func(fl validator.FieldLevel) bool {
			return models.RequestType(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("request_status", func(fl validator.FieldLevel) bool {
			return models.RequestStatus(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("processing_activity", func(fl validator.FieldLevel) bool {
			return models.ProcessingActivity(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("legal_basis", func(fl validator.FieldLevel) bool {
			return models.LegalBasis(fl.Field().String()).IsValid()
		})
	})
}
