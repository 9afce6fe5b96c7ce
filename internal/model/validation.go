package model

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/seikotsu/booking-api/internal/schedule"
)

// RegisterValidators installs the booking-specific binding rules:
// "bookdate" for wire-format calendar dates and "slot" for entries of
// the clinic's slot table.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("bookdate", func(fl validator.FieldLevel) bool {
		return schedule.IsValidDate(fl.Field().String())
	})
	v.RegisterValidation("slot", func(fl validator.FieldLevel) bool {
		return schedule.IsValidSlot(fl.Field().String())
	})
}
