package validator

import (
	"log"

	"timebridge_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует доменные правила валидации.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Без кастомных правил приложение работать не должно
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-post-id': идентификатор объявления вида m0000001 / f0000001
	mustRegister("is-post-id", validatePostID)

	// 'is-post-kind': числовой код вида объявления (1=family, 2=missing)
	mustRegister("is-post-kind", validatePostKind)

	// 'is-gender-code': числовой код пола (1=male, 2=female)
	mustRegister("is-gender-code", validateGenderCode)
}

func validatePostID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые проверяет 'required'
	}
	_, err := models.ParsePostID(value)
	return err == nil
}

func validatePostKind(fl validator.FieldLevel) bool {
	value := int(fl.Field().Int())
	if value == 0 {
		return true
	}
	_, err := models.KindFromType(value)
	return err == nil
}

func validateGenderCode(fl validator.FieldLevel) bool {
	value := int(fl.Field().Int())
	if value == 0 {
		return true
	}
	return models.ValidGenderID(value)
}
