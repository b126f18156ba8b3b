// Пакет для валидации данных, используемых в Planboard. Содержит валидаторы для различных полей, таких как имя проекта, подпись колонки, имя роли и т.д. Использует библиотеку go-playground/validator для выполнения проверок. Также включает в себя регулярные выражения для проверки соответствия формату данных.
//
// Основные возможности:
//   - Валидация различных полей данных с использованием предопределенных валидаторов.
//   - Настройка валидаторов для конкретных полей.
//   - Использование регулярных выражений для проверки формата данных.
package planboard

import (
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator"
)

type RequestValidator struct {
	validator *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	err := v.RegisterValidation("projectName", projectNameValidator)
	if err != nil {
		return nil
	}

	err = v.RegisterValidation("statusLabel", statusLabelValidator)
	if err != nil {
		return nil
	}

	err = v.RegisterValidation("roleName", roleNameValidator)
	if err != nil {
		return nil
	}

	err = v.RegisterValidation("teamName", teamNameValidator)
	if err != nil {
		return nil
	}
	return &RequestValidator{v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.validator.Struct(i); err != nil {
		_, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil
		}
		return err
	}
	return nil
}

func projectNameValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	lenStr := utf8.RuneCountInString(value)
	if !isValidLatinCyrillicDigitWithSymbol(value) {
		return false
	}

	return lenStr >= 1 && lenStr <= 100
}

func statusLabelValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	lenStr := utf8.RuneCountInString(value)
	if !isValidLatinCyrillicDigitWithSymbol(value) {
		return false
	}
	return lenStr >= 1 && lenStr <= 50
}

func roleNameValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	lenStr := utf8.RuneCountInString(value)
	if !isValidLatinCyrillicDigitHyphen(value) {
		return false
	}
	return lenStr >= 1 && lenStr <= 50
}

func teamNameValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	lenStr := utf8.RuneCountInString(value)
	if !isValidLatinCyrillicDigitWithSymbol(value) {
		return false
	}
	return lenStr >= 1 && lenStr <= 100
}

// Validate
func isValidLatinCyrillicDigitWithSymbol(str string) bool {
	pt := `^[A-Za-zА-Яа-яёЁ0-9 ._\/\-\\!#\$%&'\"\(\)\*\+,\-.:;№<=>?@\[\\\]\^_\{\|\}~]+$`
	re := regexp.MustCompile(pt)
	return re.MatchString(str)
}

func isValidLatinCyrillicDigitHyphen(str string) bool {
	pt := `^[A-Za-zА-Яа-яёЁ0-9_-]+$`
	re := regexp.MustCompile(pt)
	return re.MatchString(str)
}
