package handler

import (
	"github.com/go-playground/validator/v10"
)

// echo.Validator の実装
type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (rv *RequestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

// バリデーションエラーを1行の文言にする（最初の1件だけ）
func validationMessage(err error) string {
	if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
		fe := ves[0]
		return "invalid " + fe.Namespace() + " (" + fe.Tag() + ")"
	}
	return "invalid body"
}
