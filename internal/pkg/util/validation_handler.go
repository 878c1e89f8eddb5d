package util

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	hexColorRegex        = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	twitterUsernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{1,15}$`)
	variableNameRegex    = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// ValidationError 校验失败，只携带首个失败字段
type ValidationError struct {
	Field string
	Tag   string
}

func (e *ValidationError) Error() string {
	return "字段 [" + e.Field + "] 校验失败，规则 [" + e.Tag + "]"
}

type enumValue interface {
	IsValid() bool
}

func init() {
	validate = validator.New()

	// 错误信息里使用 json / form 中的字段名
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(key), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	_ = validate.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
		return hexColorRegex.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("twitter_username", func(fl validator.FieldLevel) bool {
		return twitterUsernameRegex.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	_ = validate.RegisterValidation("template_vars", func(fl validator.FieldLevel) bool {
		return ValidTemplateVariables(fl.Field().String())
	})
	_ = validate.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		v, ok := fl.Field().Interface().(enumValue)
		return ok && v.IsValid()
	})
}

func ValidateDTO(dto any) error {
	if err := validate.Struct(dto); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			firstError := vErrs[0]
			return &ValidationError{
				Field: firstError.Field(),
				Tag:   firstError.Tag(),
			}
		}
		return err
	}
	return nil
}

// IsStrongPassword 至少包含一个大写字母、一个小写字母和一个数字
func IsStrongPassword(s string) bool {
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// ValidTemplateVariables 内容中每个 {{...}} 都必须是合法变量名
func ValidTemplateVariables(content string) bool {
	for _, m := range variableRegex.FindAllStringSubmatch(content, -1) {
		if !variableNameRegex.MatchString(strings.TrimSpace(m[1])) {
			return false
		}
	}
	return true
}
