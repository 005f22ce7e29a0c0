package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
	Kind        reflect.Kind
}

// 最初のエラーをそのまま400のメッセージにする
func (e *ErrorResponse) Message() string {
	switch e.Tag {
	case "required", "notblank":
		return e.FailedField + " required"
	case "min", "gte":
		if e.Kind == reflect.Slice || e.Kind == reflect.Array {
			return e.FailedField + " required"
		}
		return fmt.Sprintf("%s must be >= %s", e.FailedField, e.Value)
	case "max", "lte":
		if e.Kind == reflect.String {
			return e.FailedField + " too long"
		}
		return fmt.Sprintf("%s must be <= %s", e.FailedField, e.Value)
	default:
		return "invalid " + e.FailedField
	}
}

var validate = validator.New()

func init() {
	//エラーのフィールド名はJSONの名前で出す
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	//空白だけの文字列も未入力扱い
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.String {
			return false
		}
		return strings.TrimSpace(f.String()) != ""
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return []*ErrorResponse{{FailedField: "body", Tag: "invalid"}}
	}
	for _, fe := range ves {
		errs = append(errs, &ErrorResponse{
			FailedField: fieldPath(fe.Namespace()),
			Tag:         fe.Tag(),
			Value:       fe.Param(),
			Kind:        fe.Kind(),
		})
	}
	return errs
}

// "PurchaseRequest.products[0].quantity" -> "products[0].quantity"
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// EchoValidatorはecho.Validatorとしてc.Validateから使う
type EchoValidator struct{}

func (EchoValidator) Validate(i interface{}) error {
	if errs := ValidateStruct(i); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

type ValidationError struct {
	Fields []*ErrorResponse
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid request"
	}
	return e.Fields[0].Message()
}
