package validator

import (
	"fmt"
	"reflect"
	"strings"

	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/domain/rbac"
	"streamhub/proj/internal/utils"

	govalidator "github.com/go-playground/validator/v10"
)

// New returns a validator that reports fields by their json names and knows the
// domain enums.
func New() *govalidator.Validate {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	v.RegisterValidation("role", ValidateRole)
	v.RegisterValidation("contenttype", ValidateContentType)
	v.RegisterValidation("servertype", ValidateServerType)
	return v
}

func jsonFieldName(field reflect.StructField) string {
	if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
		if name := strings.Split(tag, ",")[0]; name != "" {
			return name
		}
	}
	if tag := field.Tag.Get("schema"); tag != "" && tag != "-" {
		return strings.Split(tag, ",")[0]
	}
	return utils.CamelToSnake(field.Name)
}

// fieldPath drops the root struct name from the namespace:
// "createContentRequest.seasons[0].episodes[1].title" -> "seasons[0].episodes[1].title".
func fieldPath(e govalidator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func ProcessValidationErrors(obj any, errs govalidator.ValidationErrors) map[string]string {
	processedErrors := make(map[string]string)
	for _, e := range errs {
		processedErrors[fieldPath(e)] = GetErrorMsgForField(obj, e)
	}
	return processedErrors
}

func ValidateStruct(validator *govalidator.Validate, obj any) (validationErrs map[string]string) {
	if err := validator.Struct(obj); err != nil {
		if verrs, ok := err.(govalidator.ValidationErrors); ok {
			validationErrs = ProcessValidationErrors(obj, verrs)
		} else {
			validationErrs = map[string]string{"_": err.Error()}
		}
	}
	return
}

// GetErrorMsgForField prefers an `errorMsg` struct tag on top-level fields and
// falls back to a message derived from the failed rule.
func GetErrorMsgForField(obj any, err govalidator.FieldError) (errorMsg string) {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Kind() == reflect.Struct {
		if field, found := t.FieldByName(err.StructField()); found {
			errorMsg = field.Tag.Get("errorMsg")
		}
	}
	if errorMsg != "" {
		return
	}
	switch err.Tag() {
	case "required":
		errorMsg = "This field is required"
	case "max":
		errorMsg = fmt.Sprintf("The maximum value is %s", err.Param())
	case "min":
		errorMsg = fmt.Sprintf("The minimum value is %s", err.Param())
	case "gte":
		errorMsg = fmt.Sprintf("Value should be greater than or equal to %s", err.Param())
	case "lte":
		errorMsg = fmt.Sprintf("Value should be less than or equal to %s", err.Param())
	case "lt":
		errorMsg = fmt.Sprintf("Value should be less than %s", err.Param())
	case "gt":
		errorMsg = fmt.Sprintf("Value should be greater than %s", err.Param())
	case "oneof":
		errorMsg = fmt.Sprintf("Value should be one of %s", err.Param())
	case "len":
		errorMsg = fmt.Sprintf("Length should be equal to %s", err.Param())
	case "unique":
		errorMsg = "Value must not contain duplicate values"
	case "url":
		errorMsg = "Value must be a valid URL"
	case "email":
		errorMsg = "Value must be a valid email address"
	case "uuid", "uuid4":
		errorMsg = "Value must be a valid UUID"
	case "role":
		errorMsg = "Value must be one of MEMBER, STAFF, MANAGER, ADMIN, OWNER"
	case "contenttype":
		errorMsg = "Value must be one of MOVIE, SERIES"
	case "servertype":
		errorMsg = "Value must be one of GOOGLE_DRIVE, VIDMOLY, CUSTOM"
	default:
		errorMsg = "This field is invalid"
	}
	return
}

// CUSTOM VALIDATORS

func ValidateRole(fl govalidator.FieldLevel) bool {
	return rbac.Role(fl.Field().String()).IsValid()
}

func ValidateContentType(fl govalidator.FieldLevel) bool {
	switch models.ContentType(fl.Field().String()) {
	case models.ContentMovie, models.ContentSeries:
		return true
	}
	return false
}

// ValidateServerType accepts an empty value; use `required` to forbid it.
func ValidateServerType(fl govalidator.FieldLevel) bool {
	switch models.ServerType(fl.Field().String()) {
	case "", models.ServerGoogleDrive, models.ServerVidmoly, models.ServerCustom:
		return true
	}
	return false
}
