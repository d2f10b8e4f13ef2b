package utils

import (
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// CreateError stops the request with the shared {error, message} body.
func CreateError(statusCode int, code string, message string, ctx iris.Context) {
	ctx.StopWithJSON(statusCode, iris.Map{"error": code, "message": message})
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "Internal Server Error", "An internal server error occurred", ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "Not Found", "The requested resource was not found", ctx)
}

func CreateForbidden(ctx iris.Context, message string) {
	CreateError(iris.StatusForbidden, "Forbidden", message, ctx)
}

func CreateConflict(ctx iris.Context, message string) {
	CreateError(iris.StatusConflict, "Conflict", message, ctx)
}

func CreateEmailAlreadyRegistered(ctx iris.Context) {
	CreateError(iris.StatusConflict, "Conflict", "Email already registered", ctx)
}

type validationError struct {
	ActualTag string `json:"tag"`
	Namespace string `json:"namespace"`
	Kind      string `json:"kind"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	Param     string `json:"param"`
}

func wrapValidationErrors(errs validator.ValidationErrors) []validationError {
	validationErrors := make([]validationError, 0, len(errs))
	for _, validationErr := range errs {
		validationErrors = append(validationErrors, validationError{
			ActualTag: validationErr.ActualTag(),
			Namespace: validationErr.Namespace(),
			Kind:      validationErr.Kind().String(),
			Type:      validationErr.Type().String(),
			Value:     fmtValue(validationErr.Value()),
			Param:     validationErr.Param(),
		})
	}
	return validationErrors
}

func fmtValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// HandleValidationErrors converts validator failures into a 400 payload;
// anything else becomes a 500.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{
			"error":   "Validation Error",
			"message": "One or more fields failed to be validated",
			"fields":  wrapValidationErrors(errs),
		})
		return
	}
	CreateError(iris.StatusBadRequest, "Bad Request", "Invalid request payload", ctx)
}
