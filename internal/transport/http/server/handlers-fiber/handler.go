// Package handlers_fiber wires HTTP delivery components.
package handlers_fiber

import (
	"reflect"
	"strings"

	"github.com/Aadyothcoding/ece-project-connect/internal/usecase"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler implements oapi.ServerInterface using usecase layer interfaces.
type Handler struct {
	log      *zap.SugaredLogger
	uc       usecase.InterfaceUsecase
	validate *validator.Validate
}

// NewHandler constructs an HTTP handler with usecase dependencies.
func NewHandler(log *zap.SugaredLogger, usecase usecase.InterfaceUsecase) *Handler {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		log:      log.Named("http"),
		uc:       usecase,
		validate: validate,
	}
}
