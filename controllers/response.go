package controllers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"fiber-erp/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func ok(ctx *fiber.Ctx, status int, message string, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"success": true, "message": message, "data": data})
}

func fail(ctx *fiber.Ctx, status int, message string, err error) error {
	body := fiber.Map{"success": false, "message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	return ctx.Status(status).JSON(body)
}

// respondError maps service errors onto HTTP status codes.
func respondError(ctx *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return fail(ctx, fiber.StatusBadRequest, "Validation failed", err)
	case errors.Is(err, services.ErrNotFound):
		return fail(ctx, fiber.StatusNotFound, "Not found", err)
	case errors.Is(err, services.ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		return fail(ctx, fiber.StatusConflict, "Conflict", err)
	case errors.Is(err, services.ErrInsufficientStock):
		return fail(ctx, fiber.StatusUnprocessableEntity, "Insufficient stock", err)
	default:
		return fail(ctx, fiber.StatusInternalServerError, "Internal server error", err)
	}
}

// bind parses the JSON body into dst and runs its validate tags.
// On failure it has already written the 400 response.
func bind(ctx *fiber.Ctx, dst interface{}) (bool, error) {
	if err := ctx.BodyParser(dst); err != nil {
		return false, fail(ctx, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return false, ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Validation failed",
				"error":   fieldMessages(fieldErrs)[0],
				"errors":  fieldMessages(fieldErrs),
			})
		}
		return false, fail(ctx, fiber.StatusBadRequest, "Validation failed", err)
	}
	return true, nil
}

func fieldMessages(errs validator.ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			out = append(out, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "gt", "gte", "min":
			out = append(out, fmt.Sprintf("%s must be %s %s", fe.Field(), fe.Tag(), fe.Param()))
		default:
			out = append(out, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return out
}

func idParam(ctx *fiber.Ctx, name string) (uint, error) {
	raw := ctx.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fail(ctx, fiber.StatusBadRequest, "Invalid ID", fmt.Errorf("%s %q is not a positive integer", name, raw))
	}
	return uint(id), nil
}

func uintQuery(ctx *fiber.Ctx, name string) uint {
	v, err := strconv.ParseUint(ctx.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}
