package response

import "github.com/gofiber/fiber/v3"

// ErrorBody is the error shape the dashboard expects.
type ErrorBody struct {
	Detail string `json:"detail"`
}

const (
	MessageBadRequest          = "Bad request"
	MessageNotFound            = "Not found"
	MessageUnprocessableEntity = "Unprocessable entity"
	MessageServiceUnavailable  = "Service unavailable"
	MessageInternalServerError = "Internal server error"
	MessageError               = "Error"
)

// Success writes data as the bare JSON body.
func Success(c fiber.Ctx, status int, data interface{}) error {
	return c.Status(normalizeStatus(status)).JSON(data)
}

func Error(c fiber.Ctx, status int, detail string) error {
	st := normalizeStatus(status)
	if detail == "" {
		detail = DefaultMessageForStatus(st)
	}
	return c.Status(st).JSON(ErrorBody{Detail: detail})
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func DefaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusUnprocessableEntity:
		return MessageUnprocessableEntity
	case fiber.StatusServiceUnavailable:
		return MessageServiceUnavailable
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageError
	}
}
