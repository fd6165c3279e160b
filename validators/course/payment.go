package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SubmitPaymentProof validates the payment proof form (multipart: method,
// amount, optional receipt file handled by the controller)
func SubmitPaymentProof() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Method string  `json:"method" form:"method" validate:"required,oneof=BANK_TRANSFER UPI CASH OTHER"`
			Amount float64 `json:"amount" form:"amount" validate:"required,gt=0"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			errors["payment"] = "Method must be BANK_TRANSFER, UPI, CASH or OTHER and amount must be positive!"
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedPaymentProof", reqData)
		return c.Next()
	}
}

// PaymentID validates the payment path param
func PaymentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		paymentID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Payment ID!", nil)
		}
		c.Locals("paymentID", paymentID)
		return c.Next()
	}
}

// ProcessPayment validates the decision body
func ProcessPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		paymentID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Payment ID!", nil)
		}

		reqData := new(struct {
			Decision string `json:"decision" validate:"required,oneof=approve reject"`
			Note     string `json:"note" validate:"max=1000"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			errors["decision"] = "Decision must be approve or reject!"
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("paymentID", paymentID)
		c.Locals("validatedPaymentDecision", reqData)
		return c.Next()
	}
}
