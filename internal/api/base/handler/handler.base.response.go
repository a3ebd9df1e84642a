package basehdl

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Shaen-ai/mapsy-backend/internal/common"
)

// JSONResponse trả về JSON response với Content-Type: application/json; charset=utf-8
// để hỗ trợ UTF-8 encoding đúng cách trên mọi client nhúng.
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// HandleResponse xử lý và chuẩn hóa response trả về cho client.
// Đảm bảo format response thống nhất {code, message, data, status} trong toàn bộ ứng dụng.
func HandleResponse(c fiber.Ctx, data interface{}, err error) error {
	if err != nil {
		var customErr *common.Error
		if errors.As(err, &customErr) {
			return JSONResponse(c, customErr.StatusCode, fiber.Map{
				"code":    customErr.Code.Code,
				"message": customErr.Message,
				"details": customErr.Details,
				"status":  "error",
			})
		}
		// Không phải custom error: không leak chi tiết nội bộ
		return JSONResponse(c, common.StatusInternalServerError, fiber.Map{
			"code":    common.ErrCodeInternalServer.Code,
			"message": common.MsgInternalError,
			"status":  "error",
		})
	}

	return JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    data,
		"status":  "success",
	})
}

// HandleCreatedResponse như HandleResponse nhưng trả 201 khi thành công
func HandleCreatedResponse(c fiber.Ctx, data interface{}, err error) error {
	if err != nil {
		return HandleResponse(c, nil, err)
	}
	return JSONResponse(c, common.StatusCreated, fiber.Map{
		"code":    common.StatusCreated,
		"message": common.MsgCreated,
		"data":    data,
		"status":  "success",
	})
}
