package global

import (
	"github.com/go-playground/validator/v10"

	"github.com/Shaen-ai/mapsy-backend/internal/common"
)

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New()
}

// ValidateStruct xác thực một struct theo tag validate và trả về lỗi VAL_001
// kèm chi tiết theo từng field để client biết field nào sai.
func ValidateStruct(s interface{}) error {
	if Validate == nil {
		InitValidator()
	}

	err := Validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return common.ErrInvalidInput
	}

	// Gom lỗi theo field: {"name": "required", "category": "oneof"}
	details := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		details[fieldErr.Field()] = fieldErr.Tag()
	}

	return common.NewError(
		common.ErrCodeValidationInput,
		common.MsgValidationError,
		common.StatusBadRequest,
		details,
	)
}
