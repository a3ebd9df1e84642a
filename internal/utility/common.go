package utility

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// String2ObjectID chuyển chuỗi hex thành ObjectID.
// Chuỗi không hợp lệ trả về ObjectID zero (caller kiểm tra qua IsZero).
func String2ObjectID(id string) primitive.ObjectID {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return objectID
}

// CurrentTimeInMilli dùng để lấy thời gian hiện tại tính bằng mili giây
func CurrentTimeInMilli() int64 {
	return time.Now().UnixMilli()
}
