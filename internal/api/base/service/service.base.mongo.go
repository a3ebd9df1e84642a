// Package basesvc cung cấp các service cơ bản cho việc tương tác với MongoDB
package basesvc

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Shaen-ai/mapsy-backend/internal/common"
	"github.com/Shaen-ai/mapsy-backend/internal/utility"
)

// ====================================
// INTERFACE VÀ STRUCT
// ====================================

// BaseServiceMongo định nghĩa interface chứa các phương thức cơ bản cho việc
// tương tác với MongoDB. Các domain service nhận subset của interface này
// (accept interfaces) nên test có thể thay bằng fake in-memory.
type BaseServiceMongo[Model any] interface {
	InsertOne(ctx context.Context, data Model) (Model, error)

	FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (Model, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]Model, error)
	FindOneById(ctx context.Context, id primitive.ObjectID) (Model, error)

	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts *options.UpdateOptions) (Model, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts *options.UpdateOptions) (int64, error)
	UpdateById(ctx context.Context, id primitive.ObjectID, update interface{}) (Model, error)

	DeleteById(ctx context.Context, id primitive.ObjectID) error

	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	DocumentExists(ctx context.Context, filter interface{}) (bool, error)
}

// BaseServiceMongoImpl định nghĩa struct triển khai các phương thức cơ bản cho service
type BaseServiceMongoImpl[T any] struct {
	collection *mongo.Collection // Collection MongoDB
}

// NewBaseServiceMongo tạo mới một BaseServiceMongoImpl trên một collection
func NewBaseServiceMongo[T any](collection *mongo.Collection) *BaseServiceMongoImpl[T] {
	return &BaseServiceMongoImpl[T]{
		collection: collection,
	}
}

// Collection trả về collection MongoDB (dùng khi domain service cần truy cập trực tiếp)
func (s *BaseServiceMongoImpl[T]) Collection() *mongo.Collection {
	return s.collection
}

// normalizeUpdate đảm bảo update document có operator: map thường được wrap
// trong $set, map đã có operator ($set, $unset, ...) giữ nguyên.
func normalizeUpdate(update interface{}) (interface{}, error) {
	dataMap, err := utility.ToMap(update)
	if err != nil {
		return nil, common.ErrInvalidFormat
	}
	for key := range dataMap {
		if len(key) > 0 && key[0] == '$' {
			// Đã là update document với operator
			return dataMap, nil
		}
	}
	return bson.M{"$set": dataMap}, nil
}

// stampUpdatedAt chèn updatedAt vào $set của update document
func stampUpdatedAt(update interface{}) interface{} {
	dataMap, ok := update.(map[string]interface{})
	if !ok {
		return update
	}
	set, ok := dataMap["$set"].(map[string]interface{})
	if !ok {
		set = map[string]interface{}{}
	}
	set["updatedAt"] = time.Now().UnixMilli()
	dataMap["$set"] = set
	return dataMap
}

// ====================================
// NHÓM 1: THAO TÁC INSERT
// ====================================

// InsertOne tạo mới một bản ghi trong database
func (s *BaseServiceMongoImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T

	// Chuyển data thành map để thêm timestamps
	dataMap, err := utility.ToMap(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}

	// Loại bỏ các field empty string để sparse index hoạt động đúng:
	// sparse index chỉ bỏ qua field không tồn tại, không bỏ qua empty string.
	// Đây cũng là nền của scoping: bản ghi unscoped KHÔNG có field tenantId/
	// componentId chứ không phải mang giá trị rỗng.
	for key, value := range dataMap {
		if strValue, ok := value.(string); ok && strValue == "" {
			delete(dataMap, key)
		}
	}

	// Thêm timestamps
	now := time.Now().UnixMilli()
	dataMap["createdAt"] = now
	dataMap["updatedAt"] = now

	result, err := s.collection.InsertOne(ctx, dataMap)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	// Lấy lại document vừa tạo
	var created T
	err = s.collection.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	return created, nil
}

// ====================================
// NHÓM 2: THAO TÁC FIND
// ====================================

// FindOne tìm một document theo điều kiện lọc
func (s *BaseServiceMongoImpl[T]) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (T, error) {
	var zero T
	var result T

	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.FindOne()
	}

	findResult := s.collection.FindOne(ctx, filter, opts)
	if err := findResult.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, common.ErrNotFound
		}
		return zero, common.ConvertMongoError(err)
	}

	if err := findResult.Decode(&result); err != nil {
		// Lỗi decode BSON là lỗi format, không phải lỗi MongoDB command
		return zero, common.NewError(
			common.ErrCodeValidationFormat,
			"Lỗi định dạng dữ liệu khi decode từ MongoDB",
			common.StatusBadRequest,
			nil,
		)
	}

	return result, nil
}

// Find tìm tất cả bản ghi theo điều kiện lọc
func (s *BaseServiceMongoImpl[T]) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Find()
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var results []T
	if err = cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	// Đảm bảo luôn trả về mảng, không phải nil
	if results == nil {
		results = []T{}
	}

	return results, nil
}

// FindOneById tìm document theo ObjectID
func (s *BaseServiceMongoImpl[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return s.FindOne(ctx, bson.M{"_id": id}, nil)
}

// ====================================
// NHÓM 3: THAO TÁC UPDATE
// ====================================

// UpdateOne cập nhật một document và trả về bản ghi sau cập nhật
func (s *BaseServiceMongoImpl[T]) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts *options.UpdateOptions) (T, error) {
	var zero T

	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Update().SetUpsert(false)
	}

	normalized, err := normalizeUpdate(update)
	if err != nil {
		return zero, err
	}
	normalized = stampUpdatedAt(normalized)

	result, err := s.collection.UpdateOne(ctx, filter, normalized, opts)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return zero, common.ErrNotFound
	}

	return s.FindOne(ctx, filter, nil)
}

// UpdateMany cập nhật nhiều document, trả về số bản ghi đã sửa
func (s *BaseServiceMongoImpl[T]) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts *options.UpdateOptions) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Update()
	}

	normalized, err := normalizeUpdate(update)
	if err != nil {
		return 0, err
	}
	normalized = stampUpdatedAt(normalized)

	result, err := s.collection.UpdateMany(ctx, filter, normalized, opts)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}

	return result.ModifiedCount, nil
}

// UpdateById cập nhật document theo ObjectID
func (s *BaseServiceMongoImpl[T]) UpdateById(ctx context.Context, id primitive.ObjectID, update interface{}) (T, error) {
	return s.UpdateOne(ctx, bson.M{"_id": id}, update, nil)
}

// ====================================
// NHÓM 4: THAO TÁC DELETE
// ====================================

// DeleteById xóa document theo ObjectID
func (s *BaseServiceMongoImpl[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ====================================
// NHÓM 5: CÁC THAO TÁC KHÁC
// ====================================

// CountDocuments đếm số document theo điều kiện lọc
func (s *BaseServiceMongoImpl[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}

// DocumentExists kiểm tra document có tồn tại không
func (s *BaseServiceMongoImpl[T]) DocumentExists(ctx context.Context, filter interface{}) (bool, error) {
	count, err := s.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
