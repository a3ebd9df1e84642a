package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Shaen-ai/mapsy-backend/internal/logger"
)

// EnsureWidgetIndexes tạo các index cho widget_configs và locations.
// Index unique trên widget_configs.key là nền tảng cho logic tạo config
// idempotent: hai request tạo đồng thời cùng key thì một insert thành công,
// request còn lại nhận duplicate-key và re-fetch.
func EnsureWidgetIndexes(widgetConfigs, locations *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log := logger.GetAppLogger()

	_, err := widgetConfigs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Tra cứu theo tenant (liệt kê widgets, propagate plan tier)
			Keys:    bson.D{{Key: "tenantId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			// Tra cứu theo component đơn lẻ (editor/preview mode)
			Keys:    bson.D{{Key: "componentId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		log.WithError(err).Error("Failed to create widget_configs indexes")
		return err
	}

	_, err = locations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// Truy vấn list chính: đúng cặp (tenant, component), mới nhất trước
			Keys: bson.D{
				{Key: "tenantId", Value: 1},
				{Key: "componentId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "componentId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		log.WithError(err).Error("Failed to create locations indexes")
		return err
	}

	log.Info("Widget indexes ensured")
	return nil
}
