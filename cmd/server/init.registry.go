package main

import (
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Shaen-ai/mapsy-backend/config"
	"github.com/Shaen-ai/mapsy-backend/internal/database"
	"github.com/Shaen-ai/mapsy-backend/internal/global"
)

// InitRegistry khởi tạo registry collections và các index cần thiết
func InitRegistry() {
	if err := InitCollections(global.MongoDB_Session, global.ServerConfig); err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Info("Initialized collection registry")
}

// InitCollections đăng ký các collections MongoDB và đảm bảo index.
// Unique index trên widget_configs.key là nền của upsert/create idempotent,
// bắt buộc phải có trước khi nhận request.
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName)

	colNames := []string{
		global.ColNames.WidgetConfigs,
		global.ColNames.Locations,
	}
	for _, name := range colNames {
		if _, err := global.RegistryCollections.Register(name, db.Collection(name)); err != nil {
			logrus.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}
		logrus.Infof("Collection %s registered successfully", name)
	}

	if err := database.EnsureWidgetIndexes(
		db.Collection(global.ColNames.WidgetConfigs),
		db.Collection(global.ColNames.Locations),
	); err != nil {
		return err
	}
	logrus.Info("Ensured collection indexes")

	return nil
}
