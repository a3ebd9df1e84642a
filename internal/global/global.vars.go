package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Shaen-ai/mapsy-backend/config"
	"github.com/Shaen-ai/mapsy-backend/internal/registry"
)

// CollectionName chứa tên các collection trong MongoDB
type CollectionName struct {
	WidgetConfigs string // Tên collection cho cấu hình widget theo (tenant, component)
	Locations     string // Tên collection cho địa điểm
}

// Các biến toàn cục
var Validate *validator.Validate          // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client         // Phiên kết nối tới MongoDB
var ServerConfig *config.Configuration    // Cấu hình của server
var ColNames = CollectionName{
	WidgetConfigs: "widget_configs",
	Locations:     "locations",
}

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections

// GetCollection lấy collection theo tên từ registry.
// Panic nếu collection chưa được đăng ký: đây là lỗi lập trình ở bước init,
// không phải lỗi runtime.
func GetCollection(name string) *mongo.Collection {
	col, exists := RegistryCollections.Get(name)
	if !exists {
		panic("collection chưa được đăng ký trong registry: " + name)
	}
	return col
}
