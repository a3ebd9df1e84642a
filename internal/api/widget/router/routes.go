// Package router đăng ký các route thuộc domain widget.
//
// Toàn bộ API contract nằm ở root path (không version prefix): widget nhúng
// và dashboard gọi thẳng /locations, /config, /widget-data, ... Mọi route
// (trừ /health) đi qua identity middleware để phân giải (tenant, component).
package router

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Shaen-ai/mapsy-backend/config"
	basehdl "github.com/Shaen-ai/mapsy-backend/internal/api/base/handler"
	"github.com/Shaen-ai/mapsy-backend/internal/api/middleware"
	apirouter "github.com/Shaen-ai/mapsy-backend/internal/api/router"
	widgethdl "github.com/Shaen-ai/mapsy-backend/internal/api/widget/handler"
	widgetsvc "github.com/Shaen-ai/mapsy-backend/internal/api/widget/service"
	"github.com/Shaen-ai/mapsy-backend/internal/blobstore"
	"github.com/Shaen-ai/mapsy-backend/internal/geocode"
	"github.com/Shaen-ai/mapsy-backend/internal/global"
	"github.com/Shaen-ai/mapsy-backend/internal/logger"
)

// buildGeocoder dựng geocoder client từ config; base URL rỗng = tắt geocoding
func buildGeocoder(cfg *config.Configuration) geocode.Geocoder {
	if cfg.GeocoderBaseURL == "" {
		return nil
	}
	return geocode.NewClient(cfg.GeocoderBaseURL, time.Duration(cfg.GeocoderTimeoutMs)*time.Millisecond)
}

// buildBlobStore dựng blob store từ config.
// Thiếu credentials blob store ngoài thì rơi về lưu trữ local trên đĩa.
func buildBlobStore(cfg *config.Configuration) blobstore.Store {
	if cfg.BlobStoreBaseURL != "" && cfg.BlobStoreAPIKey != "" {
		return blobstore.NewRemoteStore(cfg.BlobStoreBaseURL, cfg.BlobStoreAPIKey)
	}

	store, err := blobstore.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		logger.GetErrorLogger().WithError(err).Warn("Không tạo được local blob store, ảnh địa điểm sẽ bị bỏ qua")
		return nil
	}
	logger.GetAppLogger().Info("Blob store ngoài chưa cấu hình, dùng lưu trữ local cho ảnh địa điểm")
	return store
}

// Register đăng ký toàn bộ route của domain widget.
func Register(root fiber.Router, r *apirouter.Router) error {
	cfg := global.ServerConfig

	configService, err := widgetsvc.NewConfigService()
	if err != nil {
		return fmt.Errorf("create config service: %w", err)
	}
	locationService, err := widgetsvc.NewLocationService(buildGeocoder(cfg), buildBlobStore(cfg))
	if err != nil {
		return fmt.Errorf("create location service: %w", err)
	}

	locationHandler := widgethdl.NewLocationHandler(locationService)
	configHandler := widgethdl.NewConfigHandler(configService)
	dataHandler := widgethdl.NewWidgetDataHandler(configService, locationService)

	systemHandler, err := basehdl.NewSystemHandler()
	if err != nil {
		return fmt.Errorf("create system handler: %w", err)
	}

	identityChain := []fiber.Handler{middleware.Identity()}

	// Locations CRUD
	apirouter.RegisterRouteWithMiddleware(root, "/locations", "GET", "/", identityChain, locationHandler.HandleList)
	apirouter.RegisterRouteWithMiddleware(root, "/locations", "POST", "/", identityChain, locationHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(root, "/locations", "GET", "/:id", identityChain, locationHandler.HandleFindById)
	apirouter.RegisterRouteWithMiddleware(root, "/locations", "PUT", "/:id", identityChain, locationHandler.HandleUpdate)
	apirouter.RegisterRouteWithMiddleware(root, "/locations", "DELETE", "/:id", identityChain, locationHandler.HandleDelete)

	// Widget config
	apirouter.RegisterRouteWithMiddleware(root, "/config", "GET", "/", identityChain, configHandler.HandleGetConfig)
	apirouter.RegisterRouteWithMiddleware(root, "/config", "PUT", "/", identityChain, configHandler.HandleUpdateConfig)
	apirouter.RegisterRouteWithMiddleware(root, "/widgets", "GET", "/", identityChain, configHandler.HandleListWidgets)

	// Payload render + chẩn đoán
	apirouter.RegisterRouteWithMiddleware(root, "/widget-data", "GET", "/", identityChain, dataHandler.HandleWidgetData)
	apirouter.RegisterRouteWithMiddleware(root, "/auth-info", "GET", "/", identityChain, dataHandler.HandleAuthInfo)
	apirouter.RegisterRouteWithMiddleware(root, "/premium-status", "GET", "/", identityChain, dataHandler.HandlePremiumStatus)

	// Health check không qua identity middleware
	apirouter.RegisterRouteWithMiddleware(root, "/health", "GET", "/", nil, systemHandler.HandleHealth)

	return nil
}
