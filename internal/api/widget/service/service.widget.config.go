package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "github.com/Shaen-ai/mapsy-backend/internal/api/base/service"
	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/dto"
	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/models"
	"github.com/Shaen-ai/mapsy-backend/internal/common"
	"github.com/Shaen-ai/mapsy-backend/internal/global"
	"github.com/Shaen-ai/mapsy-backend/internal/identity"
)

// ConfigRepository subset của BaseServiceMongo mà ConfigService cần.
// Nhận interface hẹp để test thay được bằng fake in-memory.
type ConfigRepository interface {
	InsertOne(ctx context.Context, data models.WidgetConfig) (models.WidgetConfig, error)
	FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (models.WidgetConfig, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.WidgetConfig, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts *options.UpdateOptions) (models.WidgetConfig, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts *options.UpdateOptions) (int64, error)
}

// ConfigService xử lý tra cứu và cập nhật widget config theo danh tính request
type ConfigService struct {
	repo ConfigRepository
}

// NewConfigService tạo service trên collection đã đăng ký trong registry
func NewConfigService() (*ConfigService, error) {
	col, exists := global.RegistryCollections.Get(global.ColNames.WidgetConfigs)
	if !exists {
		return nil, fmt.Errorf("collection %s chưa được đăng ký", global.ColNames.WidgetConfigs)
	}
	return &ConfigService{
		repo: basesvc.NewBaseServiceMongo[models.WidgetConfig](col),
	}, nil
}

// NewConfigServiceWithRepo tạo service trên một repository có sẵn (dùng cho test)
func NewConfigServiceWithRepo(repo ConfigRepository) *ConfigService {
	return &ConfigService{repo: repo}
}

// GetEffectiveConfig trả về config hiệu lực cho một danh tính.
//
// Tra theo chuỗi key từ cụ thể đến chung (xem FallbackKeys). Danh tính chỉ có
// component (editor mode) được tra thêm theo componentId trực tiếp trước khi
// rơi về default, vì editor chưa biết tenant nhưng bản ghi thì có.
//
// Không khớp key nào:
//   - danh tính đầy đủ (tenant + component): tạo lười bản ghi mới seed bằng
//     settings mặc định; đụng unique index do request song song thì đọc lại
//     bản ghi thắng cuộc (idempotent, không bao giờ có bản ghi thứ hai cùng key)
//   - danh tính thiếu: trả về config mặc định tạm thời, KHÔNG persist. Bản ghi
//     không bao giờ được tạo thay mặt cho danh tính chưa đầy đủ.
func (s *ConfigService) GetEffectiveConfig(ctx context.Context, ident identity.Identity, includeGlobal bool) (models.WidgetConfig, error) {
	var zero models.WidgetConfig

	if !ident.HasTenant() && ident.HasComponent() {
		cfg, err := s.repo.FindOne(ctx, bson.M{"componentId": ident.ComponentID}, nil)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return zero, err
		}
	}

	for _, key := range FallbackKeys(ident.TenantID, ident.ComponentID, includeGlobal) {
		cfg, err := s.repo.FindOne(ctx, bson.M{"key": key}, nil)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return zero, err
		}
	}

	if ident.HasTenant() && ident.HasComponent() {
		return s.createForIdentity(ctx, ident)
	}

	// Config tạm thời cho danh tính chưa đầy đủ
	return models.WidgetConfig{
		Key:         ConfigKey(ident.TenantID, ident.ComponentID),
		TenantID:    ident.TenantID,
		ComponentID: ident.ComponentID,
		Settings:    models.DefaultSettings(),
	}, nil
}

// createForIdentity tạo lười bản ghi config cho danh tính đầy đủ.
// Gói được thừa kế từ sibling cùng tenant nếu có.
func (s *ConfigService) createForIdentity(ctx context.Context, ident identity.Identity) (models.WidgetConfig, error) {
	var zero models.WidgetConfig

	key := ConfigKey(ident.TenantID, ident.ComponentID)
	cfg := models.WidgetConfig{
		Key:         key,
		TenantID:    ident.TenantID,
		ComponentID: ident.ComponentID,
		PlanTier:    s.siblingTier(ctx, ident.TenantID),
		Settings:    models.DefaultSettings(),
	}

	created, err := s.repo.InsertOne(ctx, cfg)
	if err != nil {
		// Request song song đã tạo trước: unique index trên key bảo đảm
		// chỉ một bản ghi tồn tại, đọc lại bản ghi đó
		if errors.Is(err, common.ErrMongoDuplicate) || errors.Is(err, common.ErrDuplicate) {
			return s.repo.FindOne(ctx, bson.M{"key": key}, nil)
		}
		return zero, err
	}
	return created, nil
}

// siblingTier tìm gói tường minh đầu tiên trong các bản ghi cùng tenant.
// Không có thì trả về chuỗi rỗng (inherit không có nguồn).
func (s *ConfigService) siblingTier(ctx context.Context, tenantID string) string {
	if tenantID == "" {
		return ""
	}
	siblings, err := s.repo.Find(ctx,
		bson.M{
			"tenantId": tenantID,
			"planTier": bson.M{"$exists": true, "$ne": ""},
		},
		options.Find().SetLimit(1),
	)
	if err != nil || len(siblings) == 0 {
		return ""
	}
	return siblings[0].PlanTier
}

// UpdateConfig cập nhật config theo một trong ba mode, chọn theo danh tính:
//
//	(a) chỉ có component: tìm bản ghi theo componentId và update tại chỗ.
//	    Không tìm thấy là 404, KHÔNG tạo mới vì thiếu tenant để gán chủ
//	(b) chỉ có tenant và input chỉ mang planTier: đổi gói hàng loạt cho mọi
//	    bản ghi của tenant; tenant chưa có bản ghi nào thì tạo một bản ghi
//	    mức tenant giữ gói
//	(c) còn lại: upsert tại key dẫn xuất từ danh tính. Settings luôn được
//	    thay nguyên khối bằng defaults phủ field caller gửi
func (s *ConfigService) UpdateConfig(ctx context.Context, ident identity.Identity, input *dto.ConfigUpdateInput) (models.WidgetConfig, error) {
	switch {
	case ident.HasComponent() && !ident.HasTenant():
		return s.updateByComponent(ctx, ident.ComponentID, input)
	case ident.HasTenant() && !ident.HasComponent() && input.OnlyPlanTier():
		return s.updateTenantPlan(ctx, ident.TenantID, *input.PlanTier)
	default:
		return s.upsertByKey(ctx, ident, input)
	}
}

// updateByComponent mode (a): update tại chỗ bản ghi tìm theo componentId.
// Khác mode (c), settings đã lưu được giữ nguyên: field gửi lên phủ lên giá
// trị đang có, field vắng mặt không bị reset về default.
func (s *ConfigService) updateByComponent(ctx context.Context, componentID string, input *dto.ConfigUpdateInput) (models.WidgetConfig, error) {
	var zero models.WidgetConfig

	existing, err := s.repo.FindOne(ctx, bson.M{"componentId": componentID}, nil)
	if err != nil {
		return zero, err
	}

	set := map[string]interface{}{}
	if input.HasSettings() {
		set["settings"] = overlaySettings(existing.Settings, input)
	}
	if input.DisplayName != nil {
		set["displayName"] = *input.DisplayName
	}

	tier := existing.PlanTier
	if input.PlanTier != nil {
		tier = *input.PlanTier
	}
	if tier == "" {
		tier = s.siblingTier(ctx, existing.TenantID)
	}
	if tier != "" {
		set["planTier"] = tier
	}

	return s.repo.UpdateOne(ctx, bson.M{"_id": existing.ID}, map[string]interface{}{"$set": set}, nil)
}

// updateTenantPlan mode (b): đổi gói cho toàn bộ bản ghi của tenant.
// Đọc trước để phân biệt "tenant chưa có bản ghi" với "gói không đổi".
func (s *ConfigService) updateTenantPlan(ctx context.Context, tenantID, planTier string) (models.WidgetConfig, error) {
	var zero models.WidgetConfig

	siblings, err := s.repo.Find(ctx, bson.M{"tenantId": tenantID}, nil)
	if err != nil {
		return zero, err
	}

	if len(siblings) == 0 {
		// Tenant chưa có gì: giữ gói trên một bản ghi mức tenant
		created, err := s.repo.InsertOne(ctx, models.WidgetConfig{
			Key:      ConfigKey(tenantID, ""),
			TenantID: tenantID,
			PlanTier: planTier,
			Settings: models.DefaultSettings(),
		})
		if err != nil {
			if errors.Is(err, common.ErrMongoDuplicate) || errors.Is(err, common.ErrDuplicate) {
				return s.repo.UpdateOne(ctx, bson.M{"key": ConfigKey(tenantID, "")},
					map[string]interface{}{"$set": map[string]interface{}{"planTier": planTier}}, nil)
			}
			return zero, err
		}
		return created, nil
	}

	if _, err := s.repo.UpdateMany(ctx, bson.M{"tenantId": tenantID},
		map[string]interface{}{"$set": map[string]interface{}{"planTier": planTier}}, nil); err != nil {
		return zero, err
	}

	return s.repo.FindOne(ctx, bson.M{"tenantId": tenantID}, nil)
}

// upsertByKey mode (c): upsert tại key dẫn xuất. Unique index trên key biến
// hai request song song thành một insert + một update thay vì hai bản ghi.
func (s *ConfigService) upsertByKey(ctx context.Context, ident identity.Identity, input *dto.ConfigUpdateInput) (models.WidgetConfig, error) {
	var zero models.WidgetConfig

	key := ConfigKey(ident.TenantID, ident.ComponentID)

	existing, err := s.repo.FindOne(ctx, bson.M{"key": key}, nil)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return zero, err
	}

	set := map[string]interface{}{
		"key":      key,
		"settings": applySettings(input),
	}
	if ident.TenantID != "" {
		set["tenantId"] = ident.TenantID
	}
	if ident.ComponentID != "" {
		set["componentId"] = ident.ComponentID
	}
	if input.DisplayName != nil {
		set["displayName"] = *input.DisplayName
	}

	// Gói: input thắng, rồi đến gói đã lưu, rồi thừa kế từ sibling cùng tenant
	tier := existing.PlanTier
	if input.PlanTier != nil {
		tier = *input.PlanTier
	}
	if tier == "" {
		tier = s.siblingTier(ctx, ident.TenantID)
	}
	if tier != "" {
		set["planTier"] = tier
	}

	update := map[string]interface{}{
		"$set": set,
		"$setOnInsert": map[string]interface{}{
			"createdAt": time.Now().UnixMilli(),
		},
	}

	return s.repo.UpdateOne(ctx, bson.M{"key": key}, update, options.Update().SetUpsert(true))
}

// applySettings dựng settings mới cho upsert theo key: defaults hệ thống phủ
// các field caller gửi. Field vắng mặt rơi về default, không bao giờ giữ giá
// trị đã lưu trước đó.
func applySettings(input *dto.ConfigUpdateInput) models.WidgetSettings {
	return overlaySettings(models.DefaultSettings(), input)
}

// overlaySettings phủ các field caller gửi lên một bộ settings nền
func overlaySettings(settings models.WidgetSettings, input *dto.ConfigUpdateInput) models.WidgetSettings {
	if input.ViewMode != nil {
		settings.ViewMode = *input.ViewMode
	}
	if input.ShowHeader != nil {
		settings.ShowHeader = *input.ShowHeader
	}
	if input.HeaderTitle != nil {
		settings.HeaderTitle = *input.HeaderTitle
	}
	if input.MapZoomLevel != nil {
		settings.MapZoomLevel = *input.MapZoomLevel
	}
	if input.PrimaryColor != nil {
		settings.PrimaryColor = *input.PrimaryColor
	}
	if input.ShowLocationNames != nil {
		settings.ShowLocationNames = *input.ShowLocationNames
	}
	return settings
}

// ListWidgets liệt kê các config mức component của một tenant (màn quản lý
// widgets trong dashboard của tenant). Bản ghi mức tenant (không có
// componentId) không phải widget nên bị loại.
func (s *ConfigService) ListWidgets(ctx context.Context, tenantID string) ([]models.WidgetConfig, error) {
	return s.repo.Find(ctx,
		bson.M{
			"tenantId":    tenantID,
			"componentId": bson.M{"$exists": true, "$ne": ""},
		},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
}
