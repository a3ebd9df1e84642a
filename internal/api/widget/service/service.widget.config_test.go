package service

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/dto"
	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/models"
	"github.com/Shaen-ai/mapsy-backend/internal/common"
	"github.com/Shaen-ai/mapsy-backend/internal/identity"
)

// fakeConfigRepo repository in-memory thay cho MongoDB trong unit test.
// Chỉ hiểu đúng các dạng filter mà ConfigService thực sự dùng.
type fakeConfigRepo struct {
	items      []models.WidgetConfig
	insertHook func() error // mô phỏng race: chạy trước mỗi insert
}

func matchConfigFilter(cfg models.WidgetConfig, filter interface{}) bool {
	f, ok := filter.(bson.M)
	if !ok {
		return false
	}
	for key, cond := range f {
		var field string
		switch key {
		case "key":
			field = cfg.Key
		case "tenantId":
			field = cfg.TenantID
		case "componentId":
			field = cfg.ComponentID
		case "planTier":
			field = cfg.PlanTier
		case "_id":
			if oid, ok := cond.(primitive.ObjectID); !ok || cfg.ID != oid {
				return false
			}
			continue
		default:
			return false
		}
		switch c := cond.(type) {
		case string:
			if field != c {
				return false
			}
		case bson.M:
			if exists, ok := c["$exists"].(bool); ok {
				if exists && field == "" {
					return false
				}
				if !exists && field != "" {
					return false
				}
			}
			if ne, ok := c["$ne"].(string); ok && field == ne {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func applyConfigSet(cfg *models.WidgetConfig, set map[string]interface{}) {
	for key, value := range set {
		switch key {
		case "key":
			cfg.Key = value.(string)
		case "tenantId":
			cfg.TenantID = value.(string)
		case "componentId":
			cfg.ComponentID = value.(string)
		case "displayName":
			cfg.DisplayName = value.(string)
		case "planTier":
			cfg.PlanTier = value.(string)
		case "settings":
			cfg.Settings = value.(models.WidgetSettings)
		case "createdAt":
			cfg.CreatedAt = value.(int64)
		}
	}
}

func (r *fakeConfigRepo) InsertOne(_ context.Context, data models.WidgetConfig) (models.WidgetConfig, error) {
	if r.insertHook != nil {
		if err := r.insertHook(); err != nil {
			return models.WidgetConfig{}, err
		}
	}
	for _, item := range r.items {
		if item.Key == data.Key {
			return models.WidgetConfig{}, common.ErrMongoDuplicate
		}
	}
	data.ID = primitive.NewObjectID()
	r.items = append(r.items, data)
	return data, nil
}

func (r *fakeConfigRepo) FindOne(_ context.Context, filter interface{}, _ *options.FindOneOptions) (models.WidgetConfig, error) {
	for _, item := range r.items {
		if matchConfigFilter(item, filter) {
			return item, nil
		}
	}
	return models.WidgetConfig{}, common.ErrNotFound
}

func (r *fakeConfigRepo) Find(_ context.Context, filter interface{}, _ *options.FindOptions) ([]models.WidgetConfig, error) {
	results := []models.WidgetConfig{}
	for _, item := range r.items {
		if matchConfigFilter(item, filter) {
			results = append(results, item)
		}
	}
	return results, nil
}

func (r *fakeConfigRepo) UpdateOne(_ context.Context, filter interface{}, update interface{}, opts *options.UpdateOptions) (models.WidgetConfig, error) {
	doc, ok := update.(map[string]interface{})
	if !ok {
		return models.WidgetConfig{}, common.ErrInvalidFormat
	}
	set, _ := doc["$set"].(map[string]interface{})

	for i := range r.items {
		if matchConfigFilter(r.items[i], filter) {
			applyConfigSet(&r.items[i], set)
			return r.items[i], nil
		}
	}

	if opts != nil && opts.Upsert != nil && *opts.Upsert {
		var created models.WidgetConfig
		created.ID = primitive.NewObjectID()
		applyConfigSet(&created, set)
		if onInsert, ok := doc["$setOnInsert"].(map[string]interface{}); ok {
			applyConfigSet(&created, onInsert)
		}
		r.items = append(r.items, created)
		return created, nil
	}
	return models.WidgetConfig{}, common.ErrNotFound
}

func (r *fakeConfigRepo) UpdateMany(_ context.Context, filter interface{}, update interface{}, _ *options.UpdateOptions) (int64, error) {
	doc, ok := update.(map[string]interface{})
	if !ok {
		return 0, common.ErrInvalidFormat
	}
	set, _ := doc["$set"].(map[string]interface{})

	var modified int64
	for i := range r.items {
		if matchConfigFilter(r.items[i], filter) {
			applyConfigSet(&r.items[i], set)
			modified++
		}
	}
	return modified, nil
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }

// ============================================================
// GetEffectiveConfig
// ============================================================

func TestGetEffectiveConfig_ChuoiFallback(t *testing.T) {
	repo := &fakeConfigRepo{items: []models.WidgetConfig{
		{ID: primitive.NewObjectID(), Key: "default", Settings: models.DefaultSettings(), DisplayName: "global"},
		{ID: primitive.NewObjectID(), Key: "t1", TenantID: "t1", Settings: models.DefaultSettings(), DisplayName: "tenant"},
		{ID: primitive.NewObjectID(), Key: "t1_c1", TenantID: "t1", ComponentID: "c1", Settings: models.DefaultSettings(), DisplayName: "exact"},
	}}
	svc := NewConfigServiceWithRepo(repo)
	ctx := context.Background()

	cfg, err := svc.GetEffectiveConfig(ctx, identity.Identity{TenantID: "t1", ComponentID: "c1"}, true)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if cfg.DisplayName != "exact" {
		t.Errorf("danh tính đầy đủ phải khớp key cụ thể nhất, nhận %q", cfg.DisplayName)
	}

	cfg, err = svc.GetEffectiveConfig(ctx, identity.Identity{TenantID: "t1", ComponentID: "c9"}, true)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if cfg.DisplayName != "tenant" {
		t.Errorf("không khớp key đầy đủ phải rơi về key tenant, nhận %q", cfg.DisplayName)
	}

	cfg, err = svc.GetEffectiveConfig(ctx, identity.Identity{}, true)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if cfg.DisplayName != "global" {
		t.Errorf("danh tính rỗng phải nhận bản ghi default, nhận %q", cfg.DisplayName)
	}
}

func TestGetEffectiveConfig_TatGlobalFallback(t *testing.T) {
	repo := &fakeConfigRepo{items: []models.WidgetConfig{
		{ID: primitive.NewObjectID(), Key: "default", Settings: models.DefaultSettings(), DisplayName: "global"},
	}}
	svc := NewConfigServiceWithRepo(repo)

	// Tenant chưa có bản ghi, global fallback tắt: không được leak bản ghi
	// default, trả về config tạm thời và KHÔNG persist gì
	cfg, err := svc.GetEffectiveConfig(context.Background(), identity.Identity{TenantID: "t1"}, false)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if cfg.DisplayName == "global" {
		t.Error("config default toàn cục bị leak vào ngữ cảnh tenant")
	}
	if !cfg.ID.IsZero() {
		t.Error("config tạm thời không được có ID storage")
	}
	if cfg.Settings != models.DefaultSettings() {
		t.Error("config tạm thời phải mang settings mặc định")
	}
	if len(repo.items) != 1 {
		t.Error("danh tính chỉ có tenant không được tạo bản ghi")
	}
}

func TestGetEffectiveConfig_TaoLuoi(t *testing.T) {
	repo := &fakeConfigRepo{}
	svc := NewConfigServiceWithRepo(repo)
	ident := identity.Identity{TenantID: "t1", ComponentID: "c1"}

	cfg, err := svc.GetEffectiveConfig(context.Background(), ident, true)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if cfg.Key != "t1_c1" || cfg.TenantID != "t1" || cfg.ComponentID != "c1" {
		t.Errorf("bản ghi tạo lười sai scope: %+v", cfg)
	}
	if cfg.Settings != models.DefaultSettings() {
		t.Error("bản ghi tạo lười phải seed bằng settings mặc định")
	}
	if len(repo.items) != 1 {
		t.Fatalf("muốn 1 bản ghi được tạo, có %d", len(repo.items))
	}

	// Gọi lại phải trả về đúng bản ghi cũ, không tạo thêm
	again, err := svc.GetEffectiveConfig(context.Background(), ident, true)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if again.ID != cfg.ID || len(repo.items) != 1 {
		t.Error("lần đọc thứ hai phải idempotent")
	}
}

func TestGetEffectiveConfig_RaceTrungKey(t *testing.T) {
	repo := &fakeConfigRepo{}
	// Request song song thắng cuộc chèn bản ghi ngay trước insert của mình
	repo.insertHook = func() error {
		repo.insertHook = nil
		repo.items = append(repo.items, models.WidgetConfig{
			ID: primitive.NewObjectID(), Key: "t1_c1", TenantID: "t1", ComponentID: "c1",
			DisplayName: "winner", Settings: models.DefaultSettings(),
		})
		return common.ErrMongoDuplicate
	}
	svc := NewConfigServiceWithRepo(repo)

	cfg, err := svc.GetEffectiveConfig(context.Background(), identity.Identity{TenantID: "t1", ComponentID: "c1"}, true)
	if err != nil {
		t.Fatalf("đụng unique index phải được xử lý trong suốt, nhận lỗi: %v", err)
	}
	if cfg.DisplayName != "winner" {
		t.Error("phải đọc lại bản ghi của request thắng cuộc")
	}
	if len(repo.items) != 1 {
		t.Error("không bao giờ được có hai bản ghi cùng key")
	}
}

func TestGetEffectiveConfig_EditorMode(t *testing.T) {
	repo := &fakeConfigRepo{items: []models.WidgetConfig{
		{ID: primitive.NewObjectID(), Key: "t1_c1", TenantID: "t1", ComponentID: "c1", DisplayName: "mine", Settings: models.DefaultSettings()},
	}}
	svc := NewConfigServiceWithRepo(repo)

	// Editor chưa biết tenant nhưng bản ghi tra được theo componentId
	cfg, err := svc.GetEffectiveConfig(context.Background(), identity.Identity{ComponentID: "c1"}, true)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if cfg.DisplayName != "mine" {
		t.Errorf("editor mode phải tìm thấy bản ghi theo componentId, nhận %q", cfg.DisplayName)
	}
}

func TestGetEffectiveConfig_TaoLuoiThuaKeGoi(t *testing.T) {
	repo := &fakeConfigRepo{items: []models.WidgetConfig{
		{ID: primitive.NewObjectID(), Key: "t1_c1", TenantID: "t1", ComponentID: "c1", PlanTier: models.PlanTierBusiness, Settings: models.DefaultSettings()},
	}}
	svc := NewConfigServiceWithRepo(repo)

	cfg, err := svc.GetEffectiveConfig(context.Background(), identity.Identity{TenantID: "t1", ComponentID: "c2"}, true)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if cfg.PlanTier != models.PlanTierBusiness {
		t.Errorf("bản ghi mới phải thừa kế gói từ sibling cùng tenant, nhận %q", cfg.PlanTier)
	}
}

// ============================================================
// UpdateConfig
// ============================================================

func TestUpdateConfig_UpsertThayThesettings(t *testing.T) {
	repo := &fakeConfigRepo{}
	svc := NewConfigServiceWithRepo(repo)
	ident := identity.Identity{TenantID: "t1", ComponentID: "c1"}
	ctx := context.Background()

	first := &dto.ConfigUpdateInput{
		DisplayName:  strPtr("Cửa hàng"),
		HeaderTitle:  strPtr("Chi nhánh"),
		MapZoomLevel: intPtr(5),
		ShowHeader:   boolPtr(false),
	}
	cfg, err := svc.UpdateConfig(ctx, ident, first)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if cfg.Key != "t1_c1" || cfg.Settings.HeaderTitle != "Chi nhánh" || cfg.Settings.MapZoomLevel != 5 {
		t.Errorf("upsert lần đầu sai: %+v", cfg)
	}
	if cfg.Settings.ShowHeader {
		t.Error("showHeader phải là false sau lần upsert đầu")
	}

	// Update thứ hai chỉ gửi primaryColor: các field settings khác phải rơi
	// về DEFAULT, không giữ giá trị đã lưu lần đầu
	second := &dto.ConfigUpdateInput{PrimaryColor: strPtr("#112233")}
	cfg, err = svc.UpdateConfig(ctx, ident, second)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	defaults := models.DefaultSettings()
	if cfg.Settings.PrimaryColor != "#112233" {
		t.Errorf("primaryColor = %q, muốn #112233", cfg.Settings.PrimaryColor)
	}
	if cfg.Settings.HeaderTitle != defaults.HeaderTitle {
		t.Errorf("headerTitle phải rơi về default %q, nhận %q", defaults.HeaderTitle, cfg.Settings.HeaderTitle)
	}
	if cfg.Settings.MapZoomLevel != defaults.MapZoomLevel {
		t.Errorf("mapZoomLevel phải rơi về default %d, nhận %d", defaults.MapZoomLevel, cfg.Settings.MapZoomLevel)
	}
	if cfg.Settings.ShowHeader != defaults.ShowHeader {
		t.Errorf("showHeader phải rơi về default %v, nhận %v", defaults.ShowHeader, cfg.Settings.ShowHeader)
	}
	// displayName không thuộc settings, không bị reset
	if cfg.DisplayName != "Cửa hàng" {
		t.Errorf("displayName phải được giữ nguyên, nhận %q", cfg.DisplayName)
	}
	if len(repo.items) != 1 {
		t.Errorf("hai lần upsert cùng key phải cho đúng 1 bản ghi, có %d", len(repo.items))
	}
}

func TestUpdateConfig_ThuaKeGoiTuSibling(t *testing.T) {
	repo := &fakeConfigRepo{items: []models.WidgetConfig{
		{ID: primitive.NewObjectID(), Key: "t1_c1", TenantID: "t1", ComponentID: "c1", PlanTier: models.PlanTierBusinessPro, Settings: models.DefaultSettings()},
	}}
	svc := NewConfigServiceWithRepo(repo)

	cfg, err := svc.UpdateConfig(context.Background(),
		identity.Identity{TenantID: "t1", ComponentID: "c2"},
		&dto.ConfigUpdateInput{DisplayName: strPtr("Mới")})
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if cfg.PlanTier != models.PlanTierBusinessPro {
		t.Errorf("bản ghi không có gói tường minh phải thừa kế từ sibling, nhận %q", cfg.PlanTier)
	}
}

func TestUpdateConfig_TheoComponent(t *testing.T) {
	repo := &fakeConfigRepo{items: []models.WidgetConfig{
		{ID: primitive.NewObjectID(), Key: "t1_c1", TenantID: "t1", ComponentID: "c1", DisplayName: "cũ", Settings: models.DefaultSettings()},
	}}
	svc := NewConfigServiceWithRepo(repo)
	ctx := context.Background()

	// Chỉ có component: update tại chỗ bản ghi tìm theo componentId
	cfg, err := svc.UpdateConfig(ctx, identity.Identity{ComponentID: "c1"},
		&dto.ConfigUpdateInput{DisplayName: strPtr("mới"), ViewMode: strPtr("map")})
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if cfg.DisplayName != "mới" || cfg.Settings.ViewMode != "map" {
		t.Errorf("update theo component sai: %+v", cfg)
	}
	if len(repo.items) != 1 {
		t.Error("update theo component không được tạo bản ghi mới")
	}

	// Component chưa có bản ghi: 404, không tạo vì thiếu tenant để gán chủ
	_, err = svc.UpdateConfig(ctx, identity.Identity{ComponentID: "c9"},
		&dto.ConfigUpdateInput{DisplayName: strPtr("x")})
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("muốn ErrNotFound, nhận %v", err)
	}
	if len(repo.items) != 1 {
		t.Error("không được tạo bản ghi cho component không rõ tenant")
	}
}

func TestUpdateConfig_TheoComponentGiuSettingsDaLuu(t *testing.T) {
	stored := models.DefaultSettings()
	stored.HeaderTitle = "Chi nhánh"
	stored.MapZoomLevel = 7
	repo := &fakeConfigRepo{items: []models.WidgetConfig{
		{ID: primitive.NewObjectID(), Key: "t1_c1", TenantID: "t1", ComponentID: "c1", Settings: stored},
	}}
	svc := NewConfigServiceWithRepo(repo)
	ident := identity.Identity{ComponentID: "c1"}
	ctx := context.Background()

	// Input không mang field settings nào: settings đã lưu phải còn nguyên
	cfg, err := svc.UpdateConfig(ctx, ident,
		&dto.ConfigUpdateInput{PlanTier: strPtr(models.PlanTierBusiness), DisplayName: strPtr("Mới")})
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if cfg.PlanTier != models.PlanTierBusiness || cfg.DisplayName != "Mới" {
		t.Errorf("field ngoài settings phải được cập nhật: %+v", cfg)
	}
	if cfg.Settings.HeaderTitle != "Chi nhánh" || cfg.Settings.MapZoomLevel != 7 {
		t.Errorf("update theo component không được reset settings đã lưu: %+v", cfg.Settings)
	}

	// Gửi một field settings: field đó phủ lên, các field còn lại giữ nguyên
	cfg, err = svc.UpdateConfig(ctx, ident, &dto.ConfigUpdateInput{ViewMode: strPtr("list")})
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if cfg.Settings.ViewMode != "list" {
		t.Errorf("viewMode = %q, muốn list", cfg.Settings.ViewMode)
	}
	if cfg.Settings.HeaderTitle != "Chi nhánh" || cfg.Settings.MapZoomLevel != 7 {
		t.Errorf("field settings không gửi phải giữ giá trị đã lưu: %+v", cfg.Settings)
	}
}

func TestUpdateConfig_DoiGoiCaTenant(t *testing.T) {
	repo := &fakeConfigRepo{items: []models.WidgetConfig{
		{ID: primitive.NewObjectID(), Key: "t1_c1", TenantID: "t1", ComponentID: "c1", PlanTier: models.PlanTierFree, Settings: models.DefaultSettings()},
		{ID: primitive.NewObjectID(), Key: "t1_c2", TenantID: "t1", ComponentID: "c2", Settings: models.DefaultSettings()},
		{ID: primitive.NewObjectID(), Key: "t2_c3", TenantID: "t2", ComponentID: "c3", PlanTier: models.PlanTierFree, Settings: models.DefaultSettings()},
	}}
	svc := NewConfigServiceWithRepo(repo)

	_, err := svc.UpdateConfig(context.Background(), identity.Identity{TenantID: "t1"},
		&dto.ConfigUpdateInput{PlanTier: strPtr(models.PlanTierBusiness)})
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}

	for _, item := range repo.items {
		if item.TenantID == "t1" && item.PlanTier != models.PlanTierBusiness {
			t.Errorf("bản ghi %s của t1 chưa được đổi gói: %q", item.Key, item.PlanTier)
		}
		if item.TenantID == "t2" && item.PlanTier != models.PlanTierFree {
			t.Errorf("gói của tenant khác không được bị đụng: %q", item.PlanTier)
		}
	}
}

func TestUpdateConfig_DoiGoiTenantChuaCoBanGhi(t *testing.T) {
	repo := &fakeConfigRepo{}
	svc := NewConfigServiceWithRepo(repo)

	cfg, err := svc.UpdateConfig(context.Background(), identity.Identity{TenantID: "t1"},
		&dto.ConfigUpdateInput{PlanTier: strPtr(models.PlanTierLight)})
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if cfg.Key != "t1" || cfg.TenantID != "t1" || cfg.ComponentID != "" {
		t.Errorf("phải tạo bản ghi mức tenant giữ gói: %+v", cfg)
	}
	if cfg.PlanTier != models.PlanTierLight {
		t.Errorf("planTier = %q, muốn light", cfg.PlanTier)
	}
}

func TestListWidgets(t *testing.T) {
	repo := &fakeConfigRepo{items: []models.WidgetConfig{
		{ID: primitive.NewObjectID(), Key: "t1", TenantID: "t1", Settings: models.DefaultSettings()},
		{ID: primitive.NewObjectID(), Key: "t1_c1", TenantID: "t1", ComponentID: "c1", Settings: models.DefaultSettings()},
		{ID: primitive.NewObjectID(), Key: "t1_c2", TenantID: "t1", ComponentID: "c2", Settings: models.DefaultSettings()},
		{ID: primitive.NewObjectID(), Key: "t2_c9", TenantID: "t2", ComponentID: "c9", Settings: models.DefaultSettings()},
	}}
	svc := NewConfigServiceWithRepo(repo)

	widgets, err := svc.ListWidgets(context.Background(), "t1")
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if len(widgets) != 2 {
		t.Fatalf("muốn 2 widget mức component của t1, có %d", len(widgets))
	}
	for _, w := range widgets {
		if w.TenantID != "t1" || w.ComponentID == "" {
			t.Errorf("kết quả sai scope: %+v", w)
		}
	}
}
