package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "github.com/Shaen-ai/mapsy-backend/internal/api/base/service"
	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/dto"
	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/models"
	"github.com/Shaen-ai/mapsy-backend/internal/blobstore"
	"github.com/Shaen-ai/mapsy-backend/internal/common"
	"github.com/Shaen-ai/mapsy-backend/internal/geocode"
	"github.com/Shaen-ai/mapsy-backend/internal/global"
	"github.com/Shaen-ai/mapsy-backend/internal/identity"
	"github.com/Shaen-ai/mapsy-backend/internal/logger"
	"github.com/Shaen-ai/mapsy-backend/internal/utility"
)

// geocodeTimeout trần thời gian cho một lần geocode trong request tạo/sửa.
// Geocoding là best-effort, không được giữ request lâu hơn mức này.
const geocodeTimeout = 5 * time.Second

// LocationRepository subset của BaseServiceMongo mà LocationService cần
type LocationRepository interface {
	InsertOne(ctx context.Context, data models.Location) (models.Location, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Location, error)
	FindOneById(ctx context.Context, id primitive.ObjectID) (models.Location, error)
	UpdateById(ctx context.Context, id primitive.ObjectID, update interface{}) (models.Location, error)
	DeleteById(ctx context.Context, id primitive.ObjectID) error
}

// ImagePayload ảnh thô client upload kèm request (multipart file)
type ImagePayload struct {
	Data        []byte
	ContentType string
}

// LocationService xử lý CRUD địa điểm trong phạm vi (tenant, component)
// của request. Mọi thao tác trên bản ghi đơn lẻ đều qua checkScope trước.
type LocationService struct {
	repo     LocationRepository
	geocoder geocode.Geocoder // nil = geocoding tắt
	blobs    blobstore.Store  // nil = không lưu ảnh
}

// NewLocationService tạo service trên collection đã đăng ký trong registry
func NewLocationService(geocoder geocode.Geocoder, blobs blobstore.Store) (*LocationService, error) {
	col, exists := global.RegistryCollections.Get(global.ColNames.Locations)
	if !exists {
		return nil, fmt.Errorf("collection %s chưa được đăng ký", global.ColNames.Locations)
	}
	return &LocationService{
		repo:     basesvc.NewBaseServiceMongo[models.Location](col),
		geocoder: geocoder,
		blobs:    blobs,
	}, nil
}

// NewLocationServiceWithRepo tạo service trên một repository có sẵn (dùng cho test)
func NewLocationServiceWithRepo(repo LocationRepository, geocoder geocode.Geocoder, blobs blobstore.Store) *LocationService {
	return &LocationService{repo: repo, geocoder: geocoder, blobs: blobs}
}

// checkScope kiểm tra một bản ghi có nằm trong phạm vi của danh tính không.
// Vi phạm trả về lỗi 403 kèm reason tag trong Details.
func checkScope(ident identity.Identity, loc models.Location) error {
	// Bản ghi unscoped (tạo trước thời multi-tenancy) chỉ dashboard
	// chưa định danh chạm tới được
	if loc.TenantID == "" && loc.ComponentID == "" {
		if ident.IsAnonymous() {
			return nil
		}
		if ident.HasTenant() {
			return common.NewScopeError(common.ScopeReasonWrongTenant)
		}
		return common.NewScopeError(common.ScopeReasonWrongComponent)
	}

	// Chiều tenant: danh tính có tenant thì tenant của bản ghi phải trùng.
	// Danh tính không có cả tenant lẫn component (dashboard) không bao giờ
	// thấy bản ghi thuộc tenant. Danh tính chỉ có component (editor mode)
	// được đi tiếp để so theo chiều component.
	if ident.HasTenant() {
		if loc.TenantID != ident.TenantID {
			return common.NewScopeError(common.ScopeReasonWrongTenant)
		}
	} else if !ident.HasComponent() && loc.TenantID != "" {
		return common.NewScopeError(common.ScopeReasonWrongTenant)
	}

	// Chiều component: bản ghi có component scope đòi request khai báo
	// đúng component đó
	if loc.ComponentID != "" {
		if !ident.HasComponent() {
			return common.NewScopeError(common.ScopeReasonComponentRequired)
		}
		if loc.ComponentID != ident.ComponentID {
			return common.NewScopeError(common.ScopeReasonWrongComponent)
		}
	}

	return nil
}

// List trả về danh sách địa điểm theo ma trận danh tính:
//
//   - tenant + component: dữ liệu thật của đúng cặp đó, mới nhất trước
//   - chỉ tenant: bộ dữ liệu mẫu dựng sẵn, KHÔNG đọc storage. Widget chưa gắn
//     component không được thấy dữ liệu thật của tenant
//   - chỉ component (editor mode): tìm theo componentId xuyên tenant;
//     rỗng thì rơi về dữ liệu mẫu
//   - không có gì: chỉ các bản ghi unscoped
func (s *LocationService) List(ctx context.Context, ident identity.Identity) ([]models.Location, error) {
	newestFirst := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	switch {
	case ident.HasTenant() && ident.HasComponent():
		return s.repo.Find(ctx, bson.M{
			"tenantId":    ident.TenantID,
			"componentId": ident.ComponentID,
		}, newestFirst)

	case ident.HasTenant():
		return SampleLocations(), nil

	case ident.HasComponent():
		locations, err := s.repo.Find(ctx, bson.M{"componentId": ident.ComponentID}, newestFirst)
		if err != nil {
			return nil, err
		}
		if len(locations) == 0 {
			return SampleLocations(), nil
		}
		return locations, nil

	default:
		return s.repo.Find(ctx, bson.M{
			"tenantId":    bson.M{"$exists": false},
			"componentId": bson.M{"$exists": false},
		}, newestFirst)
	}
}

// GetByID đọc một địa điểm và kiểm tra phạm vi truy cập
func (s *LocationService) GetByID(ctx context.Context, ident identity.Identity, id string) (models.Location, error) {
	var zero models.Location

	oid := utility.String2ObjectID(id)
	if oid.IsZero() {
		return zero, common.ErrInvalidFormat
	}

	location, err := s.repo.FindOneById(ctx, oid)
	if err != nil {
		return zero, err
	}
	if err := checkScope(ident, location); err != nil {
		return zero, err
	}
	return location, nil
}

// Create tạo địa điểm mới, đóng dấu scope từ danh tính request.
// Ảnh và geocode đều best-effort: thất bại chỉ ghi log, không fail request.
func (s *LocationService) Create(ctx context.Context, ident identity.Identity, input *dto.LocationCreateInput, image *ImagePayload) (models.Location, error) {
	location := models.Location{
		TenantID:    ident.TenantID,
		ComponentID: ident.ComponentID,
		Name:        input.Name,
		Address:     input.Address,
		Phone:       input.Phone,
		Email:       input.Email,
		Website:     input.Website,
		Category:    input.Category,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
	}
	if input.BusinessHours != nil {
		location.BusinessHours = *input.BusinessHours
	}

	location.ImageURL = s.resolveImage(ctx, "", image, input.ImageData, input.ImageURL)

	if location.Latitude == nil || location.Longitude == nil {
		s.fillCoordinates(ctx, &location)
	}

	return s.repo.InsertOne(ctx, location)
}

// Update cập nhật các field được gửi lên của một địa điểm trong phạm vi.
// Địa chỉ đổi hoặc bản ghi đang thiếu tọa độ mà client không gửi tọa độ mới
// thì geocode lại (best-effort).
func (s *LocationService) Update(ctx context.Context, ident identity.Identity, id string, input *dto.LocationUpdateInput, image *ImagePayload) (models.Location, error) {
	var zero models.Location

	location, err := s.GetByID(ctx, ident, id)
	if err != nil {
		return zero, err
	}

	set := map[string]interface{}{}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Address != nil {
		set["address"] = *input.Address
	}
	if input.Phone != nil {
		set["phone"] = *input.Phone
	}
	if input.Email != nil {
		set["email"] = *input.Email
	}
	if input.Website != nil {
		set["website"] = *input.Website
	}
	if input.Category != nil {
		set["category"] = *input.Category
	}
	if input.BusinessHours != nil {
		set["businessHours"] = *input.BusinessHours
	}
	if input.Latitude != nil {
		set["latitude"] = *input.Latitude
	}
	if input.Longitude != nil {
		set["longitude"] = *input.Longitude
	}

	passthrough := ""
	if input.ImageURL != nil {
		passthrough = *input.ImageURL
	}
	if newURL := s.resolveImage(ctx, location.ImageURL, image, input.ImageData, passthrough); newURL != location.ImageURL {
		set["imageUrl"] = newURL
	}

	// Geocode lại khi địa chỉ đổi, hoặc khi bản ghi còn thiếu tọa độ
	// (geocode lúc tạo thất bại thì lần sửa sau tự vá)
	addressChanged := input.Address != nil && *input.Address != location.Address
	coordsMissing := location.Latitude == nil || location.Longitude == nil
	if (addressChanged || coordsMissing) && input.Latitude == nil && input.Longitude == nil {
		address := location.Address
		if input.Address != nil {
			address = *input.Address
		}
		regeocoded := models.Location{Address: address}
		s.fillCoordinates(ctx, &regeocoded)
		if regeocoded.Latitude != nil && regeocoded.Longitude != nil {
			set["latitude"] = *regeocoded.Latitude
			set["longitude"] = *regeocoded.Longitude
		}
	}

	if len(set) == 0 {
		return location, nil
	}
	return s.repo.UpdateById(ctx, location.ID, set)
}

// Delete xóa địa điểm trong phạm vi, dọn blob ảnh kèm theo (best-effort)
func (s *LocationService) Delete(ctx context.Context, ident identity.Identity, id string) error {
	location, err := s.GetByID(ctx, ident, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteById(ctx, location.ID); err != nil {
		return err
	}

	s.deleteBlob(ctx, location.ImageURL)
	return nil
}

// resolveImage quyết định imageUrl mới từ các nguồn ảnh của request:
// file multipart > ảnh nhúng base64 > URL client chỉ định sẵn.
// Không có nguồn nào hoặc lưu thất bại thì giữ URL hiện tại.
func (s *LocationService) resolveImage(ctx context.Context, current string, image *ImagePayload, embedded, passthrough string) string {
	var data []byte
	var contentType string

	if image != nil && len(image.Data) > 0 {
		data, contentType = image.Data, image.ContentType
	} else if embedded != "" {
		decoded, decodedType, err := blobstore.DecodeEmbeddedImage(embedded)
		if err != nil {
			logger.GetAppLogger().WithError(err).Warn("Bỏ qua ảnh nhúng không giải mã được")
		} else {
			data, contentType = decoded, decodedType
		}
	}

	if len(data) > 0 && s.blobs != nil {
		url, err := s.blobs.Save(ctx, data, contentType)
		if err != nil {
			logger.GetErrorLogger().WithError(err).Warn("Upload ảnh địa điểm thất bại, giữ ảnh cũ")
			return current
		}
		s.deleteBlob(ctx, current)
		return url
	}

	if passthrough != "" && passthrough != current {
		s.deleteBlob(ctx, current)
		return passthrough
	}

	return current
}

// deleteBlob xóa blob cũ, chỉ ghi log khi thất bại
func (s *LocationService) deleteBlob(ctx context.Context, blobURL string) {
	if blobURL == "" || s.blobs == nil {
		return
	}
	if err := s.blobs.Delete(ctx, blobURL); err != nil {
		logger.GetAppLogger().WithError(err).WithField("url", blobURL).Warn("Xóa blob ảnh cũ thất bại")
	}
}

// fillCoordinates geocode địa chỉ và gắn tọa độ vào bản ghi.
// Thất bại chỉ ghi log: địa điểm không tọa độ vẫn hiển thị được ở dạng list.
func (s *LocationService) fillCoordinates(ctx context.Context, location *models.Location) {
	if s.geocoder == nil || location.Address == "" {
		return
	}

	gctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	coords, err := s.geocoder.Geocode(gctx, location.Address)
	if err != nil {
		logger.GetAppLogger().WithError(err).WithField("address", location.Address).
			Warn("Geocode thất bại, lưu địa điểm không tọa độ")
		return
	}
	location.Latitude = &coords.Latitude
	location.Longitude = &coords.Longitude
}
