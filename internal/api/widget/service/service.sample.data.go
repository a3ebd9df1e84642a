package service

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/models"
)

// Bộ địa điểm mẫu cho widget mới cài: hiển thị khi tenant đã xác thực nhưng
// chưa chọn component, hoặc khi component ở editor mode chưa có dữ liệu thật.
// ID cố định để client có thể nhận diện và không cho phép sửa/xóa dữ liệu mẫu.
var sampleLocationIDs = []string{
	"6500000000000000000000a1",
	"6500000000000000000000a2",
	"6500000000000000000000a3",
}

// SampleLocations trả về bộ dữ liệu mẫu dựng sẵn. Không bao giờ persist;
// mỗi lần gọi trả về bản sao mới để caller có thể sửa tự do.
func SampleLocations() []models.Location {
	lat := func(v float64) *float64 { return &v }

	samples := []models.Location{
		{
			Name:     "Downtown Coffee House",
			Address:  "123 Main Street, Springfield, IL 62701",
			Phone:    "+1 (217) 555-0134",
			Email:    "hello@downtowncoffee.example",
			Website:  "https://downtowncoffee.example",
			Category: models.CategoryRestaurant,
			BusinessHours: models.BusinessHours{
				Monday:    "07:00-18:00",
				Tuesday:   "07:00-18:00",
				Wednesday: "07:00-18:00",
				Thursday:  "07:00-18:00",
				Friday:    "07:00-20:00",
				Saturday:  "08:00-20:00",
			},
			Latitude:  lat(39.7990),
			Longitude: lat(-89.6440),
		},
		{
			Name:     "Riverside Books & Gifts",
			Address:  "45 River Road, Springfield, IL 62704",
			Phone:    "+1 (217) 555-0178",
			Website:  "https://riversidebooks.example",
			Category: models.CategoryStore,
			BusinessHours: models.BusinessHours{
				Monday:   "09:00-17:00",
				Tuesday:  "09:00-17:00",
				Thursday: "09:00-19:00",
				Friday:   "09:00-19:00",
				Saturday: "10:00-16:00",
			},
			Latitude:  lat(39.7817),
			Longitude: lat(-89.6501),
		},
		{
			Name:      "Northside Service Center",
			Address:   "890 North Avenue, Springfield, IL 62702",
			Phone:     "+1 (217) 555-0101",
			Email:     "support@northsideservice.example",
			Category:  models.CategoryService,
			Latitude:  lat(39.8210),
			Longitude: lat(-89.6437),
		},
	}

	for i := range samples {
		oid, _ := primitive.ObjectIDFromHex(sampleLocationIDs[i])
		samples[i].ID = oid
	}
	return samples
}
