package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng.
// Toàn bộ được đọc từ environment (file config/env/<GO_ENV>.env hoặc env thật).
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:":8080"`                // Địa chỉ server
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"mapsy"`         // Tên cơ sở dữ liệu
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (widget nhúng vào site bên thứ ba nên mặc định *)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// Instance token (xác thực widget theo tenant)
	InstanceSecret       string `env:"INSTANCE_SECRET"`                          // Bí mật ký instance token; rỗng = permissive decode không chữ ký
	AuthStrict           bool   `env:"AUTH_STRICT" envDefault:"false"`           // true = fail closed: secret rỗng là lỗi cấu hình, token sai là 401
	ConfigGlobalFallback bool   `env:"CONFIG_GLOBAL_FALLBACK" envDefault:"true"` // Cho phép đọc config rơi về bản ghi default toàn cục

	// Geocoder (dịch vụ ngoài, best-effort)
	GeocoderBaseURL   string `env:"GEOCODER_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"` // Base URL dịch vụ geocoding
	GeocoderTimeoutMs int    `env:"GEOCODER_TIMEOUT_MS" envDefault:"5000"`                              // Timeout gọi geocoder (ms)

	// Blob store (ảnh location). Thiếu credentials => lưu local
	BlobStoreBaseURL string `env:"BLOBSTORE_BASE_URL"`                                 // Base URL blob store
	BlobStoreAPIKey  string `env:"BLOBSTORE_API_KEY"`                                  // API key blob store (rỗng = local fallback)
	UploadDir        string `env:"UPLOAD_DIR" envDefault:"uploads"`                    // Thư mục lưu ảnh khi dùng local fallback
	PublicBaseURL    string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"` // Base URL public để build URL ảnh local

	// TLS/HTTPS Configuration
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"` // Bật HTTPS
	TLSCertFile string `env:"TLS_CERT_FILE"`                 // Đường dẫn đến file certificate (.crt hoặc .pem)
	TLSKeyFile  string `env:"TLS_KEY_FILE"`                  // Đường dẫn đến file private key (.key)
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env bằng cách đi lên dần từ thư mục hiện tại
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc dữ liệu cấu hình từ file env (nếu có) rồi parse từ environment.
// File env không tồn tại không phải là lỗi: deployment có thể set env trực tiếp.
func NewConfig() *Configuration {
	envPath := getEnvPath()
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
			fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
