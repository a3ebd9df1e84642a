package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/Shaen-ai/mapsy-backend/internal/common"
)

// Claims là phần payload của instance token sau khi giải mã.
// Token hợp lệ bắt buộc phải có instanceId; các field khác là tùy chọn.
type Claims struct {
	InstanceID      string `json:"instanceId"`                // Định danh tenant (bắt buộc)
	VendorProductID string `json:"vendorProductId,omitempty"` // Tín hiệu mua gói từ vendor (rỗng = chưa mua)
	AppID           string `json:"appDefId,omitempty"`        // Định danh app phía vendor (không dùng cho scoping)
	SignDate        string `json:"signDate,omitempty"`        // Thời điểm ký (không kiểm tra hạn)
}

// Verifier xác thực instance token với secret của server.
//
// Chính sách open/closed khi thiếu secret là lựa chọn cấu hình tường minh
// (Strict), không suy diễn ngầm từ môi trường:
//   - Strict=false: secret rỗng => decode best-effort, trust Unverifiable;
//     chữ ký sai => hạ xuống Absent và cho request đi tiếp.
//   - Strict=true: secret rỗng => lỗi cấu hình server (fail closed);
//     chữ ký sai => 401.
type Verifier struct {
	Secret string
	Strict bool
}

// NewVerifier tạo verifier với secret và chế độ strict
func NewVerifier(secret string, strict bool) *Verifier {
	return &Verifier{Secret: secret, Strict: strict}
}

// Verify phân giải credential thô thành Identity + Claims.
//
// Không có credential không bao giờ là lỗi: trả về Identity{Trust: Absent}.
// ComponentID không được set ở đây — đó là việc của ResolveComponentID.
func (v *Verifier) Verify(raw string) (Identity, *Claims, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" {
		return Identity{Trust: TrustAbsent}, nil, nil
	}

	claims, payloadSeg, sigSeg, decodeErr := decodeToken(raw)

	// Secret chưa cấu hình
	if v.Secret == "" {
		if v.Strict {
			// Fail closed: thiếu secret ở chế độ strict là lỗi cấu hình server
			return Identity{Trust: TrustAbsent}, nil, common.ErrServerConfig
		}
		if decodeErr != nil {
			// Permissive: bằng chứng hỏng được xử lý cục bộ như không có danh tính
			return Identity{Trust: TrustAbsent}, nil, nil
		}
		return Identity{TenantID: claims.InstanceID, Trust: TrustUnverifiable}, claims, nil
	}

	// Secret đã cấu hình: bắt buộc decode được và chữ ký khớp
	if decodeErr != nil {
		if v.Strict {
			return Identity{Trust: TrustAbsent}, nil, common.ErrTokenDecode
		}
		return Identity{Trust: TrustAbsent}, nil, nil
	}

	if !v.verifySignature(payloadSeg, sigSeg) {
		if v.Strict {
			return Identity{Trust: TrustAbsent}, nil, common.ErrTokenInvalid
		}
		return Identity{Trust: TrustAbsent}, nil, nil
	}

	return Identity{TenantID: claims.InstanceID, Trust: TrustTrusted}, claims, nil
}

// verifySignature tính HMAC-SHA256 trên segment payload gốc (chưa decode)
// và so sánh constant-time với signature đã decode.
func (v *Verifier) verifySignature(payloadSeg, sigSeg string) bool {
	sig, err := decodeSegment(sigSeg)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(v.Secret))
	mac.Write([]byte(payloadSeg))
	expected := mac.Sum(nil)

	return hmac.Equal(sig, expected)
}

// decodeToken tách credential thành (claims, payload segment, signature segment).
//
// Credential có hai layout vật lý: payload.signature hoặc signature.payload.
// Không có cách nào phân biệt ngoài việc thử decode: segment nào parse ra
// claims có instanceId thì là payload, segment còn lại là chữ ký. Cả hai
// segment đều không parse được => lỗi decode, không bao giờ trả về danh tính
// mặc định.
func decodeToken(raw string) (*Claims, string, string, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 2 {
		return nil, "", "", common.ErrTokenDecode
	}

	if claims, err := parseClaims(parts[0]); err == nil {
		return claims, parts[0], parts[1], nil
	}
	if claims, err := parseClaims(parts[1]); err == nil {
		return claims, parts[1], parts[0], nil
	}

	return nil, "", "", common.ErrTokenDecode
}

// parseClaims decode một segment base64url thành Claims.
// Claims thiếu instanceId là lỗi decode, không phải thành công với danh tính rỗng.
func parseClaims(segment string) (*Claims, error) {
	data, err := decodeSegment(segment)
	if err != nil {
		return nil, common.ErrTokenDecode
	}

	var claims Claims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, common.ErrTokenDecode
	}
	if claims.InstanceID == "" {
		return nil, common.ErrTokenDecode
	}

	return &claims, nil
}

// decodeSegment decode base64url, chấp nhận cả dạng có padding lẫn không
func decodeSegment(segment string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(segment, "="))
}
