// Package middleware chứa các middleware dùng chung cho API
package middleware

import (
	"github.com/gofiber/fiber/v3"

	basehdl "github.com/Shaen-ai/mapsy-backend/internal/api/base/handler"
	"github.com/Shaen-ai/mapsy-backend/internal/global"
	"github.com/Shaen-ai/mapsy-backend/internal/identity"
	"github.com/Shaen-ai/mapsy-backend/internal/logger"
)

// Keys lưu danh tính trong fiber Locals
const (
	LocalIdentity   = "identity"
	LocalClaims     = "claims"
	LocalCredential = "credential"
)

// Identity phân giải danh tính (tenant, component) cho mọi request đi qua.
//
// Danh tính được dựng lại từ đầu cho từng request, không cache giữa các
// request. Lỗi xác thực chỉ chặn request ở chế độ strict; chế độ permissive
// đã được verifier hạ xuống danh tính absent từ bên trong.
func Identity() fiber.Handler {
	verifier := identity.NewVerifier(global.ServerConfig.InstanceSecret, global.ServerConfig.AuthStrict)

	return func(c fiber.Ctx) error {
		raw := c.Get(fiber.HeaderAuthorization)

		ident, claims, err := verifier.Verify(raw)
		if err != nil {
			logger.WithRequest(c).WithError(err).Warn("Xác thực instance token thất bại")
			return basehdl.HandleResponse(c, nil, err)
		}

		ident.ComponentID = identity.ResolveComponentID(
			c.Get(identity.HeaderComponentID),
			c.Query(identity.QueryComponentID),
			c.Query(identity.QueryComponentIDAlt),
			c.Body(),
		)

		c.Locals(LocalIdentity, ident)
		if claims != nil {
			c.Locals(LocalClaims, claims)
		}
		if raw != "" {
			c.Locals(LocalCredential, raw)
		}

		return c.Next()
	}
}

// IdentityFromCtx lấy danh tính đã phân giải từ context của request.
// Request chưa qua middleware nhận danh tính rỗng (anonymous).
func IdentityFromCtx(c fiber.Ctx) identity.Identity {
	if ident, ok := c.Locals(LocalIdentity).(identity.Identity); ok {
		return ident
	}
	return identity.Identity{}
}

// ClaimsFromCtx lấy claims của instance token, nil nếu request không có token
func ClaimsFromCtx(c fiber.Ctx) *identity.Claims {
	if claims, ok := c.Locals(LocalClaims).(*identity.Claims); ok {
		return claims
	}
	return nil
}

// CredentialFromCtx lấy credential thô client gửi lên (cho /auth-info echo)
func CredentialFromCtx(c fiber.Ctx) string {
	if credential, ok := c.Locals(LocalCredential).(string); ok {
		return credential
	}
	return ""
}
