package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"english_exam_backend/internal/config"
	"english_exam_backend/internal/model"
	"english_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func newAuthRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(cfg), func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	r.GET("/admin", AuthMiddleware(cfg), AdminMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-long-enough-for-hs256"
	cfg.JWT.ExpireTime = time.Hour
	return cfg
}

func tokenFor(t *testing.T, cfg *config.Config, username string) string {
	t.Helper()
	user := &model.User{Username: username}
	user.ID = 7
	token, err := util.GenerateJWT(user, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	router := newAuthRouter(cfg)

	// 无令牌
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}

	// 伪造令牌
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", w.Code)
	}

	// Bearer 头
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, "alice"))
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", w.Code)
	}

	// query 参数兜底
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected?token="+tokenFor(t, cfg, "alice"), nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("query token status = %d, want 200", w.Code)
	}
}

func TestAdminMiddleware(t *testing.T) {
	cfg := testConfig()
	router := newAuthRouter(cfg)

	// 普通用户被拒
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, "alice"))
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", w.Code)
	}

	// 管理员放行
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, model.AdminUsername))
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", w.Code)
	}
}
