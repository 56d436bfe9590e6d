package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flavoradmin/internal/database"
	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testSecret = []byte("test-secret")

type guardFixture struct {
	db     *gorm.DB
	router *gin.Engine
	user   model.User
}

// newGuardFixture wires a router with one probe route requiring the given
// permission codes, plus a staff user holding no grants at all.
func newGuardFixture(t *testing.T, required ...string) *guardFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))

	var staff model.Role
	require.NoError(t, db.Where("name = ?", "staff").First(&staff).Error)
	user := model.User{
		FirstName:    "Plain",
		LastName:     "Staffer",
		Username:     "staffer",
		PasswordHash: "irrelevant",
		RoleID:       staff.ID,
	}
	require.NoError(t, db.Create(&user).Error)

	guard := NewGuard(testSecret, repository.NewPermissionRepository(db))
	router := gin.New()
	router.GET("/probe", guard.RequireAuth(), guard.RequirePermission(required...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return &guardFixture{db: db, router: router, user: user}
}

func (f *guardFixture) token(t *testing.T, user model.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":     user.ID,
		"role_id": user.RoleID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func (f *guardFixture) probe(t *testing.T, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec.Code
}

func (f *guardFixture) grant(t *testing.T, code string) {
	t.Helper()
	var perm model.Permission
	require.NoError(t, f.db.Where("code = ?", code).First(&perm).Error)
	require.NoError(t, f.db.Model(&f.user).Association("Permissions").Append(&perm))
}

func (f *guardFixture) revoke(t *testing.T, code string) {
	t.Helper()
	var perm model.Permission
	require.NoError(t, f.db.Where("code = ?", code).First(&perm).Error)
	require.NoError(t, f.db.Model(&f.user).Association("Permissions").Delete(&perm))
}

func TestRequireAuthRejectsBadTokens(t *testing.T) {
	f := newGuardFixture(t, model.PermExportData)

	assert.Equal(t, http.StatusUnauthorized, f.probe(t, ""))
	assert.Equal(t, http.StatusUnauthorized, f.probe(t, "not-a-jwt"))

	claims := jwt.MapClaims{
		"sub":     f.user.ID,
		"role_id": f.user.RoleID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, f.probe(t, forged))

	expired := jwt.MapClaims{
		"sub":     f.user.ID,
		"role_id": f.user.RoleID,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}
	stale, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString(testSecret)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, f.probe(t, stale))
}

func TestEffectiveSetIsUnionOfRoleAndDirectGrants(t *testing.T) {
	f := newGuardFixture(t, model.PermExportData)
	token := f.token(t, f.user)

	// No grant from either source
	assert.Equal(t, http.StatusForbidden, f.probe(t, token))

	// Direct grant alone suffices
	f.grant(t, model.PermExportData)
	assert.Equal(t, http.StatusOK, f.probe(t, token))
	f.revoke(t, model.PermExportData)

	// Role grant alone suffices
	var perm model.Permission
	require.NoError(t, f.db.Where("code = ?", model.PermExportData).First(&perm).Error)
	staff := model.Role{ID: f.user.RoleID}
	require.NoError(t, f.db.Model(&staff).Association("Permissions").Append(&perm))
	assert.Equal(t, http.StatusOK, f.probe(t, token))
}

func TestRevocationDeniesNextRequest(t *testing.T) {
	f := newGuardFixture(t, model.PermExportData)
	token := f.token(t, f.user)

	f.grant(t, model.PermExportData)
	assert.Equal(t, http.StatusOK, f.probe(t, token))

	f.revoke(t, model.PermExportData)
	assert.Equal(t, http.StatusForbidden, f.probe(t, token))
}

func TestRequirePermissionNeedsEveryCode(t *testing.T) {
	f := newGuardFixture(t, model.PermExportData, model.PermViewLogs)
	token := f.token(t, f.user)

	f.grant(t, model.PermExportData)
	assert.Equal(t, http.StatusForbidden, f.probe(t, token))

	f.grant(t, model.PermViewLogs)
	assert.Equal(t, http.StatusOK, f.probe(t, token))
}

func TestHasAll(t *testing.T) {
	granted := []string{"a", "b", "c"}

	assert.True(t, HasAll(granted, nil))
	assert.True(t, HasAll(granted, []string{"a"}))
	assert.True(t, HasAll(granted, []string{"a", "c"}))
	assert.False(t, HasAll(granted, []string{"a", "d"}))
	assert.False(t, HasAll(nil, []string{"a"}))
}
