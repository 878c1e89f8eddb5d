package testutil

import (
	"KolBD/internal/api/config"
	"KolBD/internal/model"
	"KolBD/internal/pkg/database"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seq atomic.Int64

// NewTestDB 每次调用得到一个独立的内存 sqlite 库，已执行全部迁移
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	target := &database.Target{
		Dialect:  database.SQLite,
		DSN:      ":memory:?_foreign_keys=1",
		InMemory: true,
	}
	db, err := database.Open(target, config.DBConfig{}, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, database.SQLite))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser 插入一个 member 用户，密码固定为 Password1
func CreateUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	require.NoError(t, err)

	n := seq.Add(1)
	user := &model.User{
		Email:          fmt.Sprintf("user%d@example.com", n),
		HashedPassword: string(hashed),
		FullName:       fmt.Sprintf("User %d", n),
		Role:           model.RoleMember,
		IsActive:       true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateKOL(t *testing.T, db *gorm.DB, userID uint64, username string) *model.KOL {
	t.Helper()

	category := model.CategoryUnknown
	kol := &model.KOL{
		UserID:          userID,
		Username:        username,
		DisplayName:     username,
		Status:          model.KOLStatusNew,
		ContentCategory: &category,
	}
	require.NoError(t, db.Create(kol).Error)
	return kol
}

func CreateTemplate(t *testing.T, db *gorm.DB, userID uint64) *model.Template {
	t.Helper()

	template := &model.Template{
		UserID:   userID,
		Name:     fmt.Sprintf("template-%d", seq.Add(1)),
		Category: model.TemplateInitial,
		Content:  "Hi {{username}}, this is {{my_name}}",
		Language: "en",
	}
	require.NoError(t, db.Create(template).Error)
	return template
}

func CreateContact(t *testing.T, db *gorm.DB, userID, kolID uint64, templateID *uint64, sentAt time.Time) *model.ContactLog {
	t.Helper()

	contact := &model.ContactLog{
		KOLID:          kolID,
		TemplateID:     templateID,
		UserID:         userID,
		MessageContent: "hello",
		ContactType:    model.ContactDM,
		Status:         model.ContactSent,
		SentAt:         sentAt,
	}
	require.NoError(t, db.Omit("KOL", "Template").Create(contact).Error)
	return contact
}
