package dao

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dto"
	"github.com/gofrs/uuid"
	"github.com/sethvargo/go-password/password"
	"golang.org/x/crypto/pbkdf2"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email     string `json:"email" gorm:"uniqueIndex"`
	Password  string `json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	LastActive  *time.Time `json:"last_active" extensions:"x-nullable"`
	LastLoginIp string     `json:"-"`

	IsActive    bool `json:"is_active" gorm:"default:true"`
	IsSuperuser bool `json:"is_superuser" gorm:"default:false"`
}

func (User) TableName() string { return "users" }

func (u *User) ToLightDTO() *dto.UserLight {
	if u == nil {
		return nil
	}
	return &dto.UserLight{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// AddDefaultUser создает суперпользователя при первом запуске приложения.
// Сгенерированный пароль выводится в лог единственный раз.
func AddDefaultUser(db *gorm.DB, email string) {
	pass := GenPassword()
	tm := time.Now()
	user := User{
		ID:          GenUUID(),
		Email:       email,
		Password:    GenPasswordHash(pass),
		FirstName:   "Admin",
		LastActive:  &tm,
		IsActive:    true,
		IsSuperuser: true,
	}

	if err := db.Create(&user).Error; err != nil {
		slog.Error("Create default user", "err", err)
	} else {
		slog.Info("Default user created", "email", email, "password", pass)
	}
}

func GenPassword() string {
	return password.MustGenerate(12, 6, 0, false, false)
}

// Генерация хэша пароля для базы
func GenPasswordHash(password string) string {
	letters := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	salt := make([]rune, 32)
	for i := range salt {
		nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		salt[i] = letters[nBig.Int64()]
	}

	return fmt.Sprintf("pbkdf2_sha256$260000$%s$%s",
		string(salt),
		base64.StdEncoding.EncodeToString(pbkdf2.Key([]byte(password), []byte(string(salt)), 260000, 32, sha256.New)),
	)
}

// UpdateUserLastActivityTime обновляет отметку последней активности
// пользователя. Вызывается на каждом авторизованном запросе.
func UpdateUserLastActivityTime(db *gorm.DB, user *User, ip string) error {
	tm := time.Now()
	user.LastActive = &tm
	user.LastLoginIp = ip
	return db.Model(user).Select("LastActive", "LastLoginIp").Updates(user).Error
}

// Проверка хешированого пароля
func CheckPasswordHash(password string, hash string) bool {
	ss := strings.Split(hash, "$")
	if len(ss) != 4 {
		return false
	}
	return base64.StdEncoding.EncodeToString(pbkdf2.Key([]byte(password), []byte(ss[2]), 260000, 32, sha256.New)) == ss[3]
}
