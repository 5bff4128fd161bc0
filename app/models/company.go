package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	CompanyStatusActive   = "active"
	CompanyStatusInactive = "inactive"
)

// Company is a partner installation company that receives shared leads
// and may credit them back within the credit window. Partner requests on
// the credit endpoint authenticate with an API key; only its SHA-256
// hash is stored.
type Company struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"name" validate:"required,min=2,max=150"`
	ContactEmail     string         `gorm:"type:varchar(200)" json:"contact_email" validate:"omitempty,email,max=200"`
	Status           string         `gorm:"type:varchar(20);not null;default:'active'" json:"status" validate:"oneof=active inactive"`
	APIKeyHash       string         `gorm:"type:char(64);default:''" json:"-"`
	APIKeyPrefix     string         `gorm:"type:varchar(20);default:''" json:"api_key_prefix"`
	APIKeyCreatedAt  *time.Time     `json:"api_key_created_at,omitempty"`
	APIKeyLastUsedAt *time.Time     `json:"api_key_last_used_at,omitempty"`
	APIKeyRevokedAt  *time.Time     `json:"-"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

var companyKeyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

const companyKeyPrefix = "pfk_"

func (c *Company) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// HasActiveAPIKey reports whether the company can call partner endpoints.
func (c *Company) HasActiveAPIKey() bool {
	return c != nil && c.APIKeyHash != "" && c.APIKeyRevokedAt == nil
}

// IssueAPIKey generates a new partner API key, stores its metadata on the
// struct, and returns the raw secret. Callers must persist the struct
// afterwards; the raw key is never recoverable later.
func (c *Company) IssueAPIKey() (string, error) {
	rawKey, prefix, hash, err := generateCompanyKeyMaterial()
	if err != nil {
		return "", err
	}
	now := time.Now()
	c.APIKeyHash = hash
	c.APIKeyPrefix = prefix
	c.APIKeyCreatedAt = &now
	c.APIKeyRevokedAt = nil
	c.APIKeyLastUsedAt = nil
	return rawKey, nil
}

// RevokeAPIKey clears the stored API key without deleting the company.
func (c *Company) RevokeAPIKey() {
	c.APIKeyHash = ""
	c.APIKeyPrefix = ""
	now := time.Now()
	c.APIKeyRevokedAt = &now
	c.APIKeyLastUsedAt = nil
}

// TouchAPIKeyUsage updates the last-used timestamp metadata.
func (c *Company) TouchAPIKeyUsage() {
	now := time.Now()
	c.APIKeyLastUsedAt = &now
}

// HashAPIKey returns the SHA-256 hash for the provided API key.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}

func generateCompanyKeyMaterial() (string, string, string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", "", err
	}
	encoded := strings.ToLower(companyKeyEncoding.EncodeToString(b))
	rawKey := companyKeyPrefix + encoded
	if len(rawKey) < 12 {
		return "", "", "", fmt.Errorf("api key generation failed: key too short")
	}
	prefix := rawKey[:min(len(rawKey), 16)]
	hash := HashAPIKey(rawKey)
	return rawKey, prefix, hash, nil
}
