package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"

	"toolbay/internal/broadcast"
	"toolbay/internal/models"
	"toolbay/internal/repository"
)

// AdminService issues moderator sessions and performs moderation actions.
// This is operator tooling, not a user login system: the site itself has no
// accounts.
type AdminService interface {
	Login(password string) (token string, expiresAt time.Time, err error)
	VerifyToken(tokenString string) (*models.AdminClaims, error)
	ApproveTool(id string) (*models.Tool, error)
	RejectTool(id string) error
}

type adminService struct {
	tools        repository.ToolRepository
	hub          *broadcast.Hub
	passwordHash string
	jwtSecret    []byte
	tokenTTL     time.Duration
	logger       *zap.Logger
}

func NewAdminService(
	tools repository.ToolRepository,
	hub *broadcast.Hub,
	passwordHash, jwtSecret string,
	tokenTTL time.Duration,
	logger *zap.Logger,
) AdminService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &adminService{
		tools:        tools,
		hub:          hub,
		passwordHash: passwordHash,
		jwtSecret:    []byte(jwtSecret),
		tokenTTL:     tokenTTL,
		logger:       logger,
	}
}

func (s *adminService) Login(password string) (string, time.Time, error) {
	if s.passwordHash == "" || !VerifyPassword(s.passwordHash, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	expirationTime := time.Now().Add(s.tokenTTL)
	claims := &models.AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		s.logger.Error("Failed to generate JWT token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("Moderator logged in")
	return tokenString, expirationTime, nil
}

func (s *adminService) VerifyToken(tokenString string) (*models.AdminClaims, error) {
	claims := &models.AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Role != "admin" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (s *adminService) ApproveTool(id string) (*models.Tool, error) {
	if err := s.tools.SetApproved(id, true); err != nil {
		return nil, ErrToolNotFound
	}
	tool, err := s.tools.GetByID(id)
	if err != nil || tool == nil {
		return nil, ErrToolNotFound
	}

	s.hub.Publish(broadcast.GlobalRoom, broadcast.EventToolUpdated, tool)
	s.logger.Info("Tool approved", zap.String("tool_id", id))
	return tool, nil
}

func (s *adminService) RejectTool(id string) error {
	if err := s.tools.SoftDelete(id); err != nil {
		return ErrToolNotFound
	}
	s.logger.Info("Tool rejected", zap.String("tool_id", id))
	return nil
}

// Argon2id parameters for the moderator password hash.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// HashPassword hashes a password with Argon2id into the encoded form
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>.
func HashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argonMemory, argonTime, argonThreads, encodedSalt, encodedHash), nil
}

// VerifyPassword compares a plaintext password against an encoded Argon2id
// hash in constant time.
func VerifyPassword(encoded, password string) bool {
	sections := strings.Split(strings.TrimPrefix(encoded, "$"), "$")
	// Expected: ["argon2id", "v=19", "m=65536,t=1,p=4", salt, hash]
	if len(sections) != 5 || sections[0] != "argon2id" {
		return false
	}

	var m, t uint32
	var p uint8
	if _, err := fmt.Sscanf(sections[2], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(sections[3])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(sections[4])
	if err != nil {
		return false
	}

	actual := argon2.IDKey([]byte(password), salt, t, m, p, uint32(len(expected)))
	return subtle.ConstantTimeCompare(actual, expected) == 1
}
