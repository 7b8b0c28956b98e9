package service

import (
	"context"
	"encoding/hex"
	"strings"

	"campusvibe/internal/clock"
	"campusvibe/internal/models"
	"campusvibe/internal/observability"
	"campusvibe/internal/repository"

	"golang.org/x/crypto/blake2b"
)

// UserService binds opaque device identifiers to anonymous users. Raw device
// ids are never stored; the users table holds a keyed BLAKE2b digest.
type UserService struct {
	userRepo repository.UserRepository
	clock    clock.Clock
	key      [32]byte
}

func NewUserService(userRepo repository.UserRepository, pepper string, clk clock.Clock) *UserService {
	return &UserService{
		userRepo: userRepo,
		clock:    clk,
		key:      blake2b.Sum256([]byte(pepper)),
	}
}

// Authenticate returns the user for deviceID, creating it on first contact.
func (s *UserService) Authenticate(ctx context.Context, deviceID string) (*models.User, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, models.NewValidationError("deviceId is required")
	}
	if len(deviceID) > maxDeviceIDLength {
		return nil, models.NewValidationError("deviceId too long")
	}

	span, ctx := observability.NewSpan(ctx, "UserService.Authenticate")
	defer span.End()

	user, err := s.userRepo.GetOrCreate(ctx, s.DeviceDigest(deviceID), s.clock.Now())
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return user, nil
}

// DeviceDigest returns the stored form of a device identifier.
func (s *UserService) DeviceDigest(deviceID string) string {
	h, err := blake2b.New256(s.key[:])
	if err != nil {
		// Only reachable with a key longer than 64 bytes.
		panic(err)
	}
	h.Write([]byte(deviceID))
	return hex.EncodeToString(h.Sum(nil))
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := requireID("userId", id); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}
