package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yndnr/craftgate/internal/core/domain"
)

const profilePrefix = "profile/"

// ProfileStore persists player profiles in a KVEngine.
type ProfileStore struct {
	kv KVEngine
}

// NewProfileStore creates a profile store on top of kv.
func NewProfileStore(kv KVEngine) *ProfileStore {
	return &ProfileStore{kv: kv}
}

func profileKey(uuid string) []byte {
	return []byte(profilePrefix + uuid)
}

// LoadProfile returns the profile for uuid. found is false when no
// profile has been saved yet.
func (s *ProfileStore) LoadProfile(ctx context.Context, uuid string) (*domain.PlayerProfile, bool, error) {
	data, err := s.kv.Get(ctx, profileKey(uuid))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, domain.ErrStorage.WithCause(fmt.Errorf("load profile %s: %w", uuid, err))
	}

	var p domain.PlayerProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false, domain.ErrStorage.WithCause(fmt.Errorf("decode profile %s: %w", uuid, err))
	}
	return &p, true, nil
}

// SaveProfile writes p, replacing any previous profile with the same UUID.
func (s *ProfileStore) SaveProfile(ctx context.Context, p *domain.PlayerProfile) error {
	if p == nil || p.UUID == "" {
		return domain.ErrMissingField.WithDetails("profile uuid")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return domain.ErrStorage.WithCause(fmt.Errorf("encode profile %s: %w", p.UUID, err))
	}
	if err := s.kv.Set(ctx, profileKey(p.UUID), data); err != nil {
		return domain.ErrStorage.WithCause(fmt.Errorf("save profile %s: %w", p.UUID, err))
	}
	return nil
}

// DeleteProfile removes the profile for uuid.
func (s *ProfileStore) DeleteProfile(ctx context.Context, uuid string) error {
	if err := s.kv.Delete(ctx, profileKey(uuid)); err != nil {
		return domain.ErrStorage.WithCause(fmt.Errorf("delete profile %s: %w", uuid, err))
	}
	return nil
}

// ListProfiles returns all stored profiles in key order.
// Entries that fail to decode are skipped.
func (s *ProfileStore) ListProfiles(ctx context.Context) ([]*domain.PlayerProfile, error) {
	var out []*domain.PlayerProfile
	err := s.kv.Scan(ctx, []byte(profilePrefix), func(_, value []byte) bool {
		var p domain.PlayerProfile
		if json.Unmarshal(value, &p) == nil {
			out = append(out, &p)
		}
		return true
	})
	if err != nil {
		return nil, domain.ErrStorage.WithCause(fmt.Errorf("list profiles: %w", err))
	}
	return out, nil
}
