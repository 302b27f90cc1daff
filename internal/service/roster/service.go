package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Service резолвер участников ростера.
// Ростер читается на каждый вызов: без кеша в памяти процесса.
type Service struct {
	source    Source
	overrides map[string]domain.Role
	logger    Logger
}

// NewService создает новый экземпляр сервиса ростера.
// overrides - роли, которые имеют приоритет над ролью из ростера (ключ - имя участника).
func NewService(source Source, overrides map[string]string, logger Logger) *Service {
	normalized := make(map[string]domain.Role, len(overrides))
	for name, role := range overrides {
		key := domain.NormalizeName(name)
		if key == "" {
			continue
		}
		normalized[key] = domain.ParseRole(role)
	}

	return &Service{
		source:    source,
		overrides: normalized,
		logger:    logger,
	}
}

// ResolveCanonicalName находит участника без учета регистра и возвращает имя в написании ростера
func (s *Service) ResolveCanonicalName(ctx context.Context, identity string) (string, error) {
	target := domain.NormalizeName(identity)
	if target == "" {
		return "", ErrInvalidInput
	}

	entries, err := s.entries(ctx)
	if err != nil {
		return "", err
	}

	for _, e := range entries {
		if domain.NormalizeName(e.DisplayName) != target {
			continue
		}
		key := domain.MemberKey(e.DisplayName)
		if others := memberKeyCollisions(entries)[key]; len(others) > 0 {
			s.logger.Error("ResolveCanonicalName: %q shares storage key %q with %v, writes refused", e.DisplayName, key, others)
			return "", fmt.Errorf("%w: %q", ErrMemberKeyCollision, e.DisplayName)
		}
		return e.DisplayName, nil
	}

	return "", ErrMemberNotFound
}

// ResolveRole возвращает роль участника; при любой проблеме - роль по умолчанию
func (s *Service) ResolveRole(ctx context.Context, displayName string) domain.Role {
	key := domain.NormalizeName(displayName)
	if role, ok := s.overrides[key]; ok {
		return role
	}

	entries, err := s.entries(ctx)
	if err != nil {
		s.logger.Warn("ResolveRole: roster unavailable, using default role for %q", displayName)
		return domain.DefaultRole
	}

	for _, e := range entries {
		if domain.NormalizeName(e.DisplayName) == key {
			return e.Role
		}
	}

	return domain.DefaultRole
}

// ListMembers возвращает канонические имена участников, без дублей, в порядке сортировки ростера
func (s *Service) ListMembers(ctx context.Context) ([]string, error) {
	entries, err := s.entries(ctx)
	if err != nil {
		return nil, err
	}

	collisions := memberKeyCollisions(entries)
	for key, names := range collisions {
		s.logger.Error("ListMembers: members %v share storage key %q, excluded", names, key)
	}

	names := uniqueNames(entries)
	if len(collisions) == 0 {
		return names, nil
	}

	members := make([]string, 0, len(names))
	for _, name := range names {
		if _, bad := collisions[domain.MemberKey(name)]; bad {
			continue
		}
		members = append(members, name)
	}
	return members, nil
}

// Roles возвращает роли всех участников (ключ - имя в нижнем регистре), включая overrides
func (s *Service) Roles(ctx context.Context) (map[string]string, error) {
	roles := make(map[string]string)

	entries, err := s.entries(ctx)
	for _, e := range entries {
		roles[domain.NormalizeName(e.DisplayName)] = string(e.Role)
	}
	for name, role := range s.overrides {
		roles[name] = string(role)
	}

	return roles, err
}

func (s *Service) entries(ctx context.Context) ([]domain.RosterEntry, error) {
	entries, err := s.source.GetEntries(ctx)
	if err != nil {
		s.logger.Error("Roster source failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrRosterUnavailable, err)
	}
	return entries, nil
}

func uniqueNames(entries []domain.RosterEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	names := make([]string, 0, len(entries))

	for _, e := range entries {
		name := strings.TrimSpace(e.DisplayName)
		key := domain.NormalizeName(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}

	return domain.SortDisplayNames(names)
}

// memberKeyCollisions возвращает ключи хранения, на которые претендуют разные участники.
// Разное написание одного имени (регистр, пробелы) коллизией не считается.
func memberKeyCollisions(entries []domain.RosterEntry) map[string][]string {
	owners := make(map[string][]string)
	for _, name := range uniqueNames(entries) {
		key := domain.MemberKey(name)
		owners[key] = append(owners[key], name)
	}

	collisions := make(map[string][]string)
	for key, names := range owners {
		if len(names) > 1 {
			collisions[key] = names
		}
	}
	return collisions
}
