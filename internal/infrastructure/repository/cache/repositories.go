package cache

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/player"
	"github.com/riskibarqy/cricket-league/internal/domain/team"
	basecache "github.com/riskibarqy/cricket-league/internal/platform/cache"
)

// lookup is a cached single-row read, remembering misses too.
type lookup[T any] struct {
	value  T
	exists bool
}

type TeamRepository struct {
	next  team.Repository
	byID  *basecache.Store[lookup[team.Team]]
	lists *basecache.Store[[]team.Team]
}

// NewTeamRepository caches team reads for ttl. Teams are reference data,
// so nothing invalidates entries early.
func NewTeamRepository(next team.Repository, ttl time.Duration) *TeamRepository {
	return &TeamRepository{
		next:  next,
		byID:  basecache.NewStore[lookup[team.Team]](ttl),
		lists: basecache.NewStore[[]team.Team](ttl),
	}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	v, err := r.byID.GetOrLoad(ctx, "team:id:"+teamID, func(ctx context.Context) (lookup[team.Team], error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return lookup[team.Team]{}, err
		}
		return lookup[team.Team]{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return v.value, v.exists, nil
}

func (r *TeamRepository) ListByIDs(ctx context.Context, teamIDs []string) ([]team.Team, error) {
	v, err := r.lists.GetOrLoad(ctx, "team:ids:"+idsKey(teamIDs), func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.ListByIDs(ctx, teamIDs)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), v...), nil
}

type PlayerRepository struct {
	next  player.Repository
	byID  *basecache.Store[lookup[player.Player]]
	lists *basecache.Store[[]player.Player]
}

func NewPlayerRepository(next player.Repository, ttl time.Duration) *PlayerRepository {
	return &PlayerRepository{
		next:  next,
		byID:  basecache.NewStore[lookup[player.Player]](ttl),
		lists: basecache.NewStore[[]player.Player](ttl),
	}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	v, err := r.byID.GetOrLoad(ctx, "player:id:"+playerID, func(ctx context.Context) (lookup[player.Player], error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return lookup[player.Player]{}, err
		}
		return lookup[player.Player]{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}
	return v.value, v.exists, nil
}

func (r *PlayerRepository) ListByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	v, err := r.lists.GetOrLoad(ctx, "player:ids:"+idsKey(playerIDs), func(ctx context.Context) ([]player.Player, error) {
		items, err := r.next.ListByIDs(ctx, playerIDs)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]player.Player(nil), v...), nil
}

// idsKey is order-insensitive so the same roster lookup hits one entry.
func idsKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
