package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/models"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

var ErrTeamNotFound = errors.New("ROSTER_TEAM_NOT_FOUND")

// Repository loads the members of a team.
type Repository interface {
	Load(ctx context.Context, teamID string) ([]models.TeamMember, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const loadTeamQuery = `
		SELECT name, role, skills, email, phone
		FROM team_members
		WHERE team_id = $1 AND active = true
		ORDER BY position, id`

func (r *PostgresRepository) Load(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	rows, err := r.db.QueryContext(ctx, loadTeamQuery, teamID)
	if err != nil {
		return nil, fmt.Errorf("query team %s: %w", teamID, err)
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		var (
			m            models.TeamMember
			skills       pq.StringArray
			email, phone sql.NullString
		)
		if err := rows.Scan(&m.Name, &m.Role, &skills, &email, &phone); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		m.Skills = models.NormalizeSkills(skills)
		m.Email = email.String
		m.Phone = phone.String
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team members: %w", err)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
	}
	return members, nil
}

// CachedRepository reads through Redis before falling back to next.
// Cache failures are logged and never fail a load.
type CachedRepository struct {
	next   Repository
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRepository(next Repository, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedRepository {
	return &CachedRepository{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: log,
	}
}

func cacheKey(teamID string) string {
	return "roster:team:" + teamID
}

func (r *CachedRepository) Load(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	key := cacheKey(teamID)
	if val, err := r.redis.Get(ctx, key).Result(); err == nil {
		var members []models.TeamMember
		if err := json.Unmarshal([]byte(val), &members); err == nil {
			return members, nil
		}
		r.logger.Warn("discarding unreadable roster cache entry", map[string]interface{}{
			"teamId": teamID,
		})
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("roster cache read failed", map[string]interface{}{
			"teamId": teamID,
			"error":  err.Error(),
		})
	}

	members, err := r.next.Load(ctx, teamID)
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(members)
	if err := r.redis.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("roster cache write failed", map[string]interface{}{
			"teamId": teamID,
			"error":  err.Error(),
		})
	}
	return members, nil
}

// Invalidate drops the cached roster of a team.
func (r *CachedRepository) Invalidate(ctx context.Context, teamID string) error {
	return r.redis.Del(ctx, cacheKey(teamID)).Err()
}

// FileRepository serves one roster file for every team id.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Load(_ context.Context, _ string) ([]models.TeamMember, error) {
	return LoadFile(r.path)
}
