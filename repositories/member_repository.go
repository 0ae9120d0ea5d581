package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/club-system/models"
	"github.com/lib/pq"
)

var (
	ErrMemberNotFound         = errors.New("member not found")
	ErrMemberNicknameConflict = errors.New("member nickname already in use")
)

type MemberRepository interface {
	List(ctx context.Context) ([]models.Member, error)
	GetByID(ctx context.Context, id int) (*models.Member, error)
	Create(ctx context.Context, member *models.Member) error
	UpdateRating(ctx context.Context, id int, rating *int) error
	UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresMemberRepository struct {
	db *sql.DB
}

func NewPostgresMemberRepository(db *sql.DB) MemberRepository {
	return &postgresMemberRepository{db: db}
}

const memberColumns = `id, first_name, last_name, nickname, rating, active, created_at, avatar_key`

func scanMember(scanner interface{ Scan(dest ...interface{}) error }, m *models.Member) error {
	return scanner.Scan(
		&m.ID,
		&m.FirstName,
		&m.LastName,
		&m.Nickname,
		&m.Rating,
		&m.Active,
		&m.CreatedAt,
		&m.AvatarKey,
	)
}

func (r *postgresMemberRepository) List(ctx context.Context) ([]models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := make([]models.Member, 0)
	for rows.Next() {
		var m models.Member
		if err := scanMember(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during member rows iteration: %w", err)
	}
	return members, nil
}

func (r *postgresMemberRepository) GetByID(ctx context.Context, id int) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	m := &models.Member{}
	err := scanMember(r.db.QueryRowContext(ctx, query, id), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to scan member by id %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMemberRepository) Create(ctx context.Context, member *models.Member) error {
	query := `
		INSERT INTO members (first_name, last_name, nickname, rating, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		member.FirstName,
		member.LastName,
		member.Nickname,
		member.Rating,
		member.Active,
	).Scan(&member.ID, &member.CreatedAt)

	return r.handleMemberError(err)
}

func (r *postgresMemberRepository) UpdateRating(ctx context.Context, id int, rating *int) error {
	query := `UPDATE members SET rating = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, rating, id)
	if err != nil {
		return fmt.Errorf("failed to update rating for member %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

func (r *postgresMemberRepository) UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error {
	query := `UPDATE members SET avatar_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, avatarKey, id)
	if err != nil {
		return fmt.Errorf("failed to update avatar key for member %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

func (r *postgresMemberRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

func (r *postgresMemberRepository) handleMemberError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		// members_nickname_key unique constraint
		return ErrMemberNicknameConflict
	}
	return err
}
