package idea

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"ideadrop.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL. Tags are kept as a jsonb column.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, i *Idea) error {
	if i.ID == "" {
		i.ID = ids.New()
	}
	tags, _ := json.Marshal(i.Tags)
	_, err := s.db.ExecContext(ctx,
		`insert into ideas(id, title, summary, description, tags, user_id) values($1,$2,$3,$4,$5,$6)`,
		i.ID, i.Title, i.Summary, i.Description, tags, i.UserID,
	)
	return err
}

func (s *PGStore) Find(ctx context.Context, id string) (*Idea, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, title, summary, description, tags, user_id, created_at, updated_at from ideas where id=$1`, id)
	var (
		i    Idea
		tags []byte
	)
	if err := row.Scan(&i.ID, &i.Title, &i.Summary, &i.Description, &tags, &i.UserID, &i.CreatedAt, &i.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	_ = json.Unmarshal(tags, &i.Tags)
	return &i, nil
}

func (s *PGStore) List(ctx context.Context, limit int) ([]*Idea, error) {
	query := `select id, title, summary, description, tags, user_id, created_at, updated_at from ideas order by created_at desc`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+` limit $1`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Idea
	for rows.Next() {
		var (
			i    Idea
			tags []byte
		)
		if err := rows.Scan(&i.ID, &i.Title, &i.Summary, &i.Description, &tags, &i.UserID, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(tags, &i.Tags)
		res = append(res, &i)
	}
	return res, rows.Err()
}

func (s *PGStore) Update(ctx context.Context, i *Idea) error {
	tags, _ := json.Marshal(i.Tags)
	result, err := s.db.ExecContext(ctx,
		`update ideas set title=$2, summary=$3, description=$4, tags=$5, updated_at=now() where id=$1`,
		i.ID, i.Title, i.Summary, i.Description, tags,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `delete from ideas where id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
