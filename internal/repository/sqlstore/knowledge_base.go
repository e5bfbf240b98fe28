package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/repository"
)

type knowledgeBaseRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	Keywords  string    `db:"keywords"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r knowledgeBaseRow) toModel() (*model.KnowledgeBaseEntry, error) {
	entry := &model.KnowledgeBaseEntry{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     r.Title,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(r.Keywords), &entry.Keywords); err != nil {
		return nil, fmt.Errorf("decoding keywords for entry %s: %w", r.ID, err)
	}
	entry.Keywords = nonNilStrings(entry.Keywords)
	return entry, nil
}

const knowledgeBaseColumns = `id, user_id, title, content, keywords, created_at, updated_at`

// KnowledgeBaseRepository is the SQL implementation of repository.KnowledgeBaseRepository.
type KnowledgeBaseRepository struct {
	db *sqlx.DB
}

func NewKnowledgeBaseRepository(db *sqlx.DB) *KnowledgeBaseRepository {
	return &KnowledgeBaseRepository{db: db}
}

func (r *KnowledgeBaseRepository) Create(ctx context.Context, entry *model.KnowledgeBaseEntry) error {
	keywords, err := json.Marshal(nonNilStrings(entry.Keywords))
	if err != nil {
		return fmt.Errorf("encoding keywords: %w", err)
	}
	query := r.db.Rebind(`INSERT INTO knowledge_base (` + knowledgeBaseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err = r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Title, entry.Content, string(keywords),
		entry.CreatedAt.UTC(), entry.UpdatedAt.UTC())
	return err
}

func (r *KnowledgeBaseRepository) FindByID(ctx context.Context, id string) (*model.KnowledgeBaseEntry, error) {
	var row knowledgeBaseRow
	query := r.db.Rebind(`SELECT ` + knowledgeBaseColumns + ` FROM knowledge_base WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrEntryNotFound
		}
		return nil, err
	}
	return row.toModel()
}

func (r *KnowledgeBaseRepository) FindByUserID(ctx context.Context, userID string) ([]*model.KnowledgeBaseEntry, error) {
	var rows []knowledgeBaseRow
	query := r.db.Rebind(`SELECT ` + knowledgeBaseColumns + ` FROM knowledge_base WHERE user_id = ? ORDER BY created_at DESC`)
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}

	entries := make([]*model.KnowledgeBaseEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toModel()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *KnowledgeBaseRepository) Update(ctx context.Context, entry *model.KnowledgeBaseEntry) error {
	keywords, err := json.Marshal(nonNilStrings(entry.Keywords))
	if err != nil {
		return fmt.Errorf("encoding keywords: %w", err)
	}
	query := r.db.Rebind(`UPDATE knowledge_base SET title = ?, content = ?, keywords = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, entry.Title, entry.Content, string(keywords), time.Now().UTC(), entry.ID)
	if err != nil {
		return err
	}
	return expectRow(res, repository.ErrEntryNotFound)
}

func (r *KnowledgeBaseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM knowledge_base WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return expectRow(res, repository.ErrEntryNotFound)
}

func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
