package gateway

import (
	"context"
	"time"

	"gorm.io/gorm"

	"draftsync/domain"
)

// DocumentRow is the stored shape of a document. Ids are sequential per
// user, so the key is composite.
type DocumentRow struct {
	UserID    uint64 `gorm:"primaryKey;autoIncrement:false"`
	DocID     uint64 `gorm:"primaryKey;autoIncrement:false"`
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DocumentRow) TableName() string {
	return "documents"
}

func (r DocumentRow) toDomain() domain.Document {
	return domain.Document{
		ID:        r.DocID,
		Title:     r.Title,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// PostgresStore persists documents in postgres through gorm. The server
// handlers use its user-scoped methods directly; ForUser binds a user for
// embedded (local-mode) engine use.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateDocument assigns the next per-user sequential id inside a
// transaction and inserts the row.
func (s *PostgresStore) CreateDocument(ctx context.Context, userID uint64, content string) (*domain.Document, error) {
	var docID uint64
	now := time.Now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Raw(`
			INSERT INTO documents (user_id, doc_id, title, content, created_at, updated_at)
			SELECT ?, COALESCE(MAX(doc_id), 0) + 1, ?, ?, ?, ?
			FROM documents
			WHERE user_id = ?
			RETURNING doc_id
		`, userID, "", content, now, now, userID).Scan(&docID).Error
	})
	if err != nil {
		return nil, err
	}

	return &domain.Document{
		ID:        docID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) GetDocument(ctx context.Context, userID, docID uint64) (*domain.Document, error) {
	var row DocumentRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND doc_id = ?", userID, docID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	doc := row.toDomain()
	return &doc, nil
}

// UpdateDocument overwrites the patched fields and returns the stored
// record. The engine always patches both fields, making this the full-row
// overwrite that last-write-wins relies on.
func (s *PostgresStore) UpdateDocument(ctx context.Context, userID, docID uint64, patch domain.DocumentPatch) (*domain.Document, error) {
	values := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		values["title"] = *patch.Title
	}
	if patch.Content != nil {
		values["content"] = *patch.Content
	}

	result := s.db.WithContext(ctx).
		Model(&DocumentRow{}).
		Where("user_id = ? AND doc_id = ?", userID, docID).
		Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return s.GetDocument(ctx, userID, docID)
}

func (s *PostgresStore) DeleteDocument(ctx context.Context, userID, docID uint64) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND doc_id = ?", userID, docID).
		Delete(&DocumentRow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context, userID uint64) ([]domain.Document, error) {
	var rows []DocumentRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("doc_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.toDomain())
	}
	return docs, nil
}

// ForUser returns a Gateway bound to one user, for running the engine
// against the database directly instead of through the HTTP API.
func (s *PostgresStore) ForUser(userID uint64) Gateway {
	return &userGateway{store: s, userID: userID}
}

type userGateway struct {
	store  *PostgresStore
	userID uint64
}

func (g *userGateway) Create(ctx context.Context, content string) (*domain.Document, error) {
	return g.store.CreateDocument(ctx, g.userID, content)
}

func (g *userGateway) Get(ctx context.Context, id uint64) (*domain.Document, error) {
	return g.store.GetDocument(ctx, g.userID, id)
}

func (g *userGateway) Update(ctx context.Context, id uint64, patch domain.DocumentPatch) (*domain.Document, error) {
	return g.store.UpdateDocument(ctx, g.userID, id, patch)
}

func (g *userGateway) Delete(ctx context.Context, id uint64) error {
	return g.store.DeleteDocument(ctx, g.userID, id)
}

func (g *userGateway) List(ctx context.Context) ([]domain.Document, error) {
	return g.store.ListDocuments(ctx, g.userID)
}
