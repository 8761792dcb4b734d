package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"contentdesk/internal/model"
)

const contentItemColumns = `id, kind, title, slug, category, difficulty, author, read_time,
	excerpt, body, image, image_alt, tags, meta_title, meta_description, focus_keyword,
	seo_score, status, publish_at, created_at, updated_at`

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return []string{}
	}
	return tags
}

func scanContentItem(row interface{ Scan(...any) error }) (model.ContentItem, error) {
	var item model.ContentItem
	var tags string
	err := row.Scan(
		&item.ID, &item.Kind, &item.Title, &item.Slug, &item.Category, &item.Difficulty,
		&item.Author, &item.ReadTime, &item.Excerpt, &item.Body, &item.Image, &item.ImageAlt,
		&tags, &item.MetaTitle, &item.MetaDescription, &item.FocusKeyword,
		&item.SEOScore, &item.Status, &item.PublishAt, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return model.ContentItem{}, err
	}
	item.Tags = decodeTags(tags)
	return item, nil
}

// CreateContentItemParams holds the fields for creating a content item.
type CreateContentItemParams struct {
	ID              string // Optional; a new UUID is assigned when empty
	Kind            string
	Title           string
	Slug            string
	Category        string
	Difficulty      string
	Author          string
	ReadTime        int64
	Excerpt         string
	Body            string
	Image           string
	ImageAlt        string
	Tags            []string
	MetaTitle       string
	MetaDescription string
	FocusKeyword    string
	SEOScore        int64
	Status          string
	PublishAt       sql.NullTime
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateContentItem inserts a content item and returns the stored row.
func (q *Queries) CreateContentItem(ctx context.Context, arg CreateContentItemParams) (model.ContentItem, error) {
	id := arg.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO content_items (
			id, kind, title, slug, category, difficulty, author, read_time,
			excerpt, body, image, image_alt, tags, meta_title, meta_description,
			focus_keyword, seo_score, status, publish_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, arg.Kind, arg.Title, arg.Slug, arg.Category, arg.Difficulty, arg.Author,
		arg.ReadTime, arg.Excerpt, arg.Body, arg.Image, arg.ImageAlt, encodeTags(arg.Tags),
		arg.MetaTitle, arg.MetaDescription, arg.FocusKeyword, arg.SEOScore, arg.Status,
		arg.PublishAt, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return model.ContentItem{}, err
	}

	return q.GetContentItem(ctx, id)
}

// GetContentItem fetches one content item by ID.
// Returns sql.ErrNoRows when no item exists.
func (q *Queries) GetContentItem(ctx context.Context, id string) (model.ContentItem, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+contentItemColumns+` FROM content_items WHERE id = ?`, id)
	return scanContentItem(row)
}

// GetContentItemBySlugParams identifies an item by collection and slug.
type GetContentItemBySlugParams struct {
	Kind string
	Slug string
}

// GetContentItemBySlug fetches one content item by kind and slug.
func (q *Queries) GetContentItemBySlug(ctx context.Context, arg GetContentItemBySlugParams) (model.ContentItem, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+contentItemColumns+` FROM content_items WHERE kind = ? AND slug = ?`,
		arg.Kind, arg.Slug)
	return scanContentItem(row)
}

// ListContentItemsParams holds paging options for listing a collection.
type ListContentItemsParams struct {
	Kind   string
	Limit  int64
	Offset int64
}

// ListContentItems returns one collection ordered by most recently updated.
func (q *Queries) ListContentItems(ctx context.Context, arg ListContentItemsParams) ([]model.ContentItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+contentItemColumns+` FROM content_items
		 WHERE kind = ? ORDER BY updated_at DESC LIMIT ? OFFSET ?`,
		arg.Kind, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContentItems(rows)
}

// ListContentItemsByStatusParams holds filter and paging options.
type ListContentItemsByStatusParams struct {
	Kind   string
	Status string
	Limit  int64
	Offset int64
}

// ListContentItemsByStatus returns items of one collection filtered by status.
func (q *Queries) ListContentItemsByStatus(ctx context.Context, arg ListContentItemsByStatusParams) ([]model.ContentItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+contentItemColumns+` FROM content_items
		 WHERE kind = ? AND status = ? ORDER BY updated_at DESC LIMIT ? OFFSET ?`,
		arg.Kind, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContentItems(rows)
}

// ListScheduledDue returns scheduled items whose publish instant has passed.
func (q *Queries) ListScheduledDue(ctx context.Context, now time.Time) ([]model.ContentItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+contentItemColumns+` FROM content_items
		 WHERE status = ? AND publish_at IS NOT NULL AND publish_at <= ?
		 ORDER BY publish_at ASC`,
		model.StatusScheduled, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContentItems(rows)
}

func collectContentItems(rows *sql.Rows) ([]model.ContentItem, error) {
	items := []model.ContentItem{}
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountContentItems returns the number of items in one collection.
func (q *Queries) CountContentItems(ctx context.Context, kind string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM content_items WHERE kind = ?`, kind).Scan(&count)
	return count, err
}

// CountContentItemsByStatusParams identifies a collection and status.
type CountContentItemsByStatusParams struct {
	Kind   string
	Status string
}

// CountContentItemsByStatus returns the number of items with one status.
func (q *Queries) CountContentItemsByStatus(ctx context.Context, arg CountContentItemsByStatusParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM content_items WHERE kind = ? AND status = ?`,
		arg.Kind, arg.Status).Scan(&count)
	return count, err
}

// UpdateContentItemParams holds the full set of mutable fields.
type UpdateContentItemParams struct {
	ID              string
	Title           string
	Slug            string
	Category        string
	Difficulty      string
	Author          string
	ReadTime        int64
	Excerpt         string
	Body            string
	Image           string
	ImageAlt        string
	Tags            []string
	MetaTitle       string
	MetaDescription string
	FocusKeyword    string
	SEOScore        int64
	Status          string
	PublishAt       sql.NullTime
	UpdatedAt       time.Time
}

// UpdateContentItem replaces the mutable fields of an item and returns the stored row.
// Returns sql.ErrNoRows when no item with the given ID exists.
func (q *Queries) UpdateContentItem(ctx context.Context, arg UpdateContentItemParams) (model.ContentItem, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE content_items SET
			title = ?, slug = ?, category = ?, difficulty = ?, author = ?, read_time = ?,
			excerpt = ?, body = ?, image = ?, image_alt = ?, tags = ?, meta_title = ?,
			meta_description = ?, focus_keyword = ?, seo_score = ?, status = ?,
			publish_at = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Slug, arg.Category, arg.Difficulty, arg.Author, arg.ReadTime,
		arg.Excerpt, arg.Body, arg.Image, arg.ImageAlt, encodeTags(arg.Tags), arg.MetaTitle,
		arg.MetaDescription, arg.FocusKeyword, arg.SEOScore, arg.Status,
		arg.PublishAt, arg.UpdatedAt, arg.ID,
	)
	if err != nil {
		return model.ContentItem{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.ContentItem{}, err
	}
	if affected == 0 {
		return model.ContentItem{}, sql.ErrNoRows
	}

	return q.GetContentItem(ctx, arg.ID)
}

// UpdateContentItemStatusParams changes the lifecycle fields only.
type UpdateContentItemStatusParams struct {
	ID        string
	Status    string
	PublishAt sql.NullTime
	UpdatedAt time.Time
}

// UpdateContentItemStatus updates status and publish instant, leaving content untouched.
func (q *Queries) UpdateContentItemStatus(ctx context.Context, arg UpdateContentItemStatusParams) (model.ContentItem, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE content_items SET status = ?, publish_at = ?, updated_at = ? WHERE id = ?`,
		arg.Status, arg.PublishAt, arg.UpdatedAt, arg.ID)
	if err != nil {
		return model.ContentItem{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.ContentItem{}, err
	}
	if affected == 0 {
		return model.ContentItem{}, sql.ErrNoRows
	}

	return q.GetContentItem(ctx, arg.ID)
}

// DeleteContentItem removes an item permanently.
// Returns sql.ErrNoRows when no item with the given ID exists.
func (q *Queries) DeleteContentItem(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM content_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SlugExistsParams identifies a candidate slug within a collection,
// optionally excluding one item (for updates).
type SlugExistsParams struct {
	Kind      string
	Slug      string
	ExcludeID string
}

// SlugExists reports whether a slug is already taken within a collection.
func (q *Queries) SlugExists(ctx context.Context, arg SlugExistsParams) (bool, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM content_items WHERE kind = ? AND slug = ? AND id != ?`,
		arg.Kind, arg.Slug, arg.ExcludeID).Scan(&count)
	return count > 0, err
}
