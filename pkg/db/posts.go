package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/llkd33/newcrawling/models"
)

// Sink receives extracted posts. Satisfied by *DB; test doubles swap in
// an in-memory implementation.
type Sink interface {
	UpsertPost(post *models.Post) error
	HasPost(url string) (bool, error)
}

// UpsertPost inserts a post or, when the URL is already stored,
// replaces its extracted fields. The first-seen extracted_at timestamp
// is preserved across updates so re-crawls don't rewrite history.
func (db *DB) UpsertPost(post *models.Post) error {
	if post.URL == "" {
		return errors.New("post URL is required")
	}
	extractedAt := post.ExtractedAt
	if extractedAt.IsZero() {
		extractedAt = time.Now()
	}

	_, err := db.Exec(`
		INSERT INTO posts (url, title, author, cafe_name, content, extraction_method,
			quality_score, success, error_message, uploaded, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			cafe_name = excluded.cafe_name,
			content = excluded.content,
			extraction_method = excluded.extraction_method,
			quality_score = excluded.quality_score,
			success = excluded.success,
			error_message = excluded.error_message,
			uploaded = excluded.uploaded,
			updated_at = CURRENT_TIMESTAMP
	`, post.URL, post.Title, post.Author, post.CafeName, post.Content,
		string(post.ExtractionMethod), post.QualityScore, post.Success,
		post.ErrorMessage, post.Uploaded, extractedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert post: %w", err)
	}
	return nil
}

// HasPost reports whether a post with the given URL is already stored.
func (db *DB) HasPost(url string) (bool, error) {
	var id int64
	err := db.QueryRow("SELECT post_id FROM posts WHERE url = ?", url).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check existing post: %w", err)
	}
	return true, nil
}

// GetPost retrieves a stored post by URL.
func (db *DB) GetPost(url string) (*models.Post, error) {
	row := db.QueryRow(`
		SELECT url, title, author, cafe_name, content, extraction_method,
			quality_score, success, error_message, uploaded, extracted_at
		FROM posts WHERE url = ?
	`, url)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post not found: %s", url)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// ListPosts returns all stored posts, newest extraction first.
func (db *DB) ListPosts() ([]*models.Post, error) {
	rows, err := db.Query(`
		SELECT url, title, author, cafe_name, content, extraction_method,
			quality_score, success, error_message, uploaded, extracted_at
		FROM posts ORDER BY extracted_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// CountByMethod returns how many successful posts each extraction
// method produced.
func (db *DB) CountByMethod() (map[string]int, error) {
	rows, err := db.Query(`
		SELECT extraction_method, COUNT(*) FROM posts
		WHERE success = 1 GROUP BY extraction_method
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by method: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var method string
		var n int
		if err := rows.Scan(&method, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[method] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var method, extractedAt string
	err := row.Scan(&post.URL, &post.Title, &post.Author, &post.CafeName,
		&post.Content, &method, &post.QualityScore, &post.Success,
		&post.ErrorMessage, &post.Uploaded, &extractedAt)
	if err != nil {
		return nil, err
	}
	post.ExtractionMethod = models.ExtractionMethod(method)
	if ts, err := time.Parse(time.RFC3339, extractedAt); err == nil {
		post.ExtractedAt = ts
	}
	return &post, nil
}
