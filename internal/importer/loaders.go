package importer

import (
	"context"
	"database/sql"
	"fmt"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/validators"

	"github.com/google/uuid"
)

const (
	upsertCategory = `INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, slug = EXCLUDED.slug`

	upsertGenre = `INSERT INTO genres (id, name, slug) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, slug = EXCLUDED.slug`

	upsertTitle = `INSERT INTO titles (id, name, year, description, category_id) VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, year = EXCLUDED.year,
description = EXCLUDED.description, category_id = EXCLUDED.category_id`

	insertGenreTitle = `INSERT INTO genre_titles (id, title_id, genre_id) VALUES ($1, $2, $3)
ON CONFLICT DO NOTHING`

	// users are matched on username; the uuid of an existing row wins
	upsertUser = `INSERT INTO users (id, username, email, role, bio, first_name, last_name)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email, role = EXCLUDED.role,
bio = EXCLUDED.bio, first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name, updated_at = NOW()
RETURNING id`

	upsertReview = `INSERT INTO reviews (id, title_id, author_id, text, score, pub_date) VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET text = EXCLUDED.text, score = EXCLUDED.score, pub_date = EXCLUDED.pub_date`

	upsertComment = `INSERT INTO comments (id, review_id, author_id, text, pub_date) VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET text = EXCLUDED.text, pub_date = EXCLUDED.pub_date`
)

func (im *Importer) loadGroup(ctx context.Context, tx *sql.Tx, r record, query string) error {
	id, err := r.integer("id")
	if err != nil {
		return err
	}
	name, err := r.str("name")
	if err != nil {
		return err
	}
	slug, err := r.str("slug")
	if err != nil {
		return err
	}
	if err := validators.ValidateSlug(slug); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, id, name, slug)
	return err
}

func (im *Importer) loadCategory(ctx context.Context, tx *sql.Tx, r record) error {
	return im.loadGroup(ctx, tx, r, upsertCategory)
}

func (im *Importer) loadGenre(ctx context.Context, tx *sql.Tx, r record) error {
	return im.loadGroup(ctx, tx, r, upsertGenre)
}

func (im *Importer) loadTitle(ctx context.Context, tx *sql.Tx, r record) error {
	id, err := r.integer("id")
	if err != nil {
		return err
	}
	name, err := r.str("name")
	if err != nil {
		return err
	}
	year, err := r.integer("year")
	if err != nil {
		return err
	}
	if _, err := validators.ValidateYear(int(year)); err != nil {
		return err
	}
	category, err := r.nullableInteger("category_id", "category")
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, upsertTitle, id, name, year, r.nullable("description"), category)
	return err
}

func (im *Importer) loadGenreTitle(ctx context.Context, tx *sql.Tx, r record) error {
	id, err := r.integer("id")
	if err != nil {
		return err
	}
	titleID, err := r.integer("title_id")
	if err != nil {
		return err
	}
	genreID, err := r.integer("genre_id")
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, insertGenreTitle, id, titleID, genreID)
	return err
}

func (im *Importer) loadUser(ctx context.Context, tx *sql.Tx, r record) error {
	csvID, err := r.str("id")
	if err != nil {
		return err
	}
	username, err := r.str("username")
	if err != nil {
		return err
	}
	if err := validators.ValidateUsername(username); err != nil {
		return err
	}
	if err := validators.ValidateUsernameChars(username); err != nil {
		return err
	}
	email, err := r.str("email")
	if err != nil {
		return err
	}

	role := models.RoleUser
	if v, _ := r.get("role"); v != "" {
		if role, err = models.ParseRole(v); err != nil {
			return err
		}
	}
	bio, _ := r.get("bio")
	first, _ := r.get("first_name")
	last, _ := r.get("last_name")

	var stored string
	err = tx.QueryRowContext(ctx, upsertUser,
		uuid.NewString(), username, email, role.String(), bio, first, last,
	).Scan(&stored)
	if err != nil {
		return err
	}
	im.users[csvID] = stored
	return nil
}

func (im *Importer) author(r record, names ...string) (string, error) {
	csvID, err := r.str(names...)
	if err != nil {
		return "", err
	}
	id, ok := im.users[csvID]
	if !ok {
		return "", fmt.Errorf("unknown author %q", csvID)
	}
	return id, nil
}

func (im *Importer) loadReview(ctx context.Context, tx *sql.Tx, r record) error {
	id, err := r.integer("id")
	if err != nil {
		return err
	}
	titleID, err := r.integer("title_id")
	if err != nil {
		return err
	}
	authorID, err := im.author(r, "author", "author_id")
	if err != nil {
		return err
	}
	text, err := r.str("text")
	if err != nil {
		return err
	}
	score, err := r.integer("score")
	if err != nil {
		return err
	}
	if score < 1 || score > 10 {
		return fmt.Errorf("score %d out of range 1..10", score)
	}
	pubDate, err := r.timestamp("pub_date")
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, upsertReview, id, titleID, authorID, text, score, pubDate)
	return err
}

func (im *Importer) loadComment(ctx context.Context, tx *sql.Tx, r record) error {
	id, err := r.integer("id")
	if err != nil {
		return err
	}
	reviewID, err := r.integer("review_id")
	if err != nil {
		return err
	}
	authorID, err := im.author(r, "author_id", "author")
	if err != nil {
		return err
	}
	text, err := r.str("text")
	if err != nil {
		return err
	}
	pubDate, err := r.timestamp("pub_date")
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, upsertComment, id, reviewID, authorID, text, pubDate)
	return err
}
