package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"zooo-feed/pkg/sharedTypes"
)

// Querier is satisfied by *pgx.Conn, *pgxpool.Pool and pgxmock.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// listVideos returns rows in the order the table delivers them; the feed
// does not reorder or filter.
const listVideos = `SELECT id::text, title, video_url, actress, poster_url, thumbnail_url, affiliate_url, hunted_at FROM videos`

// Postgres reads the videos table.
type Postgres struct {
	DB Querier
}

// Connect opens a single connection to url.
func Connect(ctx context.Context, url string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return conn, nil
}

func (p *Postgres) FetchAll(ctx context.Context) ([]sharedTypes.VideoRecord, error) {
	rows, err := p.DB.Query(ctx, listVideos)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var videos []sharedTypes.VideoRecord
	for rows.Next() {
		var (
			v                                        sharedTypes.VideoRecord
			title, actress, poster, thumb, affiliate *string
			huntedAt                                 *time.Time
		)
		if err := rows.Scan(&v.ID, &title, &v.VideoURL, &actress, &poster, &thumb, &affiliate, &huntedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		v.Title = deref(title)
		v.Actress = deref(actress)
		v.PosterURL = deref(poster)
		v.ThumbnailURL = deref(thumb)
		v.AffiliateURL = deref(affiliate)
		if huntedAt != nil {
			v.HuntedAt = huntedAt.UTC().Format(time.RFC3339)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read videos: %w", err)
	}
	return videos, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
