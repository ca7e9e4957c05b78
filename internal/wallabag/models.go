package wallabag

import (
	"fmt"
	"strings"
	"time"
)

// TokenResponse is the body returned by the OAuth token endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	RefreshToken string `json:"refresh_token"`
}

// timeLayout matches the API's timestamp format, which writes zone offsets
// without a colon ("2016-10-07T13:52:08+0200").
const timeLayout = "2006-01-02T15:04:05-0700"

// Time wraps time.Time to decode the API's timestamp format, falling back to
// RFC 3339. Null and empty values decode to the zero time.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse(timeLayout, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		return fmt.Errorf("failed to parse time %q: %w", s, err)
	}

	t.Time = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(timeLayout) + `"`), nil
}

// Tag is a label attached to an entry.
type Tag struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// Entry is a saved article/link record. Archive and starred flags arrive as
// 0/1 integers on the wire.
type Entry struct {
	ID             int      `json:"id"`
	URL            string   `json:"url"`
	OriginURL      string   `json:"origin_url"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Language       string   `json:"language"`
	PreviewPicture string   `json:"preview_picture"`
	IsArchived     int      `json:"is_archived"`
	IsStarred      int      `json:"is_starred"`
	IsPublic       bool     `json:"is_public"`
	Tags           []Tag    `json:"tags"`
	CreatedAt      Time     `json:"created_at"`
	UpdatedAt      Time     `json:"updated_at"`
	PublishedAt    Time     `json:"published_at"`
	PublishedBy    []string `json:"published_by"`
	ReadingTime    int      `json:"reading_time"`
	DomainName     string   `json:"domain_name"`
	Mimetype       string   `json:"mimetype"`
	HTTPStatus     string   `json:"http_status"`
}

// Archived reports whether the entry is archived.
func (e *Entry) Archived() bool { return e.IsArchived != 0 }

// Starred reports whether the entry is starred.
func (e *Entry) Starred() bool { return e.IsStarred != 0 }

// EntriesPage is one page of a listing response. Items are nested under
// "_embedded" in the wire format.
type EntriesPage struct {
	Page     int `json:"page"`
	Limit    int `json:"limit"`
	Pages    int `json:"pages"`
	Total    int `json:"total"`
	Embedded struct {
		Items []Entry `json:"items"`
	} `json:"_embedded"`
}
