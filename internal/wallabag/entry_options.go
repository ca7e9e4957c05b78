package wallabag

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrContentWithoutTitle is returned when entry content is supplied without a
// title. The API would store a nameless entry, so this is rejected before any
// request is made.
var ErrContentWithoutTitle = errors.New("entry content requires a title")

// EntryOptions holds the optional fields shared by SaveEntry and EditEntry.
// Nil fields are omitted from the payload entirely, so a PATCH only touches
// what the caller set.
type EntryOptions struct {
	Title          *string
	Content        *string
	Language       *string
	PreviewPicture *string
	OriginURL      *string
	Archive        *bool
	Starred        *bool
	Public         *bool
	Tags           []string
	Authors        []string
	PublishedAt    *time.Time
}

// values serializes the present fields: booleans as "1"/"0", string slices
// comma-joined, published-at as epoch seconds.
func (o EntryOptions) values() (url.Values, error) {
	if o.Content != nil && o.Title == nil {
		return nil, ErrContentWithoutTitle
	}

	payload := url.Values{}
	setStringValue(payload, "title", o.Title)
	setStringValue(payload, "content", o.Content)
	setStringValue(payload, "language", o.Language)
	setStringValue(payload, "preview_picture", o.PreviewPicture)
	setStringValue(payload, "origin_url", o.OriginURL)
	setBoolValue(payload, "archive", o.Archive)
	setBoolValue(payload, "starred", o.Starred)
	setBoolValue(payload, "public", o.Public)
	if len(o.Tags) > 0 {
		payload.Set("tags", strings.Join(o.Tags, ","))
	}
	if len(o.Authors) > 0 {
		payload.Set("authors", strings.Join(o.Authors, ","))
	}
	if o.PublishedAt != nil {
		payload.Set("published_at", strconv.FormatInt(o.PublishedAt.Unix(), 10))
	}

	return payload, nil
}

func setStringValue(payload url.Values, key string, value *string) {
	if value == nil {
		return
	}
	payload.Set(key, *value)
}

func setBoolValue(payload url.Values, key string, value *bool) {
	if value == nil {
		return
	}
	if *value {
		payload.Set(key, "1")
	} else {
		payload.Set(key, "0")
	}
}

// String returns a pointer to s, for filling EntryOptions fields inline.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for filling EntryOptions fields inline.
func Bool(b bool) *bool { return &b }
