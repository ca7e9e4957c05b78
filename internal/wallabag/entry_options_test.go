package wallabag

import (
	"errors"
	"testing"
	"time"
)

func TestEntryOptionsValues(t *testing.T) {
	published := time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		opts    EntryOptions
		want    map[string]string
		omitted []string
		wantErr error
	}{
		{
			name: "empty options serialize nothing",
			opts: EntryOptions{},
			omitted: []string{
				"title", "content", "tags", "authors", "archive",
				"starred", "public", "language", "preview_picture",
				"published_at", "origin_url",
			},
		},
		{
			name: "tags are comma joined",
			opts: EntryOptions{Title: String("T"), Tags: []string{"a", "b"}},
			want: map[string]string{"title": "T", "tags": "a,b"},
		},
		{
			name: "authors are comma joined",
			opts: EntryOptions{Authors: []string{"Ada Lovelace", "Alan Turing"}},
			want: map[string]string{"authors": "Ada Lovelace,Alan Turing"},
		},
		{
			name: "true flag serializes as 1",
			opts: EntryOptions{Archive: Bool(true)},
			want: map[string]string{"archive": "1"},
		},
		{
			name:    "false flag serializes as 0",
			opts:    EntryOptions{Archive: Bool(false)},
			want:    map[string]string{"archive": "0"},
			omitted: []string{"starred", "public"},
		},
		{
			name: "published at serializes as epoch seconds",
			opts: EntryOptions{PublishedAt: &published},
			want: map[string]string{"published_at": "1710491400"},
		},
		{
			name:    "content without title is rejected",
			opts:    EntryOptions{Content: String("body")},
			wantErr: ErrContentWithoutTitle,
		},
		{
			name: "content with title is accepted",
			opts: EntryOptions{Title: String("T"), Content: String("body")},
			want: map[string]string{"title": "T", "content": "body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := tt.opts.values()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("values failed: %v", err)
			}
			for key, want := range tt.want {
				if got := payload.Get(key); got != want {
					t.Errorf("Expected %s=%q, got %q", key, want, got)
				}
			}
			for _, key := range tt.omitted {
				if _, present := payload[key]; present {
					t.Errorf("Expected %s to be omitted, got %q", key, payload.Get(key))
				}
			}
		})
	}
}
