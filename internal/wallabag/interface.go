package wallabag

import (
	"context"
)

// ClientInterface defines the interface for the Wallabag API client.
type ClientInterface interface {
	Authenticate(ctx context.Context) error
	GetEntries(ctx context.Context) (*Entry, error)
	ListEntries(ctx context.Context, opts ListEntriesOptions) (*EntriesPage, error)
	GetEntry(ctx context.Context, id int) (*Entry, error)
	SaveEntry(ctx context.Context, entryURL string, opts EntryOptions) (*Entry, error)
	EditEntry(ctx context.Context, id int, opts EntryOptions) (*Entry, error)
	DeleteEntry(ctx context.Context, id int) (*Entry, error)
}
