package supabase

import (
	"strings"

	"github.com/supabase-community/supabase-go"
	"sparrow-backend/internal/config"
)

type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(strings.TrimSuffix(cfg.SupabaseURL, "/"), cfg.SupabaseServiceKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}

// Storage returns a StorageClient bound to bucket that shares this client's
// storage connection.
func (c *Client) Storage(bucket string) *StorageClient {
	return &StorageClient{
		client:  c.Supabase.Storage,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(c.Config.SupabaseURL, "/"),
	}
}
