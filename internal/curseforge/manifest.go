package curseforge

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// FetchManifest downloads a modpack manifest JSON document and returns the
// project ids it lists.
func (c *Client) FetchManifest(ctx context.Context, url string) ([]int, error) {
	data, err := c.get(ctx, url, false)
	if err != nil {
		return nil, fmt.Errorf("fetching manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest extracts files[].projectID from a modpack manifest.
func ParseManifest(data []byte) ([]int, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("parsing manifest: invalid JSON")
	}
	files := gjson.GetBytes(data, "files")
	if !files.IsArray() {
		return nil, errors.New("parsing manifest: no files array")
	}

	ids := []int{}
	for _, f := range files.Array() {
		if id := f.Get("projectID").Int(); id > 0 {
			ids = append(ids, int(id))
		}
	}
	return ids, nil
}
