package curseforge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/langpack/mod-lang-updater/internal/loader"
)

// ClassModpack is the CurseForge class id of the Modpacks category.
const ClassModpack = 4471

// ErrNoMatchingFile means the mod has no latest file for the requested
// loader and game version.
var ErrNoMatchingFile = errors.New("no file for loader and game version")

type Mod struct {
	ID                 int         `json:"id"`
	Name               string      `json:"name"`
	Slug               string      `json:"slug"`
	ClassID            int         `json:"classId"`
	LatestFiles        []File      `json:"latestFiles"`
	LatestFilesIndexes []FileIndex `json:"latestFilesIndexes"`
}

type File struct {
	ID          int    `json:"id"`
	FileName    string `json:"fileName"`
	DownloadURL string `json:"downloadUrl"`
}

type FileIndex struct {
	GameVersion string `json:"gameVersion"`
	FileID      int    `json:"fileId"`
	Filename    string `json:"filename"`
	ModLoader   *int   `json:"modLoader"`
}

// ModFile is the normalized metadata of the file chosen for one
// (project, loader, game version) request.
type ModFile struct {
	ProjectID   int
	Slug        string
	Name        string
	Loader      loader.Loader
	GameVersion string
	FileID      int
}

// GetMod fetches a project's metadata.
func (c *Client) GetMod(ctx context.Context, projectID int) (*Mod, error) {
	data, err := c.get(ctx, fmt.Sprintf("%s/mods/%d", c.baseURL, projectID), true)
	if err != nil {
		return nil, fmt.Errorf("fetching mod %d: %w", projectID, err)
	}
	var resp struct {
		Data *Mod `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing mod %d: %w", projectID, err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("parsing mod %d: empty data", projectID)
	}
	return resp.Data, nil
}

// ModFile fetches a project and picks its latest file for l whose game
// version starts with version.
func (c *Client) ModFile(ctx context.Context, l loader.Loader, projectID int, version string) (*ModFile, error) {
	mod, err := c.GetMod(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return SelectFile(mod, l, version)
}

// SelectFile returns the first latest-file index entry matching the loader
// and game version prefix, in API order.
func SelectFile(mod *Mod, l loader.Loader, version string) (*ModFile, error) {
	typeID := l.TypeID()
	for _, fi := range mod.LatestFilesIndexes {
		if fi.ModLoader == nil || *fi.ModLoader != typeID {
			continue
		}
		if !strings.HasPrefix(fi.GameVersion, version) {
			continue
		}
		if mod.Slug == "" {
			return nil, fmt.Errorf("mod %d: missing slug", mod.ID)
		}
		return &ModFile{
			ProjectID:   mod.ID,
			Slug:        mod.Slug,
			Name:        mod.Name,
			Loader:      l,
			GameVersion: fi.GameVersion,
			FileID:      fi.FileID,
		}, nil
	}
	return nil, fmt.Errorf("mod %d (%s) %s %s: %w", mod.ID, mod.Slug, l, version, ErrNoMatchingFile)
}

// DownloadURL resolves the CDN url of a project file.
func (c *Client) DownloadURL(ctx context.Context, projectID, fileID int) (string, error) {
	data, err := c.get(ctx, fmt.Sprintf("%s/mods/%d/files/%d/download-url", c.baseURL, projectID, fileID), true)
	if err != nil {
		return "", fmt.Errorf("resolving download url for %d/%d: %w", projectID, fileID, err)
	}
	var resp struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("parsing download url for %d/%d: %w", projectID, fileID, err)
	}
	if resp.Data == "" {
		// Projects that disallow third-party distribution return null here.
		return "", fmt.Errorf("no download url for %d/%d", projectID, fileID)
	}
	return resp.Data, nil
}

// IsModpack reports whether the project belongs to the Modpacks class.
func IsModpack(mod *Mod) bool {
	return mod != nil && mod.ClassID == ClassModpack
}

// ModpackDownloadURL returns the download url of the project's first latest
// file when the project is a modpack. isModpack is false for plain mods.
func (c *Client) ModpackDownloadURL(ctx context.Context, projectID int) (url string, isModpack bool, err error) {
	mod, err := c.GetMod(ctx, projectID)
	if err != nil {
		return "", false, err
	}
	if !IsModpack(mod) {
		return "", false, nil
	}
	if len(mod.LatestFiles) == 0 || mod.LatestFiles[0].DownloadURL == "" {
		return "", true, fmt.Errorf("modpack %d (%s) has no downloadable latest file", projectID, mod.Slug)
	}
	return mod.LatestFiles[0].DownloadURL, true, nil
}
