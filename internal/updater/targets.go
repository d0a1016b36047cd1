package updater

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/langpack/mod-lang-updater/internal/archive"
	"github.com/langpack/mod-lang-updater/internal/index"
	"github.com/langpack/mod-lang-updater/internal/logging"
)

// AllTargets re-checks every project already present in the ModIndex.
const AllTargets = "all"

var (
	manifestURLPattern = regexp.MustCompile(`^https?://\S+\.json(\?\S*)?$`)
	numericPattern     = regexp.MustCompile(`^[0-9]+$`)
)

// ResolveTargets turns the target argument into project ids: the sentinel
// "all", a manifest URL, or a numeric project id. A numeric id naming a
// modpack expands to the projects listed in the pack's manifest.
func (u *Updater) ResolveTargets(ctx context.Context, target string) ([]int, error) {
	target = strings.TrimSpace(target)

	switch {
	case strings.EqualFold(target, AllTargets):
		idx, _ := u.store.LoadModIndex()
		ids := idx.ProjectIDs()
		if len(ids) == 0 {
			logging.Warnf("%s is empty, nothing to refresh\n", u.store.Path(index.ModIndexTable))
		}
		return ids, nil

	case manifestURLPattern.MatchString(target):
		logging.Infof("Fetching manifest %s...\n", target)
		ids, err := u.meta.FetchManifest(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", target, err)
		}
		return ids, nil

	case numericPattern.MatchString(target):
		id, err := strconv.Atoi(target)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: project id %q out of range", ErrInvalidArgument, target)
		}
		return u.expandModpack(ctx, id)

	default:
		return nil, fmt.Errorf("%w: target %q is not a project id, a manifest URL or %q", ErrInvalidArgument, target, AllTargets)
	}
}

// expandModpack returns the manifest projects of a modpack, or the id itself
// for a plain mod. Lookup failures for plain ids are left to the run itself.
func (u *Updater) expandModpack(ctx context.Context, projectID int) ([]int, error) {
	url, isModpack, err := u.meta.ModpackDownloadURL(ctx, projectID)
	if !isModpack {
		if err != nil {
			logging.Debugf("Verbose: could not classify project %d: %v\n", projectID, err)
		}
		return []int{projectID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving modpack %d: %w", projectID, err)
	}

	logging.Infof("Project %d is a modpack, reading its manifest...\n", projectID)
	data, err := u.meta.Download(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("downloading modpack %d: %w", projectID, err)
	}
	ids, err := archive.ManifestProjectIDs(data)
	if err != nil {
		return nil, fmt.Errorf("modpack %d: %w", projectID, err)
	}
	return ids, nil
}
