package loader

import (
	"errors"
	"fmt"
	"strings"
)

type Loader string

const (
	Forge  Loader = "forge"
	Fabric Loader = "fabric"
)

// ErrUnknownLoader is returned by Parse for anything but forge or fabric.
var ErrUnknownLoader = errors.New("unknown mod loader")

// CurseForge modLoader type ids as used in latestFilesIndexes.
const (
	forgeTypeID  = 1
	fabricTypeID = 4
)

// Parse normalizes a loader name case-insensitively.
func Parse(s string) (Loader, error) {
	switch Loader(strings.ToLower(strings.TrimSpace(s))) {
	case Forge:
		return Forge, nil
	case Fabric:
		return Fabric, nil
	default:
		return "", fmt.Errorf("%w %q (expected fabric or forge)", ErrUnknownLoader, s)
	}
}

// TypeID returns the numeric id the mod API uses for this loader.
func (l Loader) TypeID() int {
	switch l {
	case Forge:
		return forgeTypeID
	case Fabric:
		return fabricTypeID
	default:
		return 0
	}
}

func (l Loader) String() string {
	return string(l)
}
