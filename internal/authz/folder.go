package authz

import (
	"strings"

	"praxis-api/internal/domain"
)

// normalizeFolderPath strips trailing slashes so "/briefs/" and "/briefs"
// compare equal. The root folder is "/".
func normalizeFolderPath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// ancestorPaths returns the path itself and every ancestor up to and
// including the root, e.g. "/a/b/c" -> {"/a/b/c", "/a/b", "/a", "/"}.
func ancestorPaths(path string) map[string]struct{} {
	path = normalizeFolderPath(path)
	ancestors := map[string]struct{}{"/": {}}
	for path != "/" {
		ancestors[path] = struct{}{}
		idx := strings.LastIndex(path, "/")
		if idx <= 0 {
			break
		}
		path = path[:idx]
	}
	return ancestors
}

// resolveFolderGrant selects the applicable folder grant for a document
// path: among grants whose path is the document's folder or an ancestor of
// it, the longest (most specific) path wins. At equal specificity a
// direct-user grant beats a group grant, and remaining ties fall to the
// lexicographically smallest grant ID so the outcome never depends on
// query-result ordering.
func resolveFolderGrant(folderPath string, grants []domain.FolderGrant) (*domain.FolderGrant, bool) {
	ancestors := ancestorPaths(folderPath)

	var best *domain.FolderGrant
	bestPath := ""
	for i := range grants {
		g := &grants[i]
		path := normalizeFolderPath(g.FolderPath)
		if _, ok := ancestors[path]; !ok {
			continue
		}
		if best == nil || betterFolderMatch(g, path, best, bestPath) {
			best = g
			bestPath = path
		}
	}
	return best, best != nil
}

func betterFolderMatch(candidate *domain.FolderGrant, candidatePath string, current *domain.FolderGrant, currentPath string) bool {
	if len(candidatePath) != len(currentPath) {
		return len(candidatePath) > len(currentPath)
	}
	if candidate.IsDirect() != current.IsDirect() {
		return candidate.IsDirect()
	}
	return candidate.ID < current.ID
}
