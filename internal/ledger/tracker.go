package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spigell/job-hunter/internal/jobs"
)

// DefaultPattern matches the tracker pages inside the ledger directory.
const DefaultPattern = "Job Tracker*.md"

var trackerLink = regexp.MustCompile(`\[(?:Apply|Link)\]\(([^)]+)\)`)

// ExtractIdentities returns the identity of every [Apply](url) and
// [Link](url) reference in a tracker page, in order of appearance.
func ExtractIdentities(content string) []string {
	matches := trackerLink.FindAllStringSubmatch(content, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, jobs.URLIdentity(m[1]))
	}
	return ids
}

// LoadDir collects identities from every tracker page in dir. A missing
// directory is an empty ledger. Pages that cannot be read are reported in the
// returned error while the rest still load.
func LoadDir(dir, pattern string) (Seen, error) {
	seen := NewSeen()
	if dir == "" {
		return seen, nil
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return seen, fmt.Errorf("tracker pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return seen, nil
	}
	if err != nil {
		return seen, fmt.Errorf("read ledger dir: %w", err)
	}

	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(pattern, entry.Name()); !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read tracker %s: %w", path, err))
			continue
		}
		seen.Add(ExtractIdentities(string(content))...)
	}

	return seen, errors.Join(errs...)
}
