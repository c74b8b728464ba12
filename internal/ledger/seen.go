// Package ledger knows which postings the user has already been shown.
//
// The primary store is a directory of markdown tracker pages where every
// surfaced posting is linked as [Apply](url) or [Link](url). A Redis set can
// mirror those identities for machines that do not carry the notes.
package ledger

import (
	"slices"

	"github.com/spigell/job-hunter/internal/jobs"
)

// Seen is a set of job identities.
type Seen map[string]struct{}

func NewSeen(ids ...string) Seen {
	s := make(Seen, len(ids))
	s.Add(ids...)
	return s
}

func (s Seen) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Seen) Len() int {
	return len(s)
}

func (s Seen) Add(ids ...string) {
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
}

// Merge adds every identity of other to s.
func (s Seen) Merge(other Seen) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// IDs returns the identities in sorted order.
func (s Seen) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Filter drops records whose identity is already in seen. The input slice is
// not modified.
func Filter(items []*jobs.Job, seen Seen) []*jobs.Job {
	if len(seen) == 0 {
		return slices.Clone(items)
	}

	out := make([]*jobs.Job, 0, len(items))
	for _, job := range items {
		if !seen.Has(job.ID) {
			out = append(out, job)
		}
	}
	return out
}
