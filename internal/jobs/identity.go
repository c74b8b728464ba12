package jobs

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// IDLength is the width of every generated identity.
const IDLength = 12

// GenerateID derives the stable identity of a job: the URL hash when a URL is
// present, otherwise the hash of title, company and location.
func GenerateID(job *Job) string {
	if url := strings.TrimSpace(job.URL); url != "" {
		return URLIdentity(url)
	}
	return hashKey(job.Title + "-" + job.Company + "-" + job.Location)
}

// URLIdentity hashes a posting URL the same way GenerateID does. Tracker pages
// only keep URLs, so the ledger relies on this to recover identities.
func URLIdentity(url string) string {
	return hashKey(strings.TrimSpace(url))
}

func hashKey(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])[:IDLength]
}
