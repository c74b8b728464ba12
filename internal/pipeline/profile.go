package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-hunter/internal/logger"
	"github.com/spigell/job-hunter/internal/resume"
	"github.com/spigell/job-hunter/internal/skills"
)

// ProfileSource tells where a skill profile came from.
type ProfileSource string

const (
	ProfileExplicit ProfileSource = "explicit"
	ProfileResume   ProfileSource = "resume"
	ProfileFallback ProfileSource = "fallback"
)

// ResolveProfile picks the skill profile: an explicit list wins, then the
// terms found in a non-empty resume text, then the fallback list.
func ResolveProfile(explicit []string, resumeText string) ([]string, ProfileSource) {
	if len(explicit) > 0 {
		return explicit, ProfileExplicit
	}
	if strings.TrimSpace(resumeText) != "" {
		return skills.Extract(resumeText), ProfileResume
	}
	return skills.Fallback, ProfileFallback
}

// LoadProfile reads the resume at resumePath when no explicit list is given
// and resolves the profile. A resume that cannot be read is logged and the
// fallback list is used.
func LoadProfile(log *zap.Logger, explicit []string, resumePath string) []string {
	log = logger.WithFields(log)

	text := ""
	if len(explicit) == 0 && resumePath != "" {
		var err error
		text, err = resume.Load(resumePath)
		if err != nil {
			log.Warn("could not read resume, using fallback skills", zap.Error(err))
		}
	}

	profile, source := ResolveProfile(explicit, text)
	log.Info("skill profile resolved",
		zap.String("source", string(source)),
		zap.Int("skills", len(profile)),
	)
	return profile
}
