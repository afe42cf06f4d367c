package assembly

import (
	"fmt"

	"github.com/jonathan/resume-vault/internal/loader"
	"github.com/jonathan/resume-vault/internal/registry"
	"github.com/jonathan/resume-vault/internal/types"
)

// Static is the manifest-independent data every build renders.
type Static struct {
	Profile   *types.Profile
	Education *types.Education
	Skills    *types.Skills
}

// LoadStatic loads the named profile together with education and skills. All three
// documents are required.
func LoadStatic(layout registry.Layout, profile string) (*Static, error) {
	if profile == "" {
		profile = types.DefaultProfile
	}
	path, err := layout.ProfilePath(profile)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to load profile %q", profile), Cause: err}
	}
	p, err := loader.LoadProfile(path)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to load profile %q", profile), Cause: err}
	}
	edu, err := loader.LoadEducation(layout.EducationPath())
	if err != nil {
		return nil, &Error{Message: "failed to load education", Cause: err}
	}
	skills, err := loader.LoadSkills(layout.SkillsPath())
	if err != nil {
		return nil, &Error{Message: "failed to load skills", Cause: err}
	}
	return &Static{Profile: p, Education: edu, Skills: skills}, nil
}
