package model

import (
	"fmt"
	"regexp"
)

var packageNameRe = regexp.MustCompile(`^[\w-][.\w-]*$`)

// PackageID identifies a workspace member: a package name plus the
// locator of its manifest inside the workspace. Unique within a project.
type PackageID struct {
	Name    string `json:"name" yaml:"name"`
	Locator string `json:"locator" yaml:"locator"`
	_       struct{}
}

func (p PackageID) String() string {
	if p.Locator == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Locator)
}

// Validate a package identifier
func (p PackageID) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("package name is empty")
	}
	if !packageNameRe.MatchString(p.Name) {
		return fmt.Errorf("package name %q contains invalid characters", p.Name)
	}
	return nil
}

// Contributor who recorded a release decision
type Contributor struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	_     struct{}
}

func (c *Contributor) String() string {
	if c.Email == "" {
		return c.Name
	}
	if c.Name == "" {
		return c.Email
	}
	return fmt.Sprintf("%s <%s>", c.Name, c.Email)
}
