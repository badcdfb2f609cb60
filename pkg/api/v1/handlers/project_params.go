package handlers

import (
	"fmt"
	"strings"
)

// ProjectOpenParams defines the parameters for opening or creating a project
type ProjectOpenParams struct {
	Name string `json:"name"`
}

// Validate validates the parameters for opening a project
func (p ProjectOpenParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%s", ErrMsgProjNameRequired)
	}
	return nil
}

// ProjectRenameParams defines the parameters for renaming a project
type ProjectRenameParams struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// Validate validates the parameters for renaming a project
func (p ProjectRenameParams) Validate() error {
	if strings.TrimSpace(p.OldName) == "" {
		return fmt.Errorf("%s", ErrMsgProjNameRequired)
	}
	if strings.TrimSpace(p.NewName) == "" {
		return fmt.Errorf("%s", ErrMsgProjNewNameRequired)
	}
	return nil
}

// ProjectDeleteParams defines the parameters for deleting a project
type ProjectDeleteParams struct {
	Name string `json:"name"`
}

// Validate validates the parameters for deleting a project
func (p ProjectDeleteParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%s", ErrMsgProjNameRequired)
	}
	return nil
}

// ProjectAddTagsParams defines the parameters for adding tags to a project
type ProjectAddTagsParams struct {
	Tags []string `json:"tags"`
}

// Validate validates the parameters for adding tags
func (p ProjectAddTagsParams) Validate() error {
	for _, tag := range p.Tags {
		if strings.TrimSpace(tag) != "" {
			return nil
		}
	}
	return fmt.Errorf("%s", ErrMsgTagsRequired)
}

// ProjectRemoveTagParams defines the parameters for removing a tag from a project
type ProjectRemoveTagParams struct {
	Tag string `json:"tag"`
}

// Validate validates the parameters for removing a tag
func (p ProjectRemoveTagParams) Validate() error {
	if strings.TrimSpace(p.Tag) == "" {
		return fmt.Errorf("%s", ErrMsgTagRequired)
	}
	return nil
}
