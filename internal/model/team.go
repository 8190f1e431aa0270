package model

import (
	"github.com/deppfellow/gameday/internal/validation"
)

// Team is a stored team. Slug is derived from Name and unique.
type Team struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// TeamName is the minimal projection used when recomputing slugs.
type TeamName struct {
	ID   int64
	Name string
	Slug string
}

// TeamUpdate is a sparse set of team changes. Nil fields are left untouched.
type TeamUpdate struct {
	Name        *string
	Slug        *string
	Description *string
}

// Empty reports whether the update carries no field at all.
func (u TeamUpdate) Empty() bool {
	return u.Name == nil && u.Slug == nil && u.Description == nil
}

// ListTeamsRequest has no input; it exists so the route fits the typed pipeline.
type ListTeamsRequest struct{}

func (r *ListTeamsRequest) Validate() error {
	return nil
}

// TeamSlugRequest addresses a single team by slug.
type TeamSlugRequest struct {
	Slug string `param:"slug" json:"-" validate:"required"`
}

func (r *TeamSlugRequest) Validate() error {
	return validation.Struct(r)
}

// CreateTeamRequest is the body of POST /teams.
type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,max=128"`
	Description string `json:"description" validate:"max=1024"`
}

func (r *CreateTeamRequest) Sanitize() {
	r.Name = validation.Sanitize(r.Name)
	r.Description = validation.Sanitize(r.Description)
}

func (r *CreateTeamRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateTeamRequest is the body of PATCH /teams/:slug.
// Only fields present in the body are changed.
type UpdateTeamRequest struct {
	Slug        string  `param:"slug" json:"-" validate:"required"`
	Name        *string `json:"name" validate:"omitnil,min=1,max=128"`
	Description *string `json:"description" validate:"omitnil,max=1024"`
}

func (r *UpdateTeamRequest) Sanitize() {
	r.Name = validation.SanitizePtr(r.Name)
	r.Description = validation.SanitizePtr(r.Description)
}

func (r *UpdateTeamRequest) Validate() error {
	return validation.Merge(
		validation.Struct(r),
		validation.AtLeastOne([]string{"name", "description"}, r.Name != nil, r.Description != nil)...,
	)
}
