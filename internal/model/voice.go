package model

import "time"

// Voice is a named character voice profile used when synthesizing narration.
// ProviderRef identifies the voice at the synthesis provider; the profile
// itself is provider-agnostic.
type Voice struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	StyleTags     []string  `json:"style_tags,omitempty"`
	ProviderRef   string    `json:"provider_ref,omitempty"`
	SampleMediaID string    `json:"sample_media_id,omitempty"`
	ProjectIDs    []string  `json:"project_ids,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ItemID returns the voice's unique identifier.
func (v Voice) ItemID() string { return v.ID }

// ItemUpdatedAt returns the last-modified timestamp.
func (v Voice) ItemUpdatedAt() time.Time { return v.UpdatedAt }

// WithUpdatedAt returns a copy of the voice stamped with the given time.
func (v Voice) WithUpdatedAt(t time.Time) Voice {
	v.UpdatedAt = t
	return v
}

// WithLink returns a copy of the voice with the project reference attached.
func (v Voice) WithLink(projectID string) Voice {
	for _, id := range v.ProjectIDs {
		if id == projectID {
			return v
		}
	}
	ids := make([]string, len(v.ProjectIDs), len(v.ProjectIDs)+1)
	copy(ids, v.ProjectIDs)
	v.ProjectIDs = append(ids, projectID)
	return v
}

// WithoutLink returns a copy of the voice with the project reference removed.
func (v Voice) WithoutLink(projectID string) Voice {
	var ids []string
	for _, id := range v.ProjectIDs {
		if id != projectID {
			ids = append(ids, id)
		}
	}
	v.ProjectIDs = ids
	return v
}
