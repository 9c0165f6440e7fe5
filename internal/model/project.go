package model

import "time"

// ProjectStatus represents the production state of a project.
type ProjectStatus string

const (
	ProjectDraft      ProjectStatus = "draft"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectPublished  ProjectStatus = "published"
	ProjectArchived   ProjectStatus = "archived"
)

// String returns the string representation of the status.
func (s ProjectStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectDraft, ProjectInProgress, ProjectPublished, ProjectArchived:
		return true
	}
	return false
}

// EpisodeStatus represents the production state of a single episode.
type EpisodeStatus string

const (
	EpisodeOutlined  EpisodeStatus = "outlined"
	EpisodeScripted  EpisodeStatus = "scripted"
	EpisodeRecorded  EpisodeStatus = "recorded"
	EpisodePublished EpisodeStatus = "published"
)

// Episode is a single produced piece within a project. Episodes travel
// inline with their project; they are not a collection of their own.
type Episode struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Script      string        `json:"script,omitempty"`
	DurationSec int           `json:"duration_sec,omitempty"`
	Status      EpisodeStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Project is a creative production (a show, a series, a campaign).
type Project struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	Episodes    []Episode     `json:"episodes,omitempty"`
	VoiceIDs    []string      `json:"voice_ids,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ItemID returns the project's unique identifier.
func (p Project) ItemID() string { return p.ID }

// ItemUpdatedAt returns the last-modified timestamp.
func (p Project) ItemUpdatedAt() time.Time { return p.UpdatedAt }

// WithUpdatedAt returns a copy of the project stamped with the given time.
func (p Project) WithUpdatedAt(t time.Time) Project {
	p.UpdatedAt = t
	return p
}

// WithLink returns a copy of the project with the voice reference attached.
// Attaching an already-linked voice is a no-op.
func (p Project) WithLink(voiceID string) Project {
	for _, id := range p.VoiceIDs {
		if id == voiceID {
			return p
		}
	}
	ids := make([]string, len(p.VoiceIDs), len(p.VoiceIDs)+1)
	copy(ids, p.VoiceIDs)
	p.VoiceIDs = append(ids, voiceID)
	return p
}

// WithoutLink returns a copy of the project with the voice reference removed.
func (p Project) WithoutLink(voiceID string) Project {
	var ids []string
	for _, id := range p.VoiceIDs {
		if id != voiceID {
			ids = append(ids, id)
		}
	}
	p.VoiceIDs = ids
	return p
}
