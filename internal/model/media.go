package model

import "time"

// MediaType categorizes a media library item.
type MediaType string

const (
	MediaAudio MediaType = "audio"
	MediaImage MediaType = "image"
	MediaMusic MediaType = "music"
)

// String returns the string representation of the media type.
func (t MediaType) String() string {
	return string(t)
}

// IsValid checks whether the media type is a known value.
func (t MediaType) IsValid() bool {
	switch t {
	case MediaAudio, MediaImage, MediaMusic:
		return true
	}
	return false
}

// MediaSource records where a media item came from.
type MediaSource string

const (
	SourceUploaded  MediaSource = "uploaded"
	SourceGenerated MediaSource = "generated"
)

// MediaItem is one entry in the media library. The binary content lives
// wherever URI points; the library tracks metadata only.
type MediaItem struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        MediaType   `json:"type"`
	URI         string      `json:"uri"`
	SizeBytes   int64       `json:"size_bytes,omitempty"`
	DurationSec int         `json:"duration_sec,omitempty"`
	Source      MediaSource `json:"source"`
	EpisodeIDs  []string    `json:"episode_ids,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ItemID returns the media item's unique identifier.
func (m MediaItem) ItemID() string { return m.ID }

// ItemUpdatedAt returns the last-modified timestamp.
func (m MediaItem) ItemUpdatedAt() time.Time { return m.UpdatedAt }

// WithUpdatedAt returns a copy of the item stamped with the given time.
func (m MediaItem) WithUpdatedAt(t time.Time) MediaItem {
	m.UpdatedAt = t
	return m
}

// WithLink returns a copy of the item with the episode reference attached.
func (m MediaItem) WithLink(episodeID string) MediaItem {
	for _, id := range m.EpisodeIDs {
		if id == episodeID {
			return m
		}
	}
	ids := make([]string, len(m.EpisodeIDs), len(m.EpisodeIDs)+1)
	copy(ids, m.EpisodeIDs)
	m.EpisodeIDs = append(ids, episodeID)
	return m
}

// WithoutLink returns a copy of the item with the episode reference removed.
func (m MediaItem) WithoutLink(episodeID string) MediaItem {
	var ids []string
	for _, id := range m.EpisodeIDs {
		if id != episodeID {
			ids = append(ids, id)
		}
	}
	m.EpisodeIDs = ids
	return m
}
