package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/quillcast/reel/internal/events"
	"github.com/quillcast/reel/internal/model"
	"github.com/quillcast/reel/internal/store"
)

// maxSnapshotBytes caps snapshot payloads. Full-collection replaces are
// metadata, not media content; anything near this size is a client bug.
const maxSnapshotBytes = 8 << 20

// replaceCollectionInput is the PUT body: a full snapshot plus the revision
// it was derived from.
type replaceCollectionInput struct {
	Items    json.RawMessage `json:"items"`
	Revision int64           `json:"revision"`
}

// handleGetCollection handles GET /v1/collections/{kind}.
func (s *StudioServer) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	kind := model.Kind(r.PathValue("kind"))
	if !kind.IsValid() {
		writeError(w, http.StatusNotFound, "unknown collection kind")
		return
	}

	rec, err := s.store.GetCollection(r.Context(), kind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load collection")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// handleReplaceCollection handles PUT /v1/collections/{kind}: a revision-
// checked full-snapshot replace.
func (s *StudioServer) handleReplaceCollection(w http.ResponseWriter, r *http.Request) {
	kind := model.Kind(r.PathValue("kind"))
	if !kind.IsValid() {
		writeError(w, http.StatusNotFound, "unknown collection kind")
		return
	}

	var in replaceCollectionInput
	if err := json.NewDecoder(io.LimitReader(r.Body, maxSnapshotBytes)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(in.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items is required")
		return
	}

	rec, err := s.store.ReplaceCollection(r.Context(), kind, in.Items, in.Revision)
	if err != nil {
		var conflict *store.ConflictError
		if errors.As(err, &conflict) {
			s.publish(r.Context(), events.TopicCollectionConflict, events.CollectionConflict{
				Kind:         kind,
				BaseRevision: conflict.Base,
				Revision:     conflict.Current,
			})
			writeError(w, http.StatusConflict, conflict.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to replace collection")
		return
	}

	s.publish(r.Context(), events.TopicCollectionSaved, events.CollectionSaved{
		Kind:     kind,
		Revision: rec.Revision,
		Items:    countItems(in.Items),
	})

	writeJSON(w, http.StatusOK, map[string]int64{"revision": rec.Revision})
}

// handleFlushCollection handles POST /v1/collections/{kind}/flush: the
// teardown courier endpoint. The snapshot is applied without a revision
// check and the response is fire-and-forget from the client's side.
func (s *StudioServer) handleFlushCollection(w http.ResponseWriter, r *http.Request) {
	kind := model.Kind(r.PathValue("kind"))
	if !kind.IsValid() {
		writeError(w, http.StatusNotFound, "unknown collection kind")
		return
	}

	var in replaceCollectionInput
	if err := json.NewDecoder(io.LimitReader(r.Body, maxSnapshotBytes)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(in.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items is required")
		return
	}

	rec, err := s.store.ForceReplaceCollection(r.Context(), kind, in.Items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to apply flush")
		return
	}

	s.publish(r.Context(), events.TopicCollectionFlushed, events.CollectionFlushed{
		Kind:     kind,
		Revision: rec.Revision,
	})

	writeJSON(w, http.StatusAccepted, map[string]int64{"revision": rec.Revision})
}

// handleListCollections handles GET /v1/collections: revision metadata for
// every saved collection.
func (s *StudioServer) handleListCollections(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.ListCollections(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list collections")
		return
	}
	if recs == nil {
		recs = []*model.CollectionRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"collections": recs})
}

// countItems counts the elements of a JSON array without decoding the
// element payloads.
func countItems(raw json.RawMessage) int {
	var probe []json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return 0
	}
	return len(probe)
}
