package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCoverPrefersFlaggedMember(t *testing.T) {
	flagged := &ProductMedia{ID: uuid.New(), OrderIndex: 2, IsCover: true}
	media := []*ProductMedia{
		{ID: uuid.New(), OrderIndex: 0},
		{ID: uuid.New(), OrderIndex: 1},
		flagged,
	}
	require.Same(t, flagged, Cover(media))
}

func TestCoverFallsBackToLowestIndex(t *testing.T) {
	first := &ProductMedia{ID: uuid.New(), OrderIndex: 0}
	media := []*ProductMedia{
		{ID: uuid.New(), OrderIndex: 3},
		first,
		{ID: uuid.New(), OrderIndex: 5},
	}
	require.Same(t, first, Cover(media))

	// removals leave gaps; the lowest surviving index still wins
	survivor := &ProductMedia{ID: uuid.New(), OrderIndex: 2}
	require.Same(t, survivor, Cover([]*ProductMedia{{ID: uuid.New(), OrderIndex: 4}, survivor}))
}

func TestCoverEmptyList(t *testing.T) {
	require.Nil(t, Cover(nil))
	require.Nil(t, Cover([]*ProductMedia{}))
}

func TestProductStatusValid(t *testing.T) {
	for _, s := range []ProductStatus{StatusDraft, StatusActive, StatusArchived} {
		require.True(t, s.Valid())
	}
	require.False(t, ProductStatus("deleted").Valid())
	require.False(t, ProductStatus("").Valid())
}
