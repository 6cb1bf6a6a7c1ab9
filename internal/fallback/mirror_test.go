package fallback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/mytunes/internal/models"
	tu "github.com/desertthunder/mytunes/internal/testing"
)

func TestMirror(t *testing.T) {
	ctx := context.Background()

	t.Run("upserting a song keeps its entries", func(t *testing.T) {
		s := openStore(t, tu.TempDBPath(t, "mirror.db"))
		id, ids := seed(t, s, "mix", 2)

		song := models.NewSong("renamed", "artist", 10, "/x")
		song.ID = ids[0]
		require.NoError(t, s.UpdateSong(ctx, song))

		assert.Len(t, mirrorRows(t, s, id), 2)
	})

	t.Run("renaming a playlist keeps its entries", func(t *testing.T) {
		s := openStore(t, tu.TempDBPath(t, "mirror.db"))
		id, _ := seed(t, s, "mix", 2)

		require.NoError(t, s.RenamePlaylist(ctx, &models.Playlist{ID: id, Name: "renamed"}))
		assert.Len(t, mirrorRows(t, s, id), 2)
	})

	t.Run("load on an empty mirror", func(t *testing.T) {
		m, err := OpenMirror(tu.TempDBPath(t, "empty.db"), nil)
		require.NoError(t, err)
		defer m.Close()

		snap, err := m.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Songs)
		assert.Empty(t, snap.Playlists)
		assert.Empty(t, snap.Lists)
	})

	t.Run("rewrite from a position", func(t *testing.T) {
		s := openStore(t, tu.TempDBPath(t, "mirror.db"))
		id, ids := seed(t, s, "mix", 4)

		s.mirror.RewriteFrom(ctx, id, 2, ids[:3])
		rows := mirrorRows(t, s, id)
		require.Len(t, rows, 3)
		assert.Equal(t, ids[2], rows[2].SongID)
	})
}
