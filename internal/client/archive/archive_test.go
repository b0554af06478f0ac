package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/chatvault/internal/client/conversations"
	"github.com/dmitrijs2005/chatvault/internal/client/events"
	"github.com/dmitrijs2005/chatvault/internal/client/models"
	"github.com/dmitrijs2005/chatvault/internal/client/storage"
	"github.com/dmitrijs2005/chatvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	kv     *storage.MemoryStore
	bus    *events.Bus
	conv   *conversations.Store
	engine *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := storage.NewMemoryStore()
	bus := events.NewBus()
	conv := conversations.NewStore(kv, bus, nil)
	engine := NewEngine(kv, conv, bus, nil)

	n := 0
	engine.newID = func() string {
		n++
		return fmt.Sprintf("renamed-%d", n)
	}
	return &fixture{kv: kv, bus: bus, conv: conv, engine: engine}
}

func (f *fixture) seed(t *testing.T, title string, contents ...string) *models.Conversation {
	t.Helper()
	ctx := context.Background()

	conv, err := f.conv.Create(ctx, "")
	require.NoError(t, err)

	var msgs []models.Message
	for i, c := range contents {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		msgs = append(msgs, models.Message{ID: fmt.Sprintf("%s-m%d", conv.ID, i), Role: role, Content: c})
	}
	saved, err := f.conv.Save(ctx, *conv, msgs)
	require.NoError(t, err)
	if title != "" {
		saved, err = f.conv.Rename(ctx, saved.ID, title)
		require.NoError(t, err)
	}
	return saved
}

func TestExport_Snapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.seed(t, "alpha", "q1", "a1")
	b := f.seed(t, "beta", "q2")

	snap := f.engine.Export(ctx)

	assert.Equal(t, Version, snap.Version)
	assert.False(t, snap.ExportDate.IsZero())
	assert.Len(t, snap.Conversations, 2)
	assert.Len(t, snap.Messages[a.ID], 2)
	assert.Len(t, snap.Messages[b.ID], 1)
	assert.Equal(t, 2, snap.Metadata.TotalConversations)
	assert.Equal(t, 3, snap.Metadata.TotalMessages)
}

func TestParse_RejectsMissingKeys(t *testing.T) {
	_, err := Parse([]byte(`{"conversations": []}`))
	assert.ErrorIs(t, err, common.ErrorInvalidArchive)

	_, err = Parse([]byte(`{"messages": {}}`))
	assert.ErrorIs(t, err, common.ErrorInvalidArchive)

	_, err = Parse([]byte(`not json at all`))
	assert.ErrorIs(t, err, common.ErrorInvalidArchive)
}

func TestParse_AcceptsLegacySubset(t *testing.T) {
	snap, err := Parse([]byte(`{"conversations": [], "messages": {}}`))
	require.NoError(t, err)
	assert.Empty(t, snap.Version)
	assert.Empty(t, snap.Conversations)
}

func TestParse_FailureWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := Parse([]byte(`{"oops": true}`))
	require.Error(t, err)
	assert.Empty(t, f.conv.List(ctx))
}

func TestConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.seed(t, "alpha", "q")
	snap := f.engine.Export(ctx)

	assert.Equal(t, []string{a.ID}, f.engine.Conflicts(ctx, snap))

	require.NoError(t, f.conv.DeleteAll(ctx))
	assert.Empty(t, f.engine.Conflicts(ctx, snap))
}

func TestImport_SkipIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seed(t, "alpha", "q1", "a1")
	f.seed(t, "beta", "q2")

	snap := f.engine.Export(ctx)

	res, err := f.engine.Import(ctx, snap, StrategySkip)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 2}, res)
	assert.Len(t, f.conv.List(ctx), 2)

	// A second identical import changes nothing either.
	res, err = f.engine.Import(ctx, snap, StrategySkip)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 2}, res)
	assert.Len(t, f.conv.List(ctx), 2)
}

func TestImport_RenameNeverLosesData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.seed(t, "alpha", "q1", "a1")
	snap := f.engine.Export(ctx)

	res, err := f.engine.Import(ctx, snap, StrategyRename)
	require.NoError(t, err)
	assert.Equal(t, Result{Renamed: 1}, res)

	list := f.conv.List(ctx)
	require.Len(t, list, 2, "original + renamed import must both survive")

	// The renamed copy received a fresh id and its own message blob.
	var importedID string
	for _, c := range list {
		if c.ID != a.ID {
			importedID = c.ID
		}
	}
	require.NotEmpty(t, importedID)
	assert.Len(t, f.conv.Messages(ctx, importedID), 2)
	assert.Len(t, f.conv.Messages(ctx, a.ID), 2)
}

func TestImport_ReplaceOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.seed(t, "alpha", "q1", "a1")
	snap := f.engine.Export(ctx)

	// Mutate the live store after the export.
	_, err := f.conv.Rename(ctx, a.ID, "changed afterwards")
	require.NoError(t, err)
	_, err = f.conv.Save(ctx, *a, []models.Message{{ID: "extra", Role: models.RoleUser, Content: "extra"}})
	require.NoError(t, err)

	res, err := f.engine.Import(ctx, snap, StrategyReplace)
	require.NoError(t, err)
	assert.Equal(t, Result{Replaced: 1}, res)

	got, err := f.conv.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Title)
	assert.Len(t, f.conv.Messages(ctx, a.ID), 2)
}

func TestImport_EmitsSingleEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seed(t, "alpha", "q1")
	f.seed(t, "beta", "q2")
	snap := f.engine.Export(ctx)
	require.NoError(t, f.conv.DeleteAll(ctx))

	var updates int
	f.bus.Subscribe(events.ConversationUpdated, func(events.Event) { updates++ })

	_, err := f.engine.Import(ctx, snap, StrategySkip)
	require.NoError(t, err)
	assert.Equal(t, 1, updates)
}

func TestExportDeleteAllImport_RestoresEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.seed(t, "alpha", "q1", "a1", "q2")
	b := f.seed(t, "beta", "hello")

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, f.engine.ExportToFile(ctx, path))

	require.NoError(t, f.conv.DeleteAll(ctx))
	require.Empty(t, f.conv.List(ctx))

	res, err := f.engine.ImportFromFile(ctx, path, StrategySkip)
	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 2}, res)

	list := f.conv.List(ctx)
	require.Len(t, list, 2)
	assert.Len(t, f.conv.Messages(ctx, a.ID), 3)
	assert.Len(t, f.conv.Messages(ctx, b.ID), 1)
}

func TestExportToFile_ProducesParsableJSON(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seed(t, "alpha", "q1")

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, f.engine.ExportToFile(ctx, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"version", "exportDate", "conversations", "messages", "metadata"} {
		assert.Contains(t, raw, key)
	}

	snap, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Version, snap.Version)
}
