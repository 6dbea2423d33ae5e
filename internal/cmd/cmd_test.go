package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvakame/foodexpress/internal/config"
	"github.com/vvakame/foodexpress/internal/fixtures"
	"github.com/vvakame/foodexpress/internal/log"
	"github.com/vvakame/foodexpress/internal/model"
	"github.com/vvakame/foodexpress/internal/snapshot"
	"github.com/vvakame/foodexpress/internal/store/storetest"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd := NewRootCommand()
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestFixturesGenerate(t *testing.T) {
	out := execute(t, "fixtures", "generate", "--restaurants", "3", "--items", "2", "--users", "1", "--seed", "7")

	doc, err := fixtures.Parse([]byte(out))
	require.NoError(t, err)
	assert.Len(t, doc.Restaurants, 3)
	for _, restaurant := range doc.Restaurants {
		assert.Len(t, restaurant.Menu, 2)
	}

	_, err = doc.Snapshot()
	assert.NoError(t, err)
}

func TestSnapshotExport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db.json")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(heredoc.Docf(`
		snapshot:
		  backend: file
		  file:
		    path: %s
	`, dbPath)), 0o644))

	out := execute(t, "snapshot", "export", "--config", cfgPath)
	snap, err := snapshot.Decode([]byte(out))
	require.NoError(t, err)
	seed, err := fixtures.Default()
	require.NoError(t, err)
	assert.Len(t, snap.Restaurants, len(seed.Restaurants))

	saved := storetest.Snapshot()
	saved.Orders = append(saved.Orders, &model.Order{ID: "order_1", UserID: "user1", Status: model.OrderStatusPending})
	require.NoError(t, snapshot.NewFile(dbPath).Save(context.Background(), saved))

	out = execute(t, "snapshot", "export", "--config", cfgPath)
	snap, err = snapshot.Decode([]byte(out))
	require.NoError(t, err)
	assert.Len(t, snap.Restaurants, 3)
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, "order_1", snap.Orders[0].ID)
}

func TestLoadState(t *testing.T) {
	ctx := log.WithLogger(context.Background(), testr.New(t))

	snap, err := loadState(ctx, snapshot.None{}, config.Fixtures{})
	require.NoError(t, err)
	seed, err := fixtures.Default()
	require.NoError(t, err)
	assert.Len(t, snap.Restaurants, len(seed.Restaurants))

	_, err = loadState(ctx, snapshot.None{}, config.Fixtures{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestNewPublisher(t *testing.T) {
	publisher, err := newPublisher(config.Events{})
	require.NoError(t, err)
	assert.NoError(t, publisher.Close())
}
