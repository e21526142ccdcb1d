package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/docnorm/pkg/docnorm/store/storetest"
)

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	defer st.Close()

	storetest.Run(t, st)
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "docs.db")

	st, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	doc := storetest.NewDocument(t, "a.xml", "en")
	require.NoError(t, st.PutDocument(ctx, doc))
	require.NoError(t, st.Close())

	st, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer st.Close()

	got, err := st.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Sentences, got.Sentences)
}
