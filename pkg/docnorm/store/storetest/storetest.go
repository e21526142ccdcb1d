// Package storetest holds behaviour checks shared by store.Store
// implementations.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/docnorm/pkg/docnorm/document"
	"github.com/cognicore/docnorm/pkg/docnorm/sentence"
	"github.com/cognicore/docnorm/pkg/docnorm/store"
)

// NewDocument builds a two-sentence document: the first with offsets and
// metadata, the second without offsets.
func NewDocument(t *testing.T, inputFile, language string) *document.Document {
	t.Helper()

	withOffsets, err := sentence.Align(
		[]string{"Hello", "world", "."},
		[]string{"hello", "world", "."},
		[]string{"INTJ", "NOUN", "PUNCT"},
		[]int{0, 6, 11}, []int{5, 11, 12})
	require.NoError(t, err)
	withOffsets.Meta = map[string]string{"id": "1"}

	plain, err := sentence.AlignTokens(
		[]string{"saya", "makan"},
		[]string{"saya", "makan"},
		[]string{"PRP", "VB"})
	require.NoError(t, err)

	doc, err := document.FromSentences([]sentence.Record{withOffsets, plain}, document.Provenance{
		InputFile: inputFile,
		Language:  language,
	})
	require.NoError(t, err)
	return doc
}

// Run exercises st against the store.Store contract. st must be empty.
func Run(t *testing.T, st store.Store) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		doc := NewDocument(t, "a.xml", "en")
		require.NoError(t, st.PutDocument(ctx, doc))

		got, err := st.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, doc.ID, got.ID)
		assert.Equal(t, doc.InputFile, got.InputFile)
		assert.Equal(t, doc.Language, got.Language)
		assert.True(t, doc.CreatedAt.Equal(got.CreatedAt))
		assert.Equal(t, doc.Sentences, got.Sentences)
		assert.False(t, got.Sentences[1].Offsets.Present)
		assert.NoError(t, got.Validate())
	})

	t.Run("replace", func(t *testing.T) {
		doc := NewDocument(t, "b.xml", "en")
		require.NoError(t, st.PutDocument(ctx, doc))

		doc.Sentences = doc.Sentences[:1]
		require.NoError(t, st.PutDocument(ctx, doc))

		got, err := st.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Len(t, got.Sentences, 1)
	})

	t.Run("empty document", func(t *testing.T) {
		doc, err := document.FromSentences(nil, document.Provenance{Language: "id"})
		require.NoError(t, err)
		require.NoError(t, st.PutDocument(ctx, doc))

		got, err := st.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		assert.Zero(t, got.Len())
		assert.Empty(t, got.InputFile)
	})

	t.Run("rejects invalid", func(t *testing.T) {
		assert.Error(t, st.PutDocument(ctx, &document.Document{ID: "x"}))
		assert.Error(t, st.PutDocument(ctx, nil))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := st.GetDocument(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, st.DeleteDocument(ctx, "missing"), store.ErrNotFound)
	})

	t.Run("list and delete", func(t *testing.T) {
		all, err := st.ListDocuments(ctx, store.ListOptions{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i := 1; i < len(all); i++ {
			assert.Less(t, all[i-1].ID, all[i].ID)
		}
		assert.Equal(t, "a.xml", all[0].InputFile)
		assert.Equal(t, 2, all[0].Sentences)
		assert.Equal(t, 5, all[0].Tokens)

		byLang, err := st.ListDocuments(ctx, store.ListOptions{Language: "id"})
		require.NoError(t, err)
		assert.Len(t, byLang, 1)

		byFile, err := st.ListDocuments(ctx, store.ListOptions{InputFile: "b.xml"})
		require.NoError(t, err)
		require.Len(t, byFile, 1)
		assert.Equal(t, 3, byFile[0].Tokens)

		limited, err := st.ListDocuments(ctx, store.ListOptions{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, limited, 2)

		require.NoError(t, st.DeleteDocument(ctx, all[0].ID))
		_, err = st.GetDocument(ctx, all[0].ID)
		assert.ErrorIs(t, err, store.ErrNotFound)

		rest, err := st.ListDocuments(ctx, store.ListOptions{})
		require.NoError(t, err)
		assert.Len(t, rest, 2)
	})
}
