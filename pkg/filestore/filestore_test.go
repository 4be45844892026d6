package filestore

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestCollectionMissingFile(t *testing.T) {
	c := NewCollection[item](t.TempDir(), "items")

	err := c.View(func(items []item) error {
		assert.Empty(t, items)
		return nil
	})
	require.NoError(t, err)
}

func TestCollectionUpdate(t *testing.T) {
	dir := t.TempDir()
	c := NewCollection[item](dir, "items")

	require.NoError(t, c.Update(func(items []item) ([]item, error) {
		return append(items, item{ID: 1, Name: "a"}), nil
	}))

	// 新实例读取同一文件
	again := NewCollection[item](dir, "items")
	require.NoError(t, again.View(func(items []item) error {
		assert.Equal(t, []item{{ID: 1, Name: "a"}}, items)
		return nil
	}))

	boom := errors.New("boom")
	err := c.Update(func(items []item) ([]item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	// 只留下目标文件，无临时文件残留
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(dir, "items.json"), c.Path())
}

func TestCollectionConcurrentUpdate(t *testing.T) {
	c := NewCollection[item](t.TempDir(), "items")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = c.Update(func(items []item) ([]item, error) {
				return append(items, item{ID: id}), nil
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, c.View(func(items []item) error {
		assert.Len(t, items, 20)
		return nil
	}))
}

func TestCollectionCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.json"), []byte("{"), 0o644))

	c := NewCollection[item](dir, "items")
	assert.Error(t, c.View(func([]item) error { return nil }))
}

func TestDocument(t *testing.T) {
	d := NewDocument[item](t.TempDir(), "settings")

	_, ok, err := d.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.Save(item{ID: 7, Name: "x"}))
	v, ok, err := d.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, item{ID: 7, Name: "x"}, v)
}
