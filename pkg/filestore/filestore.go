// Package filestore 基于 JSON 文件的简易持久化，写入采用临时文件加重命名
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Collection 一个 JSON 数组文件，整体读写
type Collection[T any] struct {
	path string
	mu   sync.RWMutex
}

// NewCollection 创建集合，文件为 dir/name.json
func NewCollection[T any](dir, name string) *Collection[T] {
	return &Collection[T]{path: filepath.Join(dir, name+".json")}
}

// Path 文件路径
func (c *Collection[T]) Path() string {
	return c.path
}

// View 只读访问全部记录
func (c *Collection[T]) View(fn func(items []T) error) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items, err := c.load()
	if err != nil {
		return err
	}
	return fn(items)
}

// Update 读取、修改并写回，fn 返回错误时不写入
func (c *Collection[T]) Update(fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	return writeJSON(c.path, items)
}

func (c *Collection[T]) load() ([]T, error) {
	var items []T
	ok, err := readJSON(c.path, &items)
	if err != nil || !ok {
		return []T{}, err
	}
	return items, nil
}

// Document 单个 JSON 对象文件
type Document[T any] struct {
	path string
	mu   sync.RWMutex
}

// NewDocument 创建文档，文件为 dir/name.json
func NewDocument[T any](dir, name string) *Document[T] {
	return &Document[T]{path: filepath.Join(dir, name+".json")}
}

// Load 读取文档，文件不存在时 ok 为 false
func (d *Document[T]) Load() (value T, ok bool, err error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ok, err = readJSON(d.path, &value)
	return value, ok, err
}

// Save 覆盖写入
func (d *Document[T]) Save(value T) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return writeJSON(d.path, value)
}

func readJSON(path string, v interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
