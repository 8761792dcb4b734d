// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package snapshot

import (
	"testing"

	"contentdesk/internal/model"
)

func TestKey(t *testing.T) {
	if got := Key(model.KindBlog, "abc-123"); got != "blog:abc-123" {
		t.Errorf("Key = %q, want %q", got, "blog:abc-123")
	}
	if got := Key(model.KindNews, ""); got != "news:new" {
		t.Errorf("Key for unsaved item = %q, want %q", got, "news:new")
	}
}

func TestSaveLoadDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	item := model.ContentItem{
		ID:    "abc-123",
		Kind:  model.KindBlog,
		Title: "Draft in progress",
		Body:  "partial text",
		Tags:  []string{"wip"},
	}
	key := Key(item.Kind, item.ID)

	if err := store.Save(key, item); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap, err := store.Load(key)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Key != key {
		t.Errorf("Key = %q, want %q", snap.Key, key)
	}
	if snap.Item.Title != "Draft in progress" {
		t.Errorf("Title = %q, want %q", snap.Item.Title, "Draft in progress")
	}
	if snap.SavedAt.IsZero() {
		t.Error("SavedAt should be set")
	}

	if err := store.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(key); err != ErrNotFound {
		t.Errorf("Load after delete = %v, want ErrNotFound", err)
	}

	// Deleting a missing snapshot is fine
	if err := store.Delete(key); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestSaveReplacesPrevious(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	key := Key(model.KindBlog, "item-1")
	if err := store.Save(key, model.ContentItem{Title: "first"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(key, model.ContentItem{Title: "second"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap, err := store.Load(key)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Item.Title != "second" {
		t.Errorf("Title = %q, want the latest value", snap.Item.Title)
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("len(keys) = %d, want 1", len(keys))
	}
}

func TestLoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if _, err := store.Load("blog:nothing"); err != ErrNotFound {
		t.Errorf("Load = %v, want ErrNotFound", err)
	}
}
