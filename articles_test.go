package spacetraveling

import (
	"context"
	"errors"
	"testing"

	"github.com/eringen/spacetraveling/content"
	"github.com/eringen/spacetraveling/prismic"
)

func TestKnownIdentifiersFollowsCursors(t *testing.T) {
	// 25 posts span two fixture pages of 20.
	store := newTestStore(testPosts(25))
	ids, err := NewArticles(store).KnownIdentifiers(context.Background())
	if err != nil {
		t.Fatalf("KnownIdentifiers failed: %v", err)
	}
	if len(ids) != 25 {
		t.Fatalf("expected 25 identifiers, got %d", len(ids))
	}
	if ids[0] != "post-1" || ids[24] != "post-25" {
		t.Errorf("order = %s..%s", ids[0], ids[24])
	}
	if _, fetches, _ := store.counts(); fetches != 1 {
		t.Errorf("expected 1 cursor fetch, got %d", fetches)
	}
}

func TestKnownIdentifiersResolve(t *testing.T) {
	a := NewArticles(newTestStore(testPosts(6)))
	ctx := context.Background()
	ids, err := a.KnownIdentifiers(ctx)
	if err != nil {
		t.Fatalf("KnownIdentifiers failed: %v", err)
	}
	for _, id := range ids {
		art, err := a.ByIdentifier(ctx, id)
		if err != nil {
			t.Fatalf("ByIdentifier(%s) failed: %v", id, err)
		}
		if art.UID != id {
			t.Errorf("ByIdentifier(%s).UID = %s", id, art.UID)
		}
	}
}

func TestByIdentifier(t *testing.T) {
	art, err := NewArticles(newTestStore(testPosts(2))).ByIdentifier(context.Background(), "post-2")
	if err != nil {
		t.Fatalf("ByIdentifier failed: %v", err)
	}
	if art.Data.Title != "Post 2" || art.Data.Banner.URL != "" {
		t.Errorf("Data = %+v", art.Data)
	}
	if len(art.Data.Content) != 1 || !art.Data.Content[0].HasHeading || art.Data.Content[0].Heading != "Section 2" {
		t.Fatalf("Content = %+v", art.Data.Content)
	}
	// "Section 2" + "Lorem ipsum dolor sit amet" is 7 words.
	if got := content.WordCount(art); got != 7 {
		t.Errorf("WordCount = %d, want 7", got)
	}
	if got := content.ReadingTime(art); got != 0 {
		t.Errorf("ReadingTime = %d, want 0", got)
	}
}

func TestByIdentifierNotFound(t *testing.T) {
	_, err := NewArticles(newTestStore(testPosts(2))).ByIdentifier(context.Background(), "missing")
	if !errors.Is(err, prismic.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestByIdentifierStoreDown(t *testing.T) {
	store := newTestStore(testPosts(2))
	store.setFail(true)
	_, err := NewArticles(store).ByIdentifier(context.Background(), "post-1")
	if !errors.Is(err, prismic.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if errors.Is(err, prismic.ErrNotFound) {
		t.Error("an unavailable store must not look like a missing post")
	}
}
