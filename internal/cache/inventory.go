package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix        = "user:%d"
	ProductKeyPrefix     = "product:%d"
	ProductsListKey      = "products:recent"
	PostKeyPrefix        = "post:%d"
	ReelKeyPrefix        = "reel:%d"
	FeedListKey          = "feed:recent"
	ReelsListKey         = "reels:recent"
	ViewDedupeKeyPrefix  = "viewed:%s:%d:user:%d"
)

const (
	UserTTL       = 5 * time.Minute
	ProductTTL    = 10 * time.Minute
	ListTTL       = 1 * time.Minute
	ContentTTL    = 15 * time.Minute
	ViewDedupeTTL = 30 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ProductKey(productID uint) string {
	return fmt.Sprintf(ProductKeyPrefix, productID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func ReelKey(reelID uint) string {
	return fmt.Sprintf(ReelKeyPrefix, reelID)
}

// ViewDedupeKey marks that a user's view of a content item was already
// counted inside the dedupe window.
func ViewDedupeKey(contentType string, contentID, userID uint) string {
	return fmt.Sprintf(ViewDedupeKeyPrefix, contentType, contentID, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateProduct(ctx context.Context, productID uint) {
	Invalidate(ctx, ProductKey(productID))
	Invalidate(ctx, ProductsListKey)
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, FeedListKey)
}

func InvalidateReel(ctx context.Context, reelID uint) {
	Invalidate(ctx, ReelKey(reelID))
	Invalidate(ctx, ReelsListKey)
}

// UnmarkViewed releases the dedupe key so a view whose persistence failed
// can be counted on a later attempt.
func UnmarkViewed(ctx context.Context, contentType string, contentID, userID uint) {
	Invalidate(ctx, ViewDedupeKey(contentType, contentID, userID))
}

// MarkViewed sets the view-dedupe key if absent. Returns true when this is
// the first view inside the window (i.e. the view should be counted). With
// no Redis available every view counts.
func MarkViewed(ctx context.Context, contentType string, contentID, userID uint) bool {
	if client == nil {
		return true
	}
	ok, err := client.SetNX(ctx, ViewDedupeKey(contentType, contentID, userID), 1, ViewDedupeTTL).Result()
	if err != nil {
		return true
	}
	return ok
}
