package models

import "time"

// Analytics is the derived engagement aggregate embedded on posts and reels.
// TotalLikes/TotalComments/TotalSaves/TotalReposts mirror the cardinality of
// their interaction sets after every mutating operation; EngagementRate is
// recomputed from the freshly updated counters, never a stale snapshot.
type Analytics struct {
	TotalViews       int       `gorm:"default:0" json:"total_views"`
	TotalLikes       int       `gorm:"default:0" json:"total_likes"`
	TotalComments    int       `gorm:"default:0" json:"total_comments"`
	TotalSaves       int       `gorm:"default:0" json:"total_saves"`
	TotalReposts     int       `gorm:"default:0" json:"total_reposts"`
	TotalShares      int       `gorm:"default:0" json:"total_shares"`
	AverageWatchTime float64   `gorm:"default:0" json:"average_watch_time"`
	EngagementRate   float64   `gorm:"default:0" json:"engagement_rate"`
	LastUpdated      time.Time `json:"last_updated"`
}
