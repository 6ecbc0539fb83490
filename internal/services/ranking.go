package services

import (
	"log"
	"sync"
	"time"

	"scitalk/internal/db"
	"scitalk/internal/models"
	"scitalk/internal/utils"

	"gorm.io/gorm"
)

// RankingService recomputes the time-decay rank score of posts in the
// background. The score is advisory ordering for the "hot" listing only;
// points and karma stay transactional and are never touched here.
type RankingService struct {
	queue   chan scoreUpdate
	pending map[uint]bool
	mu      sync.Mutex
}

// scoreUpdate carries the connection handle it was scheduled against, so
// the worker goroutine never reads the package global itself.
type scoreUpdate struct {
	conn   *gorm.DB
	postID uint
}

var (
	rankingService *RankingService
	rankingOnce    sync.Once
)

// GetRankingService returns the singleton ranking worker, starting it on
// first use.
func GetRankingService() *RankingService {
	rankingOnce.Do(func() {
		rankingService = &RankingService{
			queue:   make(chan scoreUpdate, 1000),
			pending: map[uint]bool{},
		}
		go rankingService.worker()
	})
	return rankingService
}

// ScheduleUpdate queues a post for a score refresh. Duplicate requests for a
// post already queued are dropped. The current connection is snapshot on the
// caller's goroutine.
func (s *RankingService) ScheduleUpdate(postID uint) {
	s.mu.Lock()
	if s.pending[postID] {
		s.mu.Unlock()
		return
	}
	s.pending[postID] = true
	s.mu.Unlock()

	select {
	case s.queue <- scoreUpdate{conn: db.DB, postID: postID}:
	default:
		// Queue full; drop the request, the nightly sweep catches up
		s.mu.Lock()
		delete(s.pending, postID)
		s.mu.Unlock()
		log.Printf("ranking queue full, skipping post %d", postID)
	}
}

func (s *RankingService) worker() {
	batch := make([]scoreUpdate, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case update := <-s.queue:
			batch = append(batch, update)
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *RankingService) processBatch(updates []scoreUpdate) {
	for _, update := range updates {
		s.updatePostScore(update.conn, update.postID)

		s.mu.Lock()
		delete(s.pending, update.postID)
		s.mu.Unlock()
	}
}

func (s *RankingService) updatePostScore(conn *gorm.DB, postID uint) {
	var post models.Post
	if err := conn.First(&post, postID).Error; err != nil {
		log.Printf("rank update skipped, post %d not found", postID)
		return
	}

	score := utils.CalculateHotScore(post.CreatedAt, post.Points)
	if err := conn.Model(&post).UpdateColumn("rank_score", score).Error; err != nil {
		log.Printf("rank update for post %d failed: %v", postID, err)
	}
}

// UpdatePostScoreSync recomputes one post's score immediately, for callers
// that need the new ordering before returning.
func UpdatePostScoreSync(postID uint) {
	GetRankingService().updatePostScore(db.DB, postID)
}

// StartScheduledScoreUpdate refreshes recent and top-ranked posts every
// night, so scores decay even for posts with no new activity.
func (s *RankingService) StartScheduledScoreUpdate() {
	conn := db.DB
	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, now.Location())
			if now.After(next) {
				next = next.Add(24 * time.Hour)
			}
			time.Sleep(time.Until(next))

			s.refreshDecayedScores(conn)
		}
	}()
}

func (s *RankingService) refreshDecayedScores(conn *gorm.DB) {
	processed := make(map[uint]bool)
	count := 0

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	var recent []models.Post
	conn.Where("created_at >= ?", sevenDaysAgo).Select("id").Find(&recent)
	for _, p := range recent {
		s.updatePostScore(conn, p.ID)
		processed[p.ID] = true
		count++
	}

	var top []models.Post
	conn.Order("rank_score DESC").Limit(30).Select("id").Find(&top)
	for _, p := range top {
		if !processed[p.ID] {
			s.updatePostScore(conn, p.ID)
			count++
		}
	}

	log.Printf("refreshed rank scores for %d posts", count)
}
