package store

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/xyzreader/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketArticles = []byte("articles")
	bucketMeta     = []byte("meta")
)

var (
	keyOrder       = []byte("order")
	keyLastRefresh = []byte("last_refresh")
)

// ArticleStore implements domain.ArticleStore using BoltDB.
// Articles are stored one per key (big-endian id) and the snapshot order is
// kept separately so a reload reproduces the source ordering.
type ArticleStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory snapshot

	// In-memory snapshot for hot-path reads (loaded lazily)
	articles []domain.Article
	byID     map[int64]int
	loaded   bool
	lastTS   int64
}

// NewArticleStore opens (or creates) the store for sourceURL under baseDir.
// An empty baseDir keeps everything in memory.
func NewArticleStore(baseDir, sourceURL string) (*ArticleStore, error) {
	if baseDir == "" {
		// Memory-only mode (no persistence)
		return &ArticleStore{byID: make(map[int64]int), loaded: true}, nil
	}

	dir := baseDir
	if sourceURL != "" {
		dir = filepath.Join(baseDir, hashSourceURL(sourceURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "articles.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketArticles, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ArticleStore{db: db, byID: make(map[int64]int)}, nil
}

func hashSourceURL(sourceURL string) string {
	normalized := strings.TrimRight(strings.ToLower(sourceURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *ArticleStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetArticles returns the stored snapshot. ok is false when nothing has been
// stored yet.
func (s *ArticleStore) GetArticles() ([]domain.Article, bool) {
	if err := s.ensureLoaded(); err != nil {
		return nil, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastTS == 0 && len(s.articles) == 0 {
		return nil, false
	}
	out := make([]domain.Article, len(s.articles))
	copy(out, s.articles)
	return out, true
}

// GetArticle returns a single article by id.
func (s *ArticleStore) GetArticle(id int64) (domain.Article, bool) {
	if err := s.ensureLoaded(); err != nil {
		return domain.Article{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return domain.Article{}, false
	}
	return s.articles[i], true
}

// ReplaceAll swaps the stored snapshot in a single transaction.
func (s *ArticleStore) ReplaceAll(articles []domain.Article) error {
	now := time.Now().Unix()

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			if err := tx.DeleteBucket(bucketArticles); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
			b, err := tx.CreateBucket(bucketArticles)
			if err != nil {
				return err
			}

			order := make([]int64, 0, len(articles))
			for _, a := range articles {
				data, err := json.Marshal(a)
				if err != nil {
					return err
				}
				if err := b.Put(idKey(a.ID), data); err != nil {
					return err
				}
				order = append(order, a.ID)
			}

			meta := tx.Bucket(bucketMeta)
			orderData, err := json.Marshal(order)
			if err != nil {
				return err
			}
			if err := meta.Put(keyOrder, orderData); err != nil {
				return err
			}
			return meta.Put(keyLastRefresh, idKey(now))
		})
		if err != nil {
			return fmt.Errorf("failed to store articles: %w", err)
		}
	}

	s.mu.Lock()
	s.setSnapshot(articles, now)
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// LastRefresh returns the unix time of the last ReplaceAll.
func (s *ArticleStore) LastRefresh() (int64, bool) {
	if err := s.ensureLoaded(); err != nil {
		return 0, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastTS, s.lastTS != 0
}

// === Internal ===

func (s *ArticleStore) ensureLoaded() error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	var (
		articles []domain.Article
		ts       int64
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		b := tx.Bucket(bucketArticles)
		if meta == nil || b == nil {
			return nil
		}
		if v := meta.Get(keyLastRefresh); len(v) == 8 {
			ts = int64(binary.BigEndian.Uint64(v))
		}

		byID := make(map[int64]domain.Article)
		err := b.ForEach(func(k, v []byte) error {
			var a domain.Article
			if err := json.Unmarshal(v, &a); err != nil {
				return err
			}
			byID[a.ID] = a
			return nil
		})
		if err != nil {
			return err
		}

		var order []int64
		if v := meta.Get(keyOrder); v != nil {
			if err := json.Unmarshal(v, &order); err != nil {
				return err
			}
		}
		for _, id := range order {
			if a, ok := byID[id]; ok {
				articles = append(articles, a)
				delete(byID, id)
			}
		}
		// anything missing from the order index goes last, by id
		rest := make([]domain.Article, 0, len(byID))
		for _, a := range byID {
			rest = append(rest, a)
		}
		sort.Slice(rest, func(i, j int) bool { return rest[i].ID < rest[j].ID })
		articles = append(articles, rest...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load articles: %w", err)
	}

	s.mu.Lock()
	if !s.loaded {
		s.setSnapshot(articles, ts)
		s.loaded = true
	}
	s.mu.Unlock()
	return nil
}

// setSnapshot must be called with mu held.
func (s *ArticleStore) setSnapshot(articles []domain.Article, ts int64) {
	s.articles = make([]domain.Article, len(articles))
	copy(s.articles, articles)
	s.byID = make(map[int64]int, len(articles))
	for i, a := range s.articles {
		s.byID[a.ID] = i
	}
	s.lastTS = ts
}

func idKey(id int64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}
