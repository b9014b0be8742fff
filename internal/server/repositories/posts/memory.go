package posts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// Snapshot is the serializable state of a MemoryRepository.
type Snapshot struct {
	NextID int64         `json:"nextId"`
	Posts  []models.Post `json:"posts"`
}

// MemoryRepository keeps posts in process memory. All access is serialized
// by mu; callers only ever see copies of the stored records.
type MemoryRepository struct {
	mu     sync.RWMutex
	posts  []models.Post
	nextID int64
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, now: time.Now}
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Post, 0, len(r.posts))
	for i := range r.posts {
		p := r.posts[i]
		out = append(out, &p)
	}
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id int64) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	p := r.posts[i]
	return &p, nil
}

func (r *MemoryRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := *post
	p.ID = r.nextID
	p.CreatedAt = r.now().UTC()
	r.nextID++

	r.posts = append(r.posts, p)
	return &p, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id int64, patch models.PostPatch) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	patch.Apply(&r.posts[i])
	p := r.posts[i]
	return &p, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return common.ErrorNotFound
	}
	r.posts = append(r.posts[:i], r.posts[i+1:]...)
	return nil
}

// Len reports how many posts are stored.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.posts)
}

// Snapshot copies the current state, including the id counter so a restored
// store keeps ids unique across restarts.
func (r *MemoryRepository) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]models.Post, len(r.posts))
	copy(posts, r.posts)
	return Snapshot{NextID: r.nextID, Posts: posts}
}

// Restore replaces the current state with s. Posts are re-sorted by id and
// the counter is raised past the highest restored id if needed.
// When an id appears more than once the later entry wins.
func (r *MemoryRepository) Restore(s Snapshot) {
	posts := make([]models.Post, len(s.Posts))
	copy(posts, s.Posts)
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })

	uniq := posts[:0]
	for _, p := range posts {
		if n := len(uniq); n > 0 && uniq[n-1].ID == p.ID {
			uniq[n-1] = p
			continue
		}
		uniq = append(uniq, p)
	}
	posts = uniq

	next := s.NextID
	if n := len(posts); n > 0 && posts[n-1].ID >= next {
		next = posts[n-1].ID + 1
	}
	if next < 1 {
		next = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = posts
	r.nextID = next
}

// indexOf expects mu to be held. Posts are kept in ascending id order.
func (r *MemoryRepository) indexOf(id int64) int {
	i := sort.Search(len(r.posts), func(i int) bool { return r.posts[i].ID >= id })
	if i < len(r.posts) && r.posts[i].ID == id {
		return i
	}
	return -1
}
