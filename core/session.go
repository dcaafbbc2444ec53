package core

import (
	"fmt"
	"sort"
	"time"
)

// LikeEvent 是一次"感兴趣"反馈：商品下标 + 事件发生的 Unix 秒。
// 同一商品可以重复 Like，衰减后的权重会叠加。
type LikeEvent struct {
	Index     int
	Timestamp int64
}

// Session 是单个用户会话的反馈事件日志：带时间戳的 Like 序列 + Dislike 集合。
// 核心链路不读任何全局状态，Session 作为显式参数随 RecommendContext 传入。
// 仅存活于进程内存；跨会话持久化属于外部协作方的职责。
//
// 并发模型：单用户单线程，每次交互同步重算一遍（Affinity → Score → Rank），
// 因此 Session 不做内部加锁。若扩展为多会话，每个会话必须独占一个 Session。
type Session struct {
	catalogSize int
	likes       []LikeEvent
	dislikes    map[int]bool
}

// NewSession 创建一个空会话。catalogSize 用于反馈下标的越界校验。
func NewSession(catalogSize int) *Session {
	return &Session{
		catalogSize: catalogSize,
		likes:       make([]LikeEvent, 0),
		dislikes:    make(map[int]bool),
	}
}

// Like 追加一条感兴趣反馈。下标越界返回 INVALID_INPUT，日志保持不变。
func (s *Session) Like(index int, ts time.Time) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.likes = append(s.likes, LikeEvent{Index: index, Timestamp: ts.Unix()})
	return nil
}

// Dislike 将商品标记为不感兴趣。重复标记是幂等的。
func (s *Session) Dislike(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.dislikes[index] = true
	return nil
}

// Reset 清空全部反馈（Like 与 Dislike）。
func (s *Session) Reset() {
	s.likes = s.likes[:0]
	s.dislikes = make(map[int]bool)
}

// Likes 返回按发生顺序排列的 Like 事件副本。
func (s *Session) Likes() []LikeEvent {
	out := make([]LikeEvent, len(s.likes))
	copy(out, s.likes)
	return out
}

// LikedIndices 返回去重后的被 Like 商品下标，按首次 Like 的顺序。
func (s *Session) LikedIndices() []int {
	seen := make(map[int]bool, len(s.likes))
	out := make([]int, 0, len(s.likes))
	for _, ev := range s.likes {
		if seen[ev.Index] {
			continue
		}
		seen[ev.Index] = true
		out = append(out, ev.Index)
	}
	return out
}

// Dislikes 返回升序排列的 Dislike 商品下标。
func (s *Session) Dislikes() []int {
	out := make([]int, 0, len(s.dislikes))
	for i := range s.dislikes {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// LikeCount 返回 Like 事件总数（含重复 Like）。
func (s *Session) LikeCount() int { return len(s.likes) }

// DislikeCount 返回被 Dislike 的商品数。
func (s *Session) DislikeCount() int { return len(s.dislikes) }

// IsLiked 判断商品是否被 Like 过。
func (s *Session) IsLiked(index int) bool {
	for _, ev := range s.likes {
		if ev.Index == index {
			return true
		}
	}
	return false
}

// IsDisliked 判断商品是否被 Dislike。
func (s *Session) IsDisliked(index int) bool {
	return s.dislikes[index]
}

func (s *Session) checkIndex(index int) error {
	if index < 0 || index >= s.catalogSize {
		return NewDomainError(ModuleSession, ErrorCodeInvalidInput,
			fmt.Sprintf("session: item index %d out of range [0, %d)", index, s.catalogSize))
	}
	return nil
}
